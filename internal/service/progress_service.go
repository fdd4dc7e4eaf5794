package service

import (
	"context"
	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"
	"course_progress_backend/pkg/lock"
	"course_progress_backend/pkg/logger"
	"course_progress_backend/pkg/monitoring"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ProgressService 学生端课时完成与测验
type ProgressService struct {
	Courses     CourseProvider
	Enrollments EnrollmentRegistry
	Progress    ProgressStore

	writer progressWriter
	now    func() time.Time
}

func NewProgressService(courses CourseProvider, enrollments EnrollmentRegistry, progress ProgressStore, locker lock.Locker) *ProgressService {
	return &ProgressService{
		Courses:     courses,
		Enrollments: enrollments,
		Progress:    progress,
		writer:      progressWriter{store: progress, locker: locker},
		now:         time.Now,
	}
}

type QuizAttemptResult struct {
	Passed       bool    `json:"passed"`
	ScorePercent int     `json:"scorePercent"`
	CorrectCount int     `json:"correctCount"`
	Total        int     `json:"total"`
	Attempts     int     `json:"attempts"`
	PassPercent  float64 `json:"passPercent"`
}

type ModuleSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

type ModuleQuizStatus struct {
	Attempts  int  `json:"attempts"`
	LastScore *int `json:"lastScore"`
	Passed    bool `json:"passed"`
}

type ModuleLessonStatus struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

type ModuleStatus struct {
	Module  ModuleSummary      `json:"module"`
	Quiz    ModuleQuizStatus   `json:"quiz"`
	Lessons ModuleLessonStatus `json:"lessons"`
}

type CourseProgress struct {
	CourseID           uint     `json:"courseId"`
	Percent            int      `json:"percent"`
	CompletedLessonIDs []string `json:"completedLessonIds"`
	CompletedCount     int      `json:"completedCount"`
	TotalLessons       int      `json:"totalLessons"`
}

// SetLessonCompletion 标记课时完成或取消完成
func (s *ProgressService) SetLessonCompletion(ctx context.Context, userID, courseID uint, lessonID string, completed bool) (*CompletionResult, error) {
	// 1. 获取课程并校验选课
	course, err := s.Courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrollment(ctx, s.Enrollments, userID, courseID); err != nil {
		return nil, err
	}
	if _, ok := course.FindLesson(lessonID); !ok {
		return nil, util.NewInputError("lessonId", "lesson %s not found in course %d", lessonID, courseID)
	}

	// 2. 加锁后在事务内检查门槛并更新进度
	var result *CompletionResult
	_, err = s.writer.mutate(ctx, userID, courseID, func(p *model.Progress) error {
		r, err := EvaluateLessonCompletion(course, p, lessonID, completed)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		// 3. 门槛拒绝单独计数
		var appErr *util.AppError
		if errors.Is(err, util.ErrGateViolation) && errors.As(err, &appErr) {
			monitoring.RecordGateRejection(appErr.Field)
			logger.Log.Debug("lesson completion refused",
				zap.Uint("userId", userID),
				zap.Uint("courseId", courseID),
				zap.String("lessonId", lessonID),
				zap.String("gate", appErr.Field),
			)
		}
		return nil, err
	}

	logger.Log.Info("lesson completion updated",
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID),
		zap.String("lessonId", lessonID),
		zap.Bool("completed", completed),
		zap.Int("percent", result.Percent),
	)
	return result, nil
}

// AttemptQuiz 提交一次模块测验并记录结果。
// 保存的测验状态总是最近一次的结果，成绩变差时会撤销之前的通过。
func (s *ProgressService) AttemptQuiz(ctx context.Context, userID, courseID uint, moduleID string, answers any) (*QuizAttemptResult, error) {
	// 1. 获取课程、校验选课并定位模块
	course, err := s.Courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrollment(ctx, s.Enrollments, userID, courseID); err != nil {
		return nil, err
	}
	idx, ok := course.FindModule(moduleID)
	if !ok {
		return nil, util.NewNotFoundError("moduleId", "module %s not found in course %d", moduleID, courseID)
	}
	module := &course.Modules[idx]

	// 2. 评分，不涉及存储
	grade, err := GradeAttempt(module, answers)
	if err != nil {
		return nil, err
	}

	// 3. 覆盖写入测验记录，尝试次数累加
	var attempts int
	_, err = s.writer.mutate(ctx, userID, courseID, func(p *model.Progress) error {
		prev, _ := p.QuizState.Get(moduleID)
		attempts = prev.Attempts + 1
		p.QuizState.Put(moduleID, model.QuizRecord{
			Attempts:       attempts,
			LastScore:      grade.ScorePercent,
			Passed:         grade.Passed,
			TotalQuestions: grade.Total,
			CorrectCount:   grade.CorrectCount,
			PassPercent:    grade.PassPercent,
			UpdatedAt:      s.now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.RecordQuizAttempt(grade.Passed)
	logger.Log.Info("quiz attempt recorded",
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID),
		zap.String("moduleId", moduleID),
		zap.Int("score", grade.ScorePercent),
		zap.Bool("passed", grade.Passed),
		zap.Int("attempts", attempts),
	)

	return &QuizAttemptResult{
		Passed:       grade.Passed,
		ScorePercent: grade.ScorePercent,
		CorrectCount: grade.CorrectCount,
		Total:        grade.Total,
		Attempts:     attempts,
		PassPercent:  grade.PassPercent,
	}, nil
}

func (s *ProgressService) findProgress(ctx context.Context, userID, courseID uint) (*model.Progress, error) {
	p, err := s.Progress.Find(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return &model.Progress{UserID: userID, CourseID: courseID}, nil
		}
		return nil, err
	}
	return p, nil
}

// GetModuleStatus 获取单个模块的测验状态和课时完成情况，没有进度记录时返回零值
func (s *ProgressService) GetModuleStatus(ctx context.Context, userID, courseID uint, moduleID string) (*ModuleStatus, error) {
	course, err := s.Courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	idx, ok := course.FindModule(moduleID)
	if !ok {
		return nil, util.NewNotFoundError("moduleId", "module %s not found in course %d", moduleID, courseID)
	}
	module := course.Modules[idx]

	p, err := s.findProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	// 统计本模块内已完成的课时
	status := &ModuleStatus{
		Module:  ModuleSummary{ID: module.ID, Title: module.Title, Order: module.Order},
		Lessons: ModuleLessonStatus{Total: len(module.Lessons)},
	}
	if rec, ok := p.QuizState.Get(moduleID); ok {
		score := rec.LastScore
		status.Quiz = ModuleQuizStatus{Attempts: rec.Attempts, LastScore: &score, Passed: rec.Passed}
	}

	lessonIDs := make(map[string]bool, len(module.Lessons))
	for _, l := range module.Lessons {
		lessonIDs[l.ID] = true
	}
	status.Lessons.Completed = p.CompletedLessonIDs.CountIn(lessonIDs)

	return status, nil
}

// GetCourseProgress 获取课程整体进度
func (s *ProgressService) GetCourseProgress(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	course, err := s.Courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	p, err := s.findProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(p.CompletedLessonIDs))
	copy(ids, p.CompletedLessonIDs)

	return &CourseProgress{
		CourseID:           courseID,
		Percent:            p.Percent,
		CompletedLessonIDs: ids,
		CompletedCount:     len(ids),
		TotalLessons:       course.TotalLessons(),
	}, nil
}
