package service

import (
	"context"
	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"
	"course_progress_backend/pkg/lock"
	"course_progress_backend/pkg/logger"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"
)

// AssignmentService handles lesson assignment submission and teacher grading.
// A submission is what unlocks lesson completion; grading is an annotation
// on top and never affects the gate.
type AssignmentService struct {
	Courses     CourseProvider
	Enrollments EnrollmentRegistry

	writer progressWriter
	now    func() time.Time
}

func NewAssignmentService(courses CourseProvider, enrollments EnrollmentRegistry, progress ProgressStore, locker lock.Locker) *AssignmentService {
	return &AssignmentService{
		Courses:     courses,
		Enrollments: enrollments,
		writer:      progressWriter{store: progress, locker: locker},
		now:         time.Now,
	}
}

type SubmitResult struct {
	LessonID  string `json:"lessonId"`
	Submitted bool   `json:"submitted"`
}

type GradeResult struct {
	UserID   uint      `json:"userId"`
	LessonID string    `json:"lessonId"`
	Grade    int       `json:"grade"`
	Feedback string    `json:"feedback"`
	GradedAt time.Time `json:"gradedAt"`
}

// Submit 提交课时作业，之前的提交连同评分和评语一起被覆盖
func (s *AssignmentService) Submit(ctx context.Context, userID, courseID uint, lessonID string, payload json.RawMessage) (*SubmitResult, error) {
	// 1. 校验课程、选课和课时
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

	// 2. 整条替换作业记录
	now := s.now()
	_, err = s.writer.mutate(ctx, userID, courseID, func(p *model.Progress) error {
		p.AssignmentState.Put(lessonID, model.AssignmentRecord{
			Submitted:   true,
			Graded:      false,
			Passed:      true,
			Payload:     payload,
			SubmittedAt: &now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("assignment submitted",
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID),
		zap.String("lessonId", lessonID),
	)
	return &SubmitResult{LessonID: lessonID, Submitted: true}, nil
}

// Grade 教师批改作业，只有课程负责人和管理员可以批改，提交内容保持不变
func (s *AssignmentService) Grade(ctx context.Context, caller Caller, courseID uint, lessonID string, studentID uint, grade float64, feedback string) (*GradeResult, error) {
	// 1. 获取课程并检查权限
	course, err := s.Courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !CanManageCourse(course, caller) {
		return nil, util.NewForbiddenError("user %d cannot grade course %d", caller.UserID, courseID)
	}
	if _, ok := course.FindLesson(lessonID); !ok {
		return nil, util.NewNotFoundError("lessonId", "lesson %s not found in course %d", lessonID, courseID)
	}
	// 2. 校验参数，分数必须是 0 到 100 的整数
	if studentID == 0 {
		return nil, util.NewInputError("userId", "student id is required")
	}
	if math.IsNaN(grade) || grade != math.Trunc(grade) || grade < 0 || grade > 100 {
		return nil, util.NewInputError("grade", "grade must be an integer between 0 and 100")
	}
	g := int(grade)

	// 3. 必须已有提交，评分合并到原记录上
	now := s.now()
	graderID := caller.UserID
	_, err = s.writer.mutate(ctx, studentID, courseID, func(p *model.Progress) error {
		rec, ok := p.AssignmentState.Get(lessonID)
		if !ok || !rec.Submitted {
			return util.NewInputError("lessonId", "student %d has not submitted the assignment for lesson %s", studentID, lessonID)
		}
		rec.Graded = true
		rec.Grade = &g
		rec.Feedback = feedback
		rec.GradedAt = &now
		rec.GradedBy = &graderID
		p.AssignmentState.Put(lessonID, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("assignment graded",
		zap.Uint("graderId", graderID),
		zap.Uint("userId", studentID),
		zap.Uint("courseId", courseID),
		zap.String("lessonId", lessonID),
		zap.Int("grade", g),
	)
	return &GradeResult{
		UserID:   studentID,
		LessonID: lessonID,
		Grade:    g,
		Feedback: feedback,
		GradedAt: now,
	}, nil
}
