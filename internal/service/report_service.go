package service

import (
	"context"
	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// ReportService 教师端只读报表
type ReportService struct {
	Courses     CourseProvider
	Enrollments EnrollmentRegistry
	Progress    ProgressStore
	Users       UserDirectory
}

func NewReportService(courses CourseProvider, enrollments EnrollmentRegistry, progress ProgressStore, users UserDirectory) *ReportService {
	return &ReportService{
		Courses:     courses,
		Enrollments: enrollments,
		Progress:    progress,
		Users:       users,
	}
}

type EnrolledStudent struct {
	UserID          uint      `json:"userId"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	EnrolledAt      time.Time `json:"enrolledAt"`
	ProgressPercent int       `json:"progressPercent"`
	CompletedCount  int       `json:"completedCount"`
}

type SubmissionRow struct {
	UserID       uint            `json:"userId"`
	StudentName  string          `json:"studentName"`
	StudentEmail string          `json:"studentEmail"`
	LessonID     string          `json:"lessonId"`
	ModuleTitle  string          `json:"moduleTitle"`
	LessonTitle  string          `json:"lessonTitle"`
	Payload      json.RawMessage `json:"payload"`
	SubmittedAt  *time.Time      `json:"submittedAt"`
	Grade        *int            `json:"grade"`
	Feedback     string          `json:"feedback"`
	GradedAt     *time.Time      `json:"gradedAt"`
}

func (s *ReportService) managedCourse(ctx context.Context, caller Caller, courseID uint) (*model.Course, error) {
	course, err := s.Courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !CanManageCourse(course, caller) {
		return nil, util.NewForbiddenError("user %d cannot view reports of course %d", caller.UserID, courseID)
	}
	return course, nil
}

func (s *ReportService) progressByUser(ctx context.Context, courseID uint) (map[uint]model.Progress, error) {
	rows, err := s.Progress.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	out := make(map[uint]model.Progress, len(rows))
	for _, p := range rows {
		out[p.UserID] = p
	}
	return out, nil
}

// ListEnrolledStudents 按选课顺序列出学生及其进度
func (s *ReportService) ListEnrolledStudents(ctx context.Context, caller Caller, courseID uint) ([]EnrolledStudent, error) {
	// 1. 检查教师权限
	if _, err := s.managedCourse(ctx, caller, courseID); err != nil {
		return nil, err
	}

	// 2. 获取选课记录和进度
	enrollments, err := s.Enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	progress, err := s.progressByUser(ctx, courseID)
	if err != nil {
		return nil, err
	}

	// 3. 批量加载用户信息，组装结果
	ids := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.UserID)
	}
	users, err := s.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	rows := make([]EnrolledStudent, 0, len(enrollments))
	for _, e := range enrollments {
		row := EnrolledStudent{
			UserID:     e.UserID,
			EnrolledAt: e.CreatedAt,
		}
		if u, ok := users[e.UserID]; ok {
			row.Name = u.Name
			row.Email = u.Email
		}
		if p, ok := progress[e.UserID]; ok {
			row.ProgressPercent = p.Percent
			row.CompletedCount = len(p.CompletedLessonIDs)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListAssignmentSubmissions 列出课程下所有已提交的作业，最新提交在前
func (s *ReportService) ListAssignmentSubmissions(ctx context.Context, caller Caller, courseID uint) ([]SubmissionRow, error) {
	course, err := s.managedCourse(ctx, caller, courseID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressByUser(ctx, courseID)
	if err != nil {
		return nil, err
	}

	// 1. 展开每个学生的作业记录
	index := course.LessonIndex()
	rows := make([]SubmissionRow, 0)
	ids := make([]uint, 0, len(progress))
	for userID, p := range progress {
		ids = append(ids, userID)
		for lessonID, rec := range p.AssignmentState {
			if !rec.Submitted {
				continue
			}
			ref := index[lessonID]
			rows = append(rows, SubmissionRow{
				UserID:      userID,
				LessonID:    lessonID,
				ModuleTitle: ref.ModuleTitle,
				LessonTitle: ref.LessonTitle,
				Payload:     rec.Payload,
				SubmittedAt: rec.SubmittedAt,
				Grade:       rec.Grade,
				Feedback:    rec.Feedback,
				GradedAt:    rec.GradedAt,
			})
		}
	}

	// 2. 补充学生姓名和邮箱
	users, err := s.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for i := range rows {
		if u, ok := users[rows[i].UserID]; ok {
			rows[i].StudentName = u.Name
			rows[i].StudentEmail = u.Email
		}
	}

	// 3. 按提交时间倒序，时间相同时按用户和课时排序
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		at, bt := timeOrZero(a.SubmittedAt), timeOrZero(b.SubmittedAt)
		if !at.Equal(bt) {
			return at.After(bt)
		}
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		return a.LessonID < b.LessonID
	})
	return rows, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
