package service

import (
	"context"
	"course_progress_backend/internal/model"
)

// CourseProvider reads the module/lesson/quiz tree of a course. A missing
// course is reported as a util.ErrNotFound error.
type CourseProvider interface {
	GetCourse(ctx context.Context, courseID uint) (*model.Course, error)
}

type EnrollmentRegistry interface {
	Exists(ctx context.Context, userID, courseID uint) (bool, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Enrollment, error)
}

// ProgressStore persists Progress keyed by (user, course).
//
// Mutate loads the record (creating an empty one if needed), passes it to fn
// and persists the result in a single all-or-nothing step. If fn returns an
// error nothing is written, not even the lazily created record.
type ProgressStore interface {
	Find(ctx context.Context, userID, courseID uint) (*model.Progress, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Progress, error)
	Mutate(ctx context.Context, userID, courseID uint, fn func(p *model.Progress) error) (*model.Progress, error)
}

type UserDirectory interface {
	FindByIDs(ctx context.Context, ids []uint) (map[uint]model.User, error)
}
