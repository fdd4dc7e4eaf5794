package repository

import (
	"context"
	"course_progress_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.DB.WithContext(ctx).Create(enrollment).Error
}

func (r *EnrollmentRepository) Exists(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// ListByCourse returns enrollments oldest first.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC, user_id ASC").
		Find(&enrollments).Error
	return enrollments, err
}
