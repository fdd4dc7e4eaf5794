package repository

import (
	"context"
	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"
	"course_progress_backend/pkg/logger"
	"course_progress_backend/pkg/monitoring"
	"course_progress_backend/pkg/tracing"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProgressConflict means the row changed between read and write.
var ErrProgressConflict = errors.New("progress modified concurrently")

type ProgressRepository struct {
	DB         *gorm.DB
	MaxRetries int
}

func NewProgressRepository(db *gorm.DB, maxRetries int) *ProgressRepository {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &ProgressRepository{DB: db, MaxRetries: maxRetries}
}

func (r *ProgressRepository) Find(ctx context.Context, userID, courseID uint) (*model.Progress, error) {
	var p model.Progress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("progress", "no progress for user %d in course %d", userID, courseID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.Progress, error) {
	var rows []model.Progress
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("user_id ASC").
		Find(&rows).Error
	return rows, err
}

// Mutate runs fn against the current record inside a transaction. The row is
// created on first use and locked for the rest of the transaction; the write
// is additionally guarded by the version column and retried on conflict.
// When fn fails the transaction rolls back, including a freshly created row.
func (r *ProgressRepository) Mutate(ctx context.Context, userID, courseID uint, fn func(p *model.Progress) error) (*model.Progress, error) {
	ctx, span := tracing.Start(ctx, "progress.mutate",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("course.id", int64(courseID)),
	)
	defer span.End()

	for attempt := 0; ; attempt++ {
		p, err := r.mutateOnce(ctx, userID, courseID, fn)
		if err == nil {
			span.SetAttributes(attribute.Int("progress.retries", attempt))
			return p, nil
		}
		if !errors.Is(err, ErrProgressConflict) || attempt >= r.MaxRetries {
			span.RecordError(err)
			span.SetStatus(codes.Error, "progress mutation failed")
			return nil, err
		}

		monitoring.ProgressConflicts.Inc()
		logger.Log.Warn("retrying progress write after conflict",
			zap.Uint("userId", userID),
			zap.Uint("courseId", courseID),
			zap.Int("attempt", attempt+1),
		)
	}
}

func (r *ProgressRepository) mutateOnce(ctx context.Context, userID, courseID uint, fn func(p *model.Progress) error) (*model.Progress, error) {
	var out model.Progress
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := model.Progress{UserID: userID, CourseID: courseID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return fmt.Errorf("create progress: %w", err)
		}

		var p model.Progress
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&p).Error
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		version := p.Version
		if err := fn(&p); err != nil {
			return err
		}
		p.Version = version + 1

		res := tx.Model(&p).
			Where("version = ?", version).
			Select("completed_lesson_ids", "percent", "assignment_state", "quiz_state", "version").
			Updates(&p)
		if res.Error != nil {
			return fmt.Errorf("save progress: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrProgressConflict
		}

		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
