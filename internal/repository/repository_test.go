package repository

import (
	"context"
	"course_progress_backend/internal/config"
	"course_progress_backend/internal/model"
	"course_progress_backend/pkg/database"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedCourse(t *testing.T, db *gorm.DB, status model.GenerationStatus) *model.Course {
	t.Helper()
	pass := 80.0
	course := &model.Course{
		Title:            "Databases",
		OwnerID:          10,
		Instructors:      []uint{11, 12},
		GenerationStatus: status,
		Modules: []model.Module{{
			ID:      "m1",
			Title:   "SQL",
			Order:   1,
			Lessons: []model.Lesson{{ID: "l1", Title: "Select", Assignment: model.LessonAssignment{Required: true}}},
			Quiz: model.Quiz{
				Questions: []model.Question{
					model.NewQuestion("2+2?", []string{"3", "4"}, map[string]any{"correctAnswerIndex": 1}),
				},
				PassPercent: &pass,
			},
		}},
	}
	require.NoError(t, db.WithContext(context.Background()).Create(course).Error)
	return course
}
