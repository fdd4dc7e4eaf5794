package repository

import (
	"context"
	"course_progress_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

// FindByIDs loads the given users keyed by id. Unknown ids are left out.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]model.User, error) {
	out := make(map[uint]model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []model.User
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
