package repository

import (
	"context"
	"course_progress_backend/internal/model"
	"course_progress_backend/internal/util"
	"course_progress_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) GetCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("courseId", "course %d not found", courseID)
	}
	if err != nil {
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}
	return &course, nil
}

// CourseSource is anything that can load a course tree.
type CourseSource interface {
	GetCourse(ctx context.Context, courseID uint) (*model.Course, error)
}

// CachedCourseProvider keeps generated course trees in redis. Concurrent
// misses for one course share a single load. Courses still being generated
// are never cached, so their modules show up as soon as generation ends.
type CachedCourseProvider struct {
	Source CourseSource
	Redis  *redis.Client

	ttl   atomic.Int64
	group singleflight.Group
}

func NewCachedCourseProvider(source CourseSource, rdb *redis.Client, ttl time.Duration) *CachedCourseProvider {
	p := &CachedCourseProvider{Source: source, Redis: rdb}
	p.SetTTL(ttl)
	return p
}

// SetTTL changes the expiry used for entries written from now on.
func (p *CachedCourseProvider) SetTTL(ttl time.Duration) {
	p.ttl.Store(int64(ttl))
}

func (p *CachedCourseProvider) TTL() time.Duration {
	return time.Duration(p.ttl.Load())
}

func courseCacheKey(courseID uint) string {
	return fmt.Sprintf("course:tree:%d", courseID)
}

func (p *CachedCourseProvider) GetCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	key := courseCacheKey(courseID)

	if p.Redis != nil {
		raw, err := p.Redis.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var course model.Course
			if err := json.Unmarshal(raw, &course); err == nil {
				return &course, nil
			}
			logger.Log.Warn("dropping unreadable course cache entry", zap.Uint("courseId", courseID))
			p.Redis.Del(ctx, key)
		case !errors.Is(err, redis.Nil):
			logger.Log.Warn("course cache read failed", zap.Uint("courseId", courseID), zap.Error(err))
		}
	}

	// 共享加载不跟随首个请求取消，否则会连带其它等待者一起失败
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		course, err := p.Source.GetCourse(loadCtx, courseID)
		if err != nil {
			return nil, err
		}
		p.store(loadCtx, key, course)
		return course, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Course), nil
}

func (p *CachedCourseProvider) store(ctx context.Context, key string, course *model.Course) {
	ttl := p.TTL()
	if p.Redis == nil || ttl <= 0 || course.GenerationStatus != model.GenerationDone {
		return
	}
	raw, err := json.Marshal(course)
	if err != nil {
		logger.Log.Warn("encode course for cache", zap.Uint("courseId", course.ID), zap.Error(err))
		return
	}
	if err := p.Redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.Log.Warn("course cache write failed", zap.Uint("courseId", course.ID), zap.Error(err))
	}
}

// Invalidate drops the cached tree, e.g. after the catalogue rewrote it.
func (p *CachedCourseProvider) Invalidate(ctx context.Context, courseID uint) error {
	if p.Redis == nil {
		return nil
	}
	return p.Redis.Del(ctx, courseCacheKey(courseID)).Err()
}
