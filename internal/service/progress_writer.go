package service

import (
	"context"
	"course_progress_backend/internal/model"
	"course_progress_backend/pkg/lock"
	"fmt"
)

// progressWriter funnels every progress mutation through the per-key lock
// before handing it to the store, so concurrent requests for one student and
// course run one after another while other pairs proceed in parallel.
type progressWriter struct {
	store  ProgressStore
	locker lock.Locker
}

func progressKey(userID, courseID uint) string {
	return fmt.Sprintf("progress:%d:%d", userID, courseID)
}

func (w progressWriter) mutate(ctx context.Context, userID, courseID uint, fn func(p *model.Progress) error) (*model.Progress, error) {
	release, err := w.locker.Lock(ctx, progressKey(userID, courseID))
	if err != nil {
		return nil, fmt.Errorf("lock progress %d/%d: %w", userID, courseID, err)
	}
	defer release()

	return w.store.Mutate(ctx, userID, courseID, fn)
}
