// Package lock serializes work per key, either inside one process or across
// instances through redis.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

// Locker hands out exclusive ownership of a key. The returned release func is
// safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

// LocalLocker is a keyed mutex. Entries are dropped once nobody holds or
// waits for them, so the map stays proportional to in-flight keys.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*keyLock
	wait time.Duration
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{keys: make(map[string]*keyLock), wait: wait}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	k, ok := l.keys[key]
	if !ok {
		k = &keyLock{sem: make(chan struct{}, 1)}
		l.keys[key] = k
	}
	k.refs++
	l.mu.Unlock()

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case k.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-k.sem
				l.release(key, k)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, k)
		return nil, errors.Join(ErrLockTimeout, ctx.Err())
	}
}

func (l *LocalLocker) release(key string, k *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k.refs--
	if k.refs == 0 {
		delete(l.keys, key)
	}
}

// held reports how many keys are tracked; used by tests.
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}
