package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX. The ttl bounds how long a
// crashed holder can block a key.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    atomic.Int64
	wait   time.Duration
	poll   time.Duration
}

func NewRedisLocker(client *redis.Client, prefix string, ttl, wait time.Duration) *RedisLocker {
	l := &RedisLocker{
		client: client,
		prefix: prefix,
		wait:   wait,
		poll:   20 * time.Millisecond,
	}
	l.SetTTL(ttl)
	return l
}

func (l *RedisLocker) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	l.ttl.Store(int64(ttl))
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	redisKey := l.prefix + key
	token := uuid.NewString()
	ttl := time.Duration(l.ttl.Load())

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Join(ErrLockTimeout, ctx.Err())
			}
			return nil, err
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() {
					// the caller's ctx may already be gone
					releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
					defer cancel()
					_ = releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err()
				})
			}, nil
		}

		timer.Reset(l.poll)
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrLockTimeout, ctx.Err())
		case <-timer.C:
		}
	}
}
