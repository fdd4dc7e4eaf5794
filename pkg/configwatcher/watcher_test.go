package configwatcher

import (
	"context"
	"course_progress_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseConfig = `
database:
  driver: sqlite
progress:
  course_cache_ttl: 10s
`

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(baseConfig), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, file, 20*time.Millisecond, func(cfg *config.Config) {
			reloaded <- cfg
		})
	}()

	// the watcher registers asynchronously, so keep rewriting until it reports
	updated := `
database:
  driver: sqlite
progress:
  course_cache_ttl: 45s
server:
  mode: release
jwt:
  secret: 0123456789abcdef0123456789abcdef
`
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	var got *config.Config
	for got == nil {
		select {
		case got = <-reloaded:
		case <-tick.C:
			require.NoError(t, os.WriteFile(file, []byte(updated), 0o644))
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}

	assert.Equal(t, 45*time.Second, got.Progress.CourseCacheTTL)
	assert.Equal(t, "release", got.Server.Mode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchSkipsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(baseConfig), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan *config.Config, 4)
	go Watch(ctx, file, 20*time.Millisecond, func(cfg *config.Config) { reloaded <- cfg })

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("database:\n  driver: oracle\n"), 0o644))

	select {
	case cfg := <-reloaded:
		t.Fatalf("unexpected reload: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "config.yaml"), time.Millisecond, func(*config.Config) {})
	assert.Error(t, err)
}
