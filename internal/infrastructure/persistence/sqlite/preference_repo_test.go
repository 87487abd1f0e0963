package sqlite_test

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bnema/sitetheme/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/sitetheme/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// manualScheduler records the polled function so tests drive it directly.
type manualScheduler struct {
	fn       func()
	interval time.Duration
	stopped  bool
}

func (m *manualScheduler) Every(interval time.Duration, fn func()) func() {
	m.interval = interval
	m.fn = fn
	return func() { m.stopped = true }
}

func TestPreferenceStore_CRUD(t *testing.T) {
	ctx := testCtx()
	store, err := sqlite.OpenPreferenceStore(ctx, filepath.Join(t.TempDir(), "preferences.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, ok, err := store.Get(ctx, "themeMode")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "themeMode", "dark"))
	require.NoError(t, store.Set(ctx, "themeMode", "auto"))

	v, ok, err := store.Get(ctx, "themeMode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "auto", v)

	require.NoError(t, store.Remove(ctx, "themeMode"))
	_, ok, err = store.Get(ctx, "themeMode")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Remove(ctx, "never-set"))
}

func TestPreferenceStore_Migrated(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "preferences.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	version, err := sqlite.GetMigrationStatus(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestPreferenceStore_PollSeesOtherConnection(t *testing.T) {
	ctx := testCtx()
	path := filepath.Join(t.TempDir(), "preferences.db")

	watcher, err := sqlite.OpenPreferenceStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Close() })
	writer, err := sqlite.OpenPreferenceStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	sched := &manualScheduler{}
	watcher.Watch(sched, 0)
	require.NotNil(t, sched.fn)
	assert.Equal(t, sqlite.DefaultPollInterval, sched.interval)

	var seen [][]string
	watcher.OnExternalChange(func(keys []string) { seen = append(seen, keys) })

	require.NoError(t, writer.Set(ctx, "colorTheme", "orange"))
	require.NoError(t, writer.Set(ctx, "contrastLevel", "1"))
	sched.fn()

	require.Len(t, seen, 1)
	assert.Equal(t, []string{"colorTheme", "contrastLevel"}, seen[0])

	// No new commits: nothing to report.
	sched.fn()
	assert.Len(t, seen, 1)

	require.NoError(t, writer.Remove(ctx, "colorTheme"))
	require.NoError(t, watcher.Poll(ctx))
	require.Len(t, seen, 2)
	assert.Equal(t, []string{"colorTheme"}, seen[1])
}

func TestPreferenceStore_OwnWritesNotReported(t *testing.T) {
	ctx := testCtx()
	store, err := sqlite.OpenPreferenceStore(ctx, filepath.Join(t.TempDir(), "preferences.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	calls := 0
	store.OnExternalChange(func([]string) { calls++ })

	require.NoError(t, store.Set(ctx, "fontSizePercent", "120"))
	require.NoError(t, store.Poll(ctx))
	assert.Zero(t, calls)
}

func TestPreferenceStore_OwnWritesNotReportedWhilePolling(t *testing.T) {
	ctx := testCtx()
	path := filepath.Join(t.TempDir(), "preferences.db")

	store, err := sqlite.OpenPreferenceStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	other, err := sqlite.OpenPreferenceStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })

	var mu sync.Mutex
	reported := map[string]int{}
	store.OnExternalChange(func(keys []string) {
		mu.Lock()
		defer mu.Unlock()
		for _, k := range keys {
			reported[k]++
		}
	})

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				assert.NoError(t, store.Poll(ctx))
			}
		}
	}()

	for i := 0; i < 50; i++ {
		require.NoError(t, store.Set(ctx, "fontSizePercent", strconv.Itoa(80+i)))
		// commits by another connection keep data_version moving
		require.NoError(t, other.Set(ctx, "colorTheme", strconv.Itoa(i)))
	}
	close(stop)
	wg.Wait()
	require.NoError(t, store.Poll(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, reported["fontSizePercent"], "own writes must not come back as external")
	assert.Positive(t, reported["colorTheme"])
}

func TestPreferenceStore_CloseStopsWatch(t *testing.T) {
	ctx := testCtx()
	store, err := sqlite.OpenPreferenceStore(ctx, filepath.Join(t.TempDir(), "preferences.db"))
	require.NoError(t, err)

	sched := &manualScheduler{}
	store.Watch(sched, time.Second)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
	assert.True(t, sched.stopped)
}

func TestNewConnection_EmptyPath(t *testing.T) {
	_, err := sqlite.NewConnection(testCtx(), "")
	assert.Error(t, err)
}
