package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/logging"
)

// DefaultPollInterval is how often Watch checks PRAGMA data_version.
const DefaultPollInterval = 500 * time.Millisecond

type callbackWrapper struct {
	fn func(keys []string)
}

// PreferenceStore is a port.KeyValueStore over the preferences table. Commits
// by other processes are detected by polling PRAGMA data_version.
type PreferenceStore struct {
	db  *sql.DB
	ctx context.Context

	// ioMu orders writes against polls so a poll never sees a row whose
	// snapshot entry is not updated yet.
	ioMu sync.Mutex

	mu          sync.Mutex
	snapshot    map[string]string
	dataVersion int64
	callbacks   []*callbackWrapper
	stopWatch   func()
	closed      bool
}

// OpenPreferenceStore opens (and migrates) the database at dbPath.
func OpenPreferenceStore(ctx context.Context, dbPath string) (*PreferenceStore, error) {
	ctx = logging.WithBackend(ctx, "sqlite")
	db, err := NewConnection(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	s, err := NewPreferenceStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPreferenceStore wraps an already migrated database.
func NewPreferenceStore(ctx context.Context, db *sql.DB) (*PreferenceStore, error) {
	s := &PreferenceStore{db: db, ctx: ctx}

	snapshot, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	version, err := s.queryDataVersion(ctx)
	if err != nil {
		return nil, err
	}
	s.snapshot = snapshot
	s.dataVersion = version
	return s, nil
}

// Get implements port.KeyValueStore.
func (s *PreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements port.KeyValueStore.
func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("key", key).Str("value", value).Msg("setting preference")

	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write preference %q: %w", key, err)
	}

	s.mu.Lock()
	s.snapshot[key] = value
	s.mu.Unlock()
	return nil
}

// Remove implements port.KeyValueStore.
func (s *PreferenceStore) Remove(ctx context.Context, key string) error {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove preference %q: %w", key, err)
	}

	s.mu.Lock()
	delete(s.snapshot, key)
	s.mu.Unlock()
	return nil
}

// Watch polls for external commits using sched until Close.
func (s *PreferenceStore) Watch(sched port.Scheduler, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopWatch != nil || s.closed {
		return
	}
	s.stopWatch = sched.Every(interval, func() {
		if err := s.Poll(s.ctx); err != nil {
			logging.FromContext(s.ctx).Warn().Err(err).Msg("preference poll failed")
		}
	})
}

// Poll checks data_version once and notifies listeners of keys changed by
// other connections since the previous check.
func (s *PreferenceStore) Poll(ctx context.Context) error {
	changed, callbacks, err := s.reload(ctx)
	if err != nil || len(changed) == 0 {
		return err
	}
	logging.FromContext(ctx).Debug().Strs("keys", changed).Msg("preferences changed by another process")
	for _, cb := range callbacks {
		cb.fn(changed)
	}
	return nil
}

// reload refreshes the snapshot when data_version moved and returns the keys
// that differ. Callbacks run after ioMu is released so they may write.
func (s *PreferenceStore) reload(ctx context.Context) ([]string, []*callbackWrapper, error) {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	version, err := s.queryDataVersion(ctx)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	if s.closed || version == s.dataVersion {
		s.mu.Unlock()
		return nil, nil, nil
	}
	s.mu.Unlock()

	current, err := s.loadAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := diffKeys(s.snapshot, current)
	s.snapshot = current
	s.dataVersion = version
	callbacks := make([]*callbackWrapper, len(s.callbacks))
	copy(callbacks, s.callbacks)
	return changed, callbacks, nil
}

// OnExternalChange implements port.ExternalChangeNotifier.
func (s *PreferenceStore) OnExternalChange(callback func(keys []string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	wrapper := &callbackWrapper{fn: callback}
	s.callbacks = append(s.callbacks, wrapper)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, cb := range s.callbacks {
			if cb == wrapper {
				s.callbacks = append(s.callbacks[:i], s.callbacks[i+1:]...)
				return
			}
		}
	}
}

// Close stops polling and closes the database.
func (s *PreferenceStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	stop := s.stopWatch
	s.callbacks = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	return s.db.Close()
}

func (s *PreferenceStore) queryDataVersion(ctx context.Context) (int64, error) {
	var version int64
	if err := s.db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read data_version: %w", err)
	}
	return version, nil
}

func (s *PreferenceStore) loadAll(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		values[key] = value
	}
	return values, rows.Err()
}

func diffKeys(before, after map[string]string) []string {
	var changed []string
	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			changed = append(changed, k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

var (
	_ port.KeyValueStore          = (*PreferenceStore)(nil)
	_ port.ExternalChangeNotifier = (*PreferenceStore)(nil)
)
