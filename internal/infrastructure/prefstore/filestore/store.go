// Package filestore keeps preferences in a flat TOML file and reports changes
// made to that file by other processes.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/infrastructure/debounce"
	"github.com/bnema/sitetheme/internal/logging"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600

	// DefaultReloadDelay collapses the burst of fsnotify events a single
	// rename-based write produces.
	DefaultReloadDelay = 100 * time.Millisecond
)

// callbackWrapper wraps a callback function to enable pointer comparison for removal.
type callbackWrapper struct {
	fn func(keys []string)
}

// Store is a port.KeyValueStore backed by a TOML file.
type Store struct {
	ctx         context.Context
	path        string
	reloadDelay time.Duration

	mu          sync.Mutex
	values      map[string]string
	lastWritten uint64
	callbacks   []*callbackWrapper

	watcher  *fsnotify.Watcher
	reloader *debounce.Debouncer
	done     chan struct{}
	closed   bool
}

// Option configures a Store.
type Option func(*Store)

// WithReloadDelay overrides DefaultReloadDelay.
func WithReloadDelay(d time.Duration) Option {
	return func(s *Store) {
		s.reloadDelay = d
	}
}

// Open loads path (a missing file is an empty store) and creates its directory.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("preference file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create preference directory: %w", err)
	}

	s := &Store{
		ctx:         logging.WithBackend(ctx, "file"),
		path:        filepath.Clean(path),
		reloadDelay: DefaultReloadDelay,
		values:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	values, digest, err := s.readFile()
	if err != nil {
		return nil, err
	}
	s.values = values
	s.lastWritten = digest

	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get implements port.KeyValueStore.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements port.KeyValueStore. The file is re-read first so keys written
// by other processes are not clobbered.
func (s *Store) Set(_ context.Context, key, value string) error {
	return s.update(func(values map[string]string) {
		values[key] = value
	})
}

// Remove implements port.KeyValueStore.
func (s *Store) Remove(_ context.Context, key string) error {
	return s.update(func(values map[string]string) {
		delete(values, key)
	})
}

func (s *Store) update(mutate func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("preference file %s is closed", s.path)
	}

	values, _, err := s.readFile()
	if err != nil {
		return err
	}
	mutate(values)

	data, err := encode(values)
	if err != nil {
		return err
	}
	if err := writeAtomic(s.path, data); err != nil {
		return err
	}

	s.values = values
	s.lastWritten = xxhash.Sum64(data)
	return nil
}

// readFile parses the file. Caller must hold s.mu or be constructing s.
func (s *Store) readFile() (map[string]string, uint64, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), xxhash.Sum64(nil), nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read preference file: %w", err)
	}

	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("failed to parse preference file %s: %w", s.path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case string:
			values[k] = tv
		default:
			// Hand-edited files may hold contrastLevel = 2 or reducedMotion = true.
			values[k] = fmt.Sprint(tv)
		}
	}
	return values, xxhash.Sum64(data), nil
}

func encode(values map[string]string) ([]byte, error) {
	data, err := toml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	return data, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set preference file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace preference file: %w", err)
	}
	return nil
}

// diffKeys returns the keys whose presence or value differs, sorted.
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
	_ port.KeyValueStore          = (*Store)(nil)
	_ port.ExternalChangeNotifier = (*Store)(nil)
)
