// Package prefstore guards preference persistence. Backend failures never reach
// the caller: they are logged, reported to an optional diagnostic callback and
// treated as no-ops, so the in-memory preference state stays authoritative.
package prefstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/logging"
)

// Operation names passed to the diagnostic callback.
const (
	OpGet    = "get"
	OpSet    = "set"
	OpRemove = "remove"
	OpClose  = "close"
)

// ErrorHandler receives persistence failures for diagnostics.
type ErrorHandler func(op, key string, err error)

// Store wraps a port.KeyValueStore with a failure guard.
// A Store with a nil backend is disabled: reads miss and writes report false.
type Store struct {
	ctx     context.Context
	backend port.KeyValueStore

	mu      sync.RWMutex
	onError ErrorHandler
}

// New creates a guarded store. backend may be nil.
func New(ctx context.Context, backend port.KeyValueStore) *Store {
	return &Store{
		ctx:     logging.WithComponent(ctx, "prefstore"),
		backend: backend,
	}
}

// OnError sets the diagnostic callback.
func (s *Store) OnError(handler ErrorHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = handler
}

// Enabled reports whether a backend is attached.
func (s *Store) Enabled() bool {
	return s != nil && s.backend != nil
}

// Backend returns the wrapped backend, possibly nil.
func (s *Store) Backend() port.KeyValueStore {
	if s == nil {
		return nil
	}
	return s.backend
}

// Get returns the stored value and whether it exists.
func (s *Store) Get(key string) (value string, ok bool) {
	if !s.Enabled() {
		return "", false
	}
	err := s.guard(OpGet, key, func() error {
		var err error
		value, ok, err = s.backend.Get(s.ctx, key)
		return err
	})
	if err != nil {
		return "", false
	}
	return value, ok
}

// Set stores value under key and reports success.
func (s *Store) Set(key, value string) bool {
	if !s.Enabled() {
		return false
	}
	return s.guard(OpSet, key, func() error {
		return s.backend.Set(s.ctx, key, value)
	}) == nil
}

// Remove deletes key.
func (s *Store) Remove(key string) {
	if !s.Enabled() {
		return
	}
	_ = s.guard(OpRemove, key, func() error {
		return s.backend.Remove(s.ctx, key)
	})
}

// Clear removes every given key.
func (s *Store) Clear(keys ...string) {
	for _, key := range keys {
		s.Remove(key)
	}
}

// Close closes the backend.
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.guard(OpClose, "", s.backend.Close)
}

// guard runs fn, converting errors and panics into a logged diagnostic.
func (s *Store) guard(op, key string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("storage panic: %v", r)
			s.report(op, key, err)
		}
	}()
	if err = fn(); err != nil {
		s.report(op, key, err)
	}
	return err
}

func (s *Store) report(op, key string, err error) {
	logging.FromContext(s.ctx).Warn().
		Err(err).
		Str("op", op).
		Str("key", key).
		Msg("preference storage failed, keeping in-memory value")

	s.mu.RLock()
	handler := s.onError
	s.mu.RUnlock()
	if handler != nil {
		handler(op, key, err)
	}
}

// ErrUnavailable is returned by backends that cannot serve requests.
var ErrUnavailable = errors.New("preference storage unavailable")
