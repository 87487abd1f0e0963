// Package snapshot writes debounced stylesheet snapshots of the themed document
// so a static site can load the user's preferences as plain CSS.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/logging"
)

// DefaultDelay is used when the configured debounce is not positive.
const DefaultDelay = 250 * time.Millisecond

// Service handles debounced stylesheet writes.
type Service struct {
	source port.StylesheetSource
	path   string
	delay  time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	dirty      bool
	lastDigest uint64
	written    bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewService creates a new snapshot service writing source to path.
func NewService(source port.StylesheetSource, path string, delay time.Duration) *Service {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Service{
		source: source,
		path:   path,
		delay:  delay,
	}
}

// Path returns the output file.
func (s *Service) Path() string {
	return s.path
}

// Start begins accepting MarkDirty calls.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)
	logging.FromContext(ctx).Debug().Dur("delay", s.delay).Str("path", s.path).Msg("stylesheet snapshot service started")
}

// Stop stops the service and writes pending state.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	// Final save on shutdown
	return s.SaveNow(ctx)
}

// MarkDirty signals that the document changed.
// Writes are debounced so a burst of changes produces one file write.
func (s *Service) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true

	// Reset or create timer
	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		if ctx == nil || ctx.Err() != nil {
			return
		}

		if err := s.save(ctx); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("failed to write stylesheet snapshot")
		}
	})
}

// SaveNow forces an immediate write of pending changes.
func (s *Service) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	dirty := s.dirty
	s.mu.Unlock()

	if !dirty {
		return nil
	}

	return s.save(ctx)
}

func (s *Service) save(ctx context.Context) error {
	css := []byte(s.source.CSS())
	digest := xxhash.Sum64(css)

	s.mu.Lock()
	s.dirty = false
	unchanged := s.written && digest == s.lastDigest
	s.mu.Unlock()

	if unchanged {
		return nil
	}

	if err := WriteFile(s.path, css); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.lastDigest = digest
	s.written = true
	s.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("path", s.path).Int("bytes", len(css)).Msg("stylesheet snapshot written")
	return nil
}

// WriteFile atomically replaces path with data, creating parent directories.
func WriteFile(path string, data []byte) error {
	const (
		dirPerm  = 0o755
		filePerm = 0o644
	)

	if path == "" {
		return fmt.Errorf("stylesheet path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create stylesheet directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write stylesheet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set stylesheet mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace stylesheet: %w", err)
	}
	return nil
}
