package filestore

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/sitetheme/internal/infrastructure/debounce"
	"github.com/bnema/sitetheme/internal/logging"
)

// Watch starts watching the preference file for writes by other processes.
// The directory is watched because atomic replacement swaps the file's inode.
func (s *Store) Watch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		return nil // Already watching
	}
	if s.closed {
		return fmt.Errorf("preference file %s is closed", s.path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	s.watcher = watcher
	s.reloader = debounce.New(s.reloadDelay, s.reload)
	s.done = make(chan struct{})
	go s.loop(watcher, s.reloader, s.done)
	return nil
}

func (s *Store) loop(watcher *fsnotify.Watcher, reloader *debounce.Debouncer, done chan struct{}) {
	log := logging.FromContext(s.ctx)
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			log.Trace().Str("op", event.Op.String()).Str("file", event.Name).Msg("fsnotify preference change detected")
			reloader.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("preference file watcher error")
		}
	}
}

// reload re-reads the file and notifies listeners of changed keys, unless the
// content is exactly what this Store last wrote.
func (s *Store) reload() {
	log := logging.FromContext(s.ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	values, digest, err := s.readFile()
	if err != nil {
		s.mu.Unlock()
		log.Warn().Err(err).Msg("failed to reload preference file")
		return
	}
	if digest == s.lastWritten {
		s.mu.Unlock()
		log.Trace().Msg("skipping reload (triggered by own write)")
		return
	}

	changed := diffKeys(s.values, values)
	s.values = values
	s.lastWritten = digest
	callbacks := make([]*callbackWrapper, len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	log.Debug().Strs("keys", changed).Msg("preference file changed externally")
	for _, cb := range callbacks {
		cb.fn(changed)
	}
}

// OnExternalChange implements port.ExternalChangeNotifier.
func (s *Store) OnExternalChange(callback func(keys []string)) func() {
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

// Close stops watching. The file itself is left in place.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	watcher := s.watcher
	reloader := s.reloader
	done := s.done
	s.callbacks = nil
	s.mu.Unlock()

	if reloader != nil {
		reloader.Stop()
	}
	if done != nil {
		close(done)
	}
	if watcher != nil {
		return watcher.Close()
	}
	return nil
}
