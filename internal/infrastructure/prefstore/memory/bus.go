// Package memory provides an in-process key/value backend. Several Stores
// attached to one Bus behave like browser tabs sharing local storage: a write
// through one Store is reported to the external-change listeners of the others.
// Reports arrive asynchronously, in write order, on a goroutine owned by the
// receiving Store, so a listener may write back without blocking the writer.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bnema/sitetheme/internal/application/port"
)

// Bus is the shared storage area.
type Bus struct {
	mu     sync.RWMutex
	values map[string]string
	stores []*Store

	// pending counts queued or running deliveries.
	pendingMu sync.Mutex
	pending   int
	idle      *sync.Cond
}

// NewBus creates an empty storage area.
func NewBus() *Bus {
	b := &Bus{values: make(map[string]string)}
	b.idle = sync.NewCond(&b.pendingMu)
	return b
}

// Attach creates a new Store view of the bus.
func (b *Bus) Attach() *Store {
	s := &Store{
		bus:  b,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	b.mu.Lock()
	b.stores = append(b.stores, s)
	b.mu.Unlock()
	go s.deliver()
	return s
}

// Settle blocks until every queued notification has been delivered,
// including the ones listeners caused while it waited.
func (b *Bus) Settle() {
	b.pendingMu.Lock()
	for b.pending > 0 {
		b.idle.Wait()
	}
	b.pendingMu.Unlock()
}

func (b *Bus) track(delta int) {
	b.pendingMu.Lock()
	b.pending += delta
	if b.pending == 0 {
		b.idle.Broadcast()
	}
	b.pendingMu.Unlock()
}

// Snapshot returns a copy of every stored pair.
func (b *Bus) Snapshot() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Keys returns the stored keys, sorted.
func (b *Bus) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *Bus) detach(s *Store) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, other := range b.stores {
		if other == s {
			b.stores = append(b.stores[:i], b.stores[i+1:]...)
			return
		}
	}
}

// broadcast queues a notification for every store except origin. Called
// without b.mu held.
func (b *Bus) broadcast(origin *Store, key string) {
	b.mu.RLock()
	targets := make([]*Store, 0, len(b.stores))
	for _, s := range b.stores {
		if s != origin {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range targets {
		s.enqueue([]string{key})
	}
}

// callbackWrapper wraps a callback function to enable pointer comparison for removal.
type callbackWrapper struct {
	fn func(keys []string)
}

// Store is one participant's view of a Bus.
type Store struct {
	bus *Bus

	mu        sync.Mutex
	callbacks []*callbackWrapper
	queue     [][]string
	closed    bool
	wake      chan struct{}
	done      chan struct{}
}

// Get implements port.KeyValueStore.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.bus.mu.RLock()
	defer s.bus.mu.RUnlock()
	v, ok := s.bus.values[key]
	return v, ok, nil
}

// Set implements port.KeyValueStore.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.bus.mu.Lock()
	old, existed := s.bus.values[key]
	s.bus.values[key] = value
	s.bus.mu.Unlock()

	if !existed || old != value {
		s.bus.broadcast(s, key)
	}
	return nil
}

// Remove implements port.KeyValueStore.
func (s *Store) Remove(_ context.Context, key string) error {
	s.bus.mu.Lock()
	_, existed := s.bus.values[key]
	delete(s.bus.values, key)
	s.bus.mu.Unlock()

	if existed {
		s.bus.broadcast(s, key)
	}
	return nil
}

// Close detaches the store from the bus.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.callbacks = nil
	dropped := len(s.queue)
	s.queue = nil
	close(s.done)
	s.mu.Unlock()

	s.bus.detach(s)
	if dropped > 0 {
		s.bus.track(-dropped)
	}
	return nil
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

func (s *Store) enqueue(keys []string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.bus.track(1)
	s.queue = append(s.queue, keys)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// deliver runs the callbacks for queued notifications one at a time until
// the store is closed.
func (s *Store) deliver() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		for {
			s.mu.Lock()
			if s.closed || len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			keys := s.queue[0]
			s.queue = s.queue[1:]
			callbacks := make([]*callbackWrapper, len(s.callbacks))
			copy(callbacks, s.callbacks)
			s.mu.Unlock()

			for _, cb := range callbacks {
				cb.fn(keys)
			}
			s.bus.track(-1)
		}
	}
}

var (
	_ port.KeyValueStore          = (*Store)(nil)
	_ port.ExternalChangeNotifier = (*Store)(nil)
)
