package settings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/domain/entity"
	"github.com/bnema/sitetheme/internal/infrastructure/clock"
	"github.com/bnema/sitetheme/internal/infrastructure/prefstore/memory"
	"github.com/bnema/sitetheme/internal/ui/theme"
)

func testCtx() context.Context {
	return context.Background()
}

// noopScheduler never fires; Auto mode is not under test here.
type noopScheduler struct{}

func (noopScheduler) Every(time.Duration, func()) func() { return func() {} }

// darkSignal is a settable OS dark-mode preference.
type darkSignal struct {
	mu        sync.Mutex
	value     bool
	callbacks map[int]func(port.SignalPreference)
	next      int
}

func (s *darkSignal) Resolve() port.SignalPreference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return port.SignalPreference{Value: s.value, Source: "test"}
}

func (s *darkSignal) OnChange(cb func(port.SignalPreference)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.callbacks == nil {
		s.callbacks = make(map[int]func(port.SignalPreference))
	}
	id := s.next
	s.next++
	s.callbacks[id] = cb
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.callbacks, id)
	}
}

func (s *darkSignal) Set(v bool) {
	s.mu.Lock()
	s.value = v
	cbs := make([]func(port.SignalPreference), 0, len(s.callbacks))
	for _, cb := range s.callbacks {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()
	for _, cb := range cbs {
		cb(port.SignalPreference{Value: v, Source: "test"})
	}
}

// reflections records what the binding pushed to the view.
type reflections struct {
	mu    sync.Mutex
	items []ReflectMsg
}

func (r *reflections) Reflect(field entity.Field, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, ReflectMsg{Field: field, Value: value})
}

func (r *reflections) All() []ReflectMsg {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ReflectMsg, len(r.items))
	copy(out, r.items)
	return out
}

// eventLog counts manager events per field.
type eventLog struct {
	mu     sync.Mutex
	counts map[entity.Field]int
}

func (e *eventLog) record(ev entity.ChangeEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.counts == nil {
		e.counts = make(map[entity.Field]int)
	}
	e.counts[ev.Field]++
}

func (e *eventLog) Count(f entity.Field) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts[f]
}

type fixture struct {
	bus  *memory.Bus
	dark *darkSignal
}

func newFixture() *fixture {
	return &fixture{bus: memory.NewBus(), dark: &darkSignal{}}
}

// manager builds a theme manager on its own tab of the shared bus, at 14:00.
func (f *fixture) manager(t *testing.T) *theme.Manager {
	t.Helper()
	store := f.bus.Attach()
	m := theme.NewManager(testCtx(), theme.Options{
		Store:      store,
		DarkSignal: f.dark,
		Clock:      clock.Fixed(time.Date(2025, 6, 1, 14, 0, 0, 0, time.Local)),
		Scheduler:  noopScheduler{},
	})
	t.Cleanup(func() {
		m.Close()
		require.NoError(t, store.Close())
	})
	return m
}
