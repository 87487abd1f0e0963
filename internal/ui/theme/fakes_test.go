package theme

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/domain/entity"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func clockAt(hour, minute int) *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, hour, minute, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(2025, 6, 1, hour, minute, 0, 0, time.Local)
}

// fakeScheduler keeps registered jobs so tests can fire them by hand.
type fakeScheduler struct {
	mu        sync.Mutex
	jobs      map[int]func()
	intervals map[int]time.Duration
	next      int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: make(map[int]func()), intervals: make(map[int]time.Duration)}
}

func (s *fakeScheduler) Every(interval time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.jobs[id] = fn
	s.intervals[id] = interval
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.jobs, id)
	}
}

func (s *fakeScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *fakeScheduler) Fire() {
	s.mu.Lock()
	jobs := make([]func(), 0, len(s.jobs))
	for _, fn := range s.jobs {
		jobs = append(jobs, fn)
	}
	s.mu.Unlock()
	for _, fn := range jobs {
		fn()
	}
}

// fakeSignal is a settable port.SystemSignal.
type fakeSignal struct {
	mu        sync.Mutex
	value     bool
	callbacks map[int]func(port.SignalPreference)
	next      int
}

func newFakeSignal(value bool) *fakeSignal {
	return &fakeSignal{value: value, callbacks: make(map[int]func(port.SignalPreference))}
}

func (s *fakeSignal) Resolve() port.SignalPreference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return port.SignalPreference{Value: s.value, Source: "fake"}
}

func (s *fakeSignal) OnChange(cb func(port.SignalPreference)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.callbacks[id] = cb
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.callbacks, id)
	}
}

func (s *fakeSignal) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.callbacks)
}

func (s *fakeSignal) Set(value bool) {
	s.mu.Lock()
	if s.value == value {
		s.mu.Unlock()
		return
	}
	s.value = value
	cbs := make([]func(port.SignalPreference), 0, len(s.callbacks))
	for _, cb := range s.callbacks {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()
	for _, cb := range cbs {
		cb(port.SignalPreference{Value: value, Source: "fake"})
	}
}

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []entity.ChangeEvent
}

func (r *recorder) Listen(e entity.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Fields() []entity.Field {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Field, len(r.events))
	for i, e := range r.events {
		out[i] = e.Field
	}
	return out
}

func (r *recorder) Events() []entity.ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.ChangeEvent(nil), r.events...)
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type fixture struct {
	clock  *fakeClock
	sched  *fakeScheduler
	dark   *fakeSignal
	motion *fakeSignal
	doc    *RootDocument
}

func newFixture() *fixture {
	return &fixture{
		clock:  clockAt(14, 0),
		sched:  newFakeScheduler(),
		dark:   newFakeSignal(false),
		motion: newFakeSignal(false),
		doc:    NewRootDocument(),
	}
}

func (f *fixture) options(store port.KeyValueStore) Options {
	return Options{
		Store:        store,
		Document:     f.doc,
		DarkSignal:   f.dark,
		MotionSignal: f.motion,
		Clock:        f.clock,
		Scheduler:    f.sched,
	}
}

func (f *fixture) manager(store port.KeyValueStore) *Manager {
	return NewManager(context.Background(), f.options(store))
}
