package theme

import (
	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/domain/entity"
	"github.com/bnema/sitetheme/internal/logging"
)

// updateSubscriptions starts or cancels the Auto clock check, the System
// dark-mode subscription and the reduced-motion subscription to match the
// current state. Caller must hold m.mu.
func (m *Manager) updateSubscriptions() {
	if m.closed {
		return
	}

	if m.prefs.Mode == entity.ModeAuto {
		if m.cancelAuto == nil {
			m.cancelAuto = m.scheduler.Every(m.autoInterval, m.recheck.Trigger)
		}
	} else if m.cancelAuto != nil {
		m.cancelAuto()
		m.cancelAuto = nil
	}

	if m.prefs.Mode == entity.ModeSystem {
		if m.cancelSystem == nil {
			m.cancelSystem = m.darkSignal.OnChange(func(port.SignalPreference) {
				m.recheck.Trigger()
			})
		}
	} else if m.cancelSystem != nil {
		m.cancelSystem()
		m.cancelSystem = nil
	}

	if !m.motionExplicit {
		if m.cancelMotion == nil {
			m.cancelMotion = m.motionSignal.OnChange(m.onMotionChange)
		}
	} else if m.cancelMotion != nil {
		m.cancelMotion()
		m.cancelMotion = nil
	}
}

// recheckEffective re-derives the effective mode from the clock or the OS and
// applies it when it flipped.
func (m *Manager) recheckEffective() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	effective := m.effectiveFor(m.prefs.Mode)
	if effective == m.effective {
		m.mu.Unlock()
		return
	}

	old := m.stateLocked()
	m.effective = effective
	m.applyEffective()
	event := entity.ChangeEvent{Field: entity.FieldEffectiveMode, Old: old, New: m.stateLocked()}
	m.mu.Unlock()

	logging.FromContext(m.ctx).Debug().
		Str("mode", string(old.Mode)).
		Str("from", string(old.Effective)).
		Str("to", string(effective)).
		Msg("effective mode changed")
	m.emit([]entity.ChangeEvent{event})
}

func (m *Manager) onMotionChange(pref port.SignalPreference) {
	m.mu.Lock()
	if m.closed || m.motionExplicit {
		m.mu.Unlock()
		return
	}
	next := m.prefs
	next.ReducedMotion = pref.Value
	events := m.commit(next, false, false)
	m.mu.Unlock()

	if len(events) > 0 {
		logging.FromContext(m.ctx).Debug().Bool("reduced_motion", pref.Value).Str("source", pref.Source).Msg("following OS reduced motion")
	}
	m.emit(events)
}

// onExternalChange rehydrates from the store after another process or tab
// wrote to it. The result goes through the regular guarded path but is not
// written back.
func (m *Manager) onExternalChange(keys []string) {
	recognised := false
	for _, key := range keys {
		if _, ok := entity.FieldForKey(key); ok {
			recognised = true
			break
		}
	}
	if !recognised {
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	next, explicit := m.hydrate()
	events := m.commit(next, explicit, false)
	m.mu.Unlock()

	logging.FromContext(m.ctx).Debug().Strs("keys", keys).Int("changed", len(events)).Msg("preferences changed externally")
	m.emit(events)
}

// emit queues events and delivers them in order. A listener that triggers
// another change only enqueues; the outermost caller drains the queue.
func (m *Manager) emit(events []entity.ChangeEvent) {
	if len(events) == 0 {
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, events...)
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true

	for len(m.queue) > 0 {
		event := m.queue[0]
		m.queue = m.queue[1:]
		listeners := make([]*listenerEntry, len(m.listeners))
		copy(listeners, m.listeners)
		m.mu.Unlock()

		for _, l := range listeners {
			if l.field == "" || l.field == event.Field {
				m.deliver(l, event)
			}
		}

		m.mu.Lock()
	}
	m.draining = false
	m.mu.Unlock()
}

func (m *Manager) deliver(l *listenerEntry, event entity.ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(m.ctx).Error().
				Interface("panic", r).
				Str("field", string(event.Field)).
				Msg("theme change listener panicked")
		}
	}()
	l.fn(event)
}

// staticSignal stands in for a missing OS signal: always false, never changes.
type staticSignal struct{}

func (staticSignal) Resolve() port.SignalPreference {
	return port.SignalPreference{Value: false, Source: "static"}
}

func (staticSignal) OnChange(func(port.SignalPreference)) func() {
	return func() {}
}
