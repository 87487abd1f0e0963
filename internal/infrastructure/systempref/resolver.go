// Package systempref resolves OS-level boolean preferences (dark colour scheme,
// reduced motion) from a prioritised chain of detectors.
package systempref

import (
	"sort"
	"strings"
	"sync"

	"github.com/bnema/sitetheme/internal/application/port"
)

const (
	// sourceFallback indicates no detector provided the preference.
	sourceFallback = "fallback"
	// sourceConfig indicates the preference came from user config.
	sourceConfig = "config"
)

// ConfigProvider provides an explicit override for one signal.
type ConfigProvider interface {
	// GetOverride returns the configured value.
	// Expected values: "auto" (or empty), "true"/"false", "dark"/"light",
	// "reduce"/"no-preference".
	GetOverride() string
}

// OverrideFunc adapts a plain function to ConfigProvider.
type OverrideFunc func() string

// GetOverride implements ConfigProvider.
func (f OverrideFunc) GetOverride() string {
	return f()
}

// callbackWrapper wraps a callback function to enable pointer comparison for removal.
type callbackWrapper struct {
	fn func(port.SignalPreference)
}

// Resolver implements port.SystemSignal for one preference.
// It manages multiple detectors and respects config overrides.
type Resolver struct {
	mu        sync.RWMutex
	name      string
	fallback  bool
	config    ConfigProvider
	detectors []port.SignalDetector
	current   port.SignalPreference
	callbacks []*callbackWrapper
}

// NewResolver creates a resolver named name that answers fallback when no
// detector does. config may be nil.
func NewResolver(name string, fallback bool, config ConfigProvider) *Resolver {
	return &Resolver{
		name:      name,
		fallback:  fallback,
		config:    config,
		detectors: make([]port.SignalDetector, 0),
		current: port.SignalPreference{
			Value:  fallback,
			Source: sourceFallback,
		},
	}
}

// Name returns the signal name, e.g. "prefers-dark".
func (r *Resolver) Name() string {
	return r.name
}

// Resolve implements port.SystemSignal. Detectors are queried at call time.
func (r *Resolver) Resolve() port.SignalPreference {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveInternal()
}

// Current is Resolve().Value.
func (r *Resolver) Current() bool {
	return r.Resolve().Value
}

// resolveInternal performs the actual resolution without locking.
// Caller must hold at least a read lock.
func (r *Resolver) resolveInternal() port.SignalPreference {
	if r.config != nil {
		if value, ok := ParseOverride(r.config.GetOverride()); ok {
			return port.SignalPreference{Value: value, Source: sourceConfig}
		}
	}

	sorted := make([]port.SignalDetector, len(r.detectors))
	copy(sorted, r.detectors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})

	for _, detector := range sorted {
		if !detector.Available() {
			continue
		}
		if value, ok := detector.Detect(); ok {
			return port.SignalPreference{Value: value, Source: detector.Name()}
		}
	}

	return port.SignalPreference{Value: r.fallback, Source: sourceFallback}
}

// ParseOverride interprets a configured override. ok is false for "auto",
// empty and unrecognised values, which defer to the detector chain.
func ParseOverride(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1", "dark", "prefer-dark", "reduce":
		return true, true
	case "false", "off", "no", "0", "light", "prefer-light", "no-preference":
		return false, true
	default:
		return false, false
	}
}

// RegisterDetector adds a detector to the chain.
func (r *Resolver) RegisterDetector(detector port.SignalDetector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detectors = append(r.detectors, detector)
}

// Refresh re-resolves and notifies listeners if the value flipped.
func (r *Resolver) Refresh() port.SignalPreference {
	r.mu.Lock()
	newPref := r.resolveInternal()
	changed := newPref.Value != r.current.Value
	r.current = newPref

	if !changed {
		r.mu.Unlock()
		return newPref
	}

	// Copy callbacks to avoid holding lock during callback invocation
	callbacks := make([]*callbackWrapper, len(r.callbacks))
	copy(callbacks, r.callbacks)
	r.mu.Unlock()

	for _, cb := range callbacks {
		cb.fn(newPref)
	}
	return newPref
}

// OnChange implements port.SystemSignal.
func (r *Resolver) OnChange(callback func(port.SignalPreference)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	wrapper := &callbackWrapper{fn: callback}
	r.callbacks = append(r.callbacks, wrapper)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		for i, cb := range r.callbacks {
			if cb == wrapper {
				r.callbacks = append(r.callbacks[:i], r.callbacks[i+1:]...)
				return
			}
		}
	}
}

var _ port.SystemSignal = (*Resolver)(nil)
