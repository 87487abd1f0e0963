package port

// SignalPreference is the resolved value of an OS-level boolean preference such
// as "prefers dark colour scheme" or "prefers reduced motion".
type SignalPreference struct {
	// Value is the resolved preference.
	Value bool

	// Source identifies which detector provided this preference.
	// "fallback" means no detector answered.
	Source string
}

// SignalDetector detects one OS preference from one source.
// Multiple detectors can be registered with different priorities.
type SignalDetector interface {
	// Name returns a human-readable name for this detector.
	Name() string

	// Priority returns the detector's priority.
	// Higher values = higher priority (checked first).
	// Recommended ranges:
	//   - 100+: Desktop portal
	//   -  50+: Explicit environment overrides
	//   -  10+: Fallback detectors (gsettings, GTK_THEME)
	Priority() int

	// Available returns true if this detector can be used.
	Available() bool

	// Detect returns the detected preference and whether detection succeeded.
	// Returns (value, true) on success, (_, false) if detection failed.
	Detect() (value bool, ok bool)
}

// SystemSignal is a live OS preference, the equivalent of a CSS media query.
type SystemSignal interface {
	// Resolve reads the preference at call time.
	Resolve() SignalPreference

	// OnChange registers a callback invoked when the preference flips.
	// Returns a function to unregister the callback.
	OnChange(callback func(SignalPreference)) func()
}
