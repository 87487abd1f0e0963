package systempref

import (
	"os"
	"strings"
)

const (
	priorityEnvOverride = 50
	priorityGTKTheme    = 20

	// EnvPrefersDark forces the dark signal ("1", "true", "dark", ...).
	EnvPrefersDark = "SITETHEME_PREFERS_DARK"
	// EnvReducedMotion forces the reduced-motion signal.
	EnvReducedMotion = "SITETHEME_REDUCED_MOTION"
)

// EnvDetector reads a preference from an environment variable.
type EnvDetector struct {
	variable string
	priority int
	parse    func(string) (bool, bool)
	lookup   func(string) (string, bool)
}

// NewEnvDetector reads variable as an override value (see ParseOverride).
func NewEnvDetector(variable string) *EnvDetector {
	return &EnvDetector{
		variable: variable,
		priority: priorityEnvOverride,
		parse:    ParseOverride,
		lookup:   os.LookupEnv,
	}
}

// NewGTKThemeDetector treats a GTK_THEME naming a dark variant as a dark preference.
func NewGTKThemeDetector() *EnvDetector {
	return &EnvDetector{
		variable: "GTK_THEME",
		priority: priorityGTKTheme,
		parse: func(s string) (bool, bool) {
			return strings.Contains(strings.ToLower(s), "dark"), true
		},
		lookup: os.LookupEnv,
	}
}

// Name implements port.SignalDetector.
func (d *EnvDetector) Name() string {
	return d.variable
}

// Priority implements port.SignalDetector.
func (d *EnvDetector) Priority() int {
	return d.priority
}

// Available implements port.SignalDetector.
// Returns true if the variable is set and non-empty.
func (d *EnvDetector) Available() bool {
	v, ok := d.lookup(d.variable)
	return ok && v != ""
}

// Detect implements port.SignalDetector.
func (d *EnvDetector) Detect() (value, ok bool) {
	v, set := d.lookup(d.variable)
	if !set || v == "" {
		return false, false
	}
	return d.parse(v)
}

// StaticDetector always answers the same value. Useful as a lowest-priority
// floor and in tests.
type StaticDetector struct {
	Value bool
}

// Name implements port.SignalDetector.
func (StaticDetector) Name() string { return "static" }

// Priority implements port.SignalDetector.
func (StaticDetector) Priority() int { return 0 }

// Available implements port.SignalDetector.
func (StaticDetector) Available() bool { return true }

// Detect implements port.SignalDetector.
func (d StaticDetector) Detect() (bool, bool) { return d.Value, true }
