package systempref

import (
	"strings"
)

// Signal names.
const (
	SignalPrefersDark   = "prefers-dark"
	SignalReducedMotion = "reduced-motion"
)

// Detector family names accepted by NewSignals.
const (
	DetectorPortal    = "portal"
	DetectorGsettings = "gsettings"
	DetectorEnv       = "env"
)

// AllDetectors lists every detector family in registration order.
func AllDetectors() []string {
	return []string{DetectorPortal, DetectorGsettings, DetectorEnv}
}

// Signals bundles the two OS preferences the theme manager follows.
type Signals struct {
	Dark   *Resolver
	Motion *Resolver
}

// NewSignals builds both resolvers with the named detector families.
// An empty list enables all of them. Unknown names are ignored.
// Without any answer the dark signal falls back to light and motion to
// "no preference".
func NewSignals(detectors []string, darkOverride, motionOverride ConfigProvider) *Signals {
	if len(detectors) == 0 {
		detectors = AllDetectors()
	}

	s := &Signals{
		Dark:   NewResolver(SignalPrefersDark, false, darkOverride),
		Motion: NewResolver(SignalReducedMotion, false, motionOverride),
	}

	for _, name := range detectors {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case DetectorPortal:
			s.Dark.RegisterDetector(NewPortalDarkDetector())
			s.Motion.RegisterDetector(NewPortalMotionDetector())
		case DetectorGsettings:
			s.Dark.RegisterDetector(NewGsettingsDarkDetector())
			s.Motion.RegisterDetector(NewGsettingsMotionDetector())
		case DetectorEnv:
			s.Dark.RegisterDetector(NewEnvDetector(EnvPrefersDark))
			s.Dark.RegisterDetector(NewGTKThemeDetector())
			s.Motion.RegisterDetector(NewEnvDetector(EnvReducedMotion))
		}
	}

	return s
}

// Resolvers returns both resolvers, for a Poller.
func (s *Signals) Resolvers() []*Resolver {
	return []*Resolver{s.Dark, s.Motion}
}
