package systempref

import (
	"os/exec"
	"strings"
)

const (
	detectorNameGsettings = "gsettings"
	priorityGsettings     = 10
	gnomeInterfaceSchema  = "org.gnome.desktop.interface"
)

// commandRunner runs gsettings with args and returns its stdout.
type commandRunner func(args ...string) ([]byte, error)

func runGsettings(args ...string) ([]byte, error) {
	return exec.Command("gsettings", args...).Output()
}

// GsettingsDetector reads one key of the GNOME interface schema.
type GsettingsDetector struct {
	key   string
	parse func(string) (bool, bool)
	run   commandRunner
}

// NewGsettingsDarkDetector reads color-scheme.
func NewGsettingsDarkDetector() *GsettingsDetector {
	return &GsettingsDetector{key: "color-scheme", parse: parseColorScheme, run: runGsettings}
}

// NewGsettingsMotionDetector reads enable-animations; disabled animations
// mean reduced motion.
func NewGsettingsMotionDetector() *GsettingsDetector {
	return &GsettingsDetector{key: "enable-animations", parse: parseAnimationsDisabled, run: runGsettings}
}

// Name implements port.SignalDetector.
func (*GsettingsDetector) Name() string {
	return detectorNameGsettings
}

// Priority implements port.SignalDetector.
func (*GsettingsDetector) Priority() int {
	return priorityGsettings
}

// Available implements port.SignalDetector.
// Returns true if gsettings command is available.
func (*GsettingsDetector) Available() bool {
	_, err := exec.LookPath("gsettings")
	return err == nil
}

// Detect implements port.SignalDetector.
func (d *GsettingsDetector) Detect() (value, ok bool) {
	output, err := d.run("get", gnomeInterfaceSchema, d.key)
	if err != nil {
		return false, false
	}

	// Output is like "'prefer-dark'\n", strip quotes and whitespace
	result := strings.TrimSpace(string(output))
	result = strings.Trim(result, "'\"")
	return d.parse(result)
}

func parseColorScheme(s string) (bool, bool) {
	switch s {
	case "prefer-dark":
		return true, true
	case "prefer-light":
		return false, true
	default:
		// "default" means follow system, which we can't determine here
		return false, false
	}
}

func parseAnimationsDisabled(s string) (bool, bool) {
	switch s {
	case "false":
		return true, true
	case "true":
		return false, true
	default:
		return false, false
	}
}
