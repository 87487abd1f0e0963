package systempref

import (
	"github.com/rymdport/portal/settings"
)

const (
	appearanceNamespace = "org.freedesktop.appearance"
	priorityPortal      = 100
)

// settingsReader matches settings.ReadOne.
type settingsReader func(namespace, key string) (any, error)

// PortalDetector reads org.freedesktop.appearance through the XDG desktop portal.
type PortalDetector struct {
	name  string
	key   string
	read  settingsReader
	match uint32
}

// NewPortalDarkDetector reads color-scheme (1 = prefer dark, 2 = prefer light).
func NewPortalDarkDetector() *PortalDetector {
	return &PortalDetector{name: "portal", key: "color-scheme", read: settings.ReadOne, match: 1}
}

// NewPortalMotionDetector reads reduced-motion (1 = reduce).
func NewPortalMotionDetector() *PortalDetector {
	return &PortalDetector{name: "portal", key: "reduced-motion", read: settings.ReadOne, match: 1}
}

// Name implements port.SignalDetector.
func (d *PortalDetector) Name() string {
	return d.name
}

// Priority implements port.SignalDetector.
func (*PortalDetector) Priority() int {
	return priorityPortal
}

// Available implements port.SignalDetector. Reachability is only known by
// asking, so unreachable portals surface as failed detections.
func (*PortalDetector) Available() bool {
	return true
}

// Detect implements port.SignalDetector. A value of 0 means "no preference"
// and defers to lower priority detectors.
func (d *PortalDetector) Detect() (value, ok bool) {
	raw, err := d.read(appearanceNamespace, d.key)
	if err != nil {
		return false, false
	}

	result, isUint := raw.(uint32)
	if !isUint || result == 0 {
		return false, false
	}
	return result == d.match, true
}
