package theme

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/domain/entity"
)

// Document attribute names.
const (
	AttrTheme         = "data-theme"
	AttrThemeMode     = "data-theme-mode"
	AttrColorTheme    = "data-color-theme"
	AttrContrast      = "data-contrast"
	AttrFontSize      = "data-font-size"
	AttrReducedMotion = "data-reduced-motion"
)

// Document classes; exactly one is enabled at a time.
const (
	ClassLightMode = "light-mode"
	ClassDarkMode  = "dark-mode"
)

// Document properties.
const (
	PropColorScheme         = "color-scheme"
	PropPrimaryColor        = "--primary-color"
	PropPrimaryRGB          = "--primary-rgb"
	PropPrimaryDark         = "--primary-dark"
	PropPrimaryLight        = "--primary-light"
	PropFontScale           = "--font-scale"
	PropFontSizePercent     = "--font-size-percent"
	PropContrastLevel       = "--contrast-level"
	PropMotionDurationScale = "--motion-duration-scale"
)

// RootDocument is an in-memory port.Document that can render itself as a
// stylesheet. It is safe for concurrent use.
type RootDocument struct {
	mu         sync.RWMutex
	attributes map[string]string
	properties map[string]string
	classes    map[string]bool
	version    uint64
}

// NewRootDocument returns an empty document.
func NewRootDocument() *RootDocument {
	return &RootDocument{
		attributes: make(map[string]string),
		properties: make(map[string]string),
		classes:    make(map[string]bool),
	}
}

// SetAttribute implements port.Document.
func (d *RootDocument) SetAttribute(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.attributes[name] != value {
		d.attributes[name] = value
		d.version++
	}
}

// SetProperty implements port.Document.
func (d *RootDocument) SetProperty(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.properties[name] != value {
		d.properties[name] = value
		d.version++
	}
}

// SetClass implements port.Document.
func (d *RootDocument) SetClass(name string, enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.classes[name] == enabled {
		return
	}
	if enabled {
		d.classes[name] = true
	} else {
		delete(d.classes, name)
	}
	d.version++
}

// Attribute returns one attribute value.
func (d *RootDocument) Attribute(name string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.attributes[name]
}

// Property returns one property value.
func (d *RootDocument) Property(name string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.properties[name]
}

// HasClass reports whether a class is enabled.
func (d *RootDocument) HasClass(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.classes[name]
}

// Attributes returns a copy of every attribute.
func (d *RootDocument) Attributes() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.attributes)
}

// Classes returns the enabled classes, sorted.
func (d *RootDocument) Classes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.classes))
}

// Version increases on every effective mutation.
func (d *RootDocument) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// RootTag renders the opening <html> tag carrying attributes and classes.
func (d *RootDocument) RootTag() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString("<html")
	for _, name := range slices.Sorted(maps.Keys(d.attributes)) {
		fmt.Fprintf(&sb, " %s=%q", name, d.attributes[name])
	}
	if len(d.classes) > 0 {
		fmt.Fprintf(&sb, " class=%q", strings.Join(slices.Sorted(maps.Keys(d.classes)), " "))
	}
	sb.WriteString(">")
	return sb.String()
}

// CSS renders the root properties plus the light and dark surface palettes
// adjusted for the current contrast level.
func (d *RootDocument) CSS() string {
	d.mu.RLock()
	props := maps.Clone(d.properties)
	d.mu.RUnlock()

	level := entity.ContrastNormal
	if n, err := strconv.Atoi(props[PropContrastLevel]); err == nil {
		level = entity.ClampContrast(n)
	}

	var sb strings.Builder
	sb.WriteString(":root {\n")
	for _, name := range slices.Sorted(maps.Keys(props)) {
		sb.WriteString("  " + name + ": " + props[name] + ";\n")
	}
	sb.WriteString("}\n\n")

	fmt.Fprintf(&sb, ":root[%s=%q] {\n%s}\n\n", AttrTheme, entity.ModeLight,
		DefaultLightPalette().WithContrast(level).ToCSSVars())
	fmt.Fprintf(&sb, ":root[%s=%q] {\n%s}\n\n", AttrTheme, entity.ModeDark,
		DefaultDarkPalette().WithContrast(level).ToCSSVars())

	sb.WriteString(generateMotionCSS())
	return sb.String()
}

func generateMotionCSS() string {
	return fmt.Sprintf(`:root[%s="true"] *,
:root[%s="true"] *::before,
:root[%s="true"] *::after {
  animation-duration: calc(1ms * var(%s)) !important;
  transition-duration: calc(1ms * var(%s)) !important;
  scroll-behavior: auto !important;
}
`, AttrReducedMotion, AttrReducedMotion, AttrReducedMotion, PropMotionDurationScale, PropMotionDurationScale)
}

// discardDocument is used when no document is attached.
type discardDocument struct{}

func (discardDocument) SetAttribute(string, string) {}
func (discardDocument) SetProperty(string, string)  {}
func (discardDocument) SetClass(string, bool)       {}

var (
	_ port.Document = (*RootDocument)(nil)
	_ port.Document = discardDocument{}
)
