package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/sitetheme/internal/domain/entity"
)

// PreferenceRenderer renders the current preference state.
type PreferenceRenderer struct {
	theme *Theme
}

// NewPreferenceRenderer creates a new preference renderer with the given theme.
func NewPreferenceRenderer(theme *Theme) *PreferenceRenderer {
	return &PreferenceRenderer{theme: theme}
}

// Render lists every preference with its current value. motionExplicit marks
// whether reduced motion was chosen by the user or follows the OS.
func (r *PreferenceRenderer) Render(state entity.State, motionExplicit bool) string {
	keyStyle := r.theme.Subtle.Width(16)
	valStyle := r.theme.Highlight
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	modeIcon := IconSun
	if state.Effective == entity.ModeDark {
		modeIcon = IconMoon
	}
	mode := valStyle.Render(state.Mode.Label())
	if state.Mode != state.Effective {
		mode += r.theme.Subtle.Render(fmt.Sprintf(" (%s)", state.Effective))
	}

	accent, _ := entity.LookupAccent(state.ColorAccent)
	motionSource := "system"
	if motionExplicit {
		motionSource = "explicit"
	}

	lines := []string{
		fmt.Sprintf("%s %s %s", iconStyle.Render(modeIcon), keyStyle.Render("Mode"), mode),
		fmt.Sprintf("%s %s %s %s", iconStyle.Render(IconPalette), keyStyle.Render("Accent"),
			r.theme.Swatch(accent.Hex, false), valStyle.Render(accent.Name)),
		fmt.Sprintf("  %s %s", keyStyle.Render("Contrast"),
			valStyle.Render(fmt.Sprintf("%s (%d)", state.ContrastLevel.Name(), state.ContrastLevel))),
		fmt.Sprintf("  %s %s", keyStyle.Render("Font size"),
			valStyle.Render(fmt.Sprintf("%d%%", state.FontScalePercent))),
		fmt.Sprintf("  %s %s %s", keyStyle.Render("Reduced motion"),
			valStyle.Render(fmt.Sprintf("%t", state.ReducedMotion)), r.theme.Subtle.Render(motionSource)),
	}

	return strings.Join(lines, "\n") + "\n"
}

// RenderValue renders a single field for scripting: plain "field=value".
func (*PreferenceRenderer) RenderValue(state entity.State, field entity.Field) string {
	return fmt.Sprintf("%s=%s\n", field, state.Value(field))
}
