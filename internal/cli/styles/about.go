package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/sitetheme/internal/domain/build"
	"github.com/bnema/sitetheme/internal/domain/entity"
)

// AboutRenderer renders build info and the active theme next to a logo.
type AboutRenderer struct {
	theme *Theme
}

// NewAboutRenderer creates a new about renderer with the given theme.
func NewAboutRenderer(theme *Theme) *AboutRenderer {
	return &AboutRenderer{theme: theme}
}

// aboutLine is one icon/label/value row; an empty label is a spacer.
type aboutLine struct {
	icon, label, value string
}

// Render renders build info and the theme in effect, fastfetch style.
func (r *AboutRenderer) Render(info build.Info, state entity.State) string {
	logo := r.renderLogo(state.Effective)

	rows := []aboutLine{
		{IconVersion, "Version", info.Version},
		{IconGitBranch, "Commit", info.Commit},
		{IconCalendar, "Built", info.BuildDate},
		{IconGo, "Go", info.GoVersion},
		{},
		{r.modeIcon(state.Effective), "Theme", r.themeSummary(state)},
		{IconPalette, "Accent", r.accentSummary(state.ColorAccent)},
		{},
		{IconGithub, build.RepoURL(), ""},
		{IconHeart, "Made with love by", strings.Join(build.Contributors(), ", ")},
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, logo, "   ", r.renderRows(rows))
}

func (r *AboutRenderer) renderRows(rows []aboutLine) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	lines := make([]string, len(rows))
	for i, row := range rows {
		if row.icon == "" {
			continue
		}
		parts := []string{iconStyle.Render(row.icon), r.theme.Subtle.Render(row.label)}
		if row.value != "" {
			parts = append(parts, r.theme.Highlight.Render(row.value))
		}
		lines[i] = strings.Join(parts, " ")
	}
	return strings.Join(lines, "\n")
}

func (*AboutRenderer) themeSummary(state entity.State) string {
	summary := state.Mode.Label()
	if state.Mode != state.Effective {
		summary += " (" + string(state.Effective) + ")"
	}
	return fmt.Sprintf("%s, contrast %s, font %d%%", summary, state.ContrastLevel.Name(), state.FontScalePercent)
}

func (r *AboutRenderer) accentSummary(key string) string {
	accent, ok := entity.LookupAccent(key)
	if !ok {
		accent, _ = entity.LookupAccent(entity.DefaultAccent)
	}
	return r.theme.Swatch(accent.Hex, true) + " " + accent.Name
}

func (*AboutRenderer) modeIcon(effective entity.Mode) string {
	if effective == entity.ModeDark {
		return IconMoon
	}
	return IconSun
}

// renderLogo draws a half sun, half moon; the lit half faces the
// effective mode.
func (r *AboutRenderer) renderLogo(effective entity.Mode) string {
	logoStyle := lipgloss.NewStyle().Foreground(r.theme.Accent).Bold(true)

	logo := `  ▄███▄
 ██▀ ▀░░
██   ░░░░
 ██▄ ▄░░
  ▀███▀`
	if effective == entity.ModeDark {
		logo = `  ▄███▄
 ░░▀ ▀██
░░░░   ██
 ░░▄ ▄██
  ▀███▀`
	}

	return logoStyle.MarginTop(1).MarginLeft(2).Render(logo)
}
