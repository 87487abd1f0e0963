package styles_test

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/sitetheme/internal/cli/styles"
	"github.com/bnema/sitetheme/internal/domain/build"
	"github.com/bnema/sitetheme/internal/domain/entity"
	"github.com/bnema/sitetheme/internal/ui/theme"
)

func darkState() entity.State {
	p := entity.Defaults(false)
	p.Mode = entity.ModeDark
	p.ColorAccent = "green"
	return entity.State{PreferenceSet: p, Effective: entity.ModeDark}
}

func TestThemeFor_UsesEffectivePaletteAndAccent(t *testing.T) {
	th := styles.ThemeFor(darkState())

	assert.Equal(t, lipgloss.Color(theme.DefaultDarkPalette().Background), th.Background)
	assert.Equal(t, lipgloss.Color("#059669"), th.Accent)
}

func TestThemeFor_UnknownAccentFallsBack(t *testing.T) {
	s := darkState()
	s.ColorAccent = "chartreuse"

	th := styles.ThemeFor(s)
	assert.Equal(t, lipgloss.Color("#2563eb"), th.Accent)
}

func TestPreferenceRenderer(t *testing.T) {
	r := styles.NewPreferenceRenderer(styles.ThemeFor(darkState()))

	s := darkState()
	s.Mode = entity.ModeAuto
	out := r.Render(s, true)
	require.Contains(t, out, "Mode")
	require.Contains(t, out, "Green")
	require.Contains(t, out, "(dark)")
	require.Contains(t, out, "100%")
	require.Contains(t, out, "explicit")

	assert.Equal(t, "fontSizePercent=100\n", r.RenderValue(s, entity.FieldFontSize))
	assert.Equal(t, "effectiveMode=dark\n", r.RenderValue(s, entity.FieldEffectiveMode))
}

func TestConfigRenderer(t *testing.T) {
	r := styles.NewConfigRenderer(styles.ThemeFor(darkState()))

	out := r.RenderConfigInfo("/tmp/sitetheme/config.toml", false)
	require.Contains(t, out, "config.toml")
	require.Contains(t, out, "defaults")

	require.NotContains(t, r.RenderConfigInfo("/tmp/config.toml", true), "defaults")
	require.Contains(t, r.RenderStore("sqlite", "/tmp/prefs.db"), "prefs.db")
	require.Contains(t, r.RenderError(errors.New("boom")), "boom")
}

func TestAboutRenderer(t *testing.T) {
	r := styles.NewAboutRenderer(styles.ThemeFor(darkState()))
	out := r.Render(build.Info{Version: "v1.2.3", Commit: "abc123", BuildDate: "today", GoVersion: "go1.25"}, darkState())

	require.Contains(t, out, "v1.2.3")
	require.Contains(t, out, "abc123")
	require.Contains(t, out, "github.com/bnema/sitetheme")
	require.Contains(t, out, "Green")
	require.Contains(t, out, "contrast normal, font 100%")

	s := darkState()
	s.Mode = entity.ModeAuto
	require.Contains(t, r.Render(build.Info{}, s), "(dark)")
}

func TestPaletteRow_ToRow(t *testing.T) {
	row := styles.PaletteRow{
		Accent: "blue", Variant: "primary", Hex: "#2563eb",
		OnLight: 5.172, LightGrade: "AA", OnDark: 3.9, DarkGrade: "AA Large",
	}

	assert.Equal(t, []string{"blue", "primary", "#2563eb", "5.17 AA", "3.90 AA Large"}, []string(row.ToRow()))
	assert.Len(t, styles.PaletteTableColumns(), len(row.ToRow()))
}

func TestConfirmModel(t *testing.T) {
	th := styles.ThemeFor(darkState())

	t.Run("defaults to no", func(t *testing.T) {
		m := styles.NewConfirm(th, "Reset?")
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		c := next.(styles.ConfirmModel)
		assert.True(t, c.Done())
		assert.False(t, c.Result())
		assert.NotNil(t, cmd)
	})

	t.Run("arrow then enter", func(t *testing.T) {
		m := styles.NewConfirm(th, "Reset?")
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
		assert.Nil(t, cmd)
		require.Contains(t, next.View(), "Reset?")
		next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.True(t, next.(styles.ConfirmModel).Result())
	})

	t.Run("y answers", func(t *testing.T) {
		m := styles.NewConfirm(th, "Reset?")
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
		assert.True(t, next.(styles.ConfirmModel).Result())
	})

	t.Run("esc cancels", func(t *testing.T) {
		m := styles.NewConfirm(th, "Reset?")
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		c := next.(styles.ConfirmModel)
		assert.True(t, c.Canceled)
		assert.False(t, c.Result())
		assert.Empty(t, c.View())
	})
}
