package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/sitetheme/internal/domain/entity"
	"github.com/bnema/sitetheme/internal/infrastructure/config"
	"github.com/bnema/sitetheme/internal/ui/theme"
)

// isolate points every XDG location into a temp dir and writes a config that
// pins the OS signals so results do not depend on the desktop running the
// tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("ENV", "")

	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
[signals]
detectors = ["env"]
prefers_dark = "false"
reduced_motion = "false"

[logging]
level = "error"
`), 0o600))
	return cfg
}

func execute(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()

	// flags keep their values between runs of the shared root command
	resetYes, cssWrite, cssOutput, schemaWrite = false, false, "", false
	panelOpen, panelWriteCSS = false, false
	logLevel = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := rootCmd.Execute()
	closeApp()
	return out.String(), err
}

func TestSetThenGet_Persists(t *testing.T) {
	cfg := isolate(t)

	out, err := execute(t, cfg, "set", "mode", "dark")
	require.NoError(t, err)
	assert.Equal(t, "mode=dark\n", out)

	out, err = execute(t, cfg, "get", "mode")
	require.NoError(t, err)
	assert.Equal(t, "mode=dark\n", out)

	out, err = execute(t, cfg, "get", "effective")
	require.NoError(t, err)
	assert.Equal(t, "effectiveMode=dark\n", out)

	_, err = os.Stat(filepath.Join(os.Getenv("XDG_DATA_HOME"), "sitetheme", "preferences.toml"))
	assert.NoError(t, err)
}

func TestSet_NormalizesInput(t *testing.T) {
	cfg := isolate(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"contrast", "high"}, "contrastLevel=3\n"},
		{[]string{"contrast", "9"}, "contrastLevel=3\n"},
		{[]string{"font", "175"}, "fontSizePercent=150\n"},
		{[]string{"font", "120%"}, "fontSizePercent=120\n"},
		{[]string{"accent", "teal"}, "colorTheme=teal\n"},
		{[]string{"motion", "yes"}, "reducedMotion=true\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, "_"), func(t *testing.T) {
			out, err := execute(t, cfg, append([]string{"set"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSet_UnknownAccentKeepsDefault(t *testing.T) {
	cfg := isolate(t)

	out, err := execute(t, cfg, "set", "accent", "pink")
	require.NoError(t, err)
	assert.Equal(t, "colorTheme=blue\n", out)
}

func TestSet_RejectsUnknownAndDerivedFields(t *testing.T) {
	cfg := isolate(t)

	_, err := execute(t, cfg, "set", "wallpaper", "x")
	assert.ErrorContains(t, err, "unknown preference")

	_, err = execute(t, cfg, "set", "effective", "dark")
	assert.ErrorContains(t, err, "cannot be set")
}

func TestReset_Yes(t *testing.T) {
	cfg := isolate(t)

	_, err := execute(t, cfg, "set", "mode", "light")
	require.NoError(t, err)

	out, err := execute(t, cfg, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Preferences reset")

	out, err = execute(t, cfg, "get", "mode")
	require.NoError(t, err)
	assert.Equal(t, "mode=system\n", out)
}

func TestCSS(t *testing.T) {
	cfg := isolate(t)

	_, err := execute(t, cfg, "set", "accent", "orange")
	require.NoError(t, err)

	out, err := execute(t, cfg, "css")
	require.NoError(t, err)
	assert.Contains(t, out, theme.PropPrimaryColor+": #ea580c;")
	assert.Contains(t, out, `:root[data-theme="dark"]`)

	path := filepath.Join(t.TempDir(), "public", "theme.css")
	out, err = execute(t, cfg, "css", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#ea580c")
}

func TestConfigSchema(t *testing.T) {
	cfg := isolate(t)

	out, err := execute(t, cfg, "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, config.SchemaID)

	out, err = execute(t, cfg, "config", "schema", "--write")
	require.NoError(t, err)
	assert.Contains(t, out, "config.schema.json")
	_, err = os.Stat(filepath.Join(filepath.Dir(cfg), "config.schema.json"))
	assert.NoError(t, err)
}

func TestConfigPath(t *testing.T) {
	cfg := isolate(t)

	out, err := execute(t, cfg, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, cfg)
	assert.Contains(t, out, "preferences.toml")
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in   string
		want entity.Field
	}{
		{"mode", entity.FieldMode},
		{"themeMode", entity.FieldMode},
		{"accent", entity.FieldColorTheme},
		{"colorTheme", entity.FieldColorTheme},
		{"Contrast", entity.FieldContrastLevel},
		{"fontSizePercent", entity.FieldFontSize},
		{"font", entity.FieldFontSize},
		{"motion", entity.FieldReducedMotion},
		{"effectiveMode", entity.FieldEffectiveMode},
	}
	for _, tt := range tests {
		got, err := parseField(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseField("wallpaper")
	assert.Error(t, err)
}

func TestPaletteRows(t *testing.T) {
	rows, err := paletteRows()
	require.NoError(t, err)
	require.Len(t, rows, len(entity.Accents())*3)

	blue := rows[0]
	assert.Equal(t, "Blue", blue.Accent)
	assert.Equal(t, "primary", blue.Variant)
	assert.Equal(t, "#2563eb", blue.Hex)
	assert.GreaterOrEqual(t, blue.OnLight, 4.5)
	assert.Equal(t, "AA", blue.LightGrade)

	for _, r := range rows {
		assert.NotEmpty(t, r.LightGrade)
		assert.NotEmpty(t, r.DarkGrade)
		assert.Greater(t, r.OnLight, 1.0)
		assert.Greater(t, r.OnDark, 1.0)
	}
}

func TestGenDocs_Markdown(t *testing.T) {
	dir := t.TempDir()
	genDocsOutputDir, genDocsFormat = dir, "markdown"
	t.Cleanup(func() { genDocsOutputDir, genDocsFormat = "", "man" })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"gen-docs", "--format", "markdown", "--output", dir})
	require.NoError(t, rootCmd.Execute())

	assert.FileExists(t, filepath.Join(dir, "sitetheme.md"))
	assert.FileExists(t, filepath.Join(dir, "sitetheme_set.md"))
	assert.Contains(t, out.String(), "sitetheme_get.md")
}
