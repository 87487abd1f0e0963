package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every XDG directory into a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, "file", mgr.viper.GetString("store.backend"))
	assert.Equal(t, 6, mgr.viper.GetInt("auto.day_start"))
	assert.Equal(t, 18, mgr.viper.GetInt("auto.day_end"))
	assert.Equal(t, time.Minute, mgr.viper.GetDuration("auto.check_interval"))
	assert.Equal(t, []string{"portal", "gsettings", "env"}, mgr.viper.GetStringSlice("signals.detectors"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := isolate(t)

	mgr, err := NewManager("")
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, StoreBackendFile, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "data", "sitetheme", "preferences.toml"), cfg.Store.Path)
	assert.Equal(t, filepath.Join(dir, "data", "sitetheme", "theme.css"), cfg.Output.CSSPath)
	assert.Equal(t, filepath.Join(dir, "config", "sitetheme", "config.toml"), mgr.Path())
	assert.Equal(t, 150*time.Millisecond, cfg.Panel.ClosingDelay)
}

func TestLoad_ReadsTOML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeConfig(t, path, `
[store]
backend = "SQLite"

[auto]
day_start = 7
day_end = 20
check_interval = "30s"

[signals]
detectors = ["env"]
prefers_dark = "dark"

[logging]
level = "DEBUG"
format = "text"
`)

	mgr, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, StoreBackendSQLite, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "data", "sitetheme", "preferences.sqlite"), cfg.Store.Path)
	assert.Equal(t, 7, cfg.Auto.DayStart)
	assert.Equal(t, 20, cfg.Auto.DayEnd)
	assert.Equal(t, 30*time.Second, cfg.Auto.CheckInterval)
	assert.Equal(t, []string{"env"}, cfg.Signals.Detectors)
	assert.Equal(t, "dark", cfg.Signals.PrefersDark)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, path, mgr.Path())
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SITETHEME_STORE", "memory")
	t.Setenv("SITETHEME_AUTO_DAY_END", "21")
	t.Setenv("SITETHEME_LOG_LEVEL", "warn")

	mgr, err := NewManager("")
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Empty(t, cfg.Store.Path)
	assert.Equal(t, 21, cfg.Auto.DayEnd)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.toml")
	writeConfig(t, path, `
[store]
backend = "redis"

[auto]
day_start = 20
day_end = 8
`)

	mgr, err := NewManager(path)
	require.NoError(t, err)
	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
	assert.Contains(t, err.Error(), "auto.day_start must be before auto.day_end")
}

func TestLoad_BrokenTOML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "broken.toml")
	writeConfig(t, path, "[store\nbackend = ")

	mgr, err := NewManager(path)
	require.NoError(t, err)
	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestGet_ReturnsCopy(t *testing.T) {
	isolate(t)
	mgr, err := NewManager("")
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Signals.Detectors[0] = "mutated"
	cfg.Auto.DayStart = 3

	assert.Equal(t, "portal", mgr.Get().Signals.Detectors[0])
	assert.Equal(t, 6, mgr.Get().Auto.DayStart)
}

func TestGet_BeforeLoad(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestNormalizeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Backend = " SQLITE3 "
	cfg.Signals.Detectors = []string{"Portal, env", " "}
	cfg.Logging.Format = "TEXT"

	normalizeConfig(cfg)

	assert.Equal(t, StoreBackendSQLite, cfg.Store.Backend)
	assert.Equal(t, []string{"portal", "env"}, cfg.Signals.Detectors)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestWatch_ReloadsOnEdit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "watched.toml")
	writeConfig(t, path, "[auto]\nday_start = 7\n")

	mgr, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())
	require.NoError(t, mgr.Watch(context.Background()))
	require.NoError(t, mgr.Watch(context.Background()), "second watch is a no-op")

	var (
		mu   sync.Mutex
		seen []int
	)
	mgr.OnConfigChange(func(c *Config) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, c.Auto.DayStart)
	})

	writeConfig(t, path, "[auto]\nday_start = 8\n")

	// A rewrite can surface as several events, some seeing a truncated file.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == 8
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 8, mgr.Get().Auto.DayStart)
}
