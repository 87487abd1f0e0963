package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefaults() *Config {
	cfg := DefaultConfig()
	cfg.Store.Path = "/tmp/preferences.toml"
	cfg.Output.CSSPath = "/tmp/theme.css"
	return cfg
}

func TestValidateConfig_Defaults(t *testing.T) {
	require.NoError(t, validateConfig(validDefaults()))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"file without path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"memory without path", func(c *Config) { c.Store.Backend = StoreBackendMemory; c.Store.Path = "" }, ""},
		{"store poll", func(c *Config) { c.Store.PollInterval = 0 }, "store.poll_interval"},
		{"day start range", func(c *Config) { c.Auto.DayStart = 24 }, "auto.day_start must be between"},
		{"day end range", func(c *Config) { c.Auto.DayEnd = 0 }, "auto.day_end must be between"},
		{"inverted window", func(c *Config) { c.Auto.DayStart, c.Auto.DayEnd = 19, 7 }, "before auto.day_end"},
		{"full day", func(c *Config) { c.Auto.DayStart, c.Auto.DayEnd = 0, 24 }, ""},
		{"check interval", func(c *Config) { c.Auto.CheckInterval = -time.Second }, "auto.check_interval"},
		{"signal poll", func(c *Config) { c.Signals.PollInterval = 0 }, "signals.poll_interval"},
		{"unknown detector", func(c *Config) { c.Signals.Detectors = []string{"dbus"} }, `unknown detector "dbus"`},
		{"dark override", func(c *Config) { c.Signals.PrefersDark = "sometimes" }, "signals.prefers_dark"},
		{"motion override", func(c *Config) { c.Signals.ReducedMotion = "reduce" }, ""},
		{"debounce", func(c *Config) { c.Output.Debounce = -1 }, "output.debounce"},
		{"css path", func(c *Config) { c.Output.CSSPath = "" }, "output.css_path"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"closing delay", func(c *Config) { c.Panel.ClosingDelay = -1 }, "panel.closing_delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
