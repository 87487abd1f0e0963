// Package config loads sitetheme settings from TOML, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
	explicit  string
}

// NewManager creates a new configuration manager. configFile overrides the
// XDG location when not empty.
func NewManager(configFile string) (*Manager, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath(configDir)
	}

	// SITETHEME_STORE_BACKEND, SITETHEME_AUTO_DAY_START, ...
	v.SetEnvPrefix("SITETHEME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "SITETHEME_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind SITETHEME_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "SITETHEME_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind SITETHEME_LOG_FORMAT: %w", err)
	}
	if err := v.BindEnv("store.backend", "SITETHEME_STORE"); err != nil {
		return nil, fmt.Errorf("failed to bind SITETHEME_STORE: %w", err)
	}

	return &Manager{
		viper:    v,
		explicit: configFile,
	}, nil
}

// Load loads the configuration from file and environment variables. A
// missing config file is not an error: defaults apply.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.reload()
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.pathLocked(), err)
}

// reload unmarshals, resolves paths, normalizes and validates (lock held).
func (m *Manager) reload() error {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.pathLocked(),
			err,
		)
	}

	normalizeConfig(config)
	if err := resolvePaths(config); err != nil {
		return err
	}
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func resolvePaths(config *Config) error {
	if config.Store.Path == "" {
		path, err := GetStoreFile(config.Store.Backend)
		if err != nil {
			return fmt.Errorf("failed to get store path: %w", err)
		}
		config.Store.Path = path
	}
	if config.Output.CSSPath == "" {
		path, err := GetStylesheetFile()
		if err != nil {
			return fmt.Errorf("failed to get stylesheet path: %w", err)
		}
		config.Output.CSSPath = path
	}
	return nil
}

func normalizeConfig(config *Config) {
	switch StoreBackend(strings.ToLower(strings.TrimSpace(string(config.Store.Backend)))) {
	case "", StoreBackendFile:
		config.Store.Backend = StoreBackendFile
	case StoreBackendSQLite, "sqlite3":
		config.Store.Backend = StoreBackendSQLite
	case StoreBackendMemory:
		config.Store.Backend = StoreBackendMemory
	}

	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "text" {
		config.Logging.Format = "console"
	}

	detectors := make([]string, 0, len(config.Signals.Detectors))
	for _, d := range config.Signals.Detectors {
		// env vars arrive as one comma separated value
		for _, part := range strings.Split(d, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				detectors = append(detectors, part)
			}
		}
	}
	config.Signals.Detectors = detectors

	config.Signals.PrefersDark = strings.TrimSpace(config.Signals.PrefersDark)
	config.Signals.ReducedMotion = strings.TrimSpace(config.Signals.ReducedMotion)

	if config.Store.Path != "" {
		config.Store.Path = filepath.Clean(config.Store.Path)
	}
	if config.Output.CSSPath != "" {
		config.Output.CSSPath = filepath.Clean(config.Output.CSSPath)
	}
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.Signals.Detectors = append([]string(nil), m.config.Signals.Detectors...)
	return &configCopy
}

// Path returns the config file in use, or the one that would be read.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathLocked()
}

func (m *Manager) pathLocked() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	if m.explicit != "" {
		return m.explicit
	}
	path, err := GetConfigFile()
	if err != nil {
		return configFileName
	}
	return path
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("store.backend", string(defaults.Store.Backend))
	m.viper.SetDefault("store.path", defaults.Store.Path)
	m.viper.SetDefault("store.poll_interval", defaults.Store.PollInterval)

	m.viper.SetDefault("auto.day_start", defaults.Auto.DayStart)
	m.viper.SetDefault("auto.day_end", defaults.Auto.DayEnd)
	m.viper.SetDefault("auto.check_interval", defaults.Auto.CheckInterval)

	m.viper.SetDefault("signals.poll_interval", defaults.Signals.PollInterval)
	m.viper.SetDefault("signals.detectors", defaults.Signals.Detectors)
	m.viper.SetDefault("signals.prefers_dark", defaults.Signals.PrefersDark)
	m.viper.SetDefault("signals.reduced_motion", defaults.Signals.ReducedMotion)
	m.viper.SetDefault("signals.recheck_delay", defaults.Signals.RecheckDelay)

	m.viper.SetDefault("output.css_path", defaults.Output.CSSPath)
	m.viper.SetDefault("output.debounce", defaults.Output.Debounce)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	m.viper.SetDefault("panel.closing_delay", defaults.Panel.ClosingDelay)
}
