package config

import "time"

// Config represents the complete configuration for sitetheme.
type Config struct {
	// Store selects where preferences persist.
	Store StoreConfig `mapstructure:"store" yaml:"store" toml:"store" json:"store"`
	// Auto bounds daytime for the auto colour mode.
	Auto AutoConfig `mapstructure:"auto" yaml:"auto" toml:"auto" json:"auto"`
	// Signals controls how OS preferences are detected.
	Signals SignalsConfig `mapstructure:"signals" yaml:"signals" toml:"signals" json:"signals"`
	// Output controls the generated stylesheet.
	Output  OutputConfig  `mapstructure:"output" yaml:"output" toml:"output" json:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" toml:"logging" json:"logging"`
	Panel   PanelConfig   `mapstructure:"panel" yaml:"panel" toml:"panel" json:"panel"`
}

// StoreBackend names a preference store implementation.
type StoreBackend string

const (
	// StoreBackendFile keeps preferences in a TOML file.
	StoreBackendFile StoreBackend = "file"
	// StoreBackendSQLite keeps preferences in a SQLite database.
	StoreBackendSQLite StoreBackend = "sqlite"
	// StoreBackendMemory keeps preferences for the lifetime of the process.
	StoreBackendMemory StoreBackend = "memory"
)

// StoreConfig selects the preference store.
type StoreConfig struct {
	Backend StoreBackend `mapstructure:"backend" yaml:"backend" toml:"backend" json:"backend" jsonschema:"enum=file,enum=sqlite,enum=memory,default=file"`
	// Path of the store file. Empty uses the XDG data directory.
	Path string `mapstructure:"path" yaml:"path" toml:"path" json:"path,omitempty"`
	// PollInterval is how often the sqlite backend checks for writes by
	// other processes.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" toml:"poll_interval" json:"poll_interval"`
}

// AutoConfig bounds daytime for the auto colour mode.
type AutoConfig struct {
	// DayStart is the first daytime hour (0-23).
	DayStart int `mapstructure:"day_start" yaml:"day_start" toml:"day_start" json:"day_start" jsonschema:"minimum=0,maximum=23,default=6"`
	// DayEnd is the first night hour (1-24).
	DayEnd int `mapstructure:"day_end" yaml:"day_end" toml:"day_end" json:"day_end" jsonschema:"minimum=1,maximum=24,default=18"`
	// CheckInterval is how often the clock is re-checked in auto mode.
	CheckInterval time.Duration `mapstructure:"check_interval" yaml:"check_interval" toml:"check_interval" json:"check_interval"`
}

// SignalsConfig controls OS preference detection.
type SignalsConfig struct {
	// PollInterval is how often detectors are re-run to notice OS changes.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" toml:"poll_interval" json:"poll_interval"`
	// Detectors lists the detector families to use (portal, gsettings, env).
	// Empty enables all.
	Detectors []string `mapstructure:"detectors" yaml:"detectors" toml:"detectors" json:"detectors,omitempty"`
	// PrefersDark forces the OS dark preference (true/false, dark/light).
	// Empty lets detectors decide.
	PrefersDark string `mapstructure:"prefers_dark" yaml:"prefers_dark" toml:"prefers_dark" json:"prefers_dark,omitempty"`
	// ReducedMotion forces the OS reduced-motion preference.
	ReducedMotion string `mapstructure:"reduced_motion" yaml:"reduced_motion" toml:"reduced_motion" json:"reduced_motion,omitempty"`
	// RecheckDelay collapses bursts of OS and clock notifications.
	RecheckDelay time.Duration `mapstructure:"recheck_delay" yaml:"recheck_delay" toml:"recheck_delay" json:"recheck_delay"`
}

// OutputConfig controls the generated stylesheet.
type OutputConfig struct {
	// CSSPath is where `sitetheme watch` writes the stylesheet. Empty uses
	// the XDG data directory.
	CSSPath string `mapstructure:"css_path" yaml:"css_path" toml:"css_path" json:"css_path,omitempty"`
	// Debounce collapses bursts of changes into one write.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" toml:"debounce" json:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled,default=info"`
	Format string `mapstructure:"format" yaml:"format" toml:"format" json:"format,omitempty" jsonschema:"enum=console,enum=json"`
}

// PanelConfig controls the settings panel.
type PanelConfig struct {
	// ClosingDelay is the length of the closing transition.
	ClosingDelay time.Duration `mapstructure:"closing_delay" yaml:"closing_delay" toml:"closing_delay" json:"closing_delay"`
}
