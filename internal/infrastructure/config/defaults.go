package config

import "time"

const (
	defaultStorePollInterval  = 500 * time.Millisecond
	defaultDayStart           = 6
	defaultDayEnd             = 18
	defaultAutoCheckInterval  = time.Minute
	defaultSignalPollInterval = 2 * time.Second
	defaultRecheckDelay       = 50 * time.Millisecond
	defaultOutputDebounce     = 250 * time.Millisecond
	defaultClosingDelay       = 150 * time.Millisecond
)

// DefaultConfig returns the default configuration. Store and output paths are
// left empty and resolved against XDG directories on load.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:      StoreBackendFile,
			PollInterval: defaultStorePollInterval,
		},
		Auto: AutoConfig{
			DayStart:      defaultDayStart,
			DayEnd:        defaultDayEnd,
			CheckInterval: defaultAutoCheckInterval,
		},
		Signals: SignalsConfig{
			PollInterval: defaultSignalPollInterval,
			Detectors:    []string{"portal", "gsettings", "env"},
			RecheckDelay: defaultRecheckDelay,
		},
		Output: OutputConfig{
			Debounce: defaultOutputDebounce,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Panel: PanelConfig{
			ClosingDelay: defaultClosingDelay,
		},
	}
}
