package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bnema/sitetheme/internal/infrastructure/systempref"
	"github.com/bnema/sitetheme/internal/logging"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateStore(config)...)
	validationErrors = append(validationErrors, validateAuto(config)...)
	validationErrors = append(validationErrors, validateSignals(config)...)
	validationErrors = append(validationErrors, validateOutput(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	if config.Panel.ClosingDelay < 0 {
		validationErrors = append(validationErrors, "panel.closing_delay must be non-negative")
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateStore(config *Config) []string {
	var validationErrors []string
	switch config.Store.Backend {
	case StoreBackendFile, StoreBackendSQLite, StoreBackendMemory:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("store.backend must be one of file, sqlite, memory (got %q)", config.Store.Backend))
	}
	if config.Store.Backend != StoreBackendMemory && config.Store.Path == "" {
		validationErrors = append(validationErrors, "store.path must not be empty")
	}
	if config.Store.PollInterval <= 0 {
		validationErrors = append(validationErrors, "store.poll_interval must be positive")
	}
	return validationErrors
}

func validateAuto(config *Config) []string {
	var validationErrors []string
	if config.Auto.DayStart < 0 || config.Auto.DayStart > 23 {
		validationErrors = append(validationErrors, "auto.day_start must be between 0 and 23")
	}
	if config.Auto.DayEnd < 1 || config.Auto.DayEnd > 24 {
		validationErrors = append(validationErrors, "auto.day_end must be between 1 and 24")
	}
	if config.Auto.DayStart >= config.Auto.DayEnd {
		validationErrors = append(validationErrors, "auto.day_start must be before auto.day_end")
	}
	if config.Auto.CheckInterval <= 0 {
		validationErrors = append(validationErrors, "auto.check_interval must be positive")
	}
	return validationErrors
}

func validateSignals(config *Config) []string {
	var validationErrors []string
	if config.Signals.PollInterval <= 0 {
		validationErrors = append(validationErrors, "signals.poll_interval must be positive")
	}
	if config.Signals.RecheckDelay < 0 {
		validationErrors = append(validationErrors, "signals.recheck_delay must be non-negative")
	}
	known := systempref.AllDetectors()
	for _, d := range config.Signals.Detectors {
		if !slices.Contains(known, d) {
			validationErrors = append(validationErrors,
				fmt.Sprintf("signals.detectors: unknown detector %q (known: %s)", d, strings.Join(known, ", ")))
		}
	}
	for key, value := range map[string]string{
		"signals.prefers_dark":   config.Signals.PrefersDark,
		"signals.reduced_motion": config.Signals.ReducedMotion,
	} {
		if value == "" {
			continue
		}
		if _, ok := systempref.ParseOverride(value); !ok {
			validationErrors = append(validationErrors, fmt.Sprintf("%s: cannot parse %q as a boolean", key, value))
		}
	}
	slices.Sort(validationErrors)
	return validationErrors
}

func validateOutput(config *Config) []string {
	var validationErrors []string
	if config.Output.Debounce < 0 {
		validationErrors = append(validationErrors, "output.debounce must be non-negative")
	}
	if config.Output.CSSPath == "" {
		validationErrors = append(validationErrors, "output.css_path must not be empty")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if config.Logging.Level != "" && !logging.ValidLevel(config.Logging.Level) {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error, disabled (got %q)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "", "console", "json":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be console or json (got %q)", config.Logging.Format))
	}
	return validationErrors
}
