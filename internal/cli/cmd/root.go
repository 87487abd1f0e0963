// Package cmd provides Cobra CLI commands for sitetheme.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/sitetheme/internal/cli"
	"github.com/bnema/sitetheme/internal/domain/build"
)

// annotationLive marks commands that keep running and follow changes made
// by other processes.
const annotationLive = "sitetheme/live"

var (
	app        *cli.App
	buildInfo  build.Info
	configFile string
	logLevel   string
	rootCmd    = &cobra.Command{
		Use:   "sitetheme",
		Short: "Manage light/dark mode, accent colour, contrast, font size and motion preferences",
		Long: `Sitetheme - a theme preference manager for static sites.

It keeps five visual preferences and renders them as attributes, classes and
custom properties of a document root:

  - Mode: light, dark, auto (follows the clock) or system (follows the OS)
  - Colour accent from a fixed palette
  - Contrast level from normal to high
  - Font size from 80% to 150%
  - Reduced motion, following the OS until set explicitly

Preferences persist in a TOML file or SQLite database and every running
sitetheme process follows changes made by the others.

Use 'sitetheme panel' for the interactive settings panel, or 'sitetheme watch'
to keep a stylesheet up to date for your site.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp(commandContext(cmd), cli.Options{
				ConfigFile: configFile,
				LogLevel:   logLevel,
				Live:       cmd.Annotations[annotationLive] == "true",
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			closeApp()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/sitetheme/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// closeApp releases the app. Cobra skips PersistentPostRun when RunE fails,
// so Execute calls it too.
func closeApp() {
	if app != nil {
		_ = app.Close()
		app = nil
	}
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	closeApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

func requireApp() (*cli.App, error) {
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
