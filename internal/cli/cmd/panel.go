package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bnema/sitetheme/internal/logging"
	"github.com/bnema/sitetheme/internal/ui/settings"
)

var (
	panelOpen     bool
	panelWriteCSS bool
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive settings panel",
	Long: `Open the settings panel in the terminal.

Press s (or click "Settings") to open and close the panel, move with the
arrow keys or tab, change the focused control with left/right and activate
buttons with enter. Changes made elsewhere while the panel is open show up
immediately.

With --write-css the stylesheet is kept up to date while the panel runs.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationLive: "true"},
	RunE:        runPanel,
}

func init() {
	rootCmd.AddCommand(panelCmd)
	panelCmd.Flags().BoolVarP(&panelOpen, "open", "o", false, "start with the panel expanded")
	panelCmd.Flags().BoolVarP(&panelWriteCSS, "write-css", "w", false, "keep the stylesheet up to date while running")
}

func runPanel(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	ctx := app.Ctx()

	if panelWriteCSS {
		follower, err := followStylesheet(ctx, app)
		if err != nil {
			return err
		}
		defer func() {
			if err := follower.stop(context.WithoutCancel(ctx)); err != nil {
				logging.FromContext(ctx).Error().Err(err).Msg("failed to write stylesheet")
			}
		}()
	}

	opts := []settings.Option{settings.WithClosingDelay(app.Config.Panel.ClosingDelay)}
	if panelOpen {
		opts = append(opts, settings.WithStartOpen())
	}
	return settings.Run(ctx, app.Manager, opts...)
}
