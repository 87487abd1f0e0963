package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/sitetheme/internal/cli/styles"
)

var getCmd = &cobra.Command{
	Use:   "get [preference]",
	Short: "Show the current preferences",
	Long: `Show every preference, or print a single one as name=value.

Preferences: mode, accent, contrast, font, motion, effective (the light/dark
mode currently rendered).

Examples:
  sitetheme get              # Show all preferences
  sitetheme get mode         # mode=system
  sitetheme get effective    # effectiveMode=dark`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: fieldNames(),
	RunE:      runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	renderer := styles.NewPreferenceRenderer(app.Theme)
	state := app.Manager.State()

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderer.Render(state, app.Manager.ReducedMotionExplicit()))
		return nil
	}

	field, err := parseField(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderer.RenderValue(state, field))
	return nil
}
