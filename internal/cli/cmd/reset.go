package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bnema/sitetheme/internal/cli/styles"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default preferences",
	Long: `Restore every preference to its default and remove the stored values.

Reduced motion goes back to following the OS preference.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip confirmation prompt")
}

func runReset(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	if !resetYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to reset without a terminal, use --yes")
		}

		confirm := styles.NewConfirm(app.Theme, "Reset all theme preferences to their defaults?")
		final, err := tea.NewProgram(confirm, tea.WithContext(app.Ctx())).Run()
		if err != nil {
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		if m, ok := final.(styles.ConfirmModel); !ok || !m.Result() {
			fmt.Fprintln(cmd.OutOrStdout(), app.Theme.Subtle.Render("Canceled."))
			return nil
		}
	}

	app.Manager.Reset()
	app.Theme = styles.ThemeFor(app.Manager.State())

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, app.Theme.SuccessStyle.Render(styles.IconCheck+" Preferences reset"))
	fmt.Fprintln(out, styles.NewPreferenceRenderer(app.Theme).Render(app.Manager.State(), app.Manager.ReducedMotionExplicit()))
	return nil
}
