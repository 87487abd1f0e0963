package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/sitetheme/internal/cli/styles"
	"github.com/bnema/sitetheme/internal/domain/entity"
	"github.com/bnema/sitetheme/internal/logging"
)

var setCmd = &cobra.Command{
	Use:   "set <preference> <value>",
	Short: "Change one preference",
	Long: `Change one preference and persist it.

Invalid values never fail: unknown modes and accents fall back to the
defaults, contrast and font size are clamped into range. The accepted value
is printed.

Examples:
  sitetheme set mode dark
  sitetheme set accent teal
  sitetheme set contrast high      # or 0-3
  sitetheme set font 120%
  sitetheme set motion true`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return fieldNames()[:5], cobra.ShellCompDirectiveNoFileComp
		}
		return valueCompletions(args[0]), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	field, err := parseField(args[0])
	if err != nil {
		return err
	}
	update, ok := entity.ParseUpdate(string(field), args[1])
	if !ok {
		return fmt.Errorf("%s cannot be set directly", field)
	}

	before := app.StoreErrors()
	app.Manager.Apply(update)
	state := app.Manager.State()

	logging.FromContext(app.Ctx()).Debug().
		Str("field", string(field)).
		Str("input", args[1]).
		Str("value", state.Value(field)).
		Msg("preference set")

	fmt.Fprint(cmd.OutOrStdout(), styles.NewPreferenceRenderer(app.Theme).RenderValue(state, field))

	if app.StoreErrors() > before {
		return fmt.Errorf("%s applied but not persisted to %s", field, app.Config.Store.Path)
	}
	return nil
}

func valueCompletions(name string) []string {
	field, err := parseField(name)
	if err != nil {
		return nil
	}
	switch field {
	case entity.FieldMode:
		modes := entity.Modes()
		out := make([]string, len(modes))
		for i, m := range modes {
			out[i] = string(m)
		}
		return out
	case entity.FieldColorTheme:
		accents := entity.Accents()
		out := make([]string, len(accents))
		for i, a := range accents {
			out[i] = a.Key
		}
		return out
	case entity.FieldContrastLevel:
		return []string{"normal", "mild", "medium", "high"}
	case entity.FieldFontSize:
		return []string{"80", "90", "100", "110", "120", "130", "140", "150"}
	case entity.FieldReducedMotion:
		return []string{"true", "false"}
	}
	return nil
}
