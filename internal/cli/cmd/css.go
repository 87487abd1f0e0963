package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/sitetheme/internal/cli/styles"
	"github.com/bnema/sitetheme/internal/infrastructure/snapshot"
)

var (
	cssWrite  bool
	cssOutput string
)

var cssCmd = &cobra.Command{
	Use:   "css",
	Short: "Print the stylesheet for the current preferences",
	Long: `Print the CSS rendering of the current preferences: custom properties on
the root element, the data attributes and classes as a selector, and the
reduced-motion rules when enabled.

Examples:
  sitetheme css                    # Print to stdout
  sitetheme css --write            # Write to the configured output path
  sitetheme css -o public/theme.css`,
	Args: cobra.NoArgs,
	RunE: runCSS,
}

func init() {
	rootCmd.AddCommand(cssCmd)
	cssCmd.Flags().BoolVarP(&cssWrite, "write", "w", false, "write to the configured output path")
	cssCmd.Flags().StringVarP(&cssOutput, "output", "o", "", "write to this path instead")
}

func runCSS(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	css := app.Document.CSS()

	path := cssOutput
	if path == "" && cssWrite {
		path = app.Config.Output.CSSPath
	}
	if path == "" {
		fmt.Fprint(cmd.OutOrStdout(), css)
		return nil
	}

	if err := snapshot.WriteFile(path, []byte(css)); err != nil {
		return fmt.Errorf("write stylesheet: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), app.Theme.SuccessStyle.Render(styles.IconCheck+" Wrote "+path))
	return nil
}
