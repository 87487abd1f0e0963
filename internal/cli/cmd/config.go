package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/sitetheme/internal/cli/styles"
	"github.com/bnema/sitetheme/internal/infrastructure/config"
)

var schemaWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long:  `Show where configuration and preferences live, and publish the config schema.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file and preference store locations",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	Long: `Print the JSON schema of config.toml, for editor completion and validation.

With --write the schema is saved as config.schema.json next to the config file.`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSchemaCmd)
	configSchemaCmd.Flags().BoolVarP(&schemaWrite, "write", "w", false, "write next to the config file")
}

// runConfigPath shows the config file and store locations.
func runConfigPath(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	renderer := styles.NewConfigRenderer(app.Theme)
	path := app.ConfigMgr.Path()

	_, statErr := os.Stat(path)
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderError(statErr))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderer.RenderConfigInfo(path, statErr == nil))
	fmt.Fprint(out, renderer.RenderStore(string(app.Config.Store.Backend), app.Config.Store.Path))
	return nil
}

// runConfigSchema runs without an app so a broken config can still be
// checked against the schema.
func runConfigSchema(cmd *cobra.Command, _ []string) error {
	if !schemaWrite {
		data, err := config.Schema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	path := configFile
	if path == "" {
		var err error
		if path, err = config.GetConfigFile(); err != nil {
			return fmt.Errorf("resolve config file: %w", err)
		}
	}
	schemaFile, err := config.WriteSchemaFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", schemaFile)
	return nil
}
