package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/nativeview/internal/cli/styles"
	"github.com/bnema/nativeview/internal/config"
)

var configPathPlain bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long:  `Print the JSON schema of config.toml or the location of the file.`,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of config.toml",
	RunE: func(cmd *cobra.Command, _ []string) error {
		schema, err := config.GenerateSchema()
		if err != nil {
			return fmt.Errorf("generate schema: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configPathCmd)
	configPathCmd.Flags().BoolVar(&configPathPlain, "plain", false, "print only the path")
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	path, exists := app.ConfigPath()
	if configPathPlain {
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewConfigRenderer(app.Theme).RenderPath(path, exists))
	return nil
}
