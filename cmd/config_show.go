package cmd

import (
	"fmt"
	"io"

	"salereport/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Values come from the
config file, SALEREPORT_* environment variables, flags and built-in defaults.`,
	Example: `
  # Show active configuration
  salereport config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		return printConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), cfg)
	},
}

func printConfig(out io.Writer, source string, cfg *config.Config) error {
	if source == "" {
		source = "(none, built-in defaults)"
	}
	fmt.Fprintln(out, "Config file loaded from:", source)
	fmt.Fprintln(out, "Configuration:")

	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	_, err = out.Write(content)
	return err
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
