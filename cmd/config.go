package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage salereport configuration file values.",
	Long: `Create, edit, display, and delete the salereport configuration file.

The configuration stores application-wide values:
- database.path
- import.strict_dates / import.year_codes
- server.port
- log.level
- companies[].name+key (seeded into an empty database)`,
	Example: `
  # Create default config in $HOME/.salereport.yaml
  salereport config create

  # Show active config and source file
  salereport config show

  # Open active config in editor (creates example if missing)
  salereport config edit

  # Delete active config file
  salereport config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
