package cmd

import (
	"fmt"

	"salereport/app"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all customers, categories, sales reports and audit logs",
	Long: `Remove every record of every company while keeping the companies themselves
and the database file.

Unless --yes is given, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Clear all records (requires interactive confirmation)
  salereport clear

  # Clear without prompting
  salereport clear --yes
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			confirmed, err := confirmPrompt(promptInput, promptOutput, "Remove all records of all companies?")
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("clear aborted: confirmation was not 'Y'")
			}
		}

		return withApp(func(application *app.App) error {
			if err := application.ClearAllData(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All records removed. Companies were kept.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")
}
