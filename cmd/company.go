package cmd

import (
	"fmt"

	"salereport/app"
	"salereport/ledger"

	"github.com/spf13/cobra"
)

var (
	companyName string
	companyKey  string
)

var companyCmd = &cobra.Command{
	Use:     "company",
	Aliases: []string{"companies"},
	Short:   "List and maintain companies",
	Long: `Companies scope every customer, category, sales report and audit entry.

The configured companies are seeded into an empty database on first use.
A company key consists of lowercase letters and underscores.`,
	Example: `
  # List companies
  salereport company list

  # Add a company
  salereport company create --name "Company C" --key company_c

  # Rename company 3
  salereport company update 3 --name "Company C Pvt Ltd"
`,
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all companies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			companies, err := application.Companies()
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout(), "ID", "KEY", "NAME", "CREATED")
			for _, company := range companies {
				tw.row(company.ID, company.Key, company.Name, company.CreatedAt)
			}
			return tw.flush()
		})
	},
}

var companyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a company",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			id, err := application.CreateCompany(ledger.CreateCompanyRequest{Name: companyName, Key: companyKey})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Company created. ID: %d, Key: %s\n", id, companyKey)
			return nil
		})
	},
}

var companyUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the name or key of a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		request := ledger.UpdateCompanyRequest{
			Name: changedString(cmd, "name", companyName),
			Key:  changedString(cmd, "key", companyKey),
		}

		return withApp(func(application *app.App) error {
			updated, err := application.UpdateCompany(id, request)
			if err != nil {
				return err
			}
			printUpdated(cmd.OutOrStdout(), "Company", id, updated)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(companyCmd)
	companyCmd.AddCommand(companyListCmd, companyCreateCmd, companyUpdateCmd)

	for _, c := range []*cobra.Command{companyCreateCmd, companyUpdateCmd} {
		c.Flags().StringVar(&companyName, "name", "", "Company display name")
		c.Flags().StringVar(&companyKey, "key", "", "Company key (lowercase letters and underscores)")
	}
	_ = companyCreateCmd.MarkFlagRequired("name")
	_ = companyCreateCmd.MarkFlagRequired("key")
}
