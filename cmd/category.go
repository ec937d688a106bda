package cmd

import (
	"fmt"

	"salereport/app"
	"salereport/ledger"

	"github.com/spf13/cobra"
)

var (
	categoryCompany     string
	categoryName        string
	categoryDescription string
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "List and maintain customer categories of a company",
	Long: `Categories group customers of one company. Category names are unique per company.

Deleting a category keeps its customers and clears their category.`,
	Example: `
  # List categories of company_a
  salereport category list -c company_a

  # Add a category
  salereport category create -c company_a --name Dealers --description "Registered dealers"

  # Clear the description of category 4
  salereport category update 4 --description ""

  # Delete category 4
  salereport category delete 4
`,
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories of a company",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCompany(categoryCompany, func(application *app.App, company ledger.Company) error {
			categories, err := application.Categories(company.ID)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "DESCRIPTION", "CREATED")
			for _, category := range categories {
				tw.row(category.ID, category.Name, category.Description, category.CreatedAt)
			}
			return tw.flush()
		})
	},
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCompany(categoryCompany, func(application *app.App, company ledger.Company) error {
			id, err := application.CreateCategory(ledger.CreateCategoryRequest{
				CompanyID:   company.ID,
				Name:        categoryName,
				Description: ledger.StringPtr(categoryDescription),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category created. ID: %d, Company: %s\n", id, company.Key)
			return nil
		})
	},
}

var categoryUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename a category or change its description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		request := ledger.UpdateCategoryRequest{
			Name:        changedString(cmd, "name", categoryName),
			Description: changedString(cmd, "description", categoryDescription),
		}

		return withApp(func(application *app.App) error {
			updated, err := application.UpdateCategory(id, request)
			if err != nil {
				return err
			}
			printUpdated(cmd.OutOrStdout(), "Category", id, updated)
			return nil
		})
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		return withApp(func(application *app.App) error {
			if err := application.DeleteCategory(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %d deleted.\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryListCmd, categoryCreateCmd, categoryUpdateCmd, categoryDeleteCmd)

	for _, c := range []*cobra.Command{categoryListCmd, categoryCreateCmd} {
		c.Flags().StringVarP(&categoryCompany, "company", "c", "", "Company key or id")
		_ = c.MarkFlagRequired("company")
	}
	for _, c := range []*cobra.Command{categoryCreateCmd, categoryUpdateCmd} {
		c.Flags().StringVar(&categoryName, "name", "", "Category name")
		c.Flags().StringVar(&categoryDescription, "description", "", "Category description (empty clears it on update)")
	}
	_ = categoryCreateCmd.MarkFlagRequired("name")
}
