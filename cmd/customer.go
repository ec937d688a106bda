package cmd

import (
	"fmt"

	"salereport/app"
	"salereport/ledger"

	"github.com/spf13/cobra"
)

var (
	customerCompany    string
	customerSearch     string
	customerName       string
	customerTallyName  string
	customerGSTNo      string
	customerCategoryID int64
)

var customerCmd = &cobra.Command{
	Use:     "customer",
	Aliases: []string{"customers"},
	Short:   "List, search and maintain the customer master of a company",
	Long: `Each customer maps the name printed on invoices to the ledger name used in Tally.

Customer names are unique per company. A GST number, when given, must be a
15-character GSTIN.`,
	Example: `
  # List customers of company_a
  salereport customer list -c company_a

  # Search by name, tally name, GST number or category
  salereport customer search -c company_a acme

  # Add a customer in category 2
  salereport customer create -c company_a --name "ACME LTD" --tally-name "Acme Limited" --gst 27AAPFU0939F1ZV --category-id 2

  # Clear the GST number of customer 7
  salereport customer update 7 --gst ""
`,
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List or search customers of a company",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCustomers(cmd, customerSearch)
	},
}

var customerSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search customers by name, tally name, GST number or category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCustomers(cmd, args[0])
	},
}

var customerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a customer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCompany(customerCompany, func(application *app.App, company ledger.Company) error {
			id, err := application.CreateCustomer(ledger.CreateCustomerRequest{
				CompanyID:    company.ID,
				CustomerName: customerName,
				TallyName:    customerTallyName,
				GSTNo:        ledger.StringPtr(customerGSTNo),
				CategoryID:   changedInt64(cmd, "category-id", customerCategoryID),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Customer created. ID: %d, Company: %s\n", id, company.Key)
			return nil
		})
	},
}

var customerUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the fields of a customer that are given as flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		request := ledger.UpdateCustomerRequest{
			CustomerName: changedString(cmd, "name", customerName),
			TallyName:    changedString(cmd, "tally-name", customerTallyName),
			GSTNo:        changedString(cmd, "gst", customerGSTNo),
			CategoryID:   changedInt64(cmd, "category-id", customerCategoryID),
		}

		return withApp(func(application *app.App) error {
			updated, err := application.UpdateCustomer(id, request)
			if err != nil {
				return err
			}
			printUpdated(cmd.OutOrStdout(), "Customer", id, updated)
			return nil
		})
	},
}

var customerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a customer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		return withApp(func(application *app.App) error {
			if err := application.DeleteCustomer(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Customer %d deleted.\n", id)
			return nil
		})
	},
}

func listCustomers(cmd *cobra.Command, term string) error {
	return withCompany(customerCompany, func(application *app.App, company ledger.Company) error {
		var (
			customers []ledger.Customer
			err       error
		)
		if term != "" {
			customers, err = application.SearchCustomers(company.ID, term)
		} else {
			customers, err = application.Customers(company.ID)
		}
		if err != nil {
			return err
		}

		tw := newTable(cmd.OutOrStdout(), "ID", "CUSTOMER", "TALLY NAME", "GST NO", "CATEGORY")
		for _, customer := range customers {
			tw.row(customer.ID, customer.CustomerName, customer.TallyName, customer.GSTNo, customer.CategoryName)
		}
		return tw.flush()
	})
}

func init() {
	rootCmd.AddCommand(customerCmd)
	customerCmd.AddCommand(customerListCmd, customerSearchCmd, customerCreateCmd, customerUpdateCmd, customerDeleteCmd)

	for _, c := range []*cobra.Command{customerListCmd, customerSearchCmd, customerCreateCmd} {
		c.Flags().StringVarP(&customerCompany, "company", "c", "", "Company key or id")
		_ = c.MarkFlagRequired("company")
	}
	customerListCmd.Flags().StringVarP(&customerSearch, "search", "s", "", "Case-insensitive search over name, tally name, GST number and category")

	for _, c := range []*cobra.Command{customerCreateCmd, customerUpdateCmd} {
		c.Flags().StringVar(&customerName, "name", "", "Customer name as printed on invoices")
		c.Flags().StringVar(&customerTallyName, "tally-name", "", "Ledger name in Tally")
		c.Flags().StringVar(&customerGSTNo, "gst", "", "GSTIN (empty clears it on update)")
		c.Flags().Int64Var(&customerCategoryID, "category-id", 0, "Category id")
	}
	_ = customerCreateCmd.MarkFlagRequired("name")
	_ = customerCreateCmd.MarkFlagRequired("tally-name")
}
