package cmd

import (
	"fmt"

	"salereport/app"
	"salereport/ledger"

	"github.com/spf13/cobra"
)

var (
	salesCompany  string
	salesPage     int
	salesPageSize int
	salesFilters  ledger.SalesReportFilters
	salesMinAmt   float64
	salesMaxAmt   float64
	salesFields   salesReportFields
)

// salesReportFields backs the flags shared by create and update.
type salesReportFields struct {
	custCode, custName, invDate, reCode, invNo string
	partCode, partName, tariff, igstYesNo      string
	qty, basPrice, assVal, cgst, sgst, igst    float64
	amot, invVal, percentage                   float64
}

var salesCmd = &cobra.Command{
	Use:     "sales",
	Aliases: []string{"sales-reports"},
	Short:   "Browse, search and maintain sales report lines of a company",
	Long: `Sales report lines hold one invoice each. Invoice numbers are unique per company.

"list" pages through the lines newest first and supports filters on the invoice
date range, customer, invoice number and invoice value.`,
	Example: `
  # First page of March 2024
  salereport sales list -c company_a --from 2024-03-01 --to 2024-03-31

  # Third page, 20 rows per page, invoices of at least 10000
  salereport sales list -c company_a --page 3 --page-size 20 --min-amount 10000

  # Free-text search
  salereport sales search -c company_a "INV/24"

  # Correct the invoice value of line 42
  salereport sales update 42 --inv-val 1180
`,
}

var salesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Page through sales report lines newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := salesFilters
		filters.MinAmount = changedFloat(cmd, "min-amount", salesMinAmt)
		filters.MaxAmount = changedFloat(cmd, "max-amount", salesMaxAmt)

		return withCompany(salesCompany, func(application *app.App, company ledger.Company) error {
			page, err := application.PaginateSalesReports(company.ID, salesPage, salesPageSize, filters)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := printSalesReports(cmd, page.Data); err != nil {
				return err
			}
			fmt.Fprintf(out, "Page %d of %d (%d rows total, %d per page)\n", page.Page, page.TotalPages, page.Total, page.PageSize)
			return nil
		})
	},
}

var salesSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search sales report lines by customer, invoice, part or RE code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCompany(salesCompany, func(application *app.App, company ledger.Company) error {
			reports, err := application.SearchSalesReports(company.ID, args[0])
			if err != nil {
				return err
			}
			return printSalesReports(cmd, reports)
		})
	},
}

var salesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Enter one sales report line manually",
	Long: `Enter one sales report line manually.

When --re is omitted the RE code is derived from the invoice date.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := salesFields
		return withCompany(salesCompany, func(application *app.App, company ledger.Company) error {
			id, err := application.CreateSalesReport(ledger.CreateSalesReportRequest{
				CompanyID:  company.ID,
				CustCode:   f.custCode,
				CustName:   f.custName,
				InvDate:    f.invDate,
				RECode:     f.reCode,
				InvNo:      f.invNo,
				PartCode:   ledger.StringPtr(f.partCode),
				PartName:   ledger.StringPtr(f.partName),
				Tariff:     ledger.StringPtr(f.tariff),
				Qty:        f.qty,
				BasPrice:   f.basPrice,
				AssVal:     f.assVal,
				CGST:       f.cgst,
				SGST:       f.sgst,
				IGST:       f.igst,
				Amot:       f.amot,
				InvVal:     f.invVal,
				IGSTYesNo:  f.igstYesNo,
				Percentage: f.percentage,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sales report created. ID: %d, Company: %s\n", id, company.Key)
			return nil
		})
	},
}

var salesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the fields of a sales report line that are given as flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		f := salesFields
		request := ledger.UpdateSalesReportRequest{
			CustCode:   changedString(cmd, "cust-code", f.custCode),
			CustName:   changedString(cmd, "cust-name", f.custName),
			InvDate:    changedString(cmd, "inv-date", f.invDate),
			RECode:     changedString(cmd, "re", f.reCode),
			InvNo:      changedString(cmd, "invno", f.invNo),
			PartCode:   changedString(cmd, "part-code", f.partCode),
			PartName:   changedString(cmd, "part-name", f.partName),
			Tariff:     changedString(cmd, "tariff", f.tariff),
			Qty:        changedFloat(cmd, "qty", f.qty),
			BasPrice:   changedFloat(cmd, "bas-price", f.basPrice),
			AssVal:     changedFloat(cmd, "ass-val", f.assVal),
			CGST:       changedFloat(cmd, "cgst", f.cgst),
			SGST:       changedFloat(cmd, "sgst", f.sgst),
			IGST:       changedFloat(cmd, "igst", f.igst),
			Amot:       changedFloat(cmd, "amot", f.amot),
			InvVal:     changedFloat(cmd, "inv-val", f.invVal),
			IGSTYesNo:  changedString(cmd, "igst-yes-no", f.igstYesNo),
			Percentage: changedFloat(cmd, "percentage", f.percentage),
		}

		return withApp(func(application *app.App) error {
			updated, err := application.UpdateSalesReport(id, request)
			if err != nil {
				return err
			}
			printUpdated(cmd.OutOrStdout(), "Sales report", id, updated)
			return nil
		})
	},
}

var salesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a sales report line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		return withApp(func(application *app.App) error {
			if err := application.DeleteSalesReport(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sales report %d deleted.\n", id)
			return nil
		})
	},
}

func printSalesReports(cmd *cobra.Command, reports []ledger.SalesReport) error {
	tw := newTable(cmd.OutOrStdout(), "ID", "INV DATE", "INVNO", "RE", "CUST CODE", "CUSTOMER", "INV VAL", "IGST")
	for _, report := range reports {
		tw.row(report.ID, report.InvDate, report.InvNo, report.RECode, report.CustCode, report.CustName, report.InvVal, report.IGSTYesNo)
	}
	return tw.flush()
}

func registerSalesFieldFlags(c *cobra.Command) {
	flags := c.Flags()
	flags.StringVar(&salesFields.custCode, "cust-code", "", "Customer code")
	flags.StringVar(&salesFields.custName, "cust-name", "", "Customer name")
	flags.StringVar(&salesFields.invDate, "inv-date", "", "Invoice date, YYYY-MM-DD")
	flags.StringVar(&salesFields.reCode, "re", "", "RE code")
	flags.StringVar(&salesFields.invNo, "invno", "", "Invoice number")
	flags.StringVar(&salesFields.partCode, "part-code", "", "Part code")
	flags.StringVar(&salesFields.partName, "part-name", "", "Part name")
	flags.StringVar(&salesFields.tariff, "tariff", "", "Tariff")
	flags.Float64Var(&salesFields.qty, "qty", 0, "Quantity")
	flags.Float64Var(&salesFields.basPrice, "bas-price", 0, "Basic price")
	flags.Float64Var(&salesFields.assVal, "ass-val", 0, "Assessable value")
	flags.Float64Var(&salesFields.cgst, "cgst", 0, "Central GST amount")
	flags.Float64Var(&salesFields.sgst, "sgst", 0, "State GST amount")
	flags.Float64Var(&salesFields.igst, "igst", 0, "Integrated GST amount")
	flags.Float64Var(&salesFields.amot, "amot", 0, "Amount")
	flags.Float64Var(&salesFields.invVal, "inv-val", 0, "Invoice value")
	flags.StringVar(&salesFields.igstYesNo, "igst-yes-no", "", "IGST applied: yes|no")
	flags.Float64Var(&salesFields.percentage, "percentage", 0, "Tax percentage")
}

func init() {
	rootCmd.AddCommand(salesCmd)
	salesCmd.AddCommand(salesListCmd, salesSearchCmd, salesCreateCmd, salesUpdateCmd, salesDeleteCmd)

	for _, c := range []*cobra.Command{salesListCmd, salesSearchCmd, salesCreateCmd} {
		c.Flags().StringVarP(&salesCompany, "company", "c", "", "Company key or id")
		_ = c.MarkFlagRequired("company")
	}

	flags := salesListCmd.Flags()
	flags.IntVar(&salesPage, "page", 1, "Page number, starting at 1")
	flags.IntVar(&salesPageSize, "page-size", 50, "Rows per page (max 500)")
	flags.StringVar(&salesFilters.DateFrom, "from", "", "Earliest invoice date, YYYY-MM-DD")
	flags.StringVar(&salesFilters.DateTo, "to", "", "Latest invoice date, YYYY-MM-DD")
	flags.StringVar(&salesFilters.Customer, "customer", "", "Customer name or code contains")
	flags.StringVar(&salesFilters.Invoice, "invoice", "", "Invoice number contains")
	flags.Float64Var(&salesMinAmt, "min-amount", 0, "Minimum invoice value")
	flags.Float64Var(&salesMaxAmt, "max-amount", 0, "Maximum invoice value")

	registerSalesFieldFlags(salesCreateCmd)
	registerSalesFieldFlags(salesUpdateCmd)
	_ = salesCreateCmd.MarkFlagRequired("inv-date")
	_ = salesCreateCmd.MarkFlagRequired("invno")
}
