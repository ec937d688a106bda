package cmd

import (
	"fmt"

	"salereport/app"
	"salereport/output"

	"github.com/spf13/cobra"
)

var (
	exportCompany string
	exportFormat  string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export customers or sales reports of one company to CSV/Excel",
	Long: `Export stored records of one company.

The column headers match the import aliases, so an exported file can be imported
again; every row is then reported as a duplicate.
Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export customers to CSV
  salereport export customers -c company_a -o ./customers.csv

  # Export sales reports to Excel
  salereport export sales-reports -c company_a -o ./sales.xlsx

  # Force Excel format independent of extension
  salereport export sales-reports -c company_b --format excel -o ./sales.out
`,
}

var exportCustomersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Export the customer master",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, (*app.App).ExportCustomers)
	},
}

var exportSalesReportsCmd = &cobra.Command{
	Use:     "sales-reports",
	Aliases: []string{"sales"},
	Short:   "Export all sales report lines ordered by invoice date",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, (*app.App).ExportSalesReports)
	},
}

func runExport(cmd *cobra.Command, build func(*app.App, int64) (output.Table, error)) error {
	application, _, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	company, err := application.ResolveCompany(exportCompany)
	if err != nil {
		return err
	}

	table, err := build(application, company.ID)
	if err != nil {
		return err
	}

	format := output.InferFormat(exportOutput, exportFormat)
	if err := output.WriteFile(exportOutput, format, table); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Export completed. Company: %s, Rows: %d, Format: %s, File: %s\n", company.Key, len(table.Rows), format, exportOutput)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCustomersCmd, exportSalesReportsCmd)

	flags := exportCmd.PersistentFlags()
	flags.StringVarP(&exportCompany, "company", "c", "", "Company key or id")
	flags.StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	flags.StringVarP(&exportOutput, "output", "o", "", "Output file path")

	_ = exportCmd.MarkPersistentFlagRequired("company")
	_ = exportCmd.MarkPersistentFlagRequired("output")
}
