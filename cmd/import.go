package cmd

import (
	"fmt"
	"io"
	"os"

	"salereport/app"
	"salereport/importer"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	importCompany  string
	importInput    string
	importFormat   string
	importQuiet    bool
	importShowRows bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import customer masters or sales report exports (CSV/Excel) into SQLite",
	Long: `Read a source file, normalize each row, and persist new records for one company.

Rows missing a required field are skipped. Rows whose customer name (customers) or
invoice number (sales reports) already exists for the company are counted as duplicates.
When --format is omitted, format is inferred from the input file extension.`,
	Example: `
  # Import a customer master
  salereport import customers -c company_a -i ./customers.csv

  # Import a sales report export from Excel
  salereport import sales-reports -c company_a -i ./sales.xlsx

  # Force CSV parsing and print every skipped row
  salereport import sales-reports -c 2 -i ./export.txt --format csv --show-rows
`,
}

var importCustomersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Import customers (customer name, tally name, GST number, category)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.OutOrStdout(), "customers", func(application *app.App, companyID int64, sheet importer.Sheet, onRow func(importer.RowOutcome)) (*importer.Result, error) {
			return application.ImportCustomersSheet(companyID, sheet, onRow)
		})
	},
}

var importSalesReportsCmd = &cobra.Command{
	Use:     "sales-reports",
	Aliases: []string{"sales"},
	Short:   "Import sales report lines (one row per invoice)",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.OutOrStdout(), "sales reports", func(application *app.App, companyID int64, sheet importer.Sheet, onRow func(importer.RowOutcome)) (*importer.Result, error) {
			return application.ImportSalesReportsSheet(companyID, sheet, onRow)
		})
	},
}

type importFunc func(application *app.App, companyID int64, sheet importer.Sheet, onRow func(importer.RowOutcome)) (*importer.Result, error)

func runImport(out io.Writer, label string, run importFunc) error {
	sheet, err := importer.ReadFile(importInput, importFormat)
	if err != nil {
		return err
	}

	application, _, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	company, err := application.ResolveCompany(importCompany)
	if err != nil {
		return err
	}

	var onRow func(importer.RowOutcome)
	var bar *progressbar.ProgressBar
	if !importQuiet && len(sheet.Rows) > 0 {
		bar = newImportProgressBar(len(sheet.Rows), "Importing "+label)
		onRow = func(importer.RowOutcome) { _ = bar.Add(1) }
	}

	result, err := run(application, company.ID, sheet, onRow)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	printImportSummary(out, company.Key, result, importShowRows)
	return nil
}

func newImportProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printImportSummary(out io.Writer, companyKey string, result *importer.Result, showRows bool) {
	fmt.Fprintf(out, "Import completed. Company: %s, Batch: %s, Rows read: %d, Imported: %d, Skipped: %d, Duplicates: %d\n",
		companyKey,
		result.BatchID,
		result.RowsRead,
		result.Imported,
		result.Skipped,
		result.Duplicates,
	)
	if !showRows {
		return
	}
	for _, row := range result.Rows {
		if row.Status == importer.StatusImported {
			continue
		}
		fmt.Fprintf(out, "  row %d: %s %s\n", row.Row, row.Status, row.Reason)
	}
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importCustomersCmd, importSalesReportsCmd)

	flags := importCmd.PersistentFlags()
	flags.StringVarP(&importCompany, "company", "c", "", "Company key or id")
	flags.StringVarP(&importInput, "input", "i", "", "Input file path")
	flags.StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	flags.BoolVarP(&importQuiet, "quiet", "q", false, "Do not render a progress bar")
	flags.BoolVar(&importShowRows, "show-rows", false, "Print every skipped or duplicate row after the summary")

	_ = importCmd.MarkPersistentFlagRequired("company")
	_ = importCmd.MarkPersistentFlagRequired("input")
}
