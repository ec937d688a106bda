package cmd

import (
	"salereport/app"
	"salereport/ledger"

	"github.com/spf13/cobra"
)

var (
	auditCompany string
	auditLimit   int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the newest audit log entries of a company",
	Long: `Every import writes one audit entry with its batch id and row counts.

Entries are listed newest first.`,
	Example: `
  # Last 20 audit entries of company_a
  salereport audit -c company_a --limit 20
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCompany(auditCompany, func(application *app.App, company ledger.Company) error {
			logs, err := application.AuditLogs(company.ID, auditLimit)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout(), "ID", "TIMESTAMP", "ACTION", "DETAILS")
			for _, entry := range logs {
				tw.row(entry.ID, entry.Timestamp, entry.UserAction, entry.DetailsJSON)
			}
			return tw.flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVarP(&auditCompany, "company", "c", "", "Company key or id")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "Maximum number of entries (0 lists all)")
	_ = auditCmd.MarkFlagRequired("company")
}
