package output

import (
	"salereport/ledger"

	"github.com/shopspring/decimal"
)

var customerHeaders = []string{"Customer Name", "Tally Name", "GST No", "Category", "Created At"}

// Headers use spellings that the sales import resolves back to the same
// columns, so an export can be re-imported unchanged.
var salesReportHeaders = []string{
	"Cust Code",
	"Cust Name",
	"Inv Date",
	"RE",
	"Invno",
	"Part Code",
	"Part Name",
	"Tariff",
	"Qty",
	"Bas Price",
	"Ass Val",
	"C GST",
	"S GST",
	"IGST",
	"Amot",
	"Inv Val",
	"IGST Yes No",
	"Percentage",
}

func CustomerTable(customers []ledger.Customer) Table {
	table := Table{Headers: customerHeaders, Rows: make([][]string, 0, len(customers))}
	for _, customer := range customers {
		table.Rows = append(table.Rows, []string{
			customer.CustomerName,
			customer.TallyName,
			deref(customer.GSTNo),
			deref(customer.CategoryName),
			customer.CreatedAt,
		})
	}
	return table
}

func SalesReportTable(reports []ledger.SalesReport) Table {
	table := Table{Headers: salesReportHeaders, Rows: make([][]string, 0, len(reports))}
	for _, report := range reports {
		table.Rows = append(table.Rows, []string{
			report.CustCode,
			report.CustName,
			report.InvDate,
			report.RECode,
			report.InvNo,
			deref(report.PartCode),
			deref(report.PartName),
			deref(report.Tariff),
			decimal.NewFromFloat(report.Qty).String(),
			amount(report.BasPrice),
			amount(report.AssVal),
			amount(report.CGST),
			amount(report.SGST),
			amount(report.IGST),
			amount(report.Amot),
			amount(report.InvVal),
			report.IGSTYesNo,
			amount(report.Percentage),
		})
	}
	return table
}

func amount(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
