package importer

import (
	"errors"
	"fmt"
	"strings"

	"salereport/ledger"

	"github.com/google/uuid"
)

// ErrStorage wraps any store failure that aborted an import. Rows inserted
// before the failure stay committed.
var ErrStorage = errors.New("storage failure")

type RowStatus string

const (
	StatusImported     RowStatus = "imported"
	StatusMissingField RowStatus = "skipped-missing-field"
	StatusDuplicate    RowStatus = "skipped-duplicate"
)

// RowOutcome is the terminal state of one data row. Row is the 1-based line
// in the source, so the first data row is 2.
type RowOutcome struct {
	Row    int       `json:"row"`
	Status RowStatus `json:"status"`
	Reason string    `json:"reason,omitempty"`
	ID     int64     `json:"id,omitempty"`
}

type Result struct {
	BatchID    string       `json:"batch_id"`
	RowsRead   int          `json:"rows_read"`
	Imported   int          `json:"imported"`
	Skipped    int          `json:"skipped"`
	Duplicates int          `json:"duplicates"`
	Rows       []RowOutcome `json:"rows"`
}

type Options struct {
	// StrictDates rejects calendar days that do not exist, such as 31/02.
	StrictDates bool
	YearCodes   map[int]string
	// OnRow is called after every row reaches its terminal state.
	OnRow func(RowOutcome)
}

type CustomerStore interface {
	CustomerExists(companyID int64, customerName string) (bool, error)
	CategoryByName(companyID int64, name string) (ledger.Category, bool, error)
	CreateCategory(request ledger.CreateCategoryRequest) (int64, error)
	CreateCustomer(request ledger.CreateCustomerRequest) (int64, error)
}

type SalesReportStore interface {
	InvoiceExists(companyID int64, invoiceNo string) (bool, error)
	CreateSalesReport(request ledger.CreateSalesReportRequest) (int64, error)
}

// ImportCustomers inserts every sheet row that carries a customer name and a
// tally name and whose customer name is not yet stored for the company.
func ImportCustomers(store CustomerStore, companyID int64, sheet Sheet, options Options) (*Result, error) {
	headers := ResolveHeaders(sheet.Headers)
	result := newResult(len(sheet.Rows))

	for i, row := range sheet.Rows {
		rowNumber := i + 2
		name := headers.Field(row, customerAliases["customer_name"]...)
		tallyName := headers.Field(row, customerAliases["tally_name"]...)
		gstNo := headers.Field(row, customerAliases["gst_no"]...)
		categoryName := headers.Field(row, customerAliases["category"]...)

		if name == "" || tallyName == "" {
			result.record(options, RowOutcome{Row: rowNumber, Status: StatusMissingField, Reason: missingCustomerReason(name, tallyName)})
			continue
		}

		exists, err := store.CustomerExists(companyID, name)
		if err != nil {
			return result, fmt.Errorf("%w: row %d: check customer %q: %w", ErrStorage, rowNumber, name, err)
		}
		if exists {
			result.record(options, RowOutcome{Row: rowNumber, Status: StatusDuplicate, Reason: fmt.Sprintf("customer %q already exists", name)})
			continue
		}

		var categoryID *int64
		if categoryName != "" {
			id, err := ensureCategory(store, companyID, categoryName)
			if err != nil {
				return result, fmt.Errorf("%w: row %d: %w", ErrStorage, rowNumber, err)
			}
			categoryID = &id
		}

		id, err := store.CreateCustomer(ledger.CreateCustomerRequest{
			CompanyID:    companyID,
			CustomerName: name,
			TallyName:    tallyName,
			GSTNo:        ledger.StringPtr(gstNo),
			CategoryID:   categoryID,
		})
		if err != nil {
			return result, fmt.Errorf("%w: row %d: insert customer %q: %w", ErrStorage, rowNumber, name, err)
		}
		result.record(options, RowOutcome{Row: rowNumber, Status: StatusImported, ID: id})
	}

	return result, nil
}

// ImportSalesReports inserts every sheet row with an invoice number, a usable
// invoice date and a customer code or name, unless the invoice number is
// already stored for the company.
func ImportSalesReports(store SalesReportStore, companyID int64, sheet Sheet, options Options) (*Result, error) {
	headers := ResolveHeaders(sheet.Headers)
	result := newResult(len(sheet.Rows))
	normalizeDate := NormalizeDate
	if options.StrictDates {
		normalizeDate = NormalizeDateStrict
	}

	for i, row := range sheet.Rows {
		rowNumber := i + 2
		field := func(canonical string) string {
			return headers.Field(row, salesAliases[canonical]...)
		}
		number := func(canonical string) float64 {
			return NormalizeNumber(field(canonical))
		}

		invNo := field("invno")
		custCode := field("cust_code")
		custName := field("cust_name")
		rawDate := field("inv_date")
		invDate := normalizeDate(rawDate)

		switch {
		case invNo == "":
			result.record(options, RowOutcome{Row: rowNumber, Status: StatusMissingField, Reason: "missing invno"})
			continue
		case custCode == "" && custName == "":
			result.record(options, RowOutcome{Row: rowNumber, Status: StatusMissingField, Reason: "missing cust_code and cust_name"})
			continue
		case invDate == "":
			result.record(options, RowOutcome{Row: rowNumber, Status: StatusMissingField, Reason: fmt.Sprintf("invalid inv_date %q", rawDate)})
			continue
		}

		exists, err := store.InvoiceExists(companyID, invNo)
		if err != nil {
			return result, fmt.Errorf("%w: row %d: check invoice %q: %w", ErrStorage, rowNumber, invNo, err)
		}
		if exists {
			result.record(options, RowOutcome{Row: rowNumber, Status: StatusDuplicate, Reason: fmt.Sprintf("invoice %q already exists", invNo)})
			continue
		}

		request := ledger.CreateSalesReportRequest{
			CompanyID: companyID,
			CustCode:  custCode,
			CustName:  custName,
			InvDate:   invDate,
			RECode:    field("re"),
			InvNo:     invNo,
			PartCode:  ledger.StringPtr(field("part_code")),
			PartName:  ledger.StringPtr(field("part_name")),
			Tariff:    ledger.StringPtr(field("tariff")),
			Qty:       number("qty"),
			BasPrice:  number("bas_price"),
			AssVal:    number("ass_val"),
			CGST:      number("c_gst"),
			SGST:      number("s_gst"),
			IGST:      number("igst"),
			Amot:      number("amot"),
			InvVal:    number("inv_val"),
		}
		if request.RECode == "" {
			request.RECode = RECode(invDate, options.YearCodes)
		}

		yesNo, percentage := igstFlags(taxFigures{
			IGSTAmount: request.IGST,
			IGSTRate:   number("igst_rate"),
			CGSTRate:   number("cgst_rate"),
			SGSTRate:   number("sgst_rate"),
			CGSTAmount: request.CGST,
			SGSTAmount: request.SGST,
			Assessable: request.AssVal,
		})
		request.IGSTYesNo = yesNo
		if supplied := strings.ToLower(field("igst_yes_no")); supplied == "yes" || supplied == "no" {
			request.IGSTYesNo = supplied
		}
		request.Percentage = percentage
		if supplied := field("percentage"); supplied != "" {
			request.Percentage = NormalizeNumber(supplied)
		}

		id, err := store.CreateSalesReport(request)
		if err != nil {
			return result, fmt.Errorf("%w: row %d: insert invoice %q: %w", ErrStorage, rowNumber, invNo, err)
		}
		result.record(options, RowOutcome{Row: rowNumber, Status: StatusImported, ID: id})
	}

	return result, nil
}

func ensureCategory(store CustomerStore, companyID int64, name string) (int64, error) {
	category, found, err := store.CategoryByName(companyID, name)
	if err != nil {
		return 0, fmt.Errorf("look up category %q: %w", name, err)
	}
	if found {
		return category.ID, nil
	}

	id, err := store.CreateCategory(ledger.CreateCategoryRequest{CompanyID: companyID, Name: name})
	if err != nil {
		return 0, fmt.Errorf("create category %q: %w", name, err)
	}
	return id, nil
}

func newResult(rows int) *Result {
	return &Result{
		BatchID:  uuid.NewString(),
		RowsRead: rows,
		Rows:     make([]RowOutcome, 0, rows),
	}
}

func (r *Result) record(options Options, outcome RowOutcome) {
	switch outcome.Status {
	case StatusImported:
		r.Imported++
	case StatusMissingField:
		r.Skipped++
	case StatusDuplicate:
		r.Duplicates++
	}
	r.Rows = append(r.Rows, outcome)
	if options.OnRow != nil {
		options.OnRow(outcome)
	}
}

func missingCustomerReason(name, tallyName string) string {
	switch {
	case name == "" && tallyName == "":
		return "missing customer_name and tally_name"
	case name == "":
		return "missing customer_name"
	default:
		return "missing tally_name"
	}
}
