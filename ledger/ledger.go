package ledger

// Company is one bookkeeping entity; every other record is scoped to a company.
type Company struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Key       string `json:"key"`
	CreatedAt string `json:"created_at"`
}

type Category struct {
	ID          int64   `json:"id"`
	CompanyID   int64   `json:"company_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// Customer maps a customer name as it appears on invoices to the ledger name
// used in the accounting package.
type Customer struct {
	ID           int64   `json:"id"`
	CompanyID    int64   `json:"company_id"`
	CustomerName string  `json:"customer_name"`
	TallyName    string  `json:"tally_name"`
	GSTNo        *string `json:"gst_no,omitempty"`
	CategoryID   *int64  `json:"category_id,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// SalesReport is one normalized invoice line. InvDate is always YYYY-MM-DD.
type SalesReport struct {
	ID         int64   `json:"id"`
	CompanyID  int64   `json:"company_id"`
	CustCode   string  `json:"cust_code"`
	CustName   string  `json:"cust_name"`
	InvDate    string  `json:"inv_date"`
	RECode     string  `json:"re"`
	InvNo      string  `json:"invno"`
	PartCode   *string `json:"part_code,omitempty"`
	PartName   *string `json:"part_name,omitempty"`
	Tariff     *string `json:"tariff,omitempty"`
	Qty        float64 `json:"qty"`
	BasPrice   float64 `json:"bas_price"`
	AssVal     float64 `json:"ass_val"`
	CGST       float64 `json:"c_gst"`
	SGST       float64 `json:"s_gst"`
	IGST       float64 `json:"igst"`
	Amot       float64 `json:"amot"`
	InvVal     float64 `json:"inv_val"`
	IGSTYesNo  string  `json:"igst_yes_no"`
	Percentage float64 `json:"percentage"`
	CreatedAt  string  `json:"created_at"`
}

type AuditLog struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"company_id"`
	UserAction  string `json:"user_action"`
	DetailsJSON string `json:"details_json"`
	Timestamp   string `json:"timestamp"`
}

type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required"`
	Key  string `json:"key" validate:"required,companykey"`
}

type UpdateCompanyRequest struct {
	Name *string `json:"name,omitempty" validate:"omitnil,min=1"`
	Key  *string `json:"key,omitempty" validate:"omitnil,companykey"`
}

type CreateCategoryRequest struct {
	CompanyID   int64   `json:"company_id" validate:"gt=0"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitnil,min=1"`
	Description *string `json:"description,omitempty"`
}

type CreateCustomerRequest struct {
	CompanyID    int64   `json:"company_id" validate:"gt=0"`
	CustomerName string  `json:"customer_name" validate:"required"`
	TallyName    string  `json:"tally_name" validate:"required"`
	GSTNo        *string `json:"gst_no,omitempty" validate:"omitnil,gstin"`
	CategoryID   *int64  `json:"category_id,omitempty" validate:"omitnil,gt=0"`
}

type UpdateCustomerRequest struct {
	CustomerName *string `json:"customer_name,omitempty" validate:"omitnil,min=1"`
	TallyName    *string `json:"tally_name,omitempty" validate:"omitnil,min=1"`
	GSTNo        *string `json:"gst_no,omitempty" validate:"omitnil,gstin"`
	CategoryID   *int64  `json:"category_id,omitempty" validate:"omitnil,gt=0"`
}

type CreateSalesReportRequest struct {
	CompanyID  int64   `json:"company_id" validate:"gt=0"`
	CustCode   string  `json:"cust_code"`
	CustName   string  `json:"cust_name"`
	InvDate    string  `json:"inv_date" validate:"required,datetime=2006-01-02"`
	RECode     string  `json:"re"`
	InvNo      string  `json:"invno" validate:"required,max=50"`
	PartCode   *string `json:"part_code,omitempty"`
	PartName   *string `json:"part_name,omitempty"`
	Tariff     *string `json:"tariff,omitempty"`
	Qty        float64 `json:"qty"`
	BasPrice   float64 `json:"bas_price"`
	AssVal     float64 `json:"ass_val"`
	CGST       float64 `json:"c_gst"`
	SGST       float64 `json:"s_gst"`
	IGST       float64 `json:"igst"`
	Amot       float64 `json:"amot"`
	InvVal     float64 `json:"inv_val"`
	IGSTYesNo  string  `json:"igst_yes_no" validate:"omitempty,oneof=yes no"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

// UpdateSalesReportRequest carries only the fields the caller wants changed.
type UpdateSalesReportRequest struct {
	CustCode   *string  `json:"cust_code,omitempty"`
	CustName   *string  `json:"cust_name,omitempty"`
	InvDate    *string  `json:"inv_date,omitempty" validate:"omitnil,datetime=2006-01-02"`
	RECode     *string  `json:"re,omitempty"`
	InvNo      *string  `json:"invno,omitempty" validate:"omitnil,min=1,max=50"`
	PartCode   *string  `json:"part_code,omitempty"`
	PartName   *string  `json:"part_name,omitempty"`
	Tariff     *string  `json:"tariff,omitempty"`
	Qty        *float64 `json:"qty,omitempty"`
	BasPrice   *float64 `json:"bas_price,omitempty"`
	AssVal     *float64 `json:"ass_val,omitempty"`
	CGST       *float64 `json:"c_gst,omitempty"`
	SGST       *float64 `json:"s_gst,omitempty"`
	IGST       *float64 `json:"igst,omitempty"`
	Amot       *float64 `json:"amot,omitempty"`
	InvVal     *float64 `json:"inv_val,omitempty"`
	IGSTYesNo  *string  `json:"igst_yes_no,omitempty" validate:"omitnil,oneof=yes no"`
	Percentage *float64 `json:"percentage,omitempty" validate:"omitnil,gte=0,lte=100"`
}

// SalesReportFilters narrows a paginated sales report listing. Zero values
// mean "no filter".
type SalesReportFilters struct {
	DateFrom  string   `json:"date_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateTo    string   `json:"date_to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Customer  string   `json:"customer,omitempty"`
	Invoice   string   `json:"invoice,omitempty"`
	MinAmount *float64 `json:"min_amount,omitempty"`
	MaxAmount *float64 `json:"max_amount,omitempty"`
}

type SalesReportPage struct {
	Data       []SalesReport `json:"data"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// StringPtr returns nil for blank values so optional columns stay NULL.
func StringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
