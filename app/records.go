package app

import (
	"fmt"
	"strings"

	"salereport/importer"
	"salereport/ledger"
	"salereport/storage"
)

func notFound(resource string, id int64) error {
	return fmt.Errorf("%w: %s %d", storage.ErrNotFound, resource, id)
}

// confirmUpdate turns a no-op update of a missing row into ErrNotFound. An
// empty update of an existing row stays (false, nil).
func confirmUpdate(updated bool, err error, exists func() (bool, error), resource string, id int64) (bool, error) {
	if err != nil || updated {
		return updated, err
	}
	found, err := exists()
	if err != nil {
		return false, err
	}
	if !found {
		return false, notFound(resource, id)
	}
	return false, nil
}

func confirmDelete(deleted bool, err error, resource string, id int64) error {
	if err != nil {
		return err
	}
	if !deleted {
		return notFound(resource, id)
	}
	return nil
}

func (a *App) Companies() ([]ledger.Company, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.ListCompanies()
}

func (a *App) Company(id int64) (ledger.Company, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	company, found, err := a.store.GetCompany(id)
	if err != nil {
		return ledger.Company{}, err
	}
	if !found {
		return ledger.Company{}, notFound("company", id)
	}
	return company, nil
}

func (a *App) CreateCompany(request ledger.CreateCompanyRequest) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ledger.Validate(request); err != nil {
		return 0, err
	}
	id, err := a.store.CreateCompany(request)
	if err != nil {
		return 0, err
	}
	a.publish("company", "create", id)
	return id, nil
}

func (a *App) UpdateCompany(id int64, request ledger.UpdateCompanyRequest) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ledger.Validate(request); err != nil {
		return false, err
	}
	updated, err := a.store.UpdateCompany(id, request)
	updated, err = confirmUpdate(updated, err, func() (bool, error) {
		_, found, err := a.store.GetCompany(id)
		return found, err
	}, "company", id)
	if updated {
		a.publish("company", "update", id)
	}
	return updated, err
}

func (a *App) Categories(companyID int64) ([]ledger.Category, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.ListCategories(companyID)
}

func (a *App) CreateCategory(request ledger.CreateCategoryRequest) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	request.Name = strings.TrimSpace(request.Name)
	if err := ledger.Validate(request); err != nil {
		return 0, err
	}
	if err := a.requireCompany(request.CompanyID); err != nil {
		return 0, err
	}
	id, err := a.store.CreateCategory(request)
	if err != nil {
		return 0, err
	}
	a.publish("category", "create", id)
	return id, nil
}

func (a *App) UpdateCategory(id int64, request ledger.UpdateCategoryRequest) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ledger.Validate(request); err != nil {
		return false, err
	}
	updated, err := a.store.UpdateCategory(id, request)
	updated, err = confirmUpdate(updated, err, func() (bool, error) {
		_, found, err := a.store.GetCategory(id)
		return found, err
	}, "category", id)
	if updated {
		a.publish("category", "update", id)
	}
	return updated, err
}

func (a *App) DeleteCategory(id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	deleted, err := a.store.DeleteCategory(id)
	if err := confirmDelete(deleted, err, "category", id); err != nil {
		return err
	}
	a.publish("category", "delete", id)
	return nil
}

func (a *App) Customers(companyID int64) ([]ledger.Customer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.ListCustomers(companyID)
}

func (a *App) SearchCustomers(companyID int64, term string) ([]ledger.Customer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.SearchCustomers(companyID, strings.TrimSpace(term))
}

func (a *App) CreateCustomer(request ledger.CreateCustomerRequest) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	request.CustomerName = strings.TrimSpace(request.CustomerName)
	request.TallyName = strings.TrimSpace(request.TallyName)
	if request.GSTNo != nil {
		request.GSTNo = ledger.StringPtr(strings.TrimSpace(*request.GSTNo))
	}
	if err := ledger.Validate(request); err != nil {
		return 0, err
	}
	if err := a.requireCompany(request.CompanyID); err != nil {
		return 0, err
	}
	if err := a.requireCategory(request.CompanyID, request.CategoryID); err != nil {
		return 0, err
	}
	id, err := a.store.CreateCustomer(request)
	if err != nil {
		return 0, err
	}
	a.publish("customer", "create", id)
	return id, nil
}

// requireCategory rejects a category that is missing or kept by another company.
func (a *App) requireCategory(companyID int64, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	category, found, err := a.store.GetCategory(*categoryID)
	if err != nil {
		return err
	}
	if !found || category.CompanyID != companyID {
		return fmt.Errorf("%w: category %d does not belong to company %d", ledger.ErrInvalidRequest, *categoryID, companyID)
	}
	return nil
}

func (a *App) UpdateCustomer(id int64, request ledger.UpdateCustomerRequest) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ledger.Validate(request); err != nil {
		return false, err
	}
	if request.CategoryID != nil {
		customer, found, err := a.store.GetCustomer(id)
		if err != nil {
			return false, err
		}
		if !found {
			return false, notFound("customer", id)
		}
		if err := a.requireCategory(customer.CompanyID, request.CategoryID); err != nil {
			return false, err
		}
	}
	updated, err := a.store.UpdateCustomer(id, request)
	updated, err = confirmUpdate(updated, err, func() (bool, error) {
		_, found, err := a.store.GetCustomer(id)
		return found, err
	}, "customer", id)
	if updated {
		a.publish("customer", "update", id)
	}
	return updated, err
}

func (a *App) DeleteCustomer(id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	deleted, err := a.store.DeleteCustomer(id)
	if err := confirmDelete(deleted, err, "customer", id); err != nil {
		return err
	}
	a.publish("customer", "delete", id)
	return nil
}

func (a *App) SalesReports(companyID int64) ([]ledger.SalesReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.ListSalesReports(companyID)
}

func (a *App) PaginateSalesReports(companyID int64, page, pageSize int, filters ledger.SalesReportFilters) (ledger.SalesReportPage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ledger.Validate(filters); err != nil {
		return ledger.SalesReportPage{}, err
	}

	reports, total, err := a.store.PaginateSalesReports(companyID, page, pageSize, filters)
	if err != nil {
		return ledger.SalesReportPage{}, err
	}

	page, pageSize = storage.ClampPage(page, pageSize)
	return ledger.SalesReportPage{
		Data:       reports,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (a *App) SearchSalesReports(companyID int64, term string) ([]ledger.SalesReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.SearchSalesReports(companyID, strings.TrimSpace(term))
}

// CreateSalesReport stores one manually entered report. A missing RE code is
// derived from the invoice date.
func (a *App) CreateSalesReport(request ledger.CreateSalesReportRequest) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	request.InvNo = strings.TrimSpace(request.InvNo)
	request.IGSTYesNo = strings.ToLower(strings.TrimSpace(request.IGSTYesNo))
	if err := ledger.Validate(request); err != nil {
		return 0, err
	}
	if err := a.requireCompany(request.CompanyID); err != nil {
		return 0, err
	}
	if request.RECode == "" {
		request.RECode = importer.RECode(request.InvDate, a.options.YearCodes)
	}

	id, err := a.store.CreateSalesReport(request)
	if err != nil {
		return 0, err
	}
	a.publish("sales_report", "create", id)
	return id, nil
}

func (a *App) UpdateSalesReport(id int64, request ledger.UpdateSalesReportRequest) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ledger.Validate(request); err != nil {
		return false, err
	}
	updated, err := a.store.UpdateSalesReport(id, request)
	updated, err = confirmUpdate(updated, err, func() (bool, error) {
		_, found, err := a.store.GetSalesReport(id)
		return found, err
	}, "sales_report", id)
	if updated {
		a.publish("sales_report", "update", id)
	}
	return updated, err
}

func (a *App) DeleteSalesReport(id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	deleted, err := a.store.DeleteSalesReport(id)
	if err := confirmDelete(deleted, err, "sales_report", id); err != nil {
		return err
	}
	a.publish("sales_report", "delete", id)
	return nil
}
