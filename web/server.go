// Package web serves the localhost-only command API that a desktop shell
// binds to. It has no auth in this mode.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"salereport/app"
	"salereport/importer"
	"salereport/ledger"
	"salereport/output"
	"salereport/storage"
)

const maxUploadBytes = 32 << 20

type Server struct {
	app    *app.App
	logger *slog.Logger
	mux    *http.ServeMux
}

type updatedResponse struct {
	Updated bool `json:"updated"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

// NewServer builds the command API. changes, when non-nil, is mounted on
// GET /ws.
func NewServer(application *app.App, changes http.Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	server := &Server{app: application, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/companies", server.handleCompanies)
	mux.HandleFunc("PATCH /api/companies/{id}", server.handleCompanyUpdate)

	mux.HandleFunc("GET /api/companies/{company}/categories", server.handleCategories)
	mux.HandleFunc("POST /api/categories", server.handleCategoryCreate)
	mux.HandleFunc("PATCH /api/categories/{id}", server.handleCategoryUpdate)
	mux.HandleFunc("DELETE /api/categories/{id}", server.handleCategoryDelete)

	mux.HandleFunc("GET /api/companies/{company}/customers", server.handleCustomers)
	mux.HandleFunc("POST /api/customers", server.handleCustomerCreate)
	mux.HandleFunc("PATCH /api/customers/{id}", server.handleCustomerUpdate)
	mux.HandleFunc("DELETE /api/customers/{id}", server.handleCustomerDelete)

	mux.HandleFunc("GET /api/companies/{company}/sales-reports", server.handleSalesReports)
	mux.HandleFunc("GET /api/companies/{company}/sales-reports/search", server.handleSalesReportSearch)
	mux.HandleFunc("POST /api/sales-reports", server.handleSalesReportCreate)
	mux.HandleFunc("PATCH /api/sales-reports/{id}", server.handleSalesReportUpdate)
	mux.HandleFunc("DELETE /api/sales-reports/{id}", server.handleSalesReportDelete)

	mux.HandleFunc("POST /api/companies/{company}/import/{kind}", server.handleImport)
	mux.HandleFunc("GET /api/companies/{company}/export/{kind}", server.handleExport)
	mux.HandleFunc("GET /api/companies/{company}/audit-logs", server.handleAuditLogs)
	mux.HandleFunc("POST /api/clear", server.handleClear)

	if changes != nil {
		mux.Handle("GET /ws", changes)
	}
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.app.Companies()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (s *Server) handleCompanyUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body ledger.UpdateCompanyRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := s.app.UpdateCompany(id, body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updatedResponse{Updated: updated})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	company, ok := s.pathCompany(w, r)
	if !ok {
		return
	}
	categories, err := s.app.Categories(company.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var body ledger.CreateCategoryRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := s.app.CreateCategory(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body ledger.UpdateCategoryRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := s.app.UpdateCategory(id, body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updatedResponse{Updated: updated})
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.app.DeleteCategory(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	company, ok := s.pathCompany(w, r)
	if !ok {
		return
	}

	var (
		customers []ledger.Customer
		err       error
	)
	if term := strings.TrimSpace(r.URL.Query().Get("q")); term != "" {
		customers, err = s.app.SearchCustomers(company.ID, term)
	} else {
		customers, err = s.app.Customers(company.ID)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) handleCustomerCreate(w http.ResponseWriter, r *http.Request) {
	var body ledger.CreateCustomerRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := s.app.CreateCustomer(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleCustomerUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body ledger.UpdateCustomerRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := s.app.UpdateCustomer(id, body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updatedResponse{Updated: updated})
}

func (s *Server) handleCustomerDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.app.DeleteCustomer(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSalesReports(w http.ResponseWriter, r *http.Request) {
	company, ok := s.pathCompany(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, err := optionalInt(query.Get("page"))
	if err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	pageSize, err := optionalInt(query.Get("page_size"))
	if err != nil {
		http.Error(w, "invalid page_size", http.StatusBadRequest)
		return
	}
	filters := ledger.SalesReportFilters{
		DateFrom: strings.TrimSpace(query.Get("date_from")),
		DateTo:   strings.TrimSpace(query.Get("date_to")),
		Customer: strings.TrimSpace(query.Get("customer")),
		Invoice:  strings.TrimSpace(query.Get("invoice")),
	}
	if filters.MinAmount, err = optionalFloat(query.Get("min_amount")); err != nil {
		http.Error(w, "invalid min_amount", http.StatusBadRequest)
		return
	}
	if filters.MaxAmount, err = optionalFloat(query.Get("max_amount")); err != nil {
		http.Error(w, "invalid max_amount", http.StatusBadRequest)
		return
	}

	result, err := s.app.PaginateSalesReports(company.ID, page, pageSize, filters)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSalesReportSearch(w http.ResponseWriter, r *http.Request) {
	company, ok := s.pathCompany(w, r)
	if !ok {
		return
	}
	reports, err := s.app.SearchSalesReports(company.ID, r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleSalesReportCreate(w http.ResponseWriter, r *http.Request) {
	var body ledger.CreateSalesReportRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := s.app.CreateSalesReport(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleSalesReportUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body ledger.UpdateSalesReportRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := s.app.UpdateSalesReport(id, body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updatedResponse{Updated: updated})
}

func (s *Server) handleSalesReportDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.app.DeleteSalesReport(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImport accepts either raw CSV text as the request body or a
// multipart upload in field "file" (CSV or Excel).
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	company, ok := s.pathCompany(w, r)
	if !ok {
		return
	}

	kind := r.PathValue("kind")
	if kind != "customers" && kind != "sales-reports" {
		http.Error(w, fmt.Sprintf("unknown import kind %q", kind), http.StatusNotFound)
		return
	}

	sheet, err := readImportSheet(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var result *importer.Result
	if kind == "customers" {
		result, err = s.app.ImportCustomersSheet(company.ID, sheet, nil)
	} else {
		result, err = s.app.ImportSalesReportsSheet(company.ID, sheet, nil)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func readImportSheet(w http.ResponseWriter, r *http.Request) (importer.Sheet, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		sheet, err := importer.ReadCSV(r.Body)
		if err != nil {
			return importer.Sheet{}, err
		}
		return sheet, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return importer.Sheet{}, fmt.Errorf("parse multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return importer.Sheet{}, errors.New("missing file upload")
	}
	defer file.Close()

	format, err := importer.InferFormat(header.Filename, r.FormValue("format"))
	if err != nil {
		return importer.Sheet{}, err
	}
	if format == "csv" {
		return importer.ReadCSV(file)
	}

	tmp, err := os.CreateTemp("", tempUploadPattern(header.Filename))
	if err != nil {
		return importer.Sheet{}, fmt.Errorf("create temp upload: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		return importer.Sheet{}, fmt.Errorf("save upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return importer.Sheet{}, fmt.Errorf("close upload temp file: %w", err)
	}

	return importer.ReadFile(tmpPath, format)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	company, ok := s.pathCompany(w, r)
	if !ok {
		return
	}

	var (
		table output.Table
		err   error
	)
	switch kind := r.PathValue("kind"); kind {
	case "customers":
		table, err = s.app.ExportCustomers(company.ID)
	case "sales-reports":
		table, err = s.app.ExportSalesReports(company.ID)
	default:
		http.Error(w, fmt.Sprintf("unknown export kind %q", kind), http.StatusNotFound)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := strings.TrimSpace(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	writer, err := output.WriterForFormat(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", company.Key, r.PathValue("kind"))
	contentType := "text/csv; charset=utf-8"
	if _, isExcel := writer.(*output.ExcelWriter); isExcel {
		filename = strings.TrimSuffix(filename, ".csv") + ".xlsx"
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := writer.Write(w, table); err != nil {
		s.logger.Error("write export", "kind", r.PathValue("kind"), "error", err)
	}
}

func (s *Server) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	company, ok := s.pathCompany(w, r)
	if !ok {
		return
	}
	limit, err := optionalInt(r.URL.Query().Get("limit"))
	if err != nil {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}
	logs, err := s.app.AuditLogs(company.ID, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.app.ClearAllData(); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) pathCompany(w http.ResponseWriter, r *http.Request) (ledger.Company, bool) {
	company, err := s.app.ResolveCompany(r.PathValue("company"))
	if err != nil {
		s.writeError(w, err)
		return ledger.Company{}, false
	}
	return company, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidRequest), errors.Is(err, importer.ErrMalformedCSV):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parsePositiveInt64(value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be > 0")
	}
	return parsed, nil
}

func optionalInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func optionalFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func tempUploadPattern(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." {
		return "upload-*"
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "upload"
	}
	if ext == "" {
		return stem + "-*"
	}
	return stem + "-*" + ext
}
