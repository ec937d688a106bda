// Package app owns the single store handle and serializes every operation
// on it. Commands and the command API receive an *App explicitly.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"salereport/config"
	"salereport/importer"
	"salereport/ledger"
	"salereport/storage"
)

// Publisher receives a notification after every successful change.
type Publisher interface {
	Publish(resource, action string, id any)
}

type Options struct {
	StrictDates bool
	YearCodes   map[int]string
	Logger      *slog.Logger
	Events      Publisher
}

type App struct {
	mu      sync.Mutex
	store   *storage.SQLiteStore
	options Options
	logger  *slog.Logger
}

func New(store *storage.SQLiteStore, options Options) *App {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{store: store, options: options, logger: logger}
}

// Open opens the configured database, seeds the configured companies into an
// empty database and returns the App owning the store.
func Open(cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	seeds := make([]ledger.CreateCompanyRequest, 0, len(cfg.Companies))
	for _, seed := range cfg.Companies {
		seeds = append(seeds, ledger.CreateCompanyRequest{Name: seed.Name, Key: seed.Key})
	}
	added, err := store.SeedCompanies(seeds)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if added > 0 && logger != nil {
		logger.Info("seeded companies", "count", added, "db", cfg.Database.Path)
	}

	return New(store, Options{
		StrictDates: cfg.Import.StrictDates,
		YearCodes:   cfg.YearCodeLookup(),
		Logger:      logger,
	}), nil
}

// SetPublisher installs the change feed used by every later operation.
func (a *App) SetPublisher(events Publisher) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.options.Events = events
}

func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Close()
}

func (a *App) importOptions(onRow func(importer.RowOutcome)) importer.Options {
	return importer.Options{
		StrictDates: a.options.StrictDates,
		YearCodes:   a.options.YearCodes,
		OnRow:       onRow,
	}
}

func (a *App) publish(resource, action string, id any) {
	if a.options.Events != nil {
		a.options.Events.Publish(resource, action, id)
	}
}

func (a *App) requireCompany(companyID int64) error {
	_, found, err := a.store.GetCompany(companyID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: company %d", storage.ErrNotFound, companyID)
	}
	return nil
}

// ResolveCompany accepts a numeric id or a company key.
func (a *App) ResolveCompany(ref string) (ledger.Company, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ref = strings.TrimSpace(ref)
	var (
		company ledger.Company
		found   bool
		err     error
	)
	if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
		company, found, err = a.store.GetCompany(id)
	} else {
		company, found, err = a.store.GetCompanyByKey(ref)
	}
	if err != nil {
		return ledger.Company{}, err
	}
	if !found {
		return ledger.Company{}, fmt.Errorf("%w: company %q", storage.ErrNotFound, ref)
	}
	return company, nil
}

func (a *App) ClearAllData() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.ClearAllData(); err != nil {
		return err
	}
	a.logger.Warn("cleared all data")
	a.publish("data", "clear", nil)
	return nil
}

func (a *App) AuditLogs(companyID int64, limit int) ([]ledger.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.ListAuditLogs(companyID, limit)
}
