package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"owner-portal/internal/billing"
	"owner-portal/internal/observability/metrics"
	"owner-portal/internal/saft"
	statement "owner-portal/internal/statement/domain"
	"owner-portal/internal/statement/infrastructure/storage"
)

// BillingClient fetches financial records from the tax/invoicing platform.
type BillingClient interface {
	ListInvoices(ctx context.Context, apiKey, propertyID string, start, end time.Time) ([]statement.UpstreamInvoice, error)
	ListExpenses(ctx context.Context, apiKey, propertyID string, start, end time.Time) ([]statement.ExpenseRecord, error)
	ListCommissions(ctx context.Context, apiKey, propertyID string, start, end time.Time) ([]statement.CommissionRecord, error)
}

// CredentialResolver maps a property to its billing API key.
type CredentialResolver interface {
	BillingCredential(ctx context.Context, propertyID string) (string, error)
}

// Renderer renders statement artifacts.
type Renderer interface {
	RenderPDF(stmt *statement.Statement) ([]byte, error)
	RenderCSV(stmt *statement.Statement) ([]byte, error)
	RenderXLSX(stmt *statement.Statement) ([]byte, error)
}

// Result describes the artifacts produced by one generation.
type Result struct {
	Statement    *statement.Statement
	PDFFilename  string
	CSVFilename  string
	XLSXFilename string
	PDFPath      string
	CSVPath      string
	XLSXPath     string
}

// Service runs the statement pipeline: resolve credential, fetch upstream
// records, normalize, aggregate, render and write artifacts.
type Service struct {
	billing     BillingClient
	credentials CredentialResolver
	store       *storage.Store
	render      Renderer
	logger      *log.Logger
	now         func() time.Time
}

// NewService constructs a statement service.
func NewService(billingClient BillingClient, credentials CredentialResolver, store *storage.Store, render Renderer, logger *log.Logger) (*Service, error) {
	if billingClient == nil {
		return nil, errors.New("statement service: nil billing client")
	}
	if credentials == nil {
		return nil, errors.New("statement service: nil credential resolver")
	}
	if store == nil {
		return nil, errors.New("statement service: nil artifact store")
	}
	if render == nil {
		return nil, errors.New("statement service: nil renderer")
	}
	return &Service{
		billing:     billingClient,
		credentials: credentials,
		store:       store,
		render:      render,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Generate builds the statement for one property/period, writes the PDF,
// CSV and XLSX artifacts and returns their locations. Regeneration
// overwrites the previous artifacts at the same paths.
func (s *Service) Generate(ctx context.Context, propertyID, propertyName string, period statement.Period) (*Result, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveStatementGenerate(result, time.Since(start))
	}()

	stmt, err := s.buildStatement(ctx, propertyID, propertyName, period)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	// Render everything before writing anything so a rendering failure
	// never leaves partial artifacts behind.
	pdfData, err := s.renderArtifact("pdf", stmt, s.render.RenderPDF)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	csvData, err := s.renderArtifact("csv", stmt, s.render.RenderCSV)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	xlsxData, err := s.renderArtifact("xlsx", stmt, s.render.RenderXLSX)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	out := &Result{
		Statement:    stmt,
		PDFFilename:  storage.StatementFilename(propertyID, period, "pdf"),
		CSVFilename:  storage.StatementFilename(propertyID, period, "csv"),
		XLSXFilename: storage.StatementFilename(propertyID, period, "xlsx"),
	}
	if out.PDFPath, err = s.writeArtifact(out.PDFFilename, "pdf", pdfData); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if out.CSVPath, err = s.writeArtifact(out.CSVFilename, "csv", csvData); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if out.XLSXPath, err = s.writeArtifact(out.XLSXFilename, "xlsx", xlsxData); err != nil {
		result = metrics.ResultError
		return nil, err
	}

	s.logf("event=statement_generated property_id=%s period=%s invoices=%d net_payout=%.2f",
		propertyID, period, len(stmt.Invoices), stmt.Summary.NetPayout)
	return out, nil
}

// GenerateTaxFile builds and writes the SAFT XML file for one
// property/period.
func (s *Service) GenerateTaxFile(ctx context.Context, propertyID, propertyName string, period statement.Period) (string, error) {
	apiKey, err := s.credentials.BillingCredential(ctx, propertyID)
	if err != nil {
		return "", err
	}
	raws, err := s.fetchInvoices(ctx, apiKey, propertyID, period)
	if err != nil {
		return "", err
	}
	invoices := statement.NormalizeInvoices(raws, s.now())
	data, err := saft.Build(propertyID, propertyName, period, invoices, s.now())
	if err != nil {
		return "", err
	}
	path, err := s.store.Write(storage.TaxFileFilename(propertyID, period), data)
	if err != nil {
		return "", err
	}
	metrics.IncArtifactWritten("saft")
	s.logf("event=saft_generated property_id=%s period=%s invoices=%d", propertyID, period, len(invoices))
	return path, nil
}

// buildStatement fetches the three upstream record sets concurrently and
// reconciles them. Invoices are fatal; expenses and commissions degrade to
// an empty list so an unavailable optional module never fails a statement.
func (s *Service) buildStatement(ctx context.Context, propertyID, propertyName string, period statement.Period) (*statement.Statement, error) {
	apiKey, err := s.credentials.BillingCredential(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	var (
		wg          sync.WaitGroup
		raws        []statement.UpstreamInvoice
		invoiceErr  error
		expenses    []statement.ExpenseRecord
		commissions []statement.CommissionRecord
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		raws, invoiceErr = s.fetchInvoices(ctx, apiKey, propertyID, period)
	}()
	go func() {
		defer wg.Done()
		expenses = s.fetchExpenses(ctx, apiKey, propertyID, period)
	}()
	go func() {
		defer wg.Done()
		commissions = s.fetchCommissions(ctx, apiKey, propertyID, period)
	}()
	wg.Wait()

	if invoiceErr != nil {
		return nil, fmt.Errorf("statement service: fetch invoices for %s: %w", propertyID, invoiceErr)
	}

	invoices := statement.NormalizeInvoices(raws, s.now())
	return &statement.Statement{
		PropertyID:   propertyID,
		PropertyName: propertyName,
		Period:       period,
		Invoices:     invoices,
		Expenses:     expenses,
		Commissions:  commissions,
		Summary:      statement.Aggregate(invoices, expenses, commissions),
	}, nil
}

func (s *Service) fetchInvoices(ctx context.Context, apiKey, propertyID string, period statement.Period) ([]statement.UpstreamInvoice, error) {
	start := time.Now()
	raws, err := s.billing.ListInvoices(ctx, apiKey, propertyID, period.Start(), period.End())
	if err != nil {
		metrics.ObserveUpstream("invoices", metrics.ResultError, time.Since(start))
		return nil, err
	}
	metrics.ObserveUpstream("invoices", metrics.ResultSuccess, time.Since(start))
	return raws, nil
}

func (s *Service) fetchExpenses(ctx context.Context, apiKey, propertyID string, period statement.Period) []statement.ExpenseRecord {
	start := time.Now()
	expenses, err := s.billing.ListExpenses(ctx, apiKey, propertyID, period.Start(), period.End())
	if err != nil {
		metrics.ObserveUpstream("expenses", metrics.ResultError, time.Since(start))
		if errors.Is(err, billing.ErrModuleNotEnabled) {
			s.logf("event=expenses_module_disabled property_id=%s period=%s", propertyID, period)
		} else {
			s.logf("event=expenses_fetch_failed property_id=%s period=%s error=%v", propertyID, period, err)
		}
		return nil
	}
	metrics.ObserveUpstream("expenses", metrics.ResultSuccess, time.Since(start))
	return expenses
}

func (s *Service) fetchCommissions(ctx context.Context, apiKey, propertyID string, period statement.Period) []statement.CommissionRecord {
	start := time.Now()
	commissions, err := s.billing.ListCommissions(ctx, apiKey, propertyID, period.Start(), period.End())
	if err != nil {
		metrics.ObserveUpstream("commissions", metrics.ResultError, time.Since(start))
		if errors.Is(err, billing.ErrModuleNotEnabled) {
			s.logf("event=commissions_module_disabled property_id=%s period=%s", propertyID, period)
		} else {
			s.logf("event=commissions_fetch_failed property_id=%s period=%s error=%v", propertyID, period, err)
		}
		return nil
	}
	metrics.ObserveUpstream("commissions", metrics.ResultSuccess, time.Since(start))
	return commissions
}

func (s *Service) renderArtifact(format string, stmt *statement.Statement, render func(*statement.Statement) ([]byte, error)) ([]byte, error) {
	data, err := render(stmt)
	if err != nil {
		metrics.IncStatementExport(format, metrics.ResultError)
		return nil, fmt.Errorf("statement service: render %s: %w", format, err)
	}
	metrics.IncStatementExport(format, metrics.ResultSuccess)
	return data, nil
}

func (s *Service) writeArtifact(filename, format string, data []byte) (string, error) {
	path, err := s.store.Write(filename, data)
	if err != nil {
		return "", err
	}
	metrics.IncArtifactWritten(format)
	return path, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
