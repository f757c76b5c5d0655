package automation

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	runrepo "owner-portal/internal/automation/infrastructure/postgres"
	"owner-portal/internal/booking"
	"owner-portal/internal/notify"
	"owner-portal/internal/observability/metrics"
	portfolio "owner-portal/internal/portfolio/domain"
	"owner-portal/internal/statement/application"
	statement "owner-portal/internal/statement/domain"
)

const (
	JobStatements = "statements"
	JobDigest     = "digest"

	digestLookahead = 7 * 24 * time.Hour
)

// StatementGenerator produces statement and tax-file artifacts.
type StatementGenerator interface {
	Generate(ctx context.Context, propertyID, propertyName string, period statement.Period) (*application.Result, error)
	GenerateTaxFile(ctx context.Context, propertyID, propertyName string, period statement.Period) (string, error)
}

// PropertyCatalog resolves the properties a batch run targets.
type PropertyCatalog interface {
	Get(ctx context.Context, id string) (*portfolio.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]portfolio.Property, error)
}

// ReservationLister fetches upcoming reservations for the digest job.
type ReservationLister interface {
	ListReservations(ctx context.Context, propertyID string, start, end time.Time) ([]booking.Reservation, error)
}

// RunRecorder persists run history. May be nil.
type RunRecorder interface {
	CreateRun(ctx context.Context, run *runrepo.Run) error
	FinishRun(ctx context.Context, id, status, errMsg string, finishedAt time.Time) error
}

// Runner executes recurring report jobs over a set of properties. Failures
// are isolated per property: one broken credential or upstream outage never
// aborts the rest of the batch.
type Runner struct {
	generator    StatementGenerator
	catalog      PropertyCatalog
	reservations ReservationLister
	mailer       notify.Mailer
	runs         RunRecorder
	propertyIDs  []string
	logger       *log.Logger
}

// NewRunner constructs a Runner. propertyIDs may be empty to target the
// whole portfolio.
func NewRunner(generator StatementGenerator, catalog PropertyCatalog, reservations ReservationLister, mailer notify.Mailer, runs RunRecorder, propertyIDs []string, logger *log.Logger) (*Runner, error) {
	if generator == nil {
		return nil, fmt.Errorf("automation runner: nil generator")
	}
	if catalog == nil {
		return nil, fmt.Errorf("automation runner: nil catalog")
	}
	return &Runner{
		generator:    generator,
		catalog:      catalog,
		reservations: reservations,
		mailer:       mailer,
		runs:         runs,
		propertyIDs:  propertyIDs,
		logger:       logger,
	}, nil
}

// RunMonthlyStatements generates and emails the statement and SAFT file for
// every target property. Returns counts of succeeded and failed items.
func (r *Runner) RunMonthlyStatements(ctx context.Context, period statement.Period) (int, int) {
	batchStart := time.Now()
	defer func() { metrics.ObserveAutomationBatch(time.Since(batchStart)) }()

	properties := r.targetProperties(ctx)
	var succeeded, failed int
	for _, property := range properties {
		if err := r.runStatementItem(ctx, property, period); err != nil {
			failed++
			metrics.IncAutomationRun(JobStatements, metrics.ResultError)
			r.logf("event=statement_job_failed property_id=%s period=%s error=%v", property.ID, period, err)
			continue
		}
		succeeded++
		metrics.IncAutomationRun(JobStatements, metrics.ResultSuccess)
	}
	r.logf("event=statement_batch_done period=%s succeeded=%d failed=%d", period, succeeded, failed)
	return succeeded, failed
}

func (r *Runner) runStatementItem(ctx context.Context, property portfolio.Property, period statement.Period) error {
	runID := fmt.Sprintf("%s-%s-%s-%s", JobStatements, property.ID, period.Key(), time.Now().UTC().Format("20060102150405"))
	r.recordStart(ctx, runID, JobStatements, property.ID, period.String())

	result, err := r.generator.Generate(ctx, property.ID, property.Name, period)
	if err != nil {
		r.recordFinish(ctx, runID, runrepo.RunStatusFailed, err)
		return err
	}
	if _, err := r.generator.GenerateTaxFile(ctx, property.ID, property.Name, period); err != nil {
		r.recordFinish(ctx, runID, runrepo.RunStatusFailed, err)
		return err
	}
	if err := r.mailStatement(ctx, property, period, result); err != nil {
		r.recordFinish(ctx, runID, runrepo.RunStatusFailed, err)
		return err
	}
	r.recordFinish(ctx, runID, runrepo.RunStatusSucceeded, nil)
	return nil
}

func (r *Runner) mailStatement(ctx context.Context, property portfolio.Property, period statement.Period, result *application.Result) error {
	if r.mailer == nil || property.OwnerEmail == "" {
		return nil
	}
	pdfData, err := readArtifact(result.PDFPath)
	if err != nil {
		return err
	}
	csvData, err := readArtifact(result.CSVPath)
	if err != nil {
		return err
	}
	msg := notify.Message{
		To:      []string{property.OwnerEmail},
		Subject: fmt.Sprintf("Owner statement %s - %s", property.Name, period),
		Body: fmt.Sprintf("Statement for %s, period %s.\nNet payout: %.2f\n",
			property.Name, period, result.Statement.Summary.NetPayout),
		Attachments: []notify.Attachment{
			{Filename: result.PDFFilename, ContentType: "application/pdf", Content: pdfData},
			{Filename: result.CSVFilename, ContentType: "text/csv", Content: csvData},
		},
	}
	if err := r.mailer.Send(ctx, msg); err != nil {
		metrics.IncEmailSent(metrics.ResultError)
		return fmt.Errorf("automation runner: send statement mail: %w", err)
	}
	metrics.IncEmailSent(metrics.ResultSuccess)
	return nil
}

// RunWeeklyDigest emails each owner the reservations arriving in the next
// seven days. Returns counts of succeeded and failed items.
func (r *Runner) RunWeeklyDigest(ctx context.Context, now time.Time) (int, int) {
	if r.reservations == nil || r.mailer == nil {
		return 0, 0
	}
	var succeeded, failed int
	for _, property := range r.targetProperties(ctx) {
		if property.OwnerEmail == "" {
			continue
		}
		if err := r.runDigestItem(ctx, property, now); err != nil {
			failed++
			metrics.IncAutomationRun(JobDigest, metrics.ResultError)
			r.logf("event=digest_job_failed property_id=%s error=%v", property.ID, err)
			continue
		}
		succeeded++
		metrics.IncAutomationRun(JobDigest, metrics.ResultSuccess)
	}
	r.logf("event=digest_batch_done succeeded=%d failed=%d", succeeded, failed)
	return succeeded, failed
}

func (r *Runner) runDigestItem(ctx context.Context, property portfolio.Property, now time.Time) error {
	reservations, err := r.reservations.ListReservations(ctx, property.ID, now, now.Add(digestLookahead))
	if err != nil {
		return err
	}
	msg := notify.Message{
		To:      []string{property.OwnerEmail},
		Subject: fmt.Sprintf("Upcoming reservations - %s", property.Name),
		Body:    digestBody(property.Name, reservations),
	}
	if err := r.mailer.Send(ctx, msg); err != nil {
		metrics.IncEmailSent(metrics.ResultError)
		return fmt.Errorf("automation runner: send digest mail: %w", err)
	}
	metrics.IncEmailSent(metrics.ResultSuccess)
	return nil
}

func digestBody(propertyName string, reservations []booking.Reservation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reservations for %s in the next 7 days:\n\n", propertyName)
	if len(reservations) == 0 {
		b.WriteString("No upcoming reservations.\n")
		return b.String()
	}
	for _, res := range reservations {
		fmt.Fprintf(&b, "- %s: %s to %s (%s, %.2f)\n",
			res.GuestName, res.CheckIn, res.CheckOut, res.Channel, res.Amount)
	}
	return b.String()
}

func (r *Runner) targetProperties(ctx context.Context) []portfolio.Property {
	if len(r.propertyIDs) > 0 {
		var result []portfolio.Property
		for _, id := range r.propertyIDs {
			property, err := r.catalog.Get(ctx, id)
			if err != nil {
				r.logf("event=property_lookup_failed property_id=%s error=%v", id, err)
				continue
			}
			result = append(result, *property)
		}
		return result
	}
	properties, err := r.catalog.ListByOwner(ctx, "")
	if err != nil {
		r.logf("event=property_list_failed error=%v", err)
		return nil
	}
	return properties
}

func (r *Runner) recordStart(ctx context.Context, id, jobType, propertyID, period string) {
	if r.runs == nil {
		return
	}
	if err := r.runs.CreateRun(ctx, &runrepo.Run{
		ID:         id,
		JobType:    jobType,
		PropertyID: propertyID,
		Period:     period,
	}); err != nil {
		r.logf("event=run_record_failed run_id=%s error=%v", id, err)
	}
}

func (r *Runner) recordFinish(ctx context.Context, id, status string, runErr error) {
	if r.runs == nil {
		return
	}
	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
	}
	if err := r.runs.FinishRun(ctx, id, status, errMsg, time.Now().UTC()); err != nil {
		r.logf("event=run_record_failed run_id=%s error=%v", id, err)
	}
}

func readArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("automation runner: read artifact: %w", err)
	}
	return data, nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
