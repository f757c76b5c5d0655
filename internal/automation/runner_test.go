package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	runrepo "owner-portal/internal/automation/infrastructure/postgres"
	"owner-portal/internal/booking"
	"owner-portal/internal/notify"
	portfolio "owner-portal/internal/portfolio/domain"
	"owner-portal/internal/statement/application"
	statement "owner-portal/internal/statement/domain"
)

type stubGenerator struct {
	failFor   map[string]bool
	artifacts string
	generated []string
}

func (s *stubGenerator) Generate(ctx context.Context, propertyID, propertyName string, period statement.Period) (*application.Result, error) {
	if s.failFor[propertyID] {
		return nil, errors.New("upstream down")
	}
	s.generated = append(s.generated, propertyID)
	result := &application.Result{
		Statement: &statement.Statement{
			PropertyID: propertyID,
			Period:     period,
		},
		PDFFilename: "statement.pdf",
		CSVFilename: "statement.csv",
	}
	if s.artifacts != "" {
		result.PDFPath = filepath.Join(s.artifacts, "statement.pdf")
		result.CSVPath = filepath.Join(s.artifacts, "statement.csv")
	}
	return result, nil
}

func (s *stubGenerator) GenerateTaxFile(ctx context.Context, propertyID, propertyName string, period statement.Period) (string, error) {
	if s.failFor[propertyID] {
		return "", errors.New("upstream down")
	}
	return "saft.xml", nil
}

type stubCatalog struct {
	properties []portfolio.Property
}

func (s *stubCatalog) Get(ctx context.Context, id string) (*portfolio.Property, error) {
	for _, p := range s.properties {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, portfolio.ErrNotFound
}

func (s *stubCatalog) ListByOwner(ctx context.Context, ownerID string) ([]portfolio.Property, error) {
	return s.properties, nil
}

type stubRecorder struct {
	mu       sync.Mutex
	created  []runrepo.Run
	finished map[string]string
}

func (s *stubRecorder) CreateRun(ctx context.Context, run *runrepo.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, *run)
	return nil
}

func (s *stubRecorder) FinishRun(ctx context.Context, id, status, errMsg string, finishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished == nil {
		s.finished = map[string]string{}
	}
	s.finished[id] = status
	return nil
}

type stubMailer struct {
	sent []notify.Message
	err  error
}

func (s *stubMailer) Send(ctx context.Context, msg notify.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type stubReservations struct {
	reservations []booking.Reservation
	err          error
}

func (s *stubReservations) ListReservations(ctx context.Context, propertyID string, start, end time.Time) ([]booking.Reservation, error) {
	return s.reservations, s.err
}

func TestRunMonthlyStatements_IsolatesFailures(t *testing.T) {
	catalog := &stubCatalog{properties: []portfolio.Property{
		{ID: "prop-1", Name: "One"},
		{ID: "prop-2", Name: "Two"},
		{ID: "prop-3", Name: "Three"},
	}}
	generator := &stubGenerator{failFor: map[string]bool{"prop-2": true}}
	recorder := &stubRecorder{}

	runner, err := NewRunner(generator, catalog, nil, nil, recorder, nil, nil)
	if err != nil {
		t.Fatalf("runner error: %v", err)
	}
	succeeded, failed := runner.RunMonthlyStatements(context.Background(), statement.Period{Year: 2026, Month: time.July})
	if succeeded != 2 || failed != 1 {
		t.Fatalf("expected 2 succeeded / 1 failed, got %d/%d", succeeded, failed)
	}
	if len(generator.generated) != 2 {
		t.Fatalf("expected both healthy properties generated, got %v", generator.generated)
	}

	var failedRuns, succeededRuns int
	for _, status := range recorder.finished {
		switch status {
		case runrepo.RunStatusFailed:
			failedRuns++
		case runrepo.RunStatusSucceeded:
			succeededRuns++
		}
	}
	if failedRuns != 1 || succeededRuns != 2 {
		t.Fatalf("expected run history 2 succeeded / 1 failed, got %d/%d", succeededRuns, failedRuns)
	}
}

func TestRunMonthlyStatements_MailsOwners(t *testing.T) {
	artifacts := t.TempDir()
	for _, name := range []string{"statement.pdf", "statement.csv"} {
		if err := os.WriteFile(filepath.Join(artifacts, name), []byte("data"), 0o644); err != nil {
			t.Fatalf("write artifact: %v", err)
		}
	}

	catalog := &stubCatalog{properties: []portfolio.Property{
		{ID: "prop-1", Name: "One", OwnerEmail: "owner@example.com"},
		{ID: "prop-2", Name: "Two"},
	}}
	generator := &stubGenerator{artifacts: artifacts}
	mailer := &stubMailer{}

	runner, err := NewRunner(generator, catalog, nil, mailer, nil, nil, nil)
	if err != nil {
		t.Fatalf("runner error: %v", err)
	}
	succeeded, failed := runner.RunMonthlyStatements(context.Background(), statement.Period{Year: 2026, Month: time.July})
	if succeeded != 2 || failed != 0 {
		t.Fatalf("expected 2 succeeded, got %d/%d", succeeded, failed)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one mail for the property with an owner email, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if len(msg.Attachments) != 2 {
		t.Fatalf("expected pdf and csv attachments, got %d", len(msg.Attachments))
	}
	if msg.To[0] != "owner@example.com" {
		t.Fatalf("unexpected recipient: %v", msg.To)
	}
}

func TestRunMonthlyStatements_ExplicitPropertyList(t *testing.T) {
	catalog := &stubCatalog{properties: []portfolio.Property{
		{ID: "prop-1", Name: "One"},
		{ID: "prop-2", Name: "Two"},
	}}
	generator := &stubGenerator{}

	runner, err := NewRunner(generator, catalog, nil, nil, nil, []string{"prop-2", "prop-missing"}, nil)
	if err != nil {
		t.Fatalf("runner error: %v", err)
	}
	succeeded, failed := runner.RunMonthlyStatements(context.Background(), statement.Period{Year: 2026, Month: time.July})
	if succeeded != 1 || failed != 0 {
		t.Fatalf("expected only the configured existing property, got %d/%d", succeeded, failed)
	}
	if len(generator.generated) != 1 || generator.generated[0] != "prop-2" {
		t.Fatalf("unexpected generated set: %v", generator.generated)
	}
}

func TestRunWeeklyDigest(t *testing.T) {
	catalog := &stubCatalog{properties: []portfolio.Property{
		{ID: "prop-1", Name: "One", OwnerEmail: "owner@example.com"},
		{ID: "prop-2", Name: "Two"},
	}}
	reservations := &stubReservations{reservations: []booking.Reservation{
		{GuestName: "A. Guest", CheckIn: "2026-09-01", CheckOut: "2026-09-04", Channel: "airbnb", Amount: 300},
	}}
	mailer := &stubMailer{}

	runner, err := NewRunner(&stubGenerator{}, catalog, reservations, mailer, nil, nil, nil)
	if err != nil {
		t.Fatalf("runner error: %v", err)
	}
	succeeded, failed := runner.RunWeeklyDigest(context.Background(), time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC))
	if succeeded != 1 || failed != 0 {
		t.Fatalf("expected digest for the one property with an email, got %d/%d", succeeded, failed)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one digest mail, got %d", len(mailer.sent))
	}
	body := mailer.sent[0].Body
	for _, want := range []string{"A. Guest", "2026-09-01", "airbnb"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in digest body:\n%s", want, body)
		}
	}
}
