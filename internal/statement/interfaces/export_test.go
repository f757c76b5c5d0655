package interfaces

import (
	"bytes"
	"strings"
	"testing"
	"time"

	statement "owner-portal/internal/statement/domain"
)

func sampleStatement() *statement.Statement {
	period := statement.Period{Year: 2026, Month: time.July}
	invoices := []statement.InvoiceRecord{
		{
			ID:           "inv-1",
			Date:         time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
			GuestName:    "A. Guest",
			GrossRevenue: 100,
			VAT:          6,
			Total:        106,
			InvoiceURL:   "https://billing.example/inv-1",
			Closed:       true,
		},
	}
	expenses := []statement.ExpenseRecord{
		{ID: "exp-1", Date: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), Vendor: "Cleaning Co", Amount: 40},
	}
	commissions := []statement.CommissionRecord{
		{ID: "com-1", Date: time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), Amount: 15},
	}
	return &statement.Statement{
		PropertyID:   "prop-1",
		PropertyName: "Casa do Mar",
		Period:       period,
		Invoices:     invoices,
		Expenses:     expenses,
		Commissions:  commissions,
		Summary:      statement.Aggregate(invoices, expenses, commissions),
	}
}

func TestBuildStatementCSV_Sections(t *testing.T) {
	data, err := BuildStatementCSV(sampleStatement())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(data)

	sections := strings.Split(text, "\n\n")
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d:\n%s", len(sections), text)
	}
	wantOrder := []string{"# Invoices", "# Expenses", "# Commissions", "# Summary"}
	for i, want := range wantOrder {
		if !strings.HasPrefix(sections[i], want) {
			t.Fatalf("section %d should start with %q, got %q", i, want, sections[i])
		}
	}
}

func TestBuildStatementCSV_Formats(t *testing.T) {
	data, err := BuildStatementCSV(sampleStatement())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "2026-7-3") {
		t.Fatalf("expected non-padded date 2026-7-3 in output:\n%s", text)
	}
	if !strings.Contains(text, "inv-1,2026-7-3,A. Guest,100.00,6.00,106.00,https://billing.example/inv-1,true") {
		t.Fatalf("unexpected invoice row:\n%s", text)
	}
	if !strings.Contains(text, "net_payout,51.00") {
		t.Fatalf("expected net_payout 51.00 in summary:\n%s", text)
	}
}

func TestBuildStatementCSV_EmptyStatement(t *testing.T) {
	stmt := &statement.Statement{
		PropertyID: "prop-1",
		Period:     statement.Period{Year: 2026, Month: time.July},
		Summary:    statement.Aggregate(nil, nil, nil),
	}
	data, err := BuildStatementCSV(stmt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(data)
	// Headers remain even when a section carries no rows.
	for _, header := range []string{"id,date,guest", "id,date,vendor", "id,date,amount", "field,value"} {
		if !strings.Contains(text, header) {
			t.Fatalf("expected header %q in output:\n%s", header, text)
		}
	}
	if !strings.Contains(text, "gross,0.00") {
		t.Fatalf("expected zero summary values:\n%s", text)
	}
}

func TestEmptyTableLine(t *testing.T) {
	if got := EmptyTableLine("expenses"); got != "No expenses in this period" {
		t.Fatalf("unexpected empty table line: %q", got)
	}
}

func TestBuildStatementPDF_ProducesDocument(t *testing.T) {
	data, err := BuildStatementPDF(sampleStatement())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got prefix %q", data[:8])
	}
}

func TestBuildStatementPDF_ManyRowsPaginates(t *testing.T) {
	stmt := sampleStatement()
	for i := 0; i < 200; i++ {
		stmt.Invoices = append(stmt.Invoices, statement.InvoiceRecord{
			ID:           "inv-bulk",
			Date:         time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
			GrossRevenue: 10,
			VAT:          0.6,
			Total:        10.6,
		})
	}
	data, err := BuildStatementPDF(stmt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
}

func TestBuildStatementXLSX_ProducesWorkbook(t *testing.T) {
	data, err := BuildStatementXLSX(sampleStatement())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("expected a zip-based workbook, got prefix %q", data[:2])
	}
}

func TestRenderersRejectNilStatement(t *testing.T) {
	if _, err := BuildStatementCSV(nil); err == nil {
		t.Fatal("expected error for nil statement")
	}
	if _, err := BuildStatementPDF(nil); err == nil {
		t.Fatal("expected error for nil statement")
	}
	if _, err := BuildStatementXLSX(nil); err == nil {
		t.Fatal("expected error for nil statement")
	}
}
