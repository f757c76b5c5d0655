package saft

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	statement "owner-portal/internal/statement/domain"
)

func TestBuild_RoundTrip(t *testing.T) {
	period := statement.Period{Year: 2026, Month: time.July}
	now := time.Date(2026, 8, 2, 6, 0, 0, 0, time.UTC)
	invoices := []statement.InvoiceRecord{
		{
			ID:           "inv-1",
			Date:         time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
			GuestName:    "A. Guest",
			GrossRevenue: 100,
			VAT:          6,
			Total:        106,
			Closed:       true,
		},
		{
			ID:           "inv-2",
			Date:         time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
			GrossRevenue: 50,
			VAT:          3,
			Total:        53,
		},
	}

	data, err := Build("prop-1", "Casa do Mar", period, invoices, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(data), xml.Header) {
		t.Fatal("expected xml declaration header")
	}

	var doc AuditFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Header.AuditFileVersion != "1.04_01" {
		t.Fatalf("unexpected version: %s", doc.Header.AuditFileVersion)
	}
	if doc.Header.CompanyID != "prop-1" || doc.Header.FiscalYear != 2026 {
		t.Fatalf("unexpected header: %+v", doc.Header)
	}
	if doc.Header.StartDate != "2026-07-01" || doc.Header.EndDate != "2026-07-31" {
		t.Fatalf("unexpected fiscal period: %s..%s", doc.Header.StartDate, doc.Header.EndDate)
	}

	sales := doc.SourceDocuments.SalesInvoices
	if sales.NumberOfEntries != 2 {
		t.Fatalf("expected 2 entries, got %d", sales.NumberOfEntries)
	}
	if sales.TotalCredit != "159.00" {
		t.Fatalf("expected total credit 159.00, got %s", sales.TotalCredit)
	}
	if sales.Invoices[0].InvoiceStatus != "N" {
		t.Fatalf("closed invoice should carry status N, got %s", sales.Invoices[0].InvoiceStatus)
	}
	if sales.Invoices[1].InvoiceStatus != "P" {
		t.Fatalf("pending invoice should carry status P, got %s", sales.Invoices[1].InvoiceStatus)
	}
	if sales.Invoices[0].DocumentTotal.GrossTotal != "106.00" {
		t.Fatalf("unexpected gross total: %s", sales.Invoices[0].DocumentTotal.GrossTotal)
	}
}

func TestBuild_RequiresPropertyID(t *testing.T) {
	if _, err := Build("", "", statement.Period{Year: 2026, Month: time.July}, nil, time.Now()); err == nil {
		t.Fatal("expected error for empty property id")
	}
}
