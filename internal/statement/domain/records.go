package statement

import "time"

// InvoiceRecord is one normalized upstream billing document.
// Records are rebuilt from the upstream on every aggregation and never persisted.
type InvoiceRecord struct {
	ID            string
	Date          time.Time
	GuestName     string
	GrossRevenue  float64
	VAT           float64
	Total         float64
	InvoiceURL    string
	Closed        bool
	VatResolution VatResolution
}

// ExpenseRecord is one upstream expense line for a property/period.
type ExpenseRecord struct {
	ID     string
	Date   time.Time
	Vendor string
	Amount float64
}

// CommissionRecord is one upstream commission line for a property/period.
type CommissionRecord struct {
	ID     string
	Date   time.Time
	Amount float64
}

// TaxLine is a structured tax item attached to an upstream invoice.
type TaxLine struct {
	Name   string
	Amount float64
}

// UpstreamInvoice is the raw invoice shape as decoded from the billing
// platform. Optional monetary fields are pointers so absence is
// distinguishable from zero.
type UpstreamInvoice struct {
	ID           string
	Date         time.Time
	GuestName    string
	GrossRevenue float64
	VAT          *float64
	Total        *float64
	TaxLines     []TaxLine
	Closed       *bool
	InvoiceURL   string
}
