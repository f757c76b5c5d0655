package saft

import "encoding/xml"

// AuditFile is the SAFT document root.
type AuditFile struct {
	XMLName         xml.Name        `xml:"AuditFile"`
	Header          Header          `xml:"Header"`
	SourceDocuments SourceDocuments `xml:"SourceDocuments"`
}

// Header identifies the reporting entity and fiscal period.
type Header struct {
	AuditFileVersion string `xml:"AuditFileVersion"`
	CompanyID        string `xml:"CompanyID"`
	CompanyName      string `xml:"CompanyName"`
	FiscalYear       int    `xml:"FiscalYear"`
	StartDate        string `xml:"StartDate"`
	EndDate          string `xml:"EndDate"`
	CurrencyCode     string `xml:"CurrencyCode"`
	DateCreated      string `xml:"DateCreated"`
}

// SourceDocuments wraps the sales invoices block.
type SourceDocuments struct {
	SalesInvoices SalesInvoices `xml:"SalesInvoices"`
}

// SalesInvoices carries the invoice list and control totals.
type SalesInvoices struct {
	NumberOfEntries int       `xml:"NumberOfEntries"`
	TotalCredit     string    `xml:"TotalCredit"`
	Invoices        []Invoice `xml:"Invoice"`
}

// Invoice is one sales document.
type Invoice struct {
	InvoiceNo     string        `xml:"InvoiceNo"`
	InvoiceDate   string        `xml:"InvoiceDate"`
	CustomerName  string        `xml:"CustomerName"`
	InvoiceStatus string        `xml:"InvoiceStatus"`
	DocumentTotal DocumentTotal `xml:"DocumentTotals"`
}

// DocumentTotal carries the per-invoice monetary breakdown.
type DocumentTotal struct {
	TaxPayable string `xml:"TaxPayable"`
	NetTotal   string `xml:"NetTotal"`
	GrossTotal string `xml:"GrossTotal"`
}
