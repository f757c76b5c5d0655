package saft

import (
	"encoding/xml"
	"fmt"
	"time"

	statement "owner-portal/internal/statement/domain"
)

const auditFileVersion = "1.04_01"

// Build renders the SAFT XML tax file for one property/period from
// normalized invoices.
func Build(propertyID, propertyName string, period statement.Period, invoices []statement.InvoiceRecord, now time.Time) ([]byte, error) {
	if propertyID == "" {
		return nil, fmt.Errorf("saft: empty property id")
	}
	doc := AuditFile{
		Header: Header{
			AuditFileVersion: auditFileVersion,
			CompanyID:        propertyID,
			CompanyName:      propertyName,
			FiscalYear:       period.Year,
			StartDate:        period.Start().Format("2006-01-02"),
			EndDate:          period.End().AddDate(0, 0, -1).Format("2006-01-02"),
			CurrencyCode:     "EUR",
			DateCreated:      now.UTC().Format("2006-01-02"),
		},
	}

	var totalCredit float64
	for _, inv := range invoices {
		status := "N"
		if !inv.Closed {
			status = "P"
		}
		doc.SourceDocuments.SalesInvoices.Invoices = append(doc.SourceDocuments.SalesInvoices.Invoices, Invoice{
			InvoiceNo:     inv.ID,
			InvoiceDate:   inv.Date.Format("2006-01-02"),
			CustomerName:  inv.GuestName,
			InvoiceStatus: status,
			DocumentTotal: DocumentTotal{
				TaxPayable: formatDecimal(inv.VAT),
				NetTotal:   formatDecimal(inv.GrossRevenue),
				GrossTotal: formatDecimal(inv.Total),
			},
		})
		totalCredit += inv.Total
	}
	doc.SourceDocuments.SalesInvoices.NumberOfEntries = len(invoices)
	doc.SourceDocuments.SalesInvoices.TotalCredit = formatDecimal(totalCredit)

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("saft: marshal: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func formatDecimal(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
