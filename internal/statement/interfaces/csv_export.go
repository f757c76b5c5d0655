package interfaces

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	statement "owner-portal/internal/statement/domain"
)

// BuildStatementCSV renders the statement as four named sections joined by
// blank lines: Invoices, Expenses, Commissions, Summary. Each section has
// its own header row. Amounts carry exactly two decimals and dates use the
// legacy non-zero-padded YYYY-M-D form that downstream imports rely on.
func BuildStatementCSV(stmt *statement.Statement) ([]byte, error) {
	if stmt == nil {
		return nil, fmt.Errorf("statement export: nil statement")
	}
	var b strings.Builder

	writeSection(&b, "# Invoices", [][]string{{"id", "date", "guest", "gross", "vat", "total", "invoice_url", "closed"}}, func(w *csv.Writer) {
		for _, inv := range stmt.Invoices {
			_ = w.Write([]string{
				inv.ID,
				csvDate(inv.Date),
				inv.GuestName,
				formatAmount(inv.GrossRevenue),
				formatAmount(inv.VAT),
				formatAmount(inv.Total),
				inv.InvoiceURL,
				fmt.Sprintf("%t", inv.Closed),
			})
		}
	})
	b.WriteString("\n")

	writeSection(&b, "# Expenses", [][]string{{"id", "date", "vendor", "amount"}}, func(w *csv.Writer) {
		for _, exp := range stmt.Expenses {
			_ = w.Write([]string{exp.ID, csvDate(exp.Date), exp.Vendor, formatAmount(exp.Amount)})
		}
	})
	b.WriteString("\n")

	writeSection(&b, "# Commissions", [][]string{{"id", "date", "amount"}}, func(w *csv.Writer) {
		for _, com := range stmt.Commissions {
			_ = w.Write([]string{com.ID, csvDate(com.Date), formatAmount(com.Amount)})
		}
	})
	b.WriteString("\n")

	summary := stmt.Summary
	writeSection(&b, "# Summary", [][]string{{"field", "value"}}, func(w *csv.Writer) {
		_ = w.Write([]string{"gross", formatAmount(summary.Gross)})
		_ = w.Write([]string{"vat", formatAmount(summary.VAT)})
		_ = w.Write([]string{"invoiced_total", formatAmount(summary.InvoicedTotal)})
		_ = w.Write([]string{"expenses_total", formatAmount(summary.ExpensesTotal)})
		_ = w.Write([]string{"commissions_total", formatAmount(summary.CommissionsTotal)})
		_ = w.Write([]string{"net_payout", formatAmount(summary.NetPayout)})
	})

	return []byte(b.String()), nil
}

func writeSection(b *strings.Builder, title string, headers [][]string, body func(w *csv.Writer)) {
	b.WriteString(title)
	b.WriteString("\n")
	w := csv.NewWriter(b)
	for _, header := range headers {
		_ = w.Write(header)
	}
	body(w)
	w.Flush()
}

// csvDate renders YYYY-M-D without zero padding, matching the format the
// portal has always emitted.
func csvDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d-%d-%d", date.Year(), int(date.Month()), date.Day())
}
