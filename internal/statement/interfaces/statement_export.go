package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	statement "owner-portal/internal/statement/domain"
)

const (
	pdfRowHeight   = 6.0
	pdfPageBreakAt = 270.0
)

// EmptyTableLine is the placeholder rendered instead of a zero-row table.
func EmptyTableLine(name string) string {
	return fmt.Sprintf("No %s in this period", name)
}

type pdfTable struct {
	title   string
	name    string
	headers []string
	widths  []float64
	aligns  []string
	rows    [][]string
}

// BuildStatementPDF renders the owner statement PDF: title, property/period
// header, the six-line summary block, then the invoice, expense and
// commission tables. Each table paginates on its own Y cursor and redraws
// its header row on a fresh page.
func BuildStatementPDF(stmt *statement.Statement) ([]byte, error) {
	if stmt == nil {
		return nil, fmt.Errorf("statement export: nil statement")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Owner Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	name := stmt.PropertyName
	if name == "" {
		name = stmt.PropertyID
	}
	pdf.Cell(0, 6, fmt.Sprintf("Property: %s (%s)", name, stmt.PropertyID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", stmt.Period))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	summary := stmt.Summary
	summaryLines := []struct {
		label string
		value float64
	}{
		{"Gross revenue", summary.Gross},
		{"VAT", summary.VAT},
		{"Invoiced total", summary.InvoicedTotal},
		{"Expenses", summary.ExpensesTotal},
		{"Commissions", summary.CommissionsTotal},
		{"Net payout", summary.NetPayout},
	}
	for _, line := range summaryLines {
		pdf.CellFormat(60, pdfRowHeight, line.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, pdfRowHeight, formatAmount(line.value), "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	for _, table := range []pdfTable{invoiceTable(stmt.Invoices), expenseTable(stmt.Expenses), commissionTable(stmt.Commissions)} {
		renderPDFTable(pdf, table)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("statement export: pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPDFTable(pdf *gofpdf.Fpdf, table pdfTable) {
	if pdf.GetY()+3*pdfRowHeight > pdfPageBreakAt {
		pdf.AddPage()
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, table.title)
	pdf.Ln(8)

	if len(table.rows) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, pdfRowHeight, EmptyTableLine(table.name))
		pdf.Ln(10)
		return
	}

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		for i, header := range table.headers {
			pdf.CellFormat(table.widths[i], pdfRowHeight, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
	}
	writeHeader()

	for _, row := range table.rows {
		if pdf.GetY()+pdfRowHeight > pdfPageBreakAt {
			pdf.AddPage()
			writeHeader()
		}
		for i, cell := range row {
			pdf.CellFormat(table.widths[i], pdfRowHeight, cell, "1", 0, table.aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func invoiceTable(invoices []statement.InvoiceRecord) pdfTable {
	rows := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		status := "pending"
		if inv.Closed {
			status = "closed"
		}
		rows = append(rows, []string{
			inv.ID,
			formatDate(inv.Date),
			inv.GuestName,
			formatAmount(inv.GrossRevenue),
			formatAmount(inv.VAT),
			formatAmount(inv.Total),
			status,
		})
	}
	return pdfTable{
		title:   "Invoices",
		name:    "invoices",
		headers: []string{"ID", "Date", "Guest", "Gross", "VAT", "Total", "Status"},
		widths:  []float64{28, 24, 44, 24, 20, 24, 22},
		aligns:  []string{"L", "C", "L", "R", "R", "R", "C"},
		rows:    rows,
	}
}

func expenseTable(expenses []statement.ExpenseRecord) pdfTable {
	rows := make([][]string, 0, len(expenses))
	for _, exp := range expenses {
		rows = append(rows, []string{exp.ID, formatDate(exp.Date), exp.Vendor, formatAmount(exp.Amount)})
	}
	return pdfTable{
		title:   "Expenses",
		name:    "expenses",
		headers: []string{"ID", "Date", "Vendor", "Amount"},
		widths:  []float64{36, 30, 80, 40},
		aligns:  []string{"L", "C", "L", "R"},
		rows:    rows,
	}
}

func commissionTable(commissions []statement.CommissionRecord) pdfTable {
	rows := make([][]string, 0, len(commissions))
	for _, com := range commissions {
		rows = append(rows, []string{com.ID, formatDate(com.Date), formatAmount(com.Amount)})
	}
	return pdfTable{
		title:   "Commissions",
		name:    "commissions",
		headers: []string{"ID", "Date", "Amount"},
		widths:  []float64{56, 60, 70},
		aligns:  []string{"L", "C", "R"},
		rows:    rows,
	}
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format("2006-01-02")
}
