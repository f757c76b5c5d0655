package interfaces

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	statement "owner-portal/internal/statement/domain"
)

// BuildStatementXLSX renders the statement workbook: a summary sheet plus
// one sheet per record type.
func BuildStatementXLSX(stmt *statement.Statement) ([]byte, error) {
	if stmt == nil {
		return nil, fmt.Errorf("statement export: nil statement")
	}
	f := excelize.NewFile()
	summarySheet := "summary"
	f.SetSheetName("Sheet1", summarySheet)

	_ = f.SetCellValue(summarySheet, "A1", "Owner Statement")
	_ = f.SetCellValue(summarySheet, "A3", "Property")
	_ = f.SetCellValue(summarySheet, "B3", stmt.PropertyID)
	_ = f.SetCellValue(summarySheet, "A4", "Period")
	_ = f.SetCellValue(summarySheet, "B4", stmt.Period.String())
	_ = f.SetCellValue(summarySheet, "A5", "Gross revenue")
	_ = f.SetCellValue(summarySheet, "B5", stmt.Summary.Gross)
	_ = f.SetCellValue(summarySheet, "A6", "VAT")
	_ = f.SetCellValue(summarySheet, "B6", stmt.Summary.VAT)
	_ = f.SetCellValue(summarySheet, "A7", "Invoiced total")
	_ = f.SetCellValue(summarySheet, "B7", stmt.Summary.InvoicedTotal)
	_ = f.SetCellValue(summarySheet, "A8", "Expenses")
	_ = f.SetCellValue(summarySheet, "B8", stmt.Summary.ExpensesTotal)
	_ = f.SetCellValue(summarySheet, "A9", "Commissions")
	_ = f.SetCellValue(summarySheet, "B9", stmt.Summary.CommissionsTotal)
	_ = f.SetCellValue(summarySheet, "A10", "Net payout")
	_ = f.SetCellValue(summarySheet, "B10", stmt.Summary.NetPayout)

	invoiceSheet := "invoices"
	_, _ = f.NewSheet(invoiceSheet)
	_ = f.SetCellValue(invoiceSheet, "A1", "ID")
	_ = f.SetCellValue(invoiceSheet, "B1", "Date")
	_ = f.SetCellValue(invoiceSheet, "C1", "Guest")
	_ = f.SetCellValue(invoiceSheet, "D1", "Gross")
	_ = f.SetCellValue(invoiceSheet, "E1", "VAT")
	_ = f.SetCellValue(invoiceSheet, "F1", "Total")
	for i, inv := range stmt.Invoices {
		row := i + 2
		_ = f.SetCellValue(invoiceSheet, fmt.Sprintf("A%d", row), inv.ID)
		_ = f.SetCellValue(invoiceSheet, fmt.Sprintf("B%d", row), formatDate(inv.Date))
		_ = f.SetCellValue(invoiceSheet, fmt.Sprintf("C%d", row), inv.GuestName)
		_ = f.SetCellValue(invoiceSheet, fmt.Sprintf("D%d", row), inv.GrossRevenue)
		_ = f.SetCellValue(invoiceSheet, fmt.Sprintf("E%d", row), inv.VAT)
		_ = f.SetCellValue(invoiceSheet, fmt.Sprintf("F%d", row), inv.Total)
	}

	expenseSheet := "expenses"
	_, _ = f.NewSheet(expenseSheet)
	_ = f.SetCellValue(expenseSheet, "A1", "ID")
	_ = f.SetCellValue(expenseSheet, "B1", "Date")
	_ = f.SetCellValue(expenseSheet, "C1", "Vendor")
	_ = f.SetCellValue(expenseSheet, "D1", "Amount")
	for i, exp := range stmt.Expenses {
		row := i + 2
		_ = f.SetCellValue(expenseSheet, fmt.Sprintf("A%d", row), exp.ID)
		_ = f.SetCellValue(expenseSheet, fmt.Sprintf("B%d", row), formatDate(exp.Date))
		_ = f.SetCellValue(expenseSheet, fmt.Sprintf("C%d", row), exp.Vendor)
		_ = f.SetCellValue(expenseSheet, fmt.Sprintf("D%d", row), exp.Amount)
	}

	commissionSheet := "commissions"
	_, _ = f.NewSheet(commissionSheet)
	_ = f.SetCellValue(commissionSheet, "A1", "ID")
	_ = f.SetCellValue(commissionSheet, "B1", "Date")
	_ = f.SetCellValue(commissionSheet, "C1", "Amount")
	for i, com := range stmt.Commissions {
		row := i + 2
		_ = f.SetCellValue(commissionSheet, fmt.Sprintf("A%d", row), com.ID)
		_ = f.SetCellValue(commissionSheet, fmt.Sprintf("B%d", row), formatDate(com.Date))
		_ = f.SetCellValue(commissionSheet, fmt.Sprintf("C%d", row), com.Amount)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("statement export: xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
