package statement

// StatementSummary holds the reconciled financial totals for one
// property/period. Immutable once computed.
type StatementSummary struct {
	Gross            float64
	VAT              float64
	InvoicedTotal    float64
	ExpensesTotal    float64
	CommissionsTotal float64
	NetPayout        float64
}

// Statement is the full reconciled result for one property/period.
type Statement struct {
	PropertyID   string
	PropertyName string
	Period       Period
	Invoices     []InvoiceRecord
	Expenses     []ExpenseRecord
	Commissions  []CommissionRecord
	Summary      StatementSummary
}

// Aggregate combines normalized invoices, expenses and commissions into a
// summary. Pure and deterministic; empty inputs yield an all-zero summary.
// NetPayout may be negative when expenses and commissions exceed invoiced
// revenue, which is a valid outcome rather than an error.
func Aggregate(invoices []InvoiceRecord, expenses []ExpenseRecord, commissions []CommissionRecord) StatementSummary {
	var s StatementSummary
	for _, inv := range invoices {
		s.Gross += inv.GrossRevenue
		s.VAT += inv.VAT
		s.InvoicedTotal += inv.Total
	}
	for _, exp := range expenses {
		s.ExpensesTotal += exp.Amount
	}
	for _, com := range commissions {
		s.CommissionsTotal += com.Amount
	}
	s.NetPayout = s.InvoicedTotal - s.CommissionsTotal - s.ExpensesTotal
	return s
}
