package billing

import (
	"strings"
	"time"

	statement "owner-portal/internal/statement/domain"
)

// The platform is inconsistent about field naming across account tiers:
// the pre-tax amount arrives as value or amount, the tax as vat, taxes or
// structured taxLines, and the finalized flag as closed or a status enum.
// Monetary fields are pointers so a genuine zero survives decoding.
type wireInvoice struct {
	ID         string        `json:"id"`
	Date       string        `json:"date"`
	GuestName  string        `json:"guestName"`
	Value      *float64      `json:"value"`
	Amount     *float64      `json:"amount"`
	Total      *float64      `json:"total"`
	VAT        *float64      `json:"vat"`
	Taxes      *float64      `json:"taxes"`
	TaxLines   []wireTaxLine `json:"taxLines"`
	Closed     *bool         `json:"closed"`
	Status     string        `json:"status"`
	InvoiceURL string        `json:"invoiceUrl"`
}

type wireTaxLine struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type wireExpense struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Vendor string  `json:"vendor"`
	Amount float64 `json:"amount"`
}

type wireCommission struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

func decodeInvoices(wire []wireInvoice) []statement.UpstreamInvoice {
	raws := make([]statement.UpstreamInvoice, 0, len(wire))
	for _, w := range wire {
		raw := statement.UpstreamInvoice{
			ID:         w.ID,
			Date:       parseUpstreamDate(w.Date),
			GuestName:  w.GuestName,
			InvoiceURL: w.InvoiceURL,
			Total:      w.Total,
			Closed:     decodeClosed(w),
		}
		switch {
		case w.Value != nil:
			raw.GrossRevenue = *w.Value
		case w.Amount != nil:
			raw.GrossRevenue = *w.Amount
		}
		switch {
		case w.VAT != nil:
			raw.VAT = w.VAT
		case w.Taxes != nil:
			raw.VAT = w.Taxes
		}
		for _, line := range w.TaxLines {
			raw.TaxLines = append(raw.TaxLines, statement.TaxLine{Name: line.Name, Amount: line.Amount})
		}
		raws = append(raws, raw)
	}
	return raws
}

func decodeClosed(w wireInvoice) *bool {
	if w.Closed != nil {
		return w.Closed
	}
	switch strings.ToLower(w.Status) {
	case "paid", "closed", "finalized":
		v := true
		return &v
	case "open", "pending", "draft":
		v := false
		return &v
	}
	return nil
}

func parseUpstreamDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
