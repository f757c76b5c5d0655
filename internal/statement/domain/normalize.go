package statement

import "time"

// VatResolution names the rule that established an invoice's VAT amount.
type VatResolution string

const (
	// VatFromUpstream uses the explicit VAT field supplied by the platform.
	VatFromUpstream VatResolution = "upstream_vat"
	// VatFromTotal derives VAT from an authoritative upstream total.
	VatFromTotal VatResolution = "derived_from_total"
	// VatFromTaxLines sums structured tax line items.
	VatFromTaxLines VatResolution = "tax_lines"
	// VatFlatRate applies the flat fallback rate when nothing else is known.
	VatFlatRate VatResolution = "flat_rate"
)

// FlatVatRate is the fallback VAT rate applied when the upstream supplies
// neither a VAT amount, a total, nor tax lines.
const FlatVatRate = 0.06

// closedGraceWindow is how recent an undated-status invoice may be and still
// count as pending.
const closedGraceWindow = 7 * 24 * time.Hour

// NormalizeInvoice maps a raw upstream invoice into an InvoiceRecord,
// resolving VAT and total with a fixed rule precedence:
//
//  1. explicit upstream VAT field
//  2. explicit upstream total (VAT derived when total exceeds gross)
//  3. structured tax lines (overrides 1 and 2 when present)
//  4. flat-rate fallback when both VAT and total are still zero
//
// The total is always backfilled to gross+VAT when the upstream supplied no
// authoritative value.
func NormalizeInvoice(raw UpstreamInvoice, now time.Time) InvoiceRecord {
	rec := InvoiceRecord{
		ID:           raw.ID,
		Date:         raw.Date,
		GuestName:    raw.GuestName,
		GrossRevenue: raw.GrossRevenue,
		InvoiceURL:   raw.InvoiceURL,
	}

	var vat, total float64
	resolution := VatResolution("")

	if raw.VAT != nil {
		vat = *raw.VAT
		resolution = VatFromUpstream
	}
	if raw.Total != nil {
		total = *raw.Total
		if vat == 0 && total > rec.GrossRevenue {
			vat = total - rec.GrossRevenue
			resolution = VatFromTotal
		}
	}
	if len(raw.TaxLines) > 0 {
		vat = 0
		for _, line := range raw.TaxLines {
			vat += line.Amount
		}
		total = rec.GrossRevenue + vat
		resolution = VatFromTaxLines
	}
	if vat == 0 && total == 0 {
		vat = rec.GrossRevenue * FlatVatRate
		total = rec.GrossRevenue + vat
		resolution = VatFlatRate
	}

	if vat < 0 {
		vat = 0
	}
	if total == 0 {
		total = rec.GrossRevenue + vat
	}
	if total < rec.GrossRevenue {
		total = rec.GrossRevenue + vat
	}

	rec.VAT = vat
	rec.Total = total
	rec.VatResolution = resolution
	rec.Closed = resolveClosed(raw, now)
	return rec
}

// NormalizeInvoices normalizes a batch in upstream order.
func NormalizeInvoices(raws []UpstreamInvoice, now time.Time) []InvoiceRecord {
	records := make([]InvoiceRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, NormalizeInvoice(raw, now))
	}
	return records
}

// resolveClosed prefers the explicit upstream status. Without one, invoices
// older than the grace window count as closed and recent or future-dated
// invoices as pending. This is a heuristic, not a guaranteed contract; the
// upstream omits the status for some account tiers.
func resolveClosed(raw UpstreamInvoice, now time.Time) bool {
	if raw.Closed != nil {
		return *raw.Closed
	}
	if raw.Date.IsZero() {
		return false
	}
	return raw.Date.Before(now.Add(-closedGraceWindow))
}
