package statement

import (
	"fmt"
	"time"
)

// Period identifies one statement month.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod validates and builds a Period.
func NewPeriod(year int, month int) (Period, error) {
	if year < 2000 || year > 2100 {
		return Period{}, fmt.Errorf("statement: invalid year %d", year)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("statement: invalid month %d", month)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// Start returns the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month in UTC.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Key returns the filename key, e.g. "2026_08".
func (p Period) Key() string {
	return fmt.Sprintf("%04d_%02d", p.Year, int(p.Month))
}

// String returns the display form, e.g. "2026-08".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
