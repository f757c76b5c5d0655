package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	statement "owner-portal/internal/statement/domain"
)

// ErrModuleNotEnabled reports an upstream 404, which the billing platform
// returns when the expenses or commissions module is not provisioned for the
// account. Callers must treat it distinctly from transport failures.
var ErrModuleNotEnabled = errors.New("billing: module not enabled")

const (
	defaultTimeout = 15 * time.Second

	invoiceRetryAttempts = 3
	invoiceRetryBackoff  = 500 * time.Millisecond
)

// Client is a minimal REST client for the tax/invoicing platform. API keys
// are passed per call because each property carries its own credential.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient constructs a billing client.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("billing: empty base url")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

// ListInvoices fetches raw invoices for a property and date range. Dates are
// converted to the epoch seconds the platform expects. Transient failures
// (network errors and 5xx) are retried with doubling backoff because invoices
// are the one fatal dependency of statement generation.
func (c *Client) ListInvoices(ctx context.Context, apiKey, propertyID string, start, end time.Time) ([]statement.UpstreamInvoice, error) {
	if apiKey == "" {
		return nil, errors.New("billing: empty api key")
	}
	if propertyID == "" {
		return nil, errors.New("billing: empty property id")
	}
	query := url.Values{}
	query.Set("APIKEY", apiKey)
	query.Set("property_id", propertyID)
	query.Set("date_start", strconv.FormatInt(start.Unix(), 10))
	query.Set("date_end", strconv.FormatInt(end.Unix(), 10))

	var wire []wireInvoice
	backoff := invoiceRetryBackoff
	var lastErr error
	for attempt := 0; attempt < invoiceRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		lastErr = c.getJSON(ctx, "/getInvoices", query, &wire)
		if lastErr == nil {
			return decodeInvoices(wire), nil
		}
		if !isTransient(lastErr) {
			return nil, lastErr
		}
	}
	return nil, fmt.Errorf("billing: invoices fetch failed after %d attempts: %w", invoiceRetryAttempts, lastErr)
}

// ListExpenses fetches expenses for a property and date range. Returns
// ErrModuleNotEnabled on 404.
func (c *Client) ListExpenses(ctx context.Context, apiKey, propertyID string, start, end time.Time) ([]statement.ExpenseRecord, error) {
	var wire []wireExpense
	if err := c.getJSON(ctx, "/expenses", periodQuery(apiKey, propertyID, start, end), &wire); err != nil {
		return nil, err
	}
	records := make([]statement.ExpenseRecord, 0, len(wire))
	for _, w := range wire {
		records = append(records, statement.ExpenseRecord{
			ID:     w.ID,
			Date:   parseUpstreamDate(w.Date),
			Vendor: w.Vendor,
			Amount: w.Amount,
		})
	}
	return records, nil
}

// ListCommissions fetches commissions for a property and date range. Returns
// ErrModuleNotEnabled on 404.
func (c *Client) ListCommissions(ctx context.Context, apiKey, propertyID string, start, end time.Time) ([]statement.CommissionRecord, error) {
	var wire []wireCommission
	if err := c.getJSON(ctx, "/commissions", periodQuery(apiKey, propertyID, start, end), &wire); err != nil {
		return nil, err
	}
	records := make([]statement.CommissionRecord, 0, len(wire))
	for _, w := range wire {
		records = append(records, statement.CommissionRecord{
			ID:     w.ID,
			Date:   parseUpstreamDate(w.Date),
			Amount: w.Amount,
		})
	}
	return records, nil
}

func periodQuery(apiKey, propertyID string, start, end time.Time) url.Values {
	query := url.Values{}
	query.Set("APIKEY", apiKey)
	query.Set("propertyId", propertyID)
	query.Set("startDate", strconv.FormatInt(start.Unix(), 10))
	query.Set("endDate", strconv.FormatInt(end.Unix(), 10))
	return query
}

// transportError marks retryable failures.
type transportError struct {
	err error
}

func (e transportError) Error() string { return e.err.Error() }
func (e transportError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te transportError
	return errors.As(err, &te)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrModuleNotEnabled
	}
	if resp.StatusCode >= 500 {
		return transportError{err: fmt.Errorf("billing: http %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("billing: http %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("billing: decode response: %w", err)
	}
	return nil
}
