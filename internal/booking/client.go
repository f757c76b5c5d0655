package booking

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
)

// Reservation is one upcoming stay as reported by the channel manager.
type Reservation struct {
	ID        string  `json:"id"`
	GuestName string  `json:"guestName"`
	CheckIn   string  `json:"arrivalDate"`
	CheckOut  string  `json:"departureDate"`
	Channel   string  `json:"channelName"`
	Amount    float64 `json:"totalPrice"`
	Status    string  `json:"status"`
}

// Client is a minimal REST client for the booking-channel platform.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient constructs a booking client.
func NewClient(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("booking: empty base url")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// ListReservations fetches reservations for a property between two dates,
// passed as epoch seconds the way the platform expects.
func (c *Client) ListReservations(ctx context.Context, propertyID string, start, end time.Time) ([]Reservation, error) {
	if propertyID == "" {
		return nil, errors.New("booking: empty property id")
	}
	query := url.Values{}
	query.Set("listingId", propertyID)
	query.Set("date_start", strconv.FormatInt(start.Unix(), 10))
	query.Set("date_end", strconv.FormatInt(end.Unix(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reservations?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("booking: http %d", resp.StatusCode)
	}
	var reservations []Reservation
	if err := json.NewDecoder(resp.Body).Decode(&reservations); err != nil {
		return nil, fmt.Errorf("booking: decode response: %w", err)
	}
	return reservations, nil
}
