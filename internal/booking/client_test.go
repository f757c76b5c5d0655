package booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestListReservations(t *testing.T) {
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reservations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("unexpected authorization header %q", got)
		}
		q := r.URL.Query()
		if q.Get("listingId") != "prop-1" {
			t.Errorf("unexpected listingId %q", q.Get("listingId"))
		}
		if q.Get("date_start") != strconv.FormatInt(start.Unix(), 10) {
			t.Errorf("unexpected date_start %q", q.Get("date_start"))
		}
		if q.Get("date_end") != strconv.FormatInt(end.Unix(), 10) {
			t.Errorf("unexpected date_end %q", q.Get("date_end"))
		}
		_, _ = w.Write([]byte(`[{"id":"res-1","guestName":"A. Guest","arrivalDate":"2026-09-01","departureDate":"2026-09-04","channelName":"airbnb","totalPrice":300}]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "token-1")
	if err != nil {
		t.Fatalf("client error: %v", err)
	}
	reservations, err := client.ListReservations(context.Background(), "prop-1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reservations) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(reservations))
	}
	res := reservations[0]
	if res.GuestName != "A. Guest" || res.Channel != "airbnb" || res.Amount != 300 {
		t.Fatalf("unexpected reservation: %+v", res)
	}
}

func TestListReservations_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("client error: %v", err)
	}
	if _, err := client.ListReservations(context.Background(), "prop-1", time.Now(), time.Now()); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient("", "token"); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
