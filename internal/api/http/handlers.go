package apihttp

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

// StatsHandler serves portal-wide operational counters.
type StatsHandler struct {
	db *sql.DB
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(db *sql.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

type statsPayload struct {
	Properties     int            `json:"properties"`
	RunsLast30Days map[string]int `json:"runsLast30Days"`
	AuditLast24h   int            `json:"auditLast24h"`
}

// ServeHTTP handles GET /api/v1/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.db == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	payload, err := queryStats(r.Context(), h.db, time.Now().UTC())
	if err != nil {
		http.Error(w, "query stats error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func queryStats(ctx context.Context, db *sql.DB, now time.Time) (statsPayload, error) {
	payload := statsPayload{RunsLast30Days: map[string]int{}}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&payload.Properties); err != nil {
		return payload, err
	}

	rows, err := db.QueryContext(ctx, `
SELECT status, COUNT(*)
FROM automation_runs
WHERE started_at >= $1
GROUP BY status`, now.AddDate(0, 0, -30))
	if err != nil {
		return payload, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return payload, err
		}
		payload.RunsLast30Days[status] = count
	}
	if err := rows.Err(); err != nil {
		return payload, err
	}

	if err := db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM audit_logs WHERE created_at >= $1`, now.Add(-24*time.Hour)).Scan(&payload.AuditLast24h); err != nil {
		return payload, err
	}
	return payload, nil
}
