package automation

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	runrepo "owner-portal/internal/automation/infrastructure/postgres"
	statement "owner-portal/internal/statement/domain"
)

// RunLister reads automation run history.
type RunLister interface {
	ListRecent(ctx context.Context, limit int) ([]runrepo.Run, error)
}

// Handler serves manual triggers and run history under /api/v1/automation/.
type Handler struct {
	runner *Runner
	runs   RunLister
	logger *log.Logger
}

// NewHandler constructs a Handler.
func NewHandler(runner *Runner, runs RunLister, logger *log.Logger) (*Handler, error) {
	if runner == nil {
		return nil, errors.New("automation handler: nil runner")
	}
	return &Handler{runner: runner, runs: runs, logger: logger}, nil
}

// ServeHTTP routes /api/v1/automation/...
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/automation/")
	switch {
	case rest == "run" && r.Method == http.MethodPost:
		h.handleRun(w, r)
	case rest == "runs" && r.Method == http.MethodGet:
		h.handleListRuns(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Job   string `json:"job"`
		Year  int    `json:"year"`
		Month int    `json:"month"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	var succeeded, failed int
	switch req.Job {
	case JobStatements, "":
		period := PreviousPeriod(time.Now().UTC())
		if req.Year != 0 || req.Month != 0 {
			var err error
			period, err = statement.NewPeriod(req.Year, req.Month)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		succeeded, failed = h.runner.RunMonthlyStatements(r.Context(), period)
	case JobDigest:
		succeeded, failed = h.runner.RunWeeklyDigest(r.Context(), time.Now().UTC())
	default:
		http.Error(w, "unknown job", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message":   "run completed",
		"succeeded": succeeded,
		"failed":    failed,
	})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		http.Error(w, "run history not configured", http.StatusServiceUnavailable)
		return
	}
	runs, err := h.runs.ListRecent(r.Context(), 50)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("event=run_history_failed error=%v", err)
		}
		http.Error(w, "run history unavailable", http.StatusInternalServerError)
		return
	}

	type runPayload struct {
		ID         string `json:"id"`
		JobType    string `json:"jobType"`
		PropertyID string `json:"propertyId"`
		Period     string `json:"period"`
		Status     string `json:"status"`
		Error      string `json:"error,omitempty"`
		StartedAt  string `json:"startedAt"`
		FinishedAt string `json:"finishedAt,omitempty"`
	}
	payload := make([]runPayload, 0, len(runs))
	for _, run := range runs {
		item := runPayload{
			ID:         run.ID,
			JobType:    run.JobType,
			PropertyID: run.PropertyID,
			Period:     run.Period,
			Status:     run.Status,
			Error:      run.Error,
			StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
		}
		if run.FinishedAt.Unix() > 0 {
			item.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
		}
		payload = append(payload, item)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
