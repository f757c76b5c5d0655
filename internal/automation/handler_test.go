package automation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	runrepo "owner-portal/internal/automation/infrastructure/postgres"
	portfolio "owner-portal/internal/portfolio/domain"
)

type stubRunLister struct {
	runs []runrepo.Run
	err  error
}

func (s *stubRunLister) ListRecent(ctx context.Context, limit int) ([]runrepo.Run, error) {
	return s.runs, s.err
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	catalog := &stubCatalog{properties: []portfolio.Property{{ID: "prop-1", Name: "One"}}}
	runner, err := NewRunner(&stubGenerator{}, catalog, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("runner error: %v", err)
	}
	return runner
}

func TestHandler_TriggerRun(t *testing.T) {
	handler, err := NewHandler(newTestRunner(t), nil, nil)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/automation/run", strings.NewReader(`{"job":"statements","year":2026,"month":7}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Succeeded != 1 || payload.Failed != 0 {
		t.Fatalf("unexpected counts: %+v", payload)
	}
}

func TestHandler_TriggerRunValidation(t *testing.T) {
	handler, _ := NewHandler(newTestRunner(t), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/automation/run", strings.NewReader(`{"job":"statements","year":2026,"month":13}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid month, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/automation/run", strings.NewReader(`{"job":"mystery"}`))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown job, got %d", resp.Code)
	}
}

func TestHandler_ListRuns(t *testing.T) {
	started := time.Date(2026, 8, 2, 6, 0, 0, 0, time.UTC)
	lister := &stubRunLister{runs: []runrepo.Run{
		{
			ID:         "run-1",
			JobType:    JobStatements,
			PropertyID: "prop-1",
			Period:     "2026-07",
			Status:     runrepo.RunStatusSucceeded,
			StartedAt:  started,
			FinishedAt: started.Add(time.Minute),
		},
		{
			ID:        "run-2",
			JobType:   JobStatements,
			Status:    runrepo.RunStatusRunning,
			StartedAt: started,
		},
	}}
	handler, _ := NewHandler(newTestRunner(t), lister, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/automation/runs", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload []struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		FinishedAt string `json:"finishedAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(payload))
	}
	if payload[0].FinishedAt == "" {
		t.Fatal("finished run should carry finishedAt")
	}
	if payload[1].FinishedAt != "" {
		t.Fatal("running run should omit finishedAt")
	}
}

func TestHandler_ListRunsUnconfigured(t *testing.T) {
	handler, _ := NewHandler(newTestRunner(t), nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/automation/runs", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without run history, got %d", resp.Code)
	}
}
