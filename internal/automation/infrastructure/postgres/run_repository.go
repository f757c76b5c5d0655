package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// Run records one automation job item.
type Run struct {
	ID         string
	JobType    string
	PropertyID string
	Period     string
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunRepository persists automation run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository constructs a repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// CreateRun inserts a running record.
func (r *RunRepository) CreateRun(ctx context.Context, run *Run) error {
	if r == nil || r.db == nil {
		return errors.New("run repo: nil db")
	}
	if run == nil {
		return errors.New("run repo: nil run")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = RunStatusRunning
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO automation_runs (
	id, job_type, property_id, period, status, error, started_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		run.ID, run.JobType, run.PropertyID, run.Period, run.Status, run.Error, run.StartedAt)
	return err
}

// FinishRun records the outcome of a run.
func (r *RunRepository) FinishRun(ctx context.Context, id, status, errMsg string, finishedAt time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("run repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE automation_runs
SET status = $2, error = $3, finished_at = $4
WHERE id = $1`, id, status, errMsg, finishedAt)
	return err
}

// ListRecent returns the newest runs, capped by limit.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]Run, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, job_type, property_id, period, status, error, started_at, COALESCE(finished_at, 'epoch'::timestamptz)
FROM automation_runs
ORDER BY started_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.JobType, &run.PropertyID, &run.Period, &run.Status, &run.Error, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
