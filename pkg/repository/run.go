package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/postsync/pkg/domain"
)

// RunRepository stores sync run summaries
type RunRepository struct {
	db *sqlx.DB
}

// runSQL represents a sync run for SQL operations
type runSQL struct {
	ID         string    `db:"id"`
	Feed       string    `db:"feed"`
	Fetched    int       `db:"fetched"`
	Added      int       `db:"added"`
	Pushed     int       `db:"pushed"`
	Errors     string    `db:"errors"`
	PushError  string    `db:"push_error"`
	Fatal      string    `db:"fatal"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun stores the run summary, a run without id gets a new one which is set on res
func (r *RunRepository) SaveRun(ctx context.Context, res *domain.SyncResult) error {
	if res.RunID == "" {
		res.RunID = uuid.NewString()
	}
	errs := res.Errors
	if errs == nil {
		errs = []domain.AccountError{}
	}
	errsJSON, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("marshal account errors: %w", err)
	}

	rec := runSQL{
		ID:         res.RunID,
		Feed:       string(res.Feed),
		Fetched:    res.Fetched,
		Added:      res.Added,
		Pushed:     res.Pushed,
		Errors:     string(errsJSON),
		PushError:  res.PushErr,
		Fatal:      res.Fatal,
		StartedAt:  res.Started.UTC(),
		FinishedAt: res.Finished.UTC(),
	}
	query := `
		INSERT INTO sync_runs (id, feed, fetched, added, pushed, errors, push_error, fatal, started_at, finished_at)
		VALUES (:id, :feed, :fetched, :added, :pushed, :errors, :push_error, :fatal, :started_at, :finished_at)
		ON CONFLICT(id) DO UPDATE SET fetched = excluded.fetched, added = excluded.added, pushed = excluded.pushed,
			errors = excluded.errors, push_error = excluded.push_error, fatal = excluded.fatal,
			finished_at = excluded.finished_at
	`
	err = withLockRetry(ctx, func() error {
		_, err := r.db.NamedExecContext(ctx, query, rec)
		return err
	})
	if err != nil {
		return fmt.Errorf("save run %s: %w", res.RunID, err)
	}
	return nil
}

// Recent returns the latest runs, newest first
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]domain.SyncResult, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []runSQL
	query := "SELECT * FROM sync_runs ORDER BY started_at DESC, id LIMIT ?"
	if err := r.db.SelectContext(ctx, &recs, query, limit); err != nil {
		return nil, fmt.Errorf("get recent runs: %w", err)
	}

	res := make([]domain.SyncResult, 0, len(recs))
	for _, rec := range recs {
		run := domain.SyncResult{
			RunID:    rec.ID,
			Feed:     domain.Feed(rec.Feed),
			Fetched:  rec.Fetched,
			Added:    rec.Added,
			Pushed:   rec.Pushed,
			PushErr:  rec.PushError,
			Fatal:    rec.Fatal,
			Started:  rec.StartedAt,
			Finished: rec.FinishedAt,
		}
		if err := json.Unmarshal([]byte(rec.Errors), &run.Errors); err != nil {
			return nil, fmt.Errorf("unmarshal errors of run %s: %w", rec.ID, err)
		}
		if len(run.Errors) == 0 {
			run.Errors = nil
		}
		res = append(res, run)
	}
	return res, nil
}
