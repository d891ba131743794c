package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/postsync/pkg/domain"
)

// PendingRepository keeps follow candidates and their review state
type PendingRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewPendingRepository creates a new pending follows repository
func NewPendingRepository(db *sqlx.DB) *PendingRepository {
	return &PendingRepository{db: db, now: time.Now}
}

// Enqueue adds a pending candidate, returns false if the account was seen before in any state
func (r *PendingRepository) Enqueue(ctx context.Context, c domain.Candidate) (bool, error) {
	query := `
		INSERT INTO pending_follows (account_id, handle, followers, posts, status, detected_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id) DO NOTHING
	`
	now := r.now().UTC()
	var inserted bool
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, c.AccountID, c.Handle, c.Followers, c.Posts,
			string(domain.CandidatePending), now, now)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		inserted = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("enqueue candidate %s: %w", c.AccountID, err)
	}
	return inserted, nil
}

// List returns candidates in the given state, all candidates for an empty status, newest first
func (r *PendingRepository) List(ctx context.Context, status domain.CandidateStatus) ([]domain.Candidate, error) {
	query := "SELECT account_id, handle, followers, posts, status, detected_at, updated_at FROM pending_follows"
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY detected_at DESC, account_id"

	var res []domain.Candidate
	if err := r.db.SelectContext(ctx, &res, query, args...); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return res, nil
}

// Approved returns candidates approved for tracking
func (r *PendingRepository) Approved(ctx context.Context) ([]domain.Candidate, error) {
	return r.List(ctx, domain.CandidateApproved)
}

// SetStatus changes the state of an account, unknown accounts are recorded with that state
func (r *PendingRepository) SetStatus(ctx context.Context, accountID string, status domain.CandidateStatus) error {
	switch status {
	case domain.CandidatePending, domain.CandidateApproved, domain.CandidateRejected:
	default:
		return fmt.Errorf("invalid candidate status %q", status)
	}

	query := `
		INSERT INTO pending_follows (account_id, status, detected_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at
	`
	now := r.now().UTC()
	err := withLockRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, accountID, string(status), now, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("set candidate %s status: %w", accountID, err)
	}
	return nil
}
