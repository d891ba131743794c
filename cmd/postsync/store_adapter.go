package main

import (
	"context"

	"github.com/umputun/postsync/pkg/domain"
	"github.com/umputun/postsync/pkg/repository"
)

// storeAdapter combines the repositories into the read side used by the server
type storeAdapter struct {
	Record  *repository.RecordRepository
	Run     *repository.RunRepository
	Pending *repository.PendingRepository
}

// Count returns the number of pushed records of the feed
func (s *storeAdapter) Count(ctx context.Context, feed domain.Feed) (int, error) {
	return s.Record.Count(ctx, feed)
}

// Recent returns the latest sync runs
func (s *storeAdapter) Recent(ctx context.Context, limit int) ([]domain.SyncResult, error) {
	return s.Run.Recent(ctx, limit)
}

// List returns follow candidates with the status
func (s *storeAdapter) List(ctx context.Context, status domain.CandidateStatus) ([]domain.Candidate, error) {
	return s.Pending.List(ctx, status)
}
