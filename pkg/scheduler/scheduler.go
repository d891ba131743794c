// Package scheduler runs feed synchronization periodically, one run at a time.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/postsync/pkg/domain"
)

//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner

// ErrBusy is returned by SyncNow while another run is in flight
var ErrBusy = errors.New("sync already in progress")

// Runner syncs a set of feeds, implemented by syncer.Syncer
type Runner interface {
	RunAll(ctx context.Context, feeds []domain.Feed) ([]domain.SyncResult, error)
}

// Params for NewScheduler
type Params struct {
	Runner   Runner
	Feeds    []domain.Feed
	Interval time.Duration
}

// Status describes the scheduler state
type Status struct {
	Running  bool                `json:"running"`
	Interval time.Duration       `json:"interval"`
	LastRun  time.Time           `json:"last_run,omitempty"`
	LastErr  string              `json:"last_error,omitempty"`
	Results  []domain.SyncResult `json:"results,omitempty"`
}

// Scheduler manages periodic sync runs
type Scheduler struct {
	runner   Runner
	feeds    []domain.Feed
	interval time.Duration

	mu      sync.Mutex
	running bool
	lastRun time.Time
	lastErr error
	results []domain.SyncResult

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler instance
func NewScheduler(p Params) *Scheduler {
	if p.Interval == 0 {
		p.Interval = time.Hour
	}
	if len(p.Feeds) == 0 {
		p.Feeds = domain.AllFeeds
	}
	return &Scheduler{runner: p.Runner, feeds: p.Feeds, interval: p.Interval}
}

// Start begins the scheduler, the first run starts immediately
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.syncWorker(ctx)
	lgr.Printf("[INFO] scheduler started with interval %v, feeds %v", s.interval, s.feeds)
}

// Stop cancels the current run and waits for the worker to exit
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// SyncNow runs the given feeds, all configured feeds if none given. Refuses to start
// while another run is in flight.
func (s *Scheduler) SyncNow(ctx context.Context, feeds ...domain.Feed) ([]domain.SyncResult, error) {
	if len(feeds) == 0 {
		feeds = s.feeds
	}
	if !s.begin() {
		return nil, ErrBusy
	}
	return s.run(ctx, feeds)
}

// Status returns the current state and the results of the last run
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := Status{Running: s.running, Interval: s.interval, LastRun: s.lastRun, Results: s.results}
	if s.lastErr != nil {
		res.LastErr = s.lastErr.Error()
	}
	return res
}

// syncWorker runs all feeds on every tick, a tick is skipped while a manual run is in flight
func (s *Scheduler) syncWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.begin() {
		lgr.Printf("[DEBUG] previous sync still running, skip tick")
		return
	}
	if _, err := s.run(ctx, s.feeds); err != nil {
		lgr.Printf("[ERROR] scheduled sync failed, %v", err)
	}
}

func (s *Scheduler) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) run(ctx context.Context, feeds []domain.Feed) ([]domain.SyncResult, error) {
	results, err := s.runner.RunAll(ctx, feeds)
	if errors.Is(err, domain.ErrAuthExpired) {
		lgr.Printf("[ERROR] authorization expired, run the authorization flow to continue syncing")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.lastRun = time.Now()
	s.lastErr = err
	s.results = results
	return results, err
}
