// Package syncer runs incremental synchronization of the own, bookmarks and following feeds.
// Each feed is fetched page by page, classified, merged into its archive and the delta is pushed
// to the record store. Cursors are saved only after the archive, so an interrupted run refetches
// and the idempotent merge absorbs the overlap.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/postsync/pkg/api"
	"github.com/umputun/postsync/pkg/archive"
	"github.com/umputun/postsync/pkg/classify"
	"github.com/umputun/postsync/pkg/domain"
)

//go:generate moq -out mocks/platform.go -pkg mocks -skip-ensure -fmt goimports . Platform
//go:generate moq -out mocks/pusher.go -pkg mocks -skip-ensure -fmt goimports . Pusher
//go:generate moq -out mocks/accounts.go -pkg mocks -skip-ensure -fmt goimports . AccountSource
//go:generate moq -out mocks/candidates.go -pkg mocks -skip-ensure -fmt goimports . CandidateQueue
//go:generate moq -out mocks/runs.go -pkg mocks -skip-ensure -fmt goimports . RunRecorder

// Platform is the API surface used by the syncer, implemented by api.Client
type Platform interface {
	Me(ctx context.Context) (domain.Author, error)
	Following(ctx context.Context, userID string, pageSize int) ([]domain.Author, error)
	EachPostPage(ctx context.Context, path string, params url.Values, fn func(api.PostPage) (bool, error)) error
}

// ArchiveStore loads and saves the archive of a feed
type ArchiveStore interface {
	Load(feed domain.Feed) ([]domain.ClassifiedItem, error)
	Save(feed domain.Feed, items []domain.ClassifiedItem) error
}

// CursorStore keeps per-account cursors of one feed
type CursorStore interface {
	Get(accountID string) (string, bool)
	Set(accountID, itemID string) bool
	Delete(accountID string)
	Save() error
}

// Pusher forwards new items to the record store
type Pusher interface {
	PushNew(ctx context.Context, feed domain.Feed, items []domain.ClassifiedItem) (int, error)
}

// AccountSource resolves the tracked accounts of the following feed
type AccountSource interface {
	Tracked(ctx context.Context) ([]string, error)
	Filter(ctx context.Context, followed []domain.Author) ([]domain.Author, error)
}

// CandidateQueue keeps follow candidates
type CandidateQueue interface {
	Enqueue(ctx context.Context, c domain.Candidate) (bool, error)
	SetStatus(ctx context.Context, accountID string, status domain.CandidateStatus) error
}

// RunRecorder stores run summaries
type RunRecorder interface {
	SaveRun(ctx context.Context, res *domain.SyncResult) error
}

// MetricsRecorder receives finished run summaries
type MetricsRecorder interface {
	SyncFinished(res domain.SyncResult)
}

// Params for New
type Params struct {
	Platform   Platform
	Archive    ArchiveStore
	Cursors    map[domain.Feed]CursorStore
	Pusher     Pusher
	Accounts   AccountSource  // required for the following feed and discovery
	Candidates CandidateQueue // required for discovery and untrack
	Runs       RunRecorder    // optional
	Metrics    MetricsRecorder
	Viewer     domain.Author // resolved with Platform.Me if ID is empty
	PageSize   int
	Lookback   time.Duration // initial window for accounts without a cursor
	MaxWorkers int           // feeds synced concurrently by RunAll
}

// Syncer orchestrates feed synchronization
type Syncer struct {
	Params
	now func() time.Time

	viewerMu sync.Mutex
	feedMu   map[domain.Feed]*sync.Mutex
}

// New makes a syncer
func New(p Params) *Syncer {
	if p.MaxWorkers <= 0 {
		p.MaxWorkers = 1
	}
	if p.Lookback <= 0 {
		p.Lookback = 72 * time.Hour
	}
	res := &Syncer{Params: p, now: time.Now, feedMu: map[domain.Feed]*sync.Mutex{}}
	for _, f := range domain.AllFeeds {
		res.feedMu[f] = &sync.Mutex{}
	}
	return res
}

// Sync runs one feed
func (s *Syncer) Sync(ctx context.Context, feed domain.Feed) (domain.SyncResult, error) {
	switch feed {
	case domain.FeedOwn:
		return s.SyncOwn(ctx)
	case domain.FeedBookmarks:
		return s.SyncBookmarks(ctx)
	case domain.FeedFollowing:
		return s.SyncFollowing(ctx)
	}
	return domain.SyncResult{Feed: feed}, fmt.Errorf("unknown feed %q", feed)
}

// RunAll syncs the feeds with up to MaxWorkers of them in flight. A feed failing on its own does not
// stop others, its error is kept in its result. ErrAuthExpired cancels the whole run.
func (s *Syncer) RunAll(ctx context.Context, feeds []domain.Feed) ([]domain.SyncResult, error) {
	results := make([]domain.SyncResult, len(feeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.MaxWorkers)
	for i, feed := range feeds {
		g.Go(func() error {
			res, err := s.Sync(gctx, feed)
			results[i] = res
			if err == nil {
				return nil
			}
			if errors.Is(err, domain.ErrAuthExpired) {
				return fmt.Errorf("sync %s: %w", feed, err)
			}
			lgr.Printf("[ERROR] sync %s failed, %v", feed, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// SyncOwn fetches the viewer's own posts
func (s *Syncer) SyncOwn(ctx context.Context) (domain.SyncResult, error) {
	return s.run(ctx, domain.FeedOwn, func(ctx context.Context, res *domain.SyncResult) error {
		viewer, err := s.viewer(ctx)
		if err != nil {
			return err
		}
		return s.syncTimelines(ctx, domain.FeedOwn, []string{viewer.ID}, res)
	})
}

// SyncFollowing fetches posts of every tracked account
func (s *Syncer) SyncFollowing(ctx context.Context) (domain.SyncResult, error) {
	return s.run(ctx, domain.FeedFollowing, func(ctx context.Context, res *domain.SyncResult) error {
		if s.Accounts == nil {
			return errors.New("no tracked accounts source")
		}
		accounts, err := s.Accounts.Tracked(ctx)
		if err != nil {
			return fmt.Errorf("get tracked accounts: %w", err)
		}
		return s.syncTimelines(ctx, domain.FeedFollowing, accounts, res)
	})
}

// SyncBookmarks fetches bookmarks until it meets one already archived. The bookmarks listing is
// ordered by bookmark time, so the cursor of the viewer holds the highest id ever merged and is
// only used as an extra stop marker.
func (s *Syncer) SyncBookmarks(ctx context.Context) (domain.SyncResult, error) {
	feed := domain.FeedBookmarks
	return s.run(ctx, feed, func(ctx context.Context, res *domain.SyncResult) error {
		viewer, err := s.viewer(ctx)
		if err != nil {
			return err
		}
		cursors, err := s.cursors(feed)
		if err != nil {
			return err
		}
		existing, err := s.Archive.Load(feed)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(existing))
		for _, it := range existing {
			known[it.ID] = true
		}
		marker, _ := cursors.Get(viewer.ID)

		var fetched []domain.ClassifiedItem
		params := api.PostQuery(s.PageSize, "", time.Time{})
		err = s.Platform.EachPostPage(ctx, api.BookmarksPath(viewer.ID), params, func(p api.PostPage) (bool, error) {
			for i, it := range p.Items {
				if known[it.ID] || it.ID == marker {
					lgr.Printf("[DEBUG] bookmarks boundary at %s", it.ID)
					fetched = append(fetched, classifyPage(p.Items[:i], viewer, p.Includes)...)
					return false, nil
				}
			}
			fetched = append(fetched, classifyPage(p.Items, viewer, p.Includes)...)
			return true, nil
		})
		if err != nil {
			if fatal := s.accountFailure(ctx, viewer.ID, err, res); fatal != nil {
				return fatal
			}
			return nil
		}

		res.Fetched = len(fetched)
		return s.commit(ctx, feed, existing, fetched, map[string]string{viewer.ID: domain.MaxID(fetched)}, cursors, res)
	})
}

// DiscoverFollows checks the viewer's following list and queues eligible accounts that are
// not tracked yet. Returns the number of newly queued candidates.
func (s *Syncer) DiscoverFollows(ctx context.Context) (int, error) {
	if s.Accounts == nil || s.Candidates == nil {
		return 0, errors.New("discovery requires accounts source and candidate queue")
	}
	viewer, err := s.viewer(ctx)
	if err != nil {
		return 0, err
	}
	following, err := s.Platform.Following(ctx, viewer.ID, s.PageSize)
	if err != nil {
		return 0, fmt.Errorf("get following: %w", err)
	}
	eligible, err := s.Accounts.Filter(ctx, following)
	if err != nil {
		return 0, fmt.Errorf("filter following: %w", err)
	}

	count := 0
	for _, a := range eligible {
		c := domain.Candidate{AccountID: a.ID, Handle: a.Handle, Followers: a.Followers, Posts: a.Posts}
		queued, err := s.Candidates.Enqueue(ctx, c)
		if err != nil {
			return count, fmt.Errorf("queue candidate %s: %w", a.Handle, err)
		}
		if queued {
			lgr.Printf("[INFO] new follow candidate @%s (%s), followers %d", a.Handle, a.ID, a.Followers)
			count++
		}
	}
	lgr.Printf("[INFO] discovery checked %d followed accounts, %d eligible, %d new", len(following), len(eligible), count)
	return count, nil
}

// Untrack rejects the account and forgets its following cursor. Accounts listed in the include
// file stay tracked until removed from it.
func (s *Syncer) Untrack(ctx context.Context, accountID string) error {
	if s.Candidates == nil {
		return errors.New("untrack requires candidate queue")
	}
	if err := s.Candidates.SetStatus(ctx, accountID, domain.CandidateRejected); err != nil {
		return fmt.Errorf("reject %s: %w", accountID, err)
	}

	mu := s.feedMu[domain.FeedFollowing]
	mu.Lock()
	defer mu.Unlock()
	cursors, err := s.cursors(domain.FeedFollowing)
	if err != nil {
		return err
	}
	cursors.Delete(accountID)
	if err := cursors.Save(); err != nil {
		return fmt.Errorf("save cursors: %w", err)
	}
	lgr.Printf("[INFO] untracked %s", accountID)
	return nil
}

// syncTimelines fetches each account incrementally and merges everything at once. An account failed
// on transport is recorded and skipped, its cursor stays put and its partial pages are dropped.
// Other failures abort the feed before anything is saved.
func (s *Syncer) syncTimelines(ctx context.Context, feed domain.Feed, accounts []string, res *domain.SyncResult) error {
	viewer, err := s.viewer(ctx)
	if err != nil {
		return err
	}
	cursors, err := s.cursors(feed)
	if err != nil {
		return err
	}
	existing, err := s.Archive.Load(feed)
	if err != nil {
		return err
	}

	var fetched []domain.ClassifiedItem
	maxIDs := map[string]string{}
	for _, acc := range accounts {
		items, err := s.fetchTimeline(ctx, acc, viewer, cursors)
		if err != nil {
			if fatal := s.accountFailure(ctx, acc, err, res); fatal != nil {
				return fatal
			}
			continue
		}
		lgr.Printf("[DEBUG] %s: fetched %d items from %s", feed, len(items), acc)
		fetched = append(fetched, items...)
		maxIDs[acc] = domain.MaxID(items)
	}

	res.Fetched = len(fetched)
	return s.commit(ctx, feed, existing, fetched, maxIDs, cursors, res)
}

func (s *Syncer) fetchTimeline(ctx context.Context, accountID string, viewer domain.Author, cursors CursorStore) ([]domain.ClassifiedItem, error) {
	var startTime time.Time
	sinceID, ok := cursors.Get(accountID)
	if !ok {
		startTime = s.now().Add(-s.Lookback)
	}

	var res []domain.ClassifiedItem
	params := api.PostQuery(s.PageSize, sinceID, startTime)
	err := s.Platform.EachPostPage(ctx, api.UserPostsPath(accountID), params, func(p api.PostPage) (bool, error) {
		res = append(res, classifyPage(p.Items, viewer, p.Includes)...)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// commit merges fetched items, saves the archive, then advances cursors and pushes the delta
func (s *Syncer) commit(ctx context.Context, feed domain.Feed, existing, fetched []domain.ClassifiedItem,
	maxIDs map[string]string, cursors CursorStore, res *domain.SyncResult) error {
	merged := archive.Merge(existing, fetched)
	res.Added = len(merged.Added)
	if err := s.Archive.Save(feed, merged.Items); err != nil {
		return err
	}

	for acc, id := range maxIDs {
		if id != "" {
			cursors.Set(acc, id)
		}
	}
	if err := cursors.Save(); err != nil {
		return err
	}

	delta := merged.Delta()
	if len(delta) == 0 || s.Pusher == nil {
		return nil
	}
	pushed, err := s.Pusher.PushNew(ctx, feed, delta)
	if err != nil {
		lgr.Printf("[WARN] push %d new %s items failed, %v", len(delta), feed, err)
		res.PushErr = err.Error()
		return nil
	}
	res.Pushed = pushed
	return nil
}

// accountFailure records a transport error of one account and returns nil. Any other error,
// expired authorization and failed persistence included, is returned and must end the feed.
func (s *Syncer) accountFailure(ctx context.Context, accountID string, err error, res *domain.SyncResult) error {
	if errors.Is(err, domain.ErrAuthExpired) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	te, ok := api.IsTransportError(err)
	if !ok {
		return fmt.Errorf("fetch %s: %w", accountID, err)
	}
	accErr := domain.AccountError{AccountID: accountID, Status: te.Status, Message: err.Error()}
	lgr.Printf("[WARN] %s: %v", res.Feed, accErr)
	res.Errors = append(res.Errors, accErr)
	return nil
}

// run wraps a feed sync with locking, timing, run recording and metrics
func (s *Syncer) run(ctx context.Context, feed domain.Feed, fn func(ctx context.Context, res *domain.SyncResult) error) (domain.SyncResult, error) {
	mu := s.feedMu[feed]
	mu.Lock()
	defer mu.Unlock()

	res := domain.SyncResult{Feed: feed, Started: s.now()}
	lgr.Printf("[INFO] sync %s started", feed)
	err := fn(ctx, &res)
	res.Finished = s.now()
	if err != nil {
		res.Fatal = err.Error()
	}

	if s.Runs != nil {
		// the run is recorded even if ctx was canceled
		if rerr := s.Runs.SaveRun(context.WithoutCancel(ctx), &res); rerr != nil {
			lgr.Printf("[WARN] failed to record %s run, %v", feed, rerr)
		}
	}
	if s.Metrics != nil {
		s.Metrics.SyncFinished(res)
	}

	if err != nil {
		return res, fmt.Errorf("sync %s: %w", feed, err)
	}
	lgr.Printf("[INFO] sync %s done in %v, fetched %d, added %d, pushed %d, account errors %d",
		feed, res.Finished.Sub(res.Started).Round(time.Millisecond), res.Fetched, res.Added, res.Pushed, len(res.Errors))
	return res, nil
}

func (s *Syncer) viewer(ctx context.Context) (domain.Author, error) {
	s.viewerMu.Lock()
	defer s.viewerMu.Unlock()
	if s.Viewer.ID != "" {
		return s.Viewer, nil
	}
	me, err := s.Platform.Me(ctx)
	if err != nil {
		return domain.Author{}, fmt.Errorf("resolve viewer: %w", err)
	}
	s.Viewer = me
	lgr.Printf("[INFO] authenticated as @%s (%s)", me.Handle, me.ID)
	return me, nil
}

func (s *Syncer) cursors(feed domain.Feed) (CursorStore, error) {
	c, ok := s.Cursors[feed]
	if !ok || c == nil {
		return nil, fmt.Errorf("no cursor store for %s", feed)
	}
	return c, nil
}

// classifyPage classifies items with the lookups of the page they came on
func classifyPage(items []domain.Item, viewer domain.Author, inc domain.Includes) []domain.ClassifiedItem {
	if len(items) == 0 {
		return nil
	}
	return classify.ClassifyAll(items, viewer, inc)
}
