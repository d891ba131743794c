package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/postsync/pkg/api"
	"github.com/umputun/postsync/pkg/archive"
	"github.com/umputun/postsync/pkg/auth"
	"github.com/umputun/postsync/pkg/config"
	"github.com/umputun/postsync/pkg/cursor"
	"github.com/umputun/postsync/pkg/digest"
	"github.com/umputun/postsync/pkg/domain"
	"github.com/umputun/postsync/pkg/metrics"
	"github.com/umputun/postsync/pkg/repository"
	"github.com/umputun/postsync/pkg/scheduler"
	"github.com/umputun/postsync/pkg/syncer"
	"github.com/umputun/postsync/pkg/tracking"
	"github.com/umputun/postsync/server"
)

// app holds the wired components shared by all commands
type app struct {
	cfg     *config.Config
	feeds   []domain.Feed
	repos   *repository.Repositories
	archive *archive.FileStore
	metrics *metrics.Metrics
	syncer  *syncer.Syncer
	debug   bool
}

// newApp wires credentials, transport, local stores and the syncer. Credentials are loaded lazily,
// so commands not talking to the API work without them.
func newApp(ctx context.Context, cfg *config.Config, dbg bool) (*app, error) {
	feeds, err := cfg.Feeds()
	if err != nil {
		return nil, fmt.Errorf("enabled feeds: %w", err)
	}

	credStore := &auth.FileStore{Path: cfg.Credentials.Path}
	if creds, err := credStore.Load(); err == nil {
		setupLog(dbg, creds.AccessToken, creds.RefreshToken)
	}

	m := metrics.New()
	guardian := auth.NewGuardian(auth.Params{
		Store: credStore,
		Refresher: &auth.OAuthRefresher{
			TokenURL: cfg.API.TokenURL,
			ClientID: cfg.API.ClientID,
			Client:   &http.Client{Timeout: cfg.API.Timeout},
		},
		Skew:      cfg.Credentials.RefreshSkew,
		OnRefresh: m.TokenRefreshed,
	})
	client := api.NewClient(api.Params{
		BaseURL:     cfg.API.BaseURL,
		Tokens:      guardian,
		Timeout:     cfg.API.Timeout,
		MaxRateWait: cfg.API.MaxRateWait,
		UserAgent:   cfg.API.UserAgent,
		OnRateLimit: m.RateLimited,
	})

	if err := os.MkdirAll(cfg.Storage.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("make storage dir: %w", err)
	}
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	// cursor stores of disabled feeds are loaded too, untrack needs the following one
	cursors := make(map[domain.Feed]syncer.CursorStore, len(domain.AllFeeds))
	for _, f := range domain.AllFeeds {
		cs, err := cursor.LoadFile(cfg.CursorPath(f))
		if err != nil {
			_ = repos.Close()
			return nil, err
		}
		cursors[f] = cs
	}

	tracker := tracking.NewTracker(tracking.Params{
		IncludeFile:  cfg.Tracking.IncludeFile,
		ExcludeFile:  cfg.Tracking.ExcludeFile,
		Candidates:   repos.Pending,
		MinFollowers: cfg.Tracking.MinFollowers,
		MinPosts:     cfg.Tracking.MinPosts,
		MaxInactive:  cfg.Tracking.MaxInactive,
	})

	archives := &archive.FileStore{Dir: cfg.ArchiveDir()}
	s := syncer.New(syncer.Params{
		Platform:   client,
		Archive:    archives,
		Cursors:    cursors,
		Pusher:     repos.Record,
		Accounts:   tracker,
		Candidates: repos.Pending,
		Runs:       repos.Run,
		Metrics:    m,
		Viewer:     domain.Author{ID: cfg.Account.ID, Handle: cfg.Account.Handle},
		PageSize:   cfg.API.PageSize,
		Lookback:   cfg.Sync.Lookback,
		MaxWorkers: cfg.Sync.MaxWorkers,
	})

	return &app{cfg: cfg, feeds: feeds, repos: repos, archive: archives, metrics: m, syncer: s, debug: dbg}, nil
}

// Close releases the record store
func (a *app) Close() error {
	return a.repos.Close()
}

// syncFeeds runs the given feeds once, all enabled feeds if none given
func (a *app) syncFeeds(ctx context.Context, names []string, out io.Writer) error {
	feeds := a.feeds
	if len(names) > 0 {
		feeds = make([]domain.Feed, 0, len(names))
		for _, name := range names {
			f, err := domain.ParseFeed(name)
			if err != nil {
				return err
			}
			feeds = append(feeds, f)
		}
	}

	results, err := a.syncer.RunAll(ctx, feeds)
	failed := []string{}
	for _, res := range results {
		fmt.Fprintf(out, "%s: fetched %d, added %d, pushed %d, account errors %d\n",
			res.Feed, res.Fetched, res.Added, res.Pushed, len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  %s\n", e.Error())
		}
		if res.PushErr != "" {
			fmt.Fprintf(out, "  push failed: %s\n", res.PushErr)
		}
		if res.Fatal != "" {
			fmt.Fprintf(out, "  failed: %s\n", res.Fatal)
			failed = append(failed, string(res.Feed))
		}
	}
	if errors.Is(err, domain.ErrAuthExpired) {
		return fmt.Errorf("authorization expired, re-authorize the account: %w", err)
	}
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("sync failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

// serve runs the scheduler and the HTTP server until ctx is canceled
func (a *app) serve(ctx context.Context) error {
	sched := scheduler.NewScheduler(scheduler.Params{Runner: a.syncer, Feeds: a.feeds, Interval: a.cfg.Sync.Interval})
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(server.Params{
		Listen:       a.cfg.Server.Listen,
		Timeout:      a.cfg.Server.Timeout,
		BaseURL:      a.cfg.Server.BaseURL,
		PostURL:      a.cfg.Digest.PostURL,
		Version:      revision,
		Debug:        a.debug,
		Feeds:        a.feeds,
		DigestTopN:   a.cfg.Digest.TopN,
		DigestWindow: a.cfg.Digest.Window,
		Scheduler:    sched,
		Archive:      a.archive,
		Store:        &storeAdapter{Record: a.repos.Record, Run: a.repos.Run, Pending: a.repos.Pending},
		Metrics:      a.metrics.Handler(),
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// renderDigest renders the digest of a feed, or of all enabled feeds, to output or out
func (a *app) renderDigest(name string, top int, window time.Duration, output string, out io.Writer) error {
	feeds := a.feeds
	if name != "all" {
		f, err := domain.ParseFeed(name)
		if err != nil {
			return err
		}
		feeds = []domain.Feed{f}
	}
	if top == 0 {
		top = a.cfg.Digest.TopN
	}
	if window == 0 {
		window = a.cfg.Digest.Window
	}

	items, err := digest.Build(a.archive, feeds, time.Now(), window, top)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}
	rss, err := digest.NewGenerator(a.cfg.Server.BaseURL, a.cfg.Digest.PostURL).RSS(items, domain.Feed(name))
	if err != nil {
		return fmt.Errorf("render digest: %w", err)
	}

	if output == "" {
		_, err = io.WriteString(out, rss)
		return err
	}
	if err := os.WriteFile(output, []byte(rss), 0o644); err != nil { //nolint:gosec // feed is public
		return fmt.Errorf("write digest: %w", err)
	}
	lgr.Printf("[INFO] digest with %d items written to %s", len(items), output)
	return nil
}

// discover queues eligible followed accounts
func (a *app) discover(ctx context.Context, out io.Writer) error {
	n, err := a.syncer.DiscoverFollows(ctx)
	if err != nil {
		return fmt.Errorf("discover follows: %w", err)
	}
	fmt.Fprintf(out, "queued %d new candidates\n", n)
	return nil
}

// pending prints follow candidates with the given status
func (a *app) pending(ctx context.Context, status string, out io.Writer) error {
	candidates, err := a.repos.Pending.List(ctx, domain.CandidateStatus(status))
	if err != nil {
		return fmt.Errorf("list candidates: %w", err)
	}
	for _, c := range candidates {
		fmt.Fprintf(out, "%-20s @%-16s followers %-8d posts %-8d detected %s\n",
			c.AccountID, c.Handle, c.Followers, c.Posts, c.DetectedAt.Format(time.DateOnly))
	}
	if len(candidates) == 0 {
		fmt.Fprintf(out, "no %s candidates\n", status)
	}
	return nil
}

// approve marks candidates approved, they are tracked from the next following sync
func (a *app) approve(ctx context.Context, ids []string, out io.Writer) error {
	for _, id := range ids {
		if err := a.repos.Pending.SetStatus(ctx, id, domain.CandidateApproved); err != nil {
			return fmt.Errorf("approve %s: %w", id, err)
		}
		fmt.Fprintf(out, "approved %s\n", id)
	}
	return nil
}

// untrack rejects accounts and forgets their cursors
func (a *app) untrack(ctx context.Context, ids []string, out io.Writer) error {
	for _, id := range ids {
		if err := a.syncer.Untrack(ctx, id); err != nil {
			return fmt.Errorf("untrack %s: %w", id, err)
		}
		fmt.Fprintf(out, "untracked %s\n", id)
	}
	return nil
}
