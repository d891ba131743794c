package server

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/postsync/pkg/domain"
	"github.com/umputun/postsync/pkg/scheduler"
)

const (
	defaultArchiveLimit = 50
	maxArchiveLimit     = 500
	defaultRunsLimit    = 20
	allFeeds            = "all"
)

// statusHandler returns server, scheduler and record store state
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	records := map[domain.Feed]int{}
	for _, f := range s.Feeds {
		n, err := s.Store.Count(r.Context(), f)
		if err != nil {
			lgr.Printf("[WARN] failed to count %s records: %v", f, err)
			renderError(w, r, err, http.StatusInternalServerError)
			return
		}
		records[f] = n
	}

	status := map[string]any{
		"status":    "ok",
		"version":   s.Version,
		"time":      s.now().UTC(),
		"feeds":     s.Feeds,
		"scheduler": s.Scheduler.Status(),
		"records":   records,
	}
	renderJSON(w, r, http.StatusOK, status)
}

// archiveHandler returns archived items of a feed, newest first, optionally filtered by kind
func (s *Server) archiveHandler(w http.ResponseWriter, r *http.Request) {
	feed, err := s.enabledFeed(r.PathValue("feed"))
	if err != nil {
		renderError(w, r, err, http.StatusNotFound)
		return
	}

	limit, err := queryInt(r, "limit", defaultArchiveLimit)
	if err != nil || limit < 1 || limit > maxArchiveLimit {
		renderError(w, r, fmt.Errorf("limit must be between 1 and %d", maxArchiveLimit), http.StatusBadRequest)
		return
	}

	var kind domain.Kind
	if k := r.URL.Query().Get("kind"); k != "" {
		kind = domain.Kind(k)
		if !slices.Contains(domain.AllKinds, kind) {
			renderError(w, r, fmt.Errorf("unknown kind %q", k), http.StatusBadRequest)
			return
		}
	}

	items, err := s.Archive.Load(feed)
	if err != nil {
		lgr.Printf("[ERROR] failed to load %s archive: %v", feed, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	res := make([]domain.ClassifiedItem, 0, min(limit, len(items)))
	for _, it := range items {
		if kind != "" && it.Kind != kind {
			continue
		}
		res = append(res, it)
		if len(res) == limit {
			break
		}
	}

	renderJSON(w, r, http.StatusOK, map[string]any{"feed": feed, "total": len(items), "items": res})
}

// runsHandler returns recent sync runs, newest first
func (s *Server) runsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultRunsLimit)
	if err != nil || limit < 1 {
		renderError(w, r, errors.New("invalid limit"), http.StatusBadRequest)
		return
	}

	runs, err := s.Store.Recent(r.Context(), limit)
	if err != nil {
		lgr.Printf("[ERROR] failed to get recent runs: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []domain.SyncResult{}
	}
	renderJSON(w, r, http.StatusOK, runs)
}

// pendingHandler lists follow candidates by status, pending by default
func (s *Server) pendingHandler(w http.ResponseWriter, r *http.Request) {
	status := domain.CandidatePending
	if st := r.URL.Query().Get("status"); st != "" {
		status = domain.CandidateStatus(st)
	}
	switch status {
	case domain.CandidatePending, domain.CandidateApproved, domain.CandidateRejected:
	default:
		renderError(w, r, fmt.Errorf("unknown status %q", status), http.StatusBadRequest)
		return
	}

	candidates, err := s.Store.List(r.Context(), status)
	if err != nil {
		lgr.Printf("[ERROR] failed to list %s candidates: %v", status, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	renderJSON(w, r, http.StatusOK, candidates)
}

// syncHandler runs a sync of one feed, or all enabled feeds, and returns the results.
// Responds with 409 while another run is in flight.
func (s *Server) syncHandler(w http.ResponseWriter, r *http.Request) {
	feeds, err := s.feedsFor(r.PathValue("feed"))
	if err != nil {
		renderError(w, r, err, http.StatusNotFound)
		return
	}

	results, err := s.Scheduler.SyncNow(r.Context(), feeds...)
	switch {
	case errors.Is(err, scheduler.ErrBusy):
		renderError(w, r, err, http.StatusConflict)
		return
	case errors.Is(err, domain.ErrAuthExpired):
		renderError(w, r, err, http.StatusServiceUnavailable)
		return
	case err != nil:
		lgr.Printf("[ERROR] manual sync failed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, results)
}

// feedsFor resolves a feed name or "all" into enabled feeds
func (s *Server) feedsFor(name string) ([]domain.Feed, error) {
	if name == allFeeds {
		return s.Feeds, nil
	}
	feed, err := s.enabledFeed(name)
	if err != nil {
		return nil, err
	}
	return []domain.Feed{feed}, nil
}

func (s *Server) enabledFeed(name string) (domain.Feed, error) {
	feed, err := domain.ParseFeed(name)
	if err != nil {
		return "", err
	}
	if !slices.Contains(s.Feeds, feed) {
		return "", fmt.Errorf("feed %q is not enabled", feed)
	}
	return feed, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
