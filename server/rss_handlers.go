package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/postsync/pkg/digest"
	"github.com/umputun/postsync/pkg/domain"
)

// rssHandler serves the digest of a feed, or of all enabled feeds, as RSS.
// Supports ?top=N and ?window=duration overrides.
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("feed")
	feeds, err := s.feedsFor(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	topN, err := queryInt(r, "top", s.DigestTopN)
	if err != nil || topN < 0 {
		http.Error(w, "invalid top", http.StatusBadRequest)
		return
	}
	window := s.DigestWindow
	if v := r.URL.Query().Get("window"); v != "" {
		if window, err = time.ParseDuration(v); err != nil || window < 0 {
			http.Error(w, fmt.Sprintf("invalid window %q", v), http.StatusBadRequest)
			return
		}
	}

	items, err := digest.Build(s.Archive, feeds, s.now(), window, topN)
	if err != nil {
		lgr.Printf("[ERROR] failed to build digest for %s: %v", name, err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	rss, err := digest.NewGenerator(s.BaseURL, s.PostURL).RSS(items, domain.Feed(name))
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
