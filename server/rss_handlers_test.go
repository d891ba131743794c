package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/postsync/pkg/domain"
	"github.com/umputun/postsync/server/mocks"
)

func TestServer_rssHandler(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		title string
		links []string
	}{
		{name: "own digest", path: "/rss/own", title: "postsync - own digest", links: []string{
			"https://x.com/umputun/status/103", "https://x.com/umputun/status/105", "https://x.com/umputun/status/102"}},
		{name: "top override", path: "/rss/own?top=1", title: "postsync - own digest",
			links: []string{"https://x.com/umputun/status/103"}},
		{name: "window override", path: "/rss/own?window=200h&top=2", title: "postsync - own digest",
			links: []string{"https://x.com/umputun/status/101", "https://x.com/umputun/status/103"}},
		{name: "all feeds", path: "/rss/all?top=1", title: "postsync - all digest",
			links: []string{"https://x.com/umputun/status/103"}},
		{name: "empty feed", path: "/rss/bookmarks", title: "postsync - bookmarks digest", links: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := testServer(t, nil, nil)
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))

			parsed, err := gofeed.NewParser().Parse(strings.NewReader(w.Body.String()))
			require.NoError(t, err)
			assert.Equal(t, tc.title, parsed.Title)
			links := make([]string, 0, len(parsed.Items))
			for _, it := range parsed.Items {
				links = append(links, it.Link)
			}
			assert.Equal(t, tc.links, links)
		})
	}

	t.Run("all feeds load every enabled archive", func(t *testing.T) {
		srv := testServer(t, nil, nil, domain.FeedOwn, domain.FeedFollowing)
		archive := &mocks.ArchiveMock{LoadFunc: func(domain.Feed) ([]domain.ClassifiedItem, error) { return nil, nil }}
		srv.Archive = archive
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rss/all", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, archive.LoadCalls(), 2)
		assert.Equal(t, domain.FeedOwn, archive.LoadCalls()[0].Feed)
		assert.Equal(t, domain.FeedFollowing, archive.LoadCalls()[1].Feed)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			path string
			code int
		}{
			{"/rss/likes", http.StatusNotFound},
			{"/rss/own?top=-1", http.StatusBadRequest},
			{"/rss/own?window=soon", http.StatusBadRequest},
		}
		srv := testServer(t, nil, nil)
		for _, tc := range tests {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
			assert.Equal(t, tc.code, w.Code, tc.path)
		}

		srv.Archive = &mocks.ArchiveMock{LoadFunc: func(domain.Feed) ([]domain.ClassifiedItem, error) {
			return nil, errors.New("disk failure")
		}}
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rss/own", http.NoBody))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
