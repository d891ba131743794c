package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/postsync/pkg/domain"
)

type fakeTokens struct {
	mu       sync.Mutex
	token    string
	forced   int
	forceErr error
	ensure   error
}

func (f *fakeTokens) EnsureValid(context.Context) (domain.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ensure != nil {
		return domain.Credentials{}, f.ensure
	}
	return domain.Credentials{AccessToken: f.token}, nil
}

func (f *fakeTokens) ForceRefresh(_ context.Context, rejected string) (domain.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forceErr != nil {
		return domain.Credentials{}, f.forceErr
	}
	f.forced++
	if rejected == f.token {
		f.token = "token-" + strconv.Itoa(f.forced)
	}
	return domain.Credentials{AccessToken: f.token}, nil
}

func newTestClient(t *testing.T, h http.HandlerFunc, tokens TokenSource) (*Client, *[]time.Duration) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	var waits []time.Duration
	c := NewClient(Params{BaseURL: ts.URL, Tokens: tokens, MaxRateWait: 15 * time.Minute, UserAgent: "postsync-test"})
	c.now = func() time.Time { return time.Unix(1_800_000_000, 0) }
	c.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return c, &waits
}

func TestClient_Get(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/me", r.URL.Path)
		assert.Equal(t, "Bearer token-0", r.Header.Get("Authorization"))
		assert.Equal(t, "postsync-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "username", r.URL.Query().Get("user.fields"))
		_, _ = w.Write([]byte(`{"data":{"id":"42","username":"umputun"}}`))
	}, &fakeTokens{token: "token-0"})

	var resp struct {
		Data User `json:"data"`
	}
	err := c.Get(context.Background(), "/2/users/me", url.Values{"user.fields": {"username"}}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Data.ID)
	assert.Equal(t, "umputun", resp.Data.Username)
}

func TestClient_RateLimitRecovery(t *testing.T) {
	var calls int32
	c, waits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("x-rate-limit-reset", strconv.FormatInt(1_800_000_000+120, 10))
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}, &fakeTokens{token: "t"})

	var rateHits []string
	c.onRateLimit = func(path string, _ time.Duration) { rateHits = append(rateHits, path) }

	var page Page[Post]
	err := c.Get(context.Background(), "/2/users/1/tweets", nil, &page)
	require.NoError(t, err, "rate limit is invisible to the caller")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "exactly one retried call")
	assert.Equal(t, []time.Duration{121 * time.Second}, *waits)
	assert.Equal(t, []string{"/2/users/1/tweets"}, rateHits)
}

func TestClient_RateLimitWait(t *testing.T) {
	c := NewClient(Params{MaxRateWait: 15 * time.Minute})
	c.now = func() time.Time { return time.Unix(1_800_000_000, 0) }

	tbl := []struct {
		name   string
		header http.Header
		want   time.Duration
	}{
		{"reset header", http.Header{"X-Rate-Limit-Reset": {"1800000059"}}, time.Minute},
		{"reset far away is clamped", http.Header{"X-Rate-Limit-Reset": {"1800009999"}}, 15 * time.Minute},
		{"reset in the past", http.Header{"X-Rate-Limit-Reset": {"1799999000"}}, time.Second},
		{"retry after", http.Header{"Retry-After": {"30"}}, 30 * time.Second},
		{"no headers", http.Header{}, time.Minute},
		{"garbage", http.Header{"X-Rate-Limit-Reset": {"soon"}}, time.Minute},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.rateLimitWait(tt.header))
		})
	}
}

func TestClient_UnauthorizedRefreshOnce(t *testing.T) {
	t.Run("refresh then success", func(t *testing.T) {
		tokens := &fakeTokens{token: "stale"}
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "Bearer stale" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"data":[]}`))
		}, tokens)

		var page Page[Post]
		require.NoError(t, c.Get(context.Background(), "/x", nil, &page))
		assert.Equal(t, 1, tokens.forced)
	})

	t.Run("second 401 is fatal", func(t *testing.T) {
		var calls int32
		tokens := &fakeTokens{token: "stale"}
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}, tokens)

		var page Page[Post]
		err := c.Get(context.Background(), "/x", nil, &page)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuthExpired)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
		assert.Equal(t, 1, tokens.forced)
	})

	t.Run("refresh failure propagates", func(t *testing.T) {
		tokens := &fakeTokens{token: "stale", forceErr: domain.ErrAuthExpired}
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, tokens)
		var page Page[Post]
		assert.ErrorIs(t, c.Get(context.Background(), "/x", nil, &page), domain.ErrAuthExpired)
	})
}

func TestClient_TransportErrors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		var calls int32
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"title":"Not Found Error"}`))
		}, &fakeTokens{token: "t"})

		var page Page[Post]
		err := c.Get(context.Background(), "/2/users/9/tweets", nil, &page)
		te, ok := IsTransportError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, te.Status)
		assert.Equal(t, `{"title":"Not Found Error"}`, te.Body)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "not retried")
	})

	t.Run("malformed body", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":`))
		}, &fakeTokens{token: "t"})
		var page Page[Post]
		_, ok := IsTransportError(c.Get(context.Background(), "/x", nil, &page))
		assert.True(t, ok)
	})

	t.Run("connection refused", func(t *testing.T) {
		c := NewClient(Params{BaseURL: "http://127.0.0.1:1", Tokens: &fakeTokens{token: "t"}, Timeout: time.Second})
		var page Page[Post]
		te, ok := IsTransportError(c.Get(context.Background(), "/x", nil, &page))
		require.True(t, ok)
		assert.Zero(t, te.Status)
		assert.True(t, te.Temporary())
	})

	t.Run("token failure is returned as is", func(t *testing.T) {
		boom := errors.New("boom")
		c := NewClient(Params{BaseURL: "http://127.0.0.1:1", Tokens: &fakeTokens{ensure: boom}})
		var page Page[Post]
		assert.ErrorIs(t, c.Get(context.Background(), "/x", nil, &page), boom)
	})
}

func TestClient_CanceledDuringRateLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "600")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewClient(Params{BaseURL: ts.URL, Tokens: &fakeTokens{token: "t"}})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var page Page[Post]
	err := c.Get(ctx, "/x", nil, &page)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
