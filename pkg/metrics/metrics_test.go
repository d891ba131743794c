package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/postsync/pkg/domain"
)

func TestMetrics_SyncFinished(t *testing.T) {
	m := New()
	finished := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	m.SyncFinished(domain.SyncResult{Feed: domain.FeedFollowing, Fetched: 10, Added: 4, Pushed: 3,
		Errors: []domain.AccountError{{AccountID: "B"}}, Finished: finished})
	m.SyncFinished(domain.SyncResult{Feed: domain.FeedFollowing, Fetched: 2, Added: 1, Pushed: 1})
	m.SyncFinished(domain.SyncResult{Feed: domain.FeedOwn, Fetched: 1})

	assert.InDelta(t, 12, testutil.ToFloat64(m.fetched.WithLabelValues("following")), 0.001)
	assert.InDelta(t, 5, testutil.ToFloat64(m.added.WithLabelValues("following")), 0.001)
	assert.InDelta(t, 4, testutil.ToFloat64(m.pushed.WithLabelValues("following")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.accountErrors.WithLabelValues("following")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.fetched.WithLabelValues("own")), 0.001)
	assert.InDelta(t, float64(finished.Unix()), testutil.ToFloat64(m.lastRun.WithLabelValues("following")), 0.001)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RateLimited("/2/users/1/tweets", 90*time.Second)
	m.RateLimited("/2/users/1/tweets", 30*time.Second)
	m.TokenRefreshed()

	ts := httptest.NewServer(m.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "postsync_rate_limit_waits_total 2")
	assert.Contains(t, string(body), "postsync_rate_limit_wait_seconds_total 120")
	assert.Contains(t, string(body), "postsync_token_refreshes_total 1")
}
