package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/postsync/pkg/domain"
)

func TestRun_MissingConfig(t *testing.T) {
	err := run(context.Background(), "sync", Opts{Config: "non-existent-config.yml"}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600))

	err := run(context.Background(), "sync", Opts{Config: path}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

// writeTestConfig creates config and credentials in a temp dir, API calls go to apiURL
func writeTestConfig(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()

	creds := domain.Credentials{ClientID: "cid", AccessToken: "access-1", RefreshToken: "refresh-1",
		ExpiresAt: time.Now().Add(24 * time.Hour)}
	data, err := json.Marshal(creds)
	require.NoError(t, err)
	credsPath := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(credsPath, data, 0o600))

	cfg := fmt.Sprintf(`
account:
  id: "42"
  handle: umputun
api:
  base_url: %s
  token_url: %s/2/oauth2/token
credentials:
  path: %s
storage:
  dir: %s
  dsn: "file:%s?mode=rwc&_txlock=immediate"
sync:
  feeds: [own]
`, apiURL, apiURL, credsPath, filepath.Join(dir, "var"), filepath.Join(dir, "postsync.db"))
	path := filepath.Join(dir, "postsync.yml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func TestRun_SyncAndDigest(t *testing.T) {
	created := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/42/tweets", r.URL.Path)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			assert.Empty(t, r.URL.Query().Get("since_id"))
			assert.NotEmpty(t, r.URL.Query().Get("start_time"))
			fmt.Fprintf(w, `{"data":[
				{"id":"1002","text":"second post","created_at":%q,"author_id":"42","conversation_id":"1002",
				 "public_metrics":{"like_count":10}},
				{"id":"1001","text":"first post","created_at":%q,"author_id":"42","conversation_id":"1001",
				 "public_metrics":{"like_count":3}}
			],"meta":{"result_count":2}}`, created, created)
			return
		}
		assert.Equal(t, "1002", r.URL.Query().Get("since_id"))
		fmt.Fprint(w, `{"meta":{"result_count":0}}`)
	}))
	defer ts.Close()

	opts := Opts{Config: writeTestConfig(t, ts.URL)}

	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), "sync", opts, out))
	assert.Equal(t, "own: fetched 2, added 2, pushed 2, account errors 0\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), "sync", opts, out))
	assert.Equal(t, "own: fetched 0, added 0, pushed 0, account errors 0\n", out.String())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	out.Reset()
	opts.Digest.Feed = "own"
	require.NoError(t, run(context.Background(), "digest", opts, out))
	rss := out.String()
	assert.Contains(t, rss, "<title>postsync - own digest</title>")
	assert.Contains(t, rss, "https://x.com/umputun/status/1002")
	assert.Less(t, strings.Index(rss, "status/1002"), strings.Index(rss, "status/1001"), "higher score first")

	t.Run("digest to file", func(t *testing.T) {
		opts := opts
		opts.Digest.Output = filepath.Join(t.TempDir(), "digest.xml")
		opts.Digest.Top = 1
		out := &bytes.Buffer{}
		require.NoError(t, run(context.Background(), "digest", opts, out))
		assert.Empty(t, out.String())
		data, err := os.ReadFile(opts.Digest.Output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "status/1002")
		assert.NotContains(t, string(data), "status/1001")
	})

	t.Run("unknown feed", func(t *testing.T) {
		opts := opts
		opts.Sync.Feeds = []string{"likes"}
		err := run(context.Background(), "sync", opts, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown feed "likes"`)
	})
}

func TestRun_SyncAuthExpired(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized) // tweets and token endpoint alike
	}))
	defer ts.Close()

	err := run(context.Background(), "sync", Opts{Config: writeTestConfig(t, ts.URL)}, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthExpired)
}

func TestRun_Candidates(t *testing.T) {
	opts := Opts{Config: writeTestConfig(t, "http://127.0.0.1:1")}
	ctx := context.Background()

	out := &bytes.Buffer{}
	opts.Pending.Status = "pending"
	require.NoError(t, run(ctx, "pending", opts, out))
	assert.Equal(t, "no pending candidates\n", out.String())

	out.Reset()
	opts.Approve.Args.IDs = []string{"7", "8"}
	require.NoError(t, run(ctx, "approve", opts, out))
	assert.Equal(t, "approved 7\napproved 8\n", out.String())

	out.Reset()
	opts.Pending.Status = "approved"
	require.NoError(t, run(ctx, "pending", opts, out))
	assert.Contains(t, out.String(), "7 ")
	assert.Contains(t, out.String(), "8 ")

	out.Reset()
	opts.Untrack.Args.IDs = []string{"7"}
	require.NoError(t, run(ctx, "untrack", opts, out))
	assert.Equal(t, "untracked 7\n", out.String())

	out.Reset()
	opts.Pending.Status = "rejected"
	require.NoError(t, run(ctx, "pending", opts, out))
	assert.True(t, strings.HasPrefix(out.String(), "7 "), out.String())
	assert.NotContains(t, out.String(), "8 ")
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		setupLog(true)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		setupLog(false)
	})

	t.Run("with secrets", func(t *testing.T) {
		setupLog(true, "secret1", "", "secret2")
	})
}
