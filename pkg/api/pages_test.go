package api

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/postsync/pkg/domain"
)

const page1 = `{
  "data": [
    {"id": "103", "text": "third &amp; last", "created_at": "2026-10-16T10:03:00.000Z", "author_id": "42",
     "conversation_id": "101", "referenced_tweets": [{"type": "replied_to", "id": "102"}]},
    {"id": "102", "text": "second", "created_at": "2026-10-16T10:02:00.000Z", "author_id": "42",
     "conversation_id": "101", "public_metrics": {"like_count": 5, "retweet_count": 2, "reply_count": 1, "quote_count": 0, "bookmark_count": 3}}
  ],
  "includes": {
    "users": [{"id": "42", "username": "umputun", "name": "Umputun"}],
    "tweets": [{"id": "102", "text": "second", "author_id": "42", "created_at": "2026-10-16T10:02:00.000Z"}]
  },
  "meta": {"result_count": 2, "next_token": "p2"}
}`

const page2 = `{
  "data": [
    {"id": "101", "text": "first", "created_at": "2026-10-16T10:01:00.000Z", "author_id": "42",
     "note_tweet": {"text": "first, the long version"}}
  ],
  "includes": {"users": [{"id": "7", "username": "other"}]},
  "meta": {"result_count": 1}
}`

func pagedHandler(t *testing.T, pages map[string]string, seen *[]string) http.HandlerFunc {
	var mu sync.Mutex
	return func(w http.ResponseWriter, r *http.Request) {
		tok := r.URL.Query().Get("pagination_token")
		mu.Lock()
		*seen = append(*seen, tok)
		mu.Unlock()
		body, ok := pages[tok]
		if !assert.True(t, ok, "unexpected token %q", tok) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(body))
	}
}

func TestGetAllPages(t *testing.T) {
	var seen []string
	c, _ := newTestClient(t, pagedHandler(t, map[string]string{"": page1, "p2": page2}, &seen), &fakeTokens{token: "t"})

	res, err := GetAllPages[Post](context.Background(), c, "/2/users/42/tweets", PostQuery(0, "", time.Time{}), 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "p2"}, seen)
	assert.Equal(t, 2, res.Pages)
	require.Len(t, res.Data, 3)
	assert.Equal(t, "101", res.Data[2].ID)

	// includes of both pages merged
	assert.Equal(t, "umputun", res.Includes.Authors["42"].Handle)
	assert.Equal(t, "other", res.Includes.Authors["7"].Handle)
	assert.Equal(t, "umputun", res.Includes.Items["102"].AuthorHandle)
}

func TestEachPostPage_EarlyStop(t *testing.T) {
	var seen []string
	c, _ := newTestClient(t, pagedHandler(t, map[string]string{"": page1, "p2": page2}, &seen), &fakeTokens{token: "t"})

	var got []domain.Item
	err := c.EachPostPage(context.Background(), "/2/users/42/bookmarks", nil, func(p PostPage) (bool, error) {
		got = append(got, p.Items...)
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, seen, "second page never requested")
	require.Len(t, got, 2)

	it := got[0]
	assert.Equal(t, "103", it.ID)
	assert.Equal(t, "third & last", it.Text)
	assert.Equal(t, "umputun", it.AuthorHandle)
	assert.Equal(t, []domain.Reference{{Type: domain.RefReply, TargetID: "102"}}, it.References)
	assert.Equal(t, time.Date(2026, 10, 16, 10, 3, 0, 0, time.UTC), it.CreatedAt)
	assert.Equal(t, domain.Metrics{Likes: 5, Reposts: 2, Replies: 1, Bookmarks: 3}, got[1].Metrics)
}

func TestPost_Item(t *testing.T) {
	var p Post
	p.ID = "1"
	p.Text = "<b>short</b> text"
	p.ReferencedTweets = append(p.ReferencedTweets,
		struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		}{Type: "retweeted", ID: "9"},
		struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		}{Type: "quoted", ID: "8"},
	)

	it := p.Item()
	assert.Equal(t, "short text", it.Text)
	assert.False(t, it.LongForm)
	assert.Equal(t, []domain.Reference{{Type: domain.RefQuote, TargetID: "8"}}, it.References, "reposts dropped")

	p.NoteTweet = &struct {
		Text string `json:"text"`
	}{Text: "long &lt;form&gt;"}
	it = p.Item()
	assert.True(t, it.LongForm)
	assert.Equal(t, "long <form>", it.Text)
}

func TestPostQuery(t *testing.T) {
	q := PostQuery(100, "103", time.Now())
	assert.Equal(t, "103", q.Get("since_id"))
	assert.Empty(t, q.Get("start_time"), "cursor wins over lookback")
	assert.Equal(t, "100", q.Get("max_results"))

	start := time.Date(2026, 10, 13, 12, 0, 0, 0, time.UTC)
	q = PostQuery(0, "", start)
	assert.Equal(t, "2026-10-13T12:00:00Z", q.Get("start_time"))
	assert.Empty(t, q.Get("max_results"))
}

func TestClient_Following(t *testing.T) {
	var seen []string
	pages := map[string]string{
		"":  `{"data":[{"id":"1","username":"a","public_metrics":{"followers_count":10,"tweet_count":3}}],"meta":{"next_token":"n"}}`,
		"n": `{"data":[{"id":"2","username":"b","protected":true}],"meta":{}}`,
	}
	c, _ := newTestClient(t, pagedHandler(t, pages, &seen), &fakeTokens{token: "t"})

	res, err := c.Following(context.Background(), "42", 1000)
	require.NoError(t, err)
	assert.Equal(t, []domain.Author{
		{ID: "1", Handle: "a", Followers: 10, Posts: 3},
		{ID: "2", Handle: "b", Protected: true},
	}, res)
}
