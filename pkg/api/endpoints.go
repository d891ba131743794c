package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/umputun/postsync/pkg/domain"
)

const (
	postFields = "created_at,author_id,conversation_id,in_reply_to_user_id,public_metrics,referenced_tweets,note_tweet"
	expansions = "author_id,referenced_tweets.id,referenced_tweets.id.author_id,in_reply_to_user_id"
	userFields = "username,name,protected,public_metrics,most_recent_tweet_id"
)

// UserPostsPath is the timeline of posts authored by the user
func UserPostsPath(userID string) string { return "/2/users/" + url.PathEscape(userID) + "/tweets" }

// BookmarksPath lists the user's bookmarks, most recently bookmarked first
func BookmarksPath(userID string) string { return "/2/users/" + url.PathEscape(userID) + "/bookmarks" }

// FollowingPath lists the accounts the user follows
func FollowingPath(userID string) string { return "/2/users/" + url.PathEscape(userID) + "/following" }

// PostQuery builds query params for post listings. sinceID makes the fetch incremental,
// startTime is used as a lookback window when there is no cursor yet.
func PostQuery(pageSize int, sinceID string, startTime time.Time) url.Values {
	q := url.Values{}
	q.Set("tweet.fields", postFields)
	q.Set("expansions", expansions)
	q.Set("user.fields", userFields)
	if pageSize > 0 {
		q.Set("max_results", strconv.Itoa(pageSize))
	}
	switch {
	case sinceID != "":
		q.Set("since_id", sinceID)
	case !startTime.IsZero():
		q.Set("start_time", startTime.UTC().Format(time.RFC3339))
	}
	return q
}

// UserQuery builds query params for user listings
func UserQuery(pageSize int) url.Values {
	q := url.Values{}
	q.Set("user.fields", userFields)
	if pageSize > 0 {
		q.Set("max_results", strconv.Itoa(pageSize))
	}
	return q
}

// Me returns the authenticated account
func (c *Client) Me(ctx context.Context) (domain.Author, error) {
	var resp struct {
		Data User `json:"data"`
	}
	q := url.Values{}
	q.Set("user.fields", userFields)
	if err := c.Get(ctx, "/2/users/me", q, &resp); err != nil {
		return domain.Author{}, fmt.Errorf("get authenticated user: %w", err)
	}
	return resp.Data.Author(), nil
}

// Following returns all accounts followed by userID
func (c *Client) Following(ctx context.Context, userID string, pageSize int) ([]domain.Author, error) {
	all, err := GetAllPages[User](ctx, c, FollowingPath(userID), UserQuery(0), pageSize)
	if err != nil {
		return nil, fmt.Errorf("get following of %s: %w", userID, err)
	}
	res := make([]domain.Author, 0, len(all.Data))
	for _, u := range all.Data {
		res = append(res, u.Author())
	}
	return res, nil
}

// PostPage is a decoded page of posts with its own lookups
type PostPage struct {
	Items    []domain.Item
	Includes domain.Includes
}

// EachPostPage walks a post listing, converting every page to domain types before fn sees it
func (c *Client) EachPostPage(ctx context.Context, path string, params url.Values, fn func(PostPage) (bool, error)) error {
	return EachPage(ctx, c, path, params, func(p Page[Post]) (bool, error) {
		inc := p.Includes.Domain()
		return fn(PostPage{Items: Items(p.Data, inc), Includes: inc})
	})
}
