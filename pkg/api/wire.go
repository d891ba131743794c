package api

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/postsync/pkg/domain"
)

// textPolicy strips any markup from post text, entities are decoded afterwards
var textPolicy = bluemonday.StrictPolicy()

// Post is a post object as returned by the API
type Post struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	CreatedAt       time.Time `json:"created_at"`
	AuthorID        string    `json:"author_id"`
	ConversationID  string    `json:"conversation_id"`
	InReplyToUserID string    `json:"in_reply_to_user_id"`
	PublicMetrics   struct {
		LikeCount     int `json:"like_count"`
		RetweetCount  int `json:"retweet_count"`
		ReplyCount    int `json:"reply_count"`
		QuoteCount    int `json:"quote_count"`
		BookmarkCount int `json:"bookmark_count"`
	} `json:"public_metrics"`
	ReferencedTweets []struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"referenced_tweets"`
	NoteTweet *struct {
		Text string `json:"text"`
	} `json:"note_tweet"`
}

// User is an account object as returned by the API
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	Protected     bool   `json:"protected"`
	MostRecent    string `json:"most_recent_tweet_id"`
	PublicMetrics struct {
		FollowersCount int `json:"followers_count"`
		FollowingCount int `json:"following_count"`
		TweetCount     int `json:"tweet_count"`
	} `json:"public_metrics"`
}

// Includes holds expanded objects returned next to a page
type Includes struct {
	Tweets []Post `json:"tweets"`
	Users  []User `json:"users"`
}

// Meta is the pagination block of a page
type Meta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
	NewestID    string `json:"newest_id"`
	OldestID    string `json:"oldest_id"`
}

// Item converts the wire post to a domain item. Posts carrying note_tweet are long-form and
// their full text replaces the truncated one. Repost references are dropped.
func (p Post) Item() domain.Item {
	text := p.Text
	if p.NoteTweet != nil && p.NoteTweet.Text != "" {
		text = p.NoteTweet.Text
	}
	item := domain.Item{
		ID:              p.ID,
		Text:            CleanText(text),
		CreatedAt:       p.CreatedAt.UTC(),
		AuthorID:        p.AuthorID,
		ConversationID:  p.ConversationID,
		InReplyToUserID: p.InReplyToUserID,
		LongForm:        p.NoteTweet != nil,
		Metrics: domain.Metrics{
			Likes:     p.PublicMetrics.LikeCount,
			Reposts:   p.PublicMetrics.RetweetCount,
			Replies:   p.PublicMetrics.ReplyCount,
			Quotes:    p.PublicMetrics.QuoteCount,
			Bookmarks: p.PublicMetrics.BookmarkCount,
		},
	}
	for _, ref := range p.ReferencedTweets {
		switch ref.Type {
		case "replied_to":
			item.References = append(item.References, domain.Reference{Type: domain.RefReply, TargetID: ref.ID})
		case "quoted":
			item.References = append(item.References, domain.Reference{Type: domain.RefQuote, TargetID: ref.ID})
		}
	}
	return item
}

// Author converts the wire user to a domain author
func (u User) Author() domain.Author {
	return domain.Author{
		ID:        u.ID,
		Handle:    u.Username,
		Name:      u.Name,
		Followers: u.PublicMetrics.FollowersCount,
		Following: u.PublicMetrics.FollowingCount,
		Posts:     u.PublicMetrics.TweetCount,
		Protected: u.Protected,
		LastPost:  u.MostRecent,
	}
}

// Domain converts expanded objects into typed lookups, referenced items get their author handle
func (inc Includes) Domain() domain.Includes {
	res := domain.NewIncludes()
	for _, u := range inc.Users {
		res.Authors[u.ID] = u.Author()
	}
	for _, p := range inc.Tweets {
		it := p.Item()
		it.AuthorHandle = res.Authors[it.AuthorID].Handle
		res.Items[it.ID] = it
	}
	return res
}

// Items converts a page of posts, filling author handles from the lookups
func Items(posts []Post, inc domain.Includes) []domain.Item {
	res := make([]domain.Item, 0, len(posts))
	for _, p := range posts {
		it := p.Item()
		if a, ok := inc.Authors[it.AuthorID]; ok {
			it.AuthorHandle = a.Handle
		}
		res = append(res, it)
	}
	return res
}

// CleanText removes markup and decodes html entities the API leaves in post text
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
