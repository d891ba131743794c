package digest

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/postsync/pkg/classify"
	"github.com/umputun/postsync/pkg/domain"
)

const titleLen = 80

// Generator creates RSS feeds from scored items
type Generator struct {
	baseURL string // where the feed is served
	postURL string // prefix of post permalinks
	now     func() time.Time
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL, postURL string) *Generator {
	if postURL == "" {
		postURL = "https://x.com"
	}
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		postURL: strings.TrimRight(postURL, "/"),
		now:     time.Now,
	}
}

// RSS renders the items of a feed digest as an RSS 2.0 document
func (g *Generator) RSS(items []Scored, feed domain.Feed) (string, error) {
	rssItems := make([]*RSSItem, 0, len(items))
	for _, it := range items {
		rssItems = append(rssItems, g.convertToRSSItem(it))
	}

	doc := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         fmt.Sprintf("postsync - %s digest", feed),
			Link:          g.baseURL + "/",
			Description:   fmt.Sprintf("Top %s posts by engagement and recency", feed),
			AtomLink:      &AtomLink{Href: fmt.Sprintf("%s/rss/%s", g.baseURL, feed), Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: g.now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// Link returns the permalink of the item
func (g *Generator) Link(it domain.ClassifiedItem) string {
	handle := it.AuthorHandle
	if handle == "" {
		handle = "i"
	}
	return fmt.Sprintf("%s/%s/status/%s", g.postURL, handle, it.ID)
}

func (g *Generator) convertToRSSItem(it Scored) *RSSItem {
	title := classify.Excerpt(strings.Join(strings.Fields(it.Text), " "), titleLen)
	if title == "" {
		title = "post " + it.ID
	}
	if it.AuthorHandle != "" {
		title = "@" + it.AuthorHandle + ": " + title
	}

	desc := it.Text
	if ref := it.Referenced; ref != nil && ref.TextExcerpt != "" {
		who := ref.AuthorHandle
		if who == "" {
			who = ref.AuthorID
		}
		desc += fmt.Sprintf("\n\n%s @%s: %s", it.Kind, who, ref.TextExcerpt)
	}
	m := it.Metrics
	desc += fmt.Sprintf("\n\nScore: %.1f, likes %d, reposts %d, replies %d, quotes %d",
		it.Score, m.Likes, m.Reposts, m.Replies, m.Quotes)

	return &RSSItem{
		Title:       title,
		Link:        g.Link(it.ClassifiedItem),
		GUID:        GUID{Value: it.ID},
		Description: desc,
		PubDate:     it.CreatedAt.Format(time.RFC1123Z),
		Categories:  []string{string(it.Kind)},
	}
}
