// Package digest ranks archived items by engagement and recency and renders the top ones as RSS.
package digest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/umputun/postsync/pkg/domain"
)

// Scored is an item with its digest score
type Scored struct {
	domain.ClassifiedItem
	Score float64 `json:"score"`
}

// Engagement is the weighted sum of public counters
func Engagement(m domain.Metrics) float64 {
	return float64(m.Likes + 2*m.Reposts + 3*m.Replies + 2*m.Quotes + 2*m.Bookmarks)
}

// Recency drops from 100 for a fresh item by 2 points an hour, floor at 0
func Recency(created, now time.Time) float64 {
	hours := now.Sub(created).Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Max(0, 100-2*hours)
}

// Score is the engagement boosted by up to 2x for fresh items
func Score(item domain.ClassifiedItem, now time.Time) float64 {
	return Engagement(item.Metrics) * (1 + Recency(item.CreatedAt, now)/100)
}

// ArchiveLoader reads the archive of a feed
type ArchiveLoader interface {
	Load(feed domain.Feed) ([]domain.ClassifiedItem, error)
}

// Build loads the archives of the feeds and ranks them together
func Build(loader ArchiveLoader, feeds []domain.Feed, now time.Time, window time.Duration, topN int) ([]Scored, error) {
	archives := make([][]domain.ClassifiedItem, 0, len(feeds))
	for _, f := range feeds {
		items, err := loader.Load(f)
		if err != nil {
			return nil, fmt.Errorf("load %s archive: %w", f, err)
		}
		archives = append(archives, items)
	}
	return Rank(archives, now, window, topN), nil
}

// Rank merges archives by id, drops replies and items older than window, scores the rest
// and returns up to topN best, highest first. Zero window or topN means no limit.
func Rank(archives [][]domain.ClassifiedItem, now time.Time, window time.Duration, topN int) []Scored {
	seen := map[string]bool{}
	var res []Scored
	for _, items := range archives {
		for _, it := range items {
			if seen[it.ID] || it.Kind == domain.KindReply {
				continue
			}
			if window > 0 && now.Sub(it.CreatedAt) > window {
				continue
			}
			seen[it.ID] = true
			res = append(res, Scored{ClassifiedItem: it, Score: Score(it, now)})
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return domain.CompareIDs(res[i].ID, res[j].ID) > 0
	})
	if topN > 0 && len(res) > topN {
		res = res[:topN]
	}
	return res
}
