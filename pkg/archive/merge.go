// Package archive merges fetched items into the persisted per-feed collection.
package archive

import (
	"sort"

	"github.com/umputun/postsync/pkg/classify"
	"github.com/umputun/postsync/pkg/domain"
)

// Result of Merge
type Result struct {
	Items []domain.ClassifiedItem // deduplicated, newest first
	Added map[string]bool         // ids present in the fetched batch but not in the existing archive
}

// Merge combines the existing archive with fetched items keyed by id. Fetched items win since
// engagement metrics change over time, the creation time and resolved handles or excerpts of a
// known item are kept if the new copy lacks them. Thread positions are re-derived over the merged set.
func Merge(existing, fetched []domain.ClassifiedItem) Result {
	byID := make(map[string]domain.ClassifiedItem, len(existing)+len(fetched))
	for _, it := range existing {
		byID[it.ID] = it
	}

	added := map[string]bool{}
	for _, it := range fetched {
		old, known := byID[it.ID]
		if !known {
			added[it.ID] = true
		}
		if known {
			it = keepContext(old, it)
		}
		byID[it.ID] = it
	}

	items := make([]domain.ClassifiedItem, 0, len(byID))
	for _, it := range byID {
		items = append(items, it)
	}
	classify.AssignThreadPositions(items)
	SortNewestFirst(items)
	return Result{Items: items, Added: added}
}

// keepContext fills what a re-fetched copy lacks from the stored one. A page fetched without
// lookups has no handles or excerpts, metrics are taken from the new copy as is.
func keepContext(old, fresh domain.ClassifiedItem) domain.ClassifiedItem {
	if fresh.CreatedAt.IsZero() {
		fresh.CreatedAt = old.CreatedAt
	}
	if fresh.AuthorHandle == "" && fresh.AuthorID == old.AuthorID {
		fresh.AuthorHandle = old.AuthorHandle
	}
	if old.Referenced == nil {
		return fresh
	}
	if fresh.Referenced == nil {
		if len(fresh.References) > 0 {
			ref := *old.Referenced
			fresh.Referenced = &ref
		}
		return fresh
	}
	if fresh.Referenced.ID != old.Referenced.ID {
		return fresh
	}
	ref := *fresh.Referenced
	if ref.AuthorID == "" {
		ref.AuthorID = old.Referenced.AuthorID
	}
	if ref.AuthorHandle == "" && ref.AuthorID == old.Referenced.AuthorID {
		ref.AuthorHandle = old.Referenced.AuthorHandle
	}
	if ref.TextExcerpt == "" {
		ref.TextExcerpt = old.Referenced.TextExcerpt
	}
	fresh.Referenced = &ref
	return fresh
}

// Delta returns the added items in archive order
func (r Result) Delta() []domain.ClassifiedItem {
	res := make([]domain.ClassifiedItem, 0, len(r.Added))
	for _, it := range r.Items {
		if r.Added[it.ID] {
			res = append(res, it)
		}
	}
	return res
}

// SortNewestFirst orders items by creation time descending, ids break ties
func SortNewestFirst(items []domain.ClassifiedItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return domain.CompareIDs(items[i].ID, items[j].ID) > 0
	})
}
