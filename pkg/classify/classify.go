// Package classify assigns kinds to fetched items and numbers items within conversations.
package classify

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/umputun/postsync/pkg/domain"
)

// ExcerptLen is the maximum length, in runes, of a referenced item excerpt
const ExcerptLen = 200

// Classify assigns the kind of item and describes the item it replies to or quotes.
// A reply reference always wins over a quote reference, long_form applies only to items without
// references. Missing lookups leave the excerpt and handle empty but never change the kind.
// The viewer is treated as a known author when resolving handles.
func Classify(item domain.Item, viewer domain.Author, inc domain.Includes) domain.ClassifiedItem {
	if item.AuthorHandle == "" && item.AuthorID != "" && item.AuthorID == viewer.ID {
		item.AuthorHandle = viewer.Handle
	}
	res := domain.ClassifiedItem{Item: item, Kind: domain.KindOriginal}

	if ref, ok := item.Ref(domain.RefReply); ok {
		parent, found := inc.Items[ref.TargetID]
		parentAuthor := item.InReplyToUserID
		if parentAuthor == "" && found {
			parentAuthor = parent.AuthorID
		}
		res.Kind = domain.KindReply
		if parentAuthor != "" && parentAuthor == item.AuthorID {
			res.Kind = domain.KindThread
		}
		res.Referenced = referenced(ref.TargetID, parentAuthor, parent, viewer, inc)
		return res
	}

	if ref, ok := item.Ref(domain.RefQuote); ok {
		quoted := inc.Items[ref.TargetID]
		res.Kind = domain.KindQuote
		res.Referenced = referenced(ref.TargetID, quoted.AuthorID, quoted, viewer, inc)
		return res
	}

	if item.LongForm {
		res.Kind = domain.KindLongForm
	}
	return res
}

// ClassifyAll classifies a page of items with the lookups returned alongside it
func ClassifyAll(items []domain.Item, viewer domain.Author, inc domain.Includes) []domain.ClassifiedItem {
	res := make([]domain.ClassifiedItem, 0, len(items))
	for _, it := range items {
		res = append(res, Classify(it, viewer, inc))
	}
	return res
}

func referenced(id, authorID string, target domain.Item, viewer domain.Author, inc domain.Includes) *domain.ReferencedItem {
	res := &domain.ReferencedItem{ID: id, AuthorID: authorID, TextExcerpt: Excerpt(target.Text, ExcerptLen)}
	switch {
	case target.AuthorHandle != "" && target.AuthorID == authorID:
		res.AuthorHandle = target.AuthorHandle
	case inc.Authors[authorID].Handle != "":
		res.AuthorHandle = inc.Authors[authorID].Handle
	case authorID != "" && authorID == viewer.ID:
		res.AuthorHandle = viewer.Handle
	}
	return res
}

// Excerpt normalizes s and cuts it to at most n runes, marking the cut with an ellipsis
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}

// AssignThreadPositions numbers items sharing a conversation id in ascending creation order,
// starting at 1. Conversations with a single item in the set get no position. The input order
// is preserved and re-running on the same set gives the same positions.
func AssignThreadPositions(items []domain.ClassifiedItem) {
	groups := map[string][]int{}
	for i := range items {
		items[i].ThreadPosition = 0
		if cid := items[i].ConversationID; cid != "" {
			groups[cid] = append(groups[cid], i)
		}
	}

	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		sort.Slice(idxs, func(a, b int) bool {
			ia, ib := items[idxs[a]], items[idxs[b]]
			if !ia.CreatedAt.Equal(ib.CreatedAt) {
				return ia.CreatedAt.Before(ib.CreatedAt)
			}
			return domain.CompareIDs(ia.ID, ib.ID) < 0
		})
		for pos, idx := range idxs {
			items[idx].ThreadPosition = pos + 1
		}
	}
}
