package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/postsync/pkg/domain"
)

var base = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

func item(id string, minute int) domain.ClassifiedItem {
	return domain.ClassifiedItem{
		Item: domain.Item{ID: id, AuthorID: "42", ConversationID: id, CreatedAt: base.Add(time.Duration(minute) * time.Minute)},
		Kind: domain.KindOriginal,
	}
}

func ids(items []domain.ClassifiedItem) []string {
	res := make([]string, 0, len(items))
	for _, it := range items {
		res = append(res, it.ID)
	}
	return res
}

func TestMerge_IncrementalScenario(t *testing.T) {
	first := Merge(nil, []domain.ClassifiedItem{item("101", 1), item("102", 2), item("103", 3)})
	assert.Equal(t, []string{"103", "102", "101"}, ids(first.Items))
	assert.Equal(t, map[string]bool{"101": true, "102": true, "103": true}, first.Added)

	second := Merge(first.Items, []domain.ClassifiedItem{item("105", 5), item("104", 4)})
	assert.Equal(t, []string{"105", "104", "103", "102", "101"}, ids(second.Items))
	assert.Equal(t, map[string]bool{"104": true, "105": true}, second.Added)
	assert.Equal(t, []string{"105", "104"}, ids(second.Delta()))
}

func TestMerge_Idempotent(t *testing.T) {
	existing := []domain.ClassifiedItem{item("1", 1), item("2", 2)}
	batch := []domain.ClassifiedItem{item("2", 2), item("3", 3)}
	batch[0].Metrics.Likes = 10

	once := Merge(existing, batch)
	twice := Merge(once.Items, batch)
	assert.Equal(t, once.Items, twice.Items)
	assert.Empty(t, twice.Added)
	assert.Empty(t, twice.Delta())
}

func TestMerge_NewDataWins(t *testing.T) {
	old := item("1", 1)
	old.Metrics = domain.Metrics{Likes: 1}

	fresh := item("1", 0)
	fresh.CreatedAt = time.Time{}
	fresh.Metrics = domain.Metrics{Likes: 50, Reposts: 3}

	res := Merge([]domain.ClassifiedItem{old}, []domain.ClassifiedItem{fresh})
	require.Len(t, res.Items, 1)
	assert.Equal(t, domain.Metrics{Likes: 50, Reposts: 3}, res.Items[0].Metrics)
	assert.Equal(t, old.CreatedAt, res.Items[0].CreatedAt, "creation time kept")
	assert.Empty(t, res.Added)
}

func TestMerge_KeepsResolvedContext(t *testing.T) {
	quote := []domain.Reference{{Type: domain.RefQuote, TargetID: "900"}}
	stored := func() domain.ClassifiedItem {
		it := item("1", 1)
		it.AuthorHandle = "umputun"
		it.References = quote
		it.Kind = domain.KindQuote
		it.Metrics = domain.Metrics{Likes: 1}
		it.Referenced = &domain.ReferencedItem{ID: "900", AuthorID: "7", AuthorHandle: "ksenks", TextExcerpt: "quoted text"}
		return it
	}

	t.Run("re-fetched without lookups", func(t *testing.T) {
		fresh := item("1", 1)
		fresh.References = quote
		fresh.Kind = domain.KindQuote
		fresh.Metrics = domain.Metrics{Likes: 9}
		fresh.Referenced = &domain.ReferencedItem{ID: "900"}

		res := Merge([]domain.ClassifiedItem{stored()}, []domain.ClassifiedItem{fresh})
		require.Len(t, res.Items, 1)
		got := res.Items[0]
		assert.Equal(t, domain.Metrics{Likes: 9}, got.Metrics, "metrics from the new copy")
		assert.Equal(t, "umputun", got.AuthorHandle)
		assert.Equal(t, &domain.ReferencedItem{ID: "900", AuthorID: "7", AuthorHandle: "ksenks", TextExcerpt: "quoted text"},
			got.Referenced)
		assert.Equal(t, "900", fresh.Referenced.ID)
		assert.Empty(t, fresh.Referenced.TextExcerpt, "fetched copy not mutated")
	})

	t.Run("re-fetched without referenced description", func(t *testing.T) {
		fresh := item("1", 1)
		fresh.References = quote
		fresh.Kind = domain.KindQuote

		res := Merge([]domain.ClassifiedItem{stored()}, []domain.ClassifiedItem{fresh})
		require.Len(t, res.Items, 1)
		require.NotNil(t, res.Items[0].Referenced)
		assert.Equal(t, "quoted text", res.Items[0].Referenced.TextExcerpt)
		assert.Equal(t, "ksenks", res.Items[0].Referenced.AuthorHandle)
	})

	t.Run("new values win", func(t *testing.T) {
		fresh := item("1", 1)
		fresh.AuthorHandle = "renamed"
		fresh.References = quote
		fresh.Kind = domain.KindQuote
		fresh.Referenced = &domain.ReferencedItem{ID: "900", AuthorID: "7", AuthorHandle: "ksenks2", TextExcerpt: "edited"}

		res := Merge([]domain.ClassifiedItem{stored()}, []domain.ClassifiedItem{fresh})
		require.Len(t, res.Items, 1)
		assert.Equal(t, "renamed", res.Items[0].AuthorHandle)
		assert.Equal(t, fresh.Referenced, res.Items[0].Referenced)
	})

	t.Run("other referenced item", func(t *testing.T) {
		fresh := item("1", 1)
		fresh.References = []domain.Reference{{Type: domain.RefQuote, TargetID: "901"}}
		fresh.Kind = domain.KindQuote
		fresh.Referenced = &domain.ReferencedItem{ID: "901"}

		res := Merge([]domain.ClassifiedItem{stored()}, []domain.ClassifiedItem{fresh})
		require.Len(t, res.Items, 1)
		assert.Equal(t, &domain.ReferencedItem{ID: "901"}, res.Items[0].Referenced)
	})
}

func TestMerge_ThreadPositionsRederived(t *testing.T) {
	mk := func(id string, minute int) domain.ClassifiedItem {
		it := item(id, minute)
		it.ConversationID = "500"
		return it
	}
	first := Merge(nil, []domain.ClassifiedItem{mk("502", 2)})
	assert.Zero(t, first.Items[0].ThreadPosition, "single member has no position")

	// an earlier and a later member arrive in the next fetch
	second := Merge(first.Items, []domain.ClassifiedItem{mk("500", 0), mk("505", 5)})
	pos := map[string]int{}
	for _, it := range second.Items {
		pos[it.ID] = it.ThreadPosition
	}
	assert.Equal(t, map[string]int{"500": 1, "502": 2, "505": 3}, pos)
}

func TestSortNewestFirst_TieBreak(t *testing.T) {
	items := []domain.ClassifiedItem{item("99", 1), item("100", 1), item("7", 2)}
	SortNewestFirst(items)
	assert.Equal(t, []string{"7", "100", "99"}, ids(items))
}
