package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareIDs(t *testing.T) {
	tbl := []struct {
		a, b string
		want int
	}{
		{"1", "1", 0},
		{"99", "105", -1},
		{"105", "99", 1},
		{"1830000000000000001", "1830000000000000002", -1},
		{"007", "7", 0},
		{"", "1", -1},
	}
	for _, tt := range tbl {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareIDs(tt.a, tt.b))
		})
	}
}

func TestMaxID(t *testing.T) {
	items := []ClassifiedItem{{Item: Item{ID: "101"}}, {Item: Item{ID: "1000"}}, {Item: Item{ID: "999"}}}
	assert.Equal(t, "1000", MaxID(items))
	assert.Empty(t, MaxID([]Item{}))
}

func TestParseFeed(t *testing.T) {
	f, err := ParseFeed("bookmarks")
	assert.NoError(t, err)
	assert.Equal(t, FeedBookmarks, f)

	_, err = ParseFeed("timeline")
	assert.EqualError(t, err, `unknown feed "timeline"`)
}

func TestItem_Ref(t *testing.T) {
	it := Item{References: []Reference{{Type: RefQuote, TargetID: "5"}, {Type: RefReply, TargetID: "4"}}}
	r, ok := it.Ref(RefReply)
	assert.True(t, ok)
	assert.Equal(t, "4", r.TargetID)

	_, ok = Item{}.Ref(RefQuote)
	assert.False(t, ok)
}

func TestTransportError(t *testing.T) {
	e := &TransportError{Path: "/2/users/1/tweets", Status: 404, Body: "not found"}
	assert.Equal(t, "request /2/users/1/tweets: status 404: not found", e.Error())
	assert.False(t, e.Temporary())
	assert.True(t, (&TransportError{Status: 503}).Temporary())
}

func TestIDTime(t *testing.T) {
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), IDTime("2006924427391938617"))
	assert.True(t, IDTime("").IsZero())
	assert.True(t, IDTime("abc").IsZero())
	assert.True(t, IDTime("105").IsZero(), "small ids carry no time")
}
