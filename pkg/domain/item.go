package domain

import "time"

// RefType is the kind of link between two items
type RefType string

// reference types supported by the classifier, reposts are dropped on decode
const (
	RefReply RefType = "reply"
	RefQuote RefType = "quote"
)

// Kind is the derived classification of an item
type Kind string

// Kind values
const (
	KindOriginal Kind = "original"
	KindLongForm Kind = "long_form"
	KindThread   Kind = "thread"
	KindReply    Kind = "reply"
	KindQuote    Kind = "quote"
)

// AllKinds lists every Kind value
var AllKinds = []Kind{KindOriginal, KindLongForm, KindThread, KindReply, KindQuote}

// Metrics holds public engagement counters, they change between fetches
type Metrics struct {
	Likes     int `json:"likes"`
	Reposts   int `json:"reposts"`
	Replies   int `json:"replies"`
	Quotes    int `json:"quotes"`
	Bookmarks int `json:"bookmarks"`
}

// Reference points from an item to the item it replies to or quotes
type Reference struct {
	Type     RefType `json:"type"`
	TargetID string  `json:"target_id"`
}

// Item is a single post as fetched from the platform
type Item struct {
	ID              string      `json:"id"`
	Text            string      `json:"text"`
	CreatedAt       time.Time   `json:"created_at"`
	AuthorID        string      `json:"author_id"`
	AuthorHandle    string      `json:"author_handle,omitempty"`
	ConversationID  string      `json:"conversation_id,omitempty"`
	InReplyToUserID string      `json:"in_reply_to_user_id,omitempty"`
	Metrics         Metrics     `json:"metrics"`
	References      []Reference `json:"references,omitempty"`
	LongForm        bool        `json:"long_form,omitempty"`
}

// Ref returns the first reference of the given type
func (i Item) Ref(t RefType) (Reference, bool) {
	for _, r := range i.References {
		if r.Type == t {
			return r, true
		}
	}
	return Reference{}, false
}

// ReferencedItem is a short description of the replied-to or quoted item
type ReferencedItem struct {
	ID           string `json:"id"`
	AuthorID     string `json:"author_id,omitempty"`
	AuthorHandle string `json:"author_handle,omitempty"`
	TextExcerpt  string `json:"text_excerpt,omitempty"`
}

// ClassifiedItem is an item with derived classification fields.
// ThreadPosition is 1-based and zero when the item is alone in its conversation.
type ClassifiedItem struct {
	Item
	Kind           Kind            `json:"kind"`
	Referenced     *ReferencedItem `json:"referenced_item,omitempty"`
	ThreadPosition int             `json:"thread_position,omitempty"`
}

// Author is an account returned alongside items
type Author struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	Name      string `json:"name,omitempty"`
	Followers int    `json:"followers,omitempty"`
	Following int    `json:"following,omitempty"`
	Posts     int    `json:"posts,omitempty"`
	Protected bool   `json:"protected,omitempty"`
	LastPost  string `json:"last_post,omitempty"` // id of the most recent post, empty if unknown
}

// Includes holds side-channel lookups returned with a page
type Includes struct {
	Items   map[string]Item
	Authors map[string]Author
}

// NewIncludes makes empty lookups
func NewIncludes() Includes {
	return Includes{Items: map[string]Item{}, Authors: map[string]Author{}}
}

// Merge copies other into inc, entries from other win
func (inc *Includes) Merge(other Includes) {
	if inc.Items == nil {
		inc.Items = map[string]Item{}
	}
	if inc.Authors == nil {
		inc.Authors = map[string]Author{}
	}
	for k, v := range other.Items {
		inc.Items[k] = v
	}
	for k, v := range other.Authors {
		inc.Authors[k] = v
	}
}
