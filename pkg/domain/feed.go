package domain

import (
	"fmt"
	"time"
)

// Feed identifies one synchronized data feed, each feed owns its own archive and cursor namespace
type Feed string

// supported feeds
const (
	FeedOwn       Feed = "own"
	FeedBookmarks Feed = "bookmarks"
	FeedFollowing Feed = "following"
)

// AllFeeds lists feeds in the order they run
var AllFeeds = []Feed{FeedOwn, FeedBookmarks, FeedFollowing}

// ParseFeed converts a feed name to Feed
func ParseFeed(s string) (Feed, error) {
	for _, f := range AllFeeds {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown feed %q", s)
}

// AccountError records a failed fetch for a single account, the run continues past it
type AccountError struct {
	AccountID string `json:"account_id"`
	Status    int    `json:"status,omitempty"`
	Message   string `json:"message"`
}

func (e AccountError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("account %s: status %d: %s", e.AccountID, e.Status, e.Message)
	}
	return fmt.Sprintf("account %s: %s", e.AccountID, e.Message)
}

// SyncResult is the summary of one feed sync
type SyncResult struct {
	RunID    string         `json:"run_id,omitempty"`
	Feed     Feed           `json:"feed"`
	Fetched  int            `json:"fetched"`
	Added    int            `json:"added"`
	Pushed   int            `json:"pushed"`
	Errors   []AccountError `json:"errors,omitempty"`
	PushErr  string         `json:"push_error,omitempty"`
	Fatal    string         `json:"fatal,omitempty"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
}

// CandidateStatus is the review state of a detected follow
type CandidateStatus string

// candidate states
const (
	CandidatePending  CandidateStatus = "pending"
	CandidateApproved CandidateStatus = "approved"
	CandidateRejected CandidateStatus = "rejected"
)

// Candidate is a followed account awaiting approval for automatic tracking
type Candidate struct {
	AccountID  string          `db:"account_id" json:"account_id"`
	Handle     string          `db:"handle" json:"handle"`
	Followers  int             `db:"followers" json:"followers"`
	Posts      int             `db:"posts" json:"posts"`
	Status     CandidateStatus `db:"status" json:"status"`
	DetectedAt time.Time       `db:"detected_at" json:"detected_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}
