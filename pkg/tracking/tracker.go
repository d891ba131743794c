package tracking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/umputun/postsync/pkg/domain"
)

// CandidateSource provides follow candidates approved for tracking
type CandidateSource interface {
	Approved(ctx context.Context) ([]domain.Candidate, error)
}

// Params for NewTracker
type Params struct {
	IncludeFile  string
	ExcludeFile  string
	Candidates   CandidateSource // optional
	MinFollowers int
	MinPosts     int
	MaxInactive  time.Duration // zero disables the activity check
}

// Tracker resolves the tracked account set. Lists are re-read on every call so edits
// take effect on the next run without a restart.
type Tracker struct {
	p   Params
	now func() time.Time
}

// NewTracker makes a tracker for the given lists and quality bar
func NewTracker(p Params) *Tracker {
	return &Tracker{p: p, now: time.Now}
}

// Tracked returns the include list plus approved candidates minus the exclude list,
// sorted and without duplicates
func (t *Tracker) Tracked(ctx context.Context) ([]string, error) {
	include, err := LoadList(t.p.IncludeFile)
	if err != nil {
		return nil, fmt.Errorf("load include list: %w", err)
	}
	excluded, err := t.excluded()
	if err != nil {
		return nil, err
	}

	set := map[string]bool{}
	for _, e := range include {
		set[e.ID] = true
	}
	if t.p.Candidates != nil {
		approved, err := t.p.Candidates.Approved(ctx)
		if err != nil {
			return nil, fmt.Errorf("get approved candidates: %w", err)
		}
		for _, c := range approved {
			set[c.AccountID] = true
		}
	}

	res := make([]string, 0, len(set))
	for id := range set {
		if !excluded[id] {
			res = append(res, id)
		}
	}
	sort.Slice(res, func(i, j int) bool { return domain.CompareIDs(res[i], res[j]) < 0 })
	return res, nil
}

// Eligible reports whether the author passes the quality bar for automatic tracking,
// the reason is set for rejected authors
func (t *Tracker) Eligible(a domain.Author) (ok bool, reason string) {
	switch {
	case a.Protected:
		return false, "protected"
	case a.Followers < t.p.MinFollowers:
		return false, fmt.Sprintf("followers %d < %d", a.Followers, t.p.MinFollowers)
	case a.Posts < t.p.MinPosts:
		return false, fmt.Sprintf("posts %d < %d", a.Posts, t.p.MinPosts)
	}
	if t.p.MaxInactive > 0 {
		if last := domain.IDTime(a.LastPost); !last.IsZero() && t.now().Sub(last) > t.p.MaxInactive {
			return false, "inactive since " + last.Format(time.DateOnly)
		}
	}
	return true, ""
}

// Filter narrows followed accounts down to eligible ones that are neither tracked nor excluded
func (t *Tracker) Filter(ctx context.Context, followed []domain.Author) ([]domain.Author, error) {
	tracked, err := t.Tracked(ctx)
	if err != nil {
		return nil, err
	}
	excluded, err := t.excluded()
	if err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(tracked)+len(excluded))
	for _, id := range tracked {
		skip[id] = true
	}
	for id := range excluded {
		skip[id] = true
	}

	var res []domain.Author
	for _, a := range followed {
		if skip[a.ID] {
			continue
		}
		if ok, _ := t.Eligible(a); ok {
			res = append(res, a)
		}
	}
	return res, nil
}

func (t *Tracker) excluded() (map[string]bool, error) {
	exclude, err := LoadList(t.p.ExcludeFile)
	if err != nil {
		return nil, fmt.Errorf("load exclude list: %w", err)
	}
	res := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		res[e.ID] = true
	}
	return res, nil
}
