// Package auth owns the OAuth2 token pair and renews the access token before or after it is rejected.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/postsync/pkg/domain"
)

// DefaultSkew is how long before expiry the access token is renewed
const DefaultSkew = 5 * time.Minute

// CredentialStore loads and persists credentials
type CredentialStore interface {
	Load() (domain.Credentials, error)
	Save(creds domain.Credentials) error
}

// Refresher exchanges a refresh token for a new token pair
type Refresher interface {
	Refresh(ctx context.Context, creds domain.Credentials) (domain.Credentials, error)
}

// Guardian hands out valid access tokens. Refreshes are serialized because refresh tokens are
// single-use: a second exchange with the stale token would fail and lock the account out.
type Guardian struct {
	store     CredentialStore
	refresher Refresher
	skew      time.Duration
	now       func() time.Time
	onRefresh func()

	mu     sync.Mutex
	creds  domain.Credentials
	loaded bool
}

// Params for NewGuardian
type Params struct {
	Store     CredentialStore
	Refresher Refresher
	Skew      time.Duration
	OnRefresh func() // called after every successful refresh, optional
}

// NewGuardian makes a guardian, credentials are loaded lazily on first use
func NewGuardian(p Params) *Guardian {
	if p.Skew == 0 {
		p.Skew = DefaultSkew
	}
	return &Guardian{
		store:     p.Store,
		refresher: p.Refresher,
		skew:      p.Skew,
		now:       time.Now,
		onRefresh: p.OnRefresh,
	}
}

// EnsureValid returns credentials with an access token valid for at least the skew interval,
// refreshing and persisting them first if needed
func (g *Guardian) EnsureValid(ctx context.Context) (domain.Credentials, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.load(); err != nil {
		return domain.Credentials{}, err
	}
	if g.now().Before(g.creds.ExpiresAt.Add(-g.skew)) {
		return g.creds, nil
	}
	lgr.Printf("[DEBUG] access token expires at %s, refreshing", g.creds.ExpiresAt.Format(time.RFC3339))
	return g.refresh(ctx)
}

// ForceRefresh renews the token after the server rejected it. If the rejected token was already
// replaced by a concurrent caller the current credentials are returned without another exchange.
func (g *Guardian) ForceRefresh(ctx context.Context, rejected string) (domain.Credentials, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.load(); err != nil {
		return domain.Credentials{}, err
	}
	if g.creds.AccessToken != rejected {
		return g.creds, nil
	}
	lgr.Printf("[INFO] access token rejected, forcing refresh")
	return g.refresh(ctx)
}

func (g *Guardian) load() error {
	if g.loaded {
		return nil
	}
	creds, err := g.store.Load()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	g.creds, g.loaded = creds, true
	return nil
}

// refresh runs the exchange and persists the result before returning, must be called with mu held
func (g *Guardian) refresh(ctx context.Context) (domain.Credentials, error) {
	if g.creds.RefreshToken == "" {
		return domain.Credentials{}, fmt.Errorf("%w: no refresh token", domain.ErrAuthExpired)
	}

	fresh, err := g.refresher.Refresh(ctx, g.creds)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
	}
	if fresh.ClientID == "" {
		fresh.ClientID = g.creds.ClientID
	}

	// the old refresh token is spent at this point, keep the new pair even if saving fails
	g.creds = fresh
	if g.onRefresh != nil {
		g.onRefresh()
	}

	retrier := repeater.NewBackoff(3, 100*time.Millisecond, repeater.WithMaxDelay(time.Second))
	if err := retrier.Do(ctx, func() error { return g.store.Save(fresh) }); err != nil {
		return domain.Credentials{}, fmt.Errorf("save refreshed credentials: %w", err)
	}

	lgr.Printf("[INFO] access token refreshed, valid until %s", fresh.ExpiresAt.Format(time.RFC3339))
	return fresh, nil
}
