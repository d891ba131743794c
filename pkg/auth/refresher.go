package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/umputun/postsync/pkg/domain"
)

// defaultLifetime is assumed when the token endpoint omits expires_in
const defaultLifetime = 2 * time.Hour

// OAuthRefresher runs the refresh_token grant against the token endpoint as a public client
type OAuthRefresher struct {
	TokenURL string
	ClientID string // used when the stored credentials carry no client id
	Client   *http.Client
}

// Refresh exchanges the refresh token for a new pair
func (r *OAuthRefresher) Refresh(ctx context.Context, creds domain.Credentials) (domain.Credentials, error) {
	clientID := creds.ClientID
	if clientID == "" {
		clientID = r.ClientID
	}
	conf := &oauth2.Config{
		ClientID: clientID,
		Endpoint: oauth2.Endpoint{TokenURL: r.TokenURL, AuthStyle: oauth2.AuthStyleInParams},
	}
	if r.Client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.Client)
	}

	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}).Token()
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("exchange refresh token: %w", err)
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(defaultLifetime)
	}
	return domain.Credentials{
		ClientID:     clientID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiry,
	}, nil
}
