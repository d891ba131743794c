package domain

import "time"

// Credentials is the OAuth2 token pair of the authenticated account.
// ExpiresAt is the only source of truth for token validity.
type Credentials struct {
	ClientID     string    `json:"client_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}
