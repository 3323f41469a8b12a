package oidc

import (
	"time"
)

const expirySkew = 10 * time.Second

// Token is a token-endpoint response (or its implicit-flow fragment
// equivalent). It marshals faithfully because the relay store persists it
// as JSON; the refresh token is split into its own self-destructing slot by
// the store and never written inline with the rest of the response.
type Token struct {
	AccessToken  string      `json:"access_token,omitempty"`
	TokenType    string      `json:"token_type,omitempty"`
	ExpiresIn    int64       `json:"expires_in,omitempty"`
	Scope        string      `json:"scope,omitempty"`
	IDToken      string      `json:"id_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	State        interface{} `json:"state,omitempty"`

	// ReceivedAt anchors ExpiresIn to wall-clock time. Set when the token
	// is acquired; preserved across the relay round trip.
	ReceivedAt time.Time `json:"received_at,omitzero"`
}

// Expired reports whether the token's lifetime has elapsed, with a small
// skew. Tokens without an expiry or an acquisition time never report
// expired; freshness decisions belong to the caller, not the relay store.
func (t *Token) Expired() bool {
	if t == nil {
		return true
	}
	if t.ExpiresIn == 0 || t.ReceivedAt.IsZero() {
		return false
	}
	expiry := t.ReceivedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
	return expiry.Round(0).Before(time.Now().Add(expirySkew))
}

// Valid reports whether the token carries an access token that has not
// expired.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return !t.Expired()
}
