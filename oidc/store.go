package oidc

import (
	"context"
)

// RelayStore is the persistence capability bridging an authorization flow
// across a full redirect-based navigation, when everything held in memory
// is lost. Implementations are provided by the relay package (durable,
// session-scoped and isolated-worker backends); the client treats them
// uniformly.
//
// The refresh token and code verifier slots are one-time use: reading them
// deletes them in the same operation, and absence is a legitimate empty
// state rather than an error. Backend failures (storage disabled, full,
// unreachable) must surface as errors, never as silent no-ops.
type RelayStore interface {
	// StoreToken persists t, splitting any refresh token into its own
	// self-destructing slot first. It overwrites any prior value.
	StoreToken(ctx context.Context, t *Token) error

	// Token returns the cached token, or nil when none exists. It makes no
	// freshness decision.
	Token(ctx context.Context) (*Token, error)

	// RefreshToken returns and deletes the refresh token slot, or returns
	// empty when none exists.
	RefreshToken(ctx context.Context) (string, error)

	// RemoveToken clears both the token and refresh token slots.
	RemoveToken(ctx context.Context) error

	// StoreCodeVerifier persists a PKCE code verifier for the return trip.
	StoreCodeVerifier(ctx context.Context, verifier string) error

	// CodeVerifier returns and deletes the stored verifier, or returns
	// empty when none exists.
	CodeVerifier(ctx context.Context) (string, error)

	// SetClientState stores opaque caller state that must survive the
	// redirect when the URL cannot carry it.
	SetClientState(ctx context.Context, state string) error

	// ClientState returns the stored caller state, or empty when none
	// exists.
	ClientState(ctx context.Context) (string, error)

	// RemoveClientState clears the caller state slot.
	RemoveClientState(ctx context.Context) error
}
