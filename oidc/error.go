package oidc

import (
	"errors"
)

var (
	// ErrInvalidParameter is a general invalid parameter error, and it's
	// also the sentinel wrapped by every configuration validation failure.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNilParameter is returned when a required parameter is nil.
	ErrNilParameter = errors.New("nil parameter")

	// ErrInvalidCACert is returned when a provider CA PEM cannot be parsed.
	ErrInvalidCACert = errors.New("invalid CA certificate")

	// ErrInvalidIssuer is returned when an issuer URL is malformed or uses a
	// scheme discovery does not allow.
	ErrInvalidIssuer = errors.New("invalid issuer")

	// ErrEndpointNotSupported is returned when an operation needs an
	// endpoint the issuer configuration does not carry.
	ErrEndpointNotSupported = errors.New("endpoint not supported")

	// ErrNoCodeOrToken is returned by Client.Token when neither a cached
	// token, an implicit-flow fragment token, nor an authorization code
	// could be found.
	ErrNoCodeOrToken = errors.New("no authorization code or token found")

	// ErrMissingCodeVerifier is returned when a PKCE exchange is required
	// but no code verifier survived in the relay store.
	ErrMissingCodeVerifier = errors.New("code verifier not found")

	// ErrNoToken is returned when an operation requires a cached token and
	// none is available.
	ErrNoToken = errors.New("no token available")

	// ErrUnsuccessfulResponse is returned when an authorization-server
	// endpoint answers with a non-2xx status.
	ErrUnsuccessfulResponse = errors.New("unsuccessful response")

	// ErrIDGeneratorFailed is returned when random material for a state,
	// nonce or code verifier could not be generated.
	ErrIDGeneratorFailed = errors.New("id generation failed")

	// ErrNavigationFailed is returned when the host navigator could not
	// complete a navigation.
	ErrNavigationFailed = errors.New("navigation failed")
)
