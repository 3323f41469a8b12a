package oidc

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

const (
	// CodeChallengeMethodS256 is the only supported challenge method.
	// "plain" offers no protection over not using PKCE at all and is
	// intentionally unsupported.
	CodeChallengeMethodS256 = "S256"

	// CodeVerifierLength is the length of a generated PKCE code verifier.
	CodeVerifierLength = 128

	// StateLength is the length of a generated state parameter.
	StateLength = 20

	// NonceLength is the length of a generated nonce parameter.
	NonceLength = 20
)

// unreservedChars is the RFC 7636 §4.1 unreserved character set used for
// verifier, state and nonce material.
const unreservedChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// RandomString returns a string of exactly n characters drawn uniformly
// from the unreserved character set, using crypto/rand. It is suitable as
// state, nonce or code verifier material.
func RandomString(n int) (string, error) {
	const op = "oidc.RandomString"
	if n <= 0 {
		return "", fmt.Errorf("%s: length must be greater than zero: %w", op, ErrInvalidParameter)
	}
	max := big.NewInt(int64(len(unreservedChars)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("%s: unable to read random source: %w", op, ErrIDGeneratorFailed)
		}
		b[i] = unreservedChars[idx.Int64()]
	}
	return string(b), nil
}

// CodeChallenge computes the RFC 7636 §4.2 S256 code challenge for a
// verifier: the base64url encoding of its SHA-256 digest with padding
// stripped. It is a pure function; a given verifier always yields the same
// challenge.
func CodeChallenge(verifier string) string {
	digest := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(digest[:])
}

// PKCEArtifacts are the ephemeral values generated for one authorization
// attempt. The verifier and state must be persisted before navigating away;
// they are consumed exactly once on the return trip.
type PKCEArtifacts struct {
	CodeVerifier        string
	CodeChallenge       string
	CodeChallengeMethod string
	State               string
	Nonce               string
}

// NewPKCEArtifacts generates the artifacts for an authorization attempt
// under the given configuration: a 128-character code verifier, its S256
// challenge when PKCE is enabled, the round-trip state (caller-supplied
// string verbatim, any other caller value JSON-serialized, otherwise a
// fresh 20-character random string) and a nonce.
func NewPKCEArtifacts(c *Config) (*PKCEArtifacts, error) {
	const op = "oidc.NewPKCEArtifacts"
	if c == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}

	verifier, err := RandomString(CodeVerifierLength)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to generate code verifier: %w", op, err)
	}

	state, err := stateString(c.State)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	nonce, err := RandomString(NonceLength)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to generate nonce: %w", op, err)
	}

	a := &PKCEArtifacts{
		CodeVerifier: verifier,
		State:        state,
		Nonce:        nonce,
	}
	if c.UsePKCE {
		a.CodeChallenge = CodeChallenge(verifier)
		a.CodeChallengeMethod = CodeChallengeMethodS256
	}
	return a, nil
}

func stateString(state interface{}) (string, error) {
	switch v := state.(type) {
	case nil:
		s, err := RandomString(StateLength)
		if err != nil {
			return "", fmt.Errorf("unable to generate state: %w", err)
		}
		return s, nil
	case string:
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("unable to serialize state: %w", ErrInvalidParameter)
		}
		return string(b), nil
	}
}
