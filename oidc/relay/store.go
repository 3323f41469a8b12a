// Package relay persists the small set of values that must survive the
// redirect round trip to the authorization server: the token response, the
// refresh token, the PKCE code verifier and the caller's state.
//
// Three backends are provided. FileStore is durable across sessions,
// MemStore lives for the process and WorkerStore isolates the values in a
// separate goroutine reachable only by message passing. All backends share
// the same keying, encoding and read-once semantics, implemented here over
// a minimal key-value interface.
//
// Values are base64-encoded JSON at rest. The encoding keeps tokens out of
// casual display and string searches; it is not encryption and offers no
// protection from an attacker with access to the backing store.
package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/frontlane/oidcclient/oidc"
)

const (
	keyPrefix = "oidc-client"

	tokenKeyName    = "response"
	refreshKeyName  = "refresh_token"
	verifierKeyName = "code_verifier"
	stateKeyName    = "state"
)

// keyValues is the backend contract: get returns "" for an absent key and
// errors are reserved for real failures.
type keyValues interface {
	set(ctx context.Context, key, value string) error
	get(ctx context.Context, key string) (string, error)
	delete(ctx context.Context, key string) error
}

var _ oidc.RelayStore = (*Store)(nil)

// Store implements oidc.RelayStore over a keyValues backend, namespacing
// every key by client ID so two relying parties sharing a backing store
// cannot read each other's values.
type Store struct {
	clientID string
	kv       keyValues
}

// ForConfig returns the store selected by the configuration's StorageType:
// a file store under the user cache directory for StorageLocal, a memory
// store for StorageSession and a WorkerStore for StorageWorker.
func ForConfig(c *oidc.Config) (oidc.RelayStore, error) {
	const op = "relay.ForConfig"
	if c == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, oidc.ErrNilParameter)
	}
	switch c.StorageType {
	case oidc.StorageSession:
		return NewMemStore(c.ClientID), nil
	case oidc.StorageWorker:
		return NewWorkerStore(c.ClientID)
	default:
		return NewFileStore(c.ClientID, "")
	}
}

// NewStore wraps a keyValues backend for the given client ID. Most callers
// want ForConfig or one of the backend constructors instead.
func NewStore(clientID string, kv keyValues) *Store {
	return &Store{clientID: clientID, kv: kv}
}

func (s *Store) key(name string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, name, s.clientID)
}

// StoreToken caches a token response. A refresh token inside it is split
// out under its own key and stripped from the cached copy, so the cached
// response can be re-read freely while the refresh token stays read-once.
func (s *Store) StoreToken(ctx context.Context, t *oidc.Token) error {
	const op = "relay.StoreToken"
	if t == nil {
		return fmt.Errorf("%s: token is nil: %w", op, oidc.ErrNilParameter)
	}
	cp := *t
	if cp.RefreshToken != "" {
		enc, err := encode(cp.RefreshToken)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := s.kv.set(ctx, s.key(refreshKeyName), enc); err != nil {
			return fmt.Errorf("%s: unable to store refresh token: %w", op, err)
		}
		cp.RefreshToken = ""
	}
	enc, err := encode(&cp)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.kv.set(ctx, s.key(tokenKeyName), enc); err != nil {
		return fmt.Errorf("%s: unable to store token: %w", op, err)
	}
	return nil
}

// Token returns the cached token response, or nil when there is none.
func (s *Store) Token(ctx context.Context) (*oidc.Token, error) {
	const op = "relay.Token"
	raw, err := s.kv.get(ctx, s.key(tokenKeyName))
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read token: %w", op, err)
	}
	if raw == "" {
		return nil, nil
	}
	t := &oidc.Token{}
	if err := decode(raw, t); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// RemoveToken deletes the cached token response and any refresh token that
// arrived with it.
func (s *Store) RemoveToken(ctx context.Context) error {
	const op = "relay.RemoveToken"
	if err := s.kv.delete(ctx, s.key(tokenKeyName)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.kv.delete(ctx, s.key(refreshKeyName)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RefreshToken returns the stored refresh token and deletes it, so a
// refresh token is never presented to the authorization server twice. It
// returns "" when none is stored.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	const op = "relay.RefreshToken"
	token, err := s.takeString(ctx, s.key(refreshKeyName))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// StoreCodeVerifier persists the PKCE code verifier for the pending
// authorization attempt.
func (s *Store) StoreCodeVerifier(ctx context.Context, verifier string) error {
	const op = "relay.StoreCodeVerifier"
	if err := s.setString(ctx, s.key(verifierKeyName), verifier); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CodeVerifier returns the stored code verifier and deletes it; a verifier
// is good for exactly one exchange. It returns "" when none is stored.
func (s *Store) CodeVerifier(ctx context.Context) (string, error) {
	const op = "relay.CodeVerifier"
	verifier, err := s.takeString(ctx, s.key(verifierKeyName))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return verifier, nil
}

// SetClientState persists the caller's state for the pending authorization
// attempt.
func (s *Store) SetClientState(ctx context.Context, state string) error {
	const op = "relay.SetClientState"
	if err := s.setString(ctx, s.key(stateKeyName), state); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClientState returns the stored state, or "" when there is none.
func (s *Store) ClientState(ctx context.Context) (string, error) {
	const op = "relay.ClientState"
	raw, err := s.kv.get(ctx, s.key(stateKeyName))
	if err != nil {
		return "", fmt.Errorf("%s: unable to read state: %w", op, err)
	}
	if raw == "" {
		return "", nil
	}
	var state string
	if err := decode(raw, &state); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return state, nil
}

// RemoveClientState deletes the stored state.
func (s *Store) RemoveClientState(ctx context.Context) error {
	const op = "relay.RemoveClientState"
	if err := s.kv.delete(ctx, s.key(stateKeyName)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) setString(ctx context.Context, key, value string) error {
	enc, err := encode(value)
	if err != nil {
		return err
	}
	return s.kv.set(ctx, key, enc)
}

// takeString reads a string value and deletes it in the same call.
func (s *Store) takeString(ctx context.Context, key string) (string, error) {
	raw, err := s.kv.get(ctx, key)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", nil
	}
	if err := s.kv.delete(ctx, key); err != nil {
		return "", err
	}
	var value string
	if err := decode(raw, &value); err != nil {
		return "", err
	}
	return value, nil
}

func encode(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("unable to marshal value: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func decode(raw string, out interface{}) error {
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("unable to decode stored value: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("unable to unmarshal stored value: %w", err)
	}
	return nil
}
