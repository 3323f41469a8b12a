package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontlane/oidcclient/oidc"
)

// testStores returns one of each backend, keyed by name, with cleanup
// registered on t.
func testStores(t *testing.T, clientID string) map[string]oidc.RelayStore {
	t.Helper()
	fileStore, err := NewFileStore(clientID, t.TempDir())
	require.NoError(t, err)
	workerStore, err := NewWorkerStore(clientID)
	require.NoError(t, err)
	t.Cleanup(workerStore.Close)
	return map[string]oidc.RelayStore{
		"mem":    NewMemStore(clientID),
		"file":   fileStore,
		"worker": workerStore,
	}
}

func TestStore_TokenRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, s := range testStores(t, "test-rp") {
		s := s
		t.Run(name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)

			got, err := s.Token(ctx)
			require.NoError(err)
			assert.Nil(got)

			err = s.StoreToken(ctx, &oidc.Token{
				AccessToken:  "access",
				TokenType:    "Bearer",
				ExpiresIn:    3600,
				RefreshToken: "refresh",
				IDToken:      "id",
			})
			require.NoError(err)

			got, err = s.Token(ctx)
			require.NoError(err)
			require.NotNil(got)
			assert.Equal("access", got.AccessToken)
			assert.Equal(int64(3600), got.ExpiresIn)
			assert.Empty(got.RefreshToken, "refresh token must not ride in the cached response")

			// cached response reads are repeatable
			again, err := s.Token(ctx)
			require.NoError(err)
			require.NotNil(again)
			assert.Equal(got.AccessToken, again.AccessToken)

			require.NoError(s.RemoveToken(ctx))
			got, err = s.Token(ctx)
			require.NoError(err)
			assert.Nil(got)
		})
	}
}

func TestStore_RefreshTokenSelfDestructs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, s := range testStores(t, "test-rp") {
		s := s
		t.Run(name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)

			require.NoError(s.StoreToken(ctx, &oidc.Token{
				AccessToken:  "access",
				RefreshToken: "refresh",
			}))

			got, err := s.RefreshToken(ctx)
			require.NoError(err)
			assert.Equal("refresh", got)

			got, err = s.RefreshToken(ctx)
			require.NoError(err)
			assert.Empty(got, "a refresh token is good for exactly one read")

			// removing the cached response does not resurrect it
			require.NoError(s.RemoveToken(ctx))
			got, err = s.RefreshToken(ctx)
			require.NoError(err)
			assert.Empty(got)
		})
	}
}

func TestStore_CodeVerifierSelfDestructs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, s := range testStores(t, "test-rp") {
		s := s
		t.Run(name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)

			got, err := s.CodeVerifier(ctx)
			require.NoError(err)
			assert.Empty(got)

			require.NoError(s.StoreCodeVerifier(ctx, "verifier-value"))

			got, err = s.CodeVerifier(ctx)
			require.NoError(err)
			assert.Equal("verifier-value", got)

			got, err = s.CodeVerifier(ctx)
			require.NoError(err)
			assert.Empty(got)
		})
	}
}

func TestStore_ClientState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, s := range testStores(t, "test-rp") {
		s := s
		t.Run(name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)

			got, err := s.ClientState(ctx)
			require.NoError(err)
			assert.Empty(got)

			require.NoError(s.SetClientState(ctx, `{"return_to":"/app"}`))

			got, err = s.ClientState(ctx)
			require.NoError(err)
			assert.Equal(`{"return_to":"/app"}`, got)

			// state reads are repeatable until removed
			got, err = s.ClientState(ctx)
			require.NoError(err)
			assert.Equal(`{"return_to":"/app"}`, got)

			require.NoError(s.RemoveClientState(ctx))
			got, err = s.ClientState(ctx)
			require.NoError(err)
			assert.Empty(got)
		})
	}
}

func TestStore_NamespacedByClientID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert, require := assert.New(t), require.New(t)

	dir := t.TempDir()
	first, err := NewFileStore("client-one", dir)
	require.NoError(err)
	second, err := NewFileStore("client-two", dir)
	require.NoError(err)

	require.NoError(first.StoreToken(ctx, &oidc.Token{AccessToken: "one"}))

	got, err := second.Token(ctx)
	require.NoError(err)
	assert.Nil(got, "stores sharing a backend must not see each other's values")

	got, err = first.Token(ctx)
	require.NoError(err)
	require.NotNil(got)
	assert.Equal("one", got.AccessToken)
}

func TestStore_OpaqueAtRest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert, require := assert.New(t), require.New(t)

	dir := t.TempDir()
	s, err := NewFileStore("test-rp", dir)
	require.NoError(err)

	require.NoError(s.StoreToken(ctx, &oidc.Token{AccessToken: "super-secret-access-token"}))

	raw, err := os.ReadFile(filepath.Join(dir, "oidc-client_response_test-rp"))
	require.NoError(err)
	assert.NotContains(string(raw), "super-secret-access-token")

	decoded, err := base64.StdEncoding.DecodeString(string(raw))
	require.NoError(err)
	var token oidc.Token
	require.NoError(json.Unmarshal(decoded, &token))
	assert.Equal("super-secret-access-token", token.AccessToken)
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert, require := assert.New(t), require.New(t)

	dir := t.TempDir()
	first, err := NewFileStore("test-rp", dir)
	require.NoError(err)
	require.NoError(first.StoreToken(ctx, &oidc.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
	}))

	// a fresh store over the same directory sees everything
	second, err := NewFileStore("test-rp", dir)
	require.NoError(err)
	got, err := second.Token(ctx)
	require.NoError(err)
	require.NotNil(got)
	assert.Equal("access", got.AccessToken)

	refresh, err := second.RefreshToken(ctx)
	require.NoError(err)
	assert.Equal("refresh", refresh)

	// the self-destruct reached the disk too
	third, err := NewFileStore("test-rp", dir)
	require.NoError(err)
	refresh, err = third.RefreshToken(ctx)
	require.NoError(err)
	assert.Empty(refresh)
}

func TestForConfig(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	_, err := ForConfig(nil)
	require.Error(err)
	assert.ErrorIs(err, oidc.ErrNilParameter)

	c, err := oidc.NewConfig("test-rp", "https://rp.example.com/cb",
		oidc.WithStorageType(oidc.StorageSession))
	require.NoError(err)
	s, err := ForConfig(c)
	require.NoError(err)
	assert.IsType(&Store{}, s)

	c, err = oidc.NewConfig("test-rp", "https://rp.example.com/cb",
		oidc.WithStorageType(oidc.StorageWorker))
	require.NoError(err)
	s, err = ForConfig(c)
	require.NoError(err)
	ws, ok := s.(*WorkerStore)
	require.True(ok)
	ws.Close()
}
