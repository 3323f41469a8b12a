package oidc

import (
	"encoding/json"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()
	testCallback := func(t *Token, state interface{}) {}

	tests := []struct {
		name        string
		clientID    string
		redirectURI string
		opts        []Option
		assertions  func(t *testing.T, c *Config)
		wantErr     bool
		wantIsErr   error
	}{
		{
			name:        "defaults",
			clientID:    "test-rp",
			redirectURI: "https://rp.example.com/cb",
			assertions: func(t *testing.T, c *Config) {
				assert := assert.New(t)
				assert.Equal(DefaultScope, c.Scope)
				assert.Equal(GrantAuthorizationCode, c.GrantType)
				assert.True(c.UsePKCE)
				assert.Equal(AuthMethodNone, c.ClientSecretAuthMethod)
				assert.Equal(StorageLocal, c.StorageType)
				assert.NotNil(c.Logger)
			},
		},
		{
			name:        "empty-redirect-uri-allowed",
			clientID:    "test-rp",
			redirectURI: "",
		},
		{
			name:        "empty-client-id",
			clientID:    "",
			redirectURI: "https://rp.example.com/cb",
			wantErr:     true,
			wantIsErr:   ErrInvalidParameter,
		},
		{
			name:        "pkce-off-without-secret",
			clientID:    "test-rp",
			redirectURI: "https://rp.example.com/cb",
			opts:        []Option{WithPKCE(false)},
			wantErr:     true,
			wantIsErr:   ErrInvalidParameter,
		},
		{
			name:        "pkce-off-with-secret",
			clientID:    "test-rp",
			redirectURI: "https://rp.example.com/cb",
			opts:        []Option{WithPKCE(false), WithClientSecret("sekret")},
			assertions: func(t *testing.T, c *Config) {
				assert.Equal(t, AuthMethodBasic, c.ClientSecretAuthMethod)
			},
		},
		{
			name:        "secret-with-post-auth",
			clientID:    "test-rp",
			redirectURI: "https://rp.example.com/cb",
			opts: []Option{
				WithClientSecret("sekret"),
				WithClientSecretAuthMethod(AuthMethodPost),
			},
			assertions: func(t *testing.T, c *Config) {
				assert.Equal(t, AuthMethodPost, c.ClientSecretAuthMethod)
			},
		},
		{
			name:        "invalid-grant-type-coerced",
			clientID:    "test-rp",
			redirectURI: "https://rp.example.com/cb",
			opts:        []Option{WithGrantType("password")},
			assertions: func(t *testing.T, c *Config) {
				assert.Equal(t, GrantAuthorizationCode, c.GrantType)
			},
		},
		{
			name:        "implicit-grant-type",
			clientID:    "test-rp",
			redirectURI: "https://rp.example.com/cb",
			opts:        []Option{WithGrantType(GrantImplicit)},
			assertions: func(t *testing.T, c *Config) {
				assert.Equal(t, GrantImplicit, c.GrantType)
				assert.Equal(t, "token", c.GrantType.ResponseType())
			},
		},
		{
			name:        "invalid-storage-type-coerced",
			clientID:    "test-rp",
			redirectURI: "https://rp.example.com/cb",
			opts:        []Option{WithStorageType("indexeddb")},
			assertions: func(t *testing.T, c *Config) {
				assert.Equal(t, StorageLocal, c.StorageType)
			},
		},
		{
			name:        "auth-method-without-secret-coerced",
			clientID:    "test-rp",
			redirectURI: "https://rp.example.com/cb",
			opts:        []Option{WithClientSecretAuthMethod(AuthMethodBasic)},
			assertions: func(t *testing.T, c *Config) {
				assert.Equal(t, AuthMethodNone, c.ClientSecretAuthMethod)
			},
		},
		{
			name:        "all-options",
			clientID:    "test-rp",
			redirectURI: "https://rp.example.com/cb",
			opts: []Option{
				WithScope("openid offline_access"),
				WithState("st"),
				WithCustomParams(map[string]string{"audience": "https://api.example.com"}),
				WithTokenAvailableCallback(testCallback),
				WithStorageType(StorageWorker),
				WithLogger(hclog.NewNullLogger()),
			},
			assertions: func(t *testing.T, c *Config) {
				assert := assert.New(t)
				assert.Equal("openid offline_access", c.Scope)
				assert.Equal("st", c.State)
				assert.Equal("https://api.example.com", c.CustomParams["audience"])
				assert.NotNil(c.TokenAvailableCallback)
				assert.Equal(StorageWorker, c.StorageType)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			c, err := NewConfig(tt.clientID, tt.redirectURI, tt.opts...)
			if tt.wantErr {
				require.Error(err)
				if tt.wantIsErr != nil {
					assert.ErrorIs(err, tt.wantIsErr)
				}
				return
			}
			require.NoError(err)
			require.NotNil(c)
			if tt.assertions != nil {
				tt.assertions(t, c)
			}
		})
	}
}

func TestConfig_Validate_CollectsAllFailures(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	c := &Config{
		GrantType: GrantAuthorizationCode,
		UsePKCE:   false,
	}
	err := c.Validate()
	require.Error(err)
	assert.ErrorIs(err, ErrInvalidParameter)
	assert.Contains(err.Error(), "client_id is empty")
	assert.Contains(err.Error(), "client_secret is required")
}

func TestClientSecret_Redacted(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	secret := ClientSecret("sekret")
	assert.Equal(RedactedClientSecret, secret.String())

	b, err := json.Marshal(secret)
	require.NoError(err)
	assert.NotContains(string(b), "sekret")
	assert.Contains(string(b), "REDACTED")
}

func TestConfig_clone(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	c, err := NewConfig("test-rp", "https://rp.example.com/cb",
		WithCustomParams(map[string]string{"k": "v"}))
	require.NoError(err)

	cp := c.clone()
	cp.CustomParams["k"] = "changed"
	assert.Equal("v", c.CustomParams["k"])
}
