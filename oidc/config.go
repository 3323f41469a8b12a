package oidc

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

type ClientSecret string

// RedactedClientSecret is the redacted string or json for an oauth client secret
const RedactedClientSecret = "[REDACTED: client secret]"

// String will redact the client secret
func (t ClientSecret) String() string {
	return RedactedClientSecret
}

// MarshalJSON will redact the client secret
func (t ClientSecret) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedClientSecret)
}

// GrantType is the OAuth flow variant used to obtain a token.
type GrantType string

const (
	// GrantAuthorizationCode is the authorization code flow (RFC 6749 §4.1),
	// the default.
	GrantAuthorizationCode GrantType = "authorization_code"

	// GrantImplicit is the implicit flow (RFC 6749 §4.2), where the token
	// comes back in the redirect URL's fragment.
	GrantImplicit GrantType = "token"
)

// ResponseType returns the response_type request parameter value for the
// grant type.
func (g GrantType) ResponseType() string {
	if g == GrantImplicit {
		return "token"
	}
	return "code"
}

// ClientAuthMethod selects how a confidential client authenticates to the
// token endpoint.
type ClientAuthMethod string

const (
	// AuthMethodNone is used by public clients; PKCE provides the proof of
	// possession instead of a secret.
	AuthMethodNone ClientAuthMethod = "none"

	// AuthMethodBasic sends the client secret via an HTTP Basic
	// Authorization header (client_secret_basic).
	AuthMethodBasic ClientAuthMethod = "basic"

	// AuthMethodPost sends the client secret in the request body
	// (client_secret_post).
	AuthMethodPost ClientAuthMethod = "post"
)

// StorageType selects the relay store backend bridging state across the
// redirect.
type StorageType string

const (
	// StorageLocal is the durable per-origin backend, the default.
	StorageLocal StorageType = "local"

	// StorageSession is the process-memory backend, scoped to one session.
	StorageSession StorageType = "session"

	// StorageWorker is the isolated message-passing backend.
	StorageWorker StorageType = "worker"
)

// Config holds the validated client configuration for a relying party. Build
// one with NewConfig and treat it as immutable afterwards.
type Config struct {
	// ClientID is the relying party id. Required.
	ClientID string

	// RedirectURI is the URL the authorization server redirects back to.
	// When empty it defaults to the navigator's current URL at client
	// construction time.
	RedirectURI string

	// Scope is the space-delimited scope string requested of the provider.
	// Defaults to "openid profile email".
	Scope string

	// GrantType selects the flow. Defaults to GrantAuthorizationCode.
	GrantType GrantType

	// UsePKCE enables RFC 7636 proof key for code exchange. Defaults to
	// true. A code flow with PKCE disabled requires a ClientSecret.
	UsePKCE bool

	// ClientSecret is the relying party secret. Not recommended for
	// front-end hosts; required when PKCE is disabled.
	ClientSecret ClientSecret

	// ClientSecretAuthMethod selects the token-endpoint client
	// authentication method. Defaults to AuthMethodBasic when a secret is
	// present, AuthMethodNone otherwise.
	ClientSecretAuthMethod ClientAuthMethod

	// StorageType selects the relay store backend. Defaults to
	// StorageLocal.
	StorageType StorageType

	// State is optional caller-supplied round-trip state. A string is
	// passed through verbatim; any other value is JSON-serialized for the
	// trip and parsed back on return. When nil a random state is generated
	// per authorization attempt.
	State interface{}

	// CustomParams are extra query parameters appended verbatim to the
	// authorization request.
	CustomParams map[string]string

	// TokenAvailableCallback fires whenever the client acquires a token,
	// with the round-tripped state if any.
	TokenAvailableCallback func(t *Token, state interface{})

	// ProviderCA is an optional CA cert PEM to trust when sending requests
	// to the provider.
	ProviderCA string

	// Logger used by the client. Defaults to an hclog logger at Warn level.
	Logger hclog.Logger
}

// NewConfig composes and validates a client configuration. An empty
// redirectURI is allowed here and resolved against the navigator's current
// URL by NewClient.
//
// Supported options: WithScope, WithGrantType, WithPKCE, WithClientSecret,
// WithClientSecretAuthMethod, WithStorageType, WithState, WithCustomParams,
// WithTokenAvailableCallback, WithProviderCA, WithLogger, WithLogLevel
func NewConfig(clientID string, redirectURI string, opt ...Option) (*Config, error) {
	const op = "oidc.NewConfig"
	opts := getConfigOpts(opt...)

	logger := opts.withLogger
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:  "oidc-client",
			Level: opts.withLogLevel,
		})
	}

	c := &Config{
		ClientID:               clientID,
		RedirectURI:            redirectURI,
		Scope:                  opts.withScope,
		GrantType:              coerceGrantType(logger, opts.withGrantType),
		UsePKCE:                opts.withPKCE,
		ClientSecret:           opts.withClientSecret,
		ClientSecretAuthMethod: coerceAuthMethod(logger, opts.withClientSecret, opts.withAuthMethod),
		StorageType:            coerceStorageType(logger, opts.withStorageType),
		State:                  opts.withState,
		CustomParams:           opts.withCustomParams,
		TokenAvailableCallback: opts.withTokenCallback,
		ProviderCA:             opts.withProviderCA,
		Logger:                 logger,
	}
	if c.Scope == "" {
		logger.Info("scope not provided, defaulting", "scope", DefaultScope)
		c.Scope = DefaultScope
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid configuration: %w", op, err)
	}
	return c, nil
}

// DefaultScope is requested when no scope option is provided.
const DefaultScope = "openid profile email"

// Validate the client configuration. All failures detected in one pass are
// collected and reported as a single aggregate error wrapping
// ErrInvalidParameter.
func (c *Config) Validate() error {
	const op = "Config.Validate"
	if c == nil {
		return fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	var result *multierror.Error
	if c.ClientID == "" {
		result = multierror.Append(result, fmt.Errorf("client_id is empty: %w", ErrInvalidParameter))
	}
	if c.RedirectURI != "" {
		if _, err := url.Parse(c.RedirectURI); err != nil {
			result = multierror.Append(result, fmt.Errorf("redirect_uri %q is invalid: %w", c.RedirectURI, ErrInvalidParameter))
		}
	}
	// A non-PKCE code flow is a confidential client and must hold a secret.
	if c.GrantType == GrantAuthorizationCode && !c.UsePKCE && c.ClientSecret == "" {
		result = multierror.Append(result, fmt.Errorf("client_secret is required when PKCE is disabled: %w", ErrInvalidParameter))
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Config) clone() *Config {
	cp := *c
	if c.CustomParams != nil {
		cp.CustomParams = make(map[string]string, len(c.CustomParams))
		for k, v := range c.CustomParams {
			cp.CustomParams[k] = v
		}
	}
	return &cp
}

func coerceGrantType(logger hclog.Logger, v GrantType) GrantType {
	switch v {
	case GrantAuthorizationCode, GrantImplicit:
		return v
	case "":
		logger.Info("grant type not provided, defaulting", "default", GrantAuthorizationCode)
	default:
		logger.Warn("invalid grant type, defaulting", "provided", string(v), "default", GrantAuthorizationCode)
	}
	return GrantAuthorizationCode
}

func coerceAuthMethod(logger hclog.Logger, secret ClientSecret, v ClientAuthMethod) ClientAuthMethod {
	if secret == "" {
		if v != "" && v != AuthMethodNone {
			logger.Warn("client secret auth method provided without a client secret, using none", "provided", string(v))
		}
		return AuthMethodNone
	}
	switch v {
	case AuthMethodBasic, AuthMethodPost, AuthMethodNone:
		return v
	case "":
		logger.Info("client secret auth method not provided, defaulting", "default", AuthMethodBasic)
	default:
		logger.Warn("invalid client secret auth method, defaulting", "provided", string(v), "default", AuthMethodBasic)
	}
	return AuthMethodBasic
}

func coerceStorageType(logger hclog.Logger, v StorageType) StorageType {
	switch v {
	case StorageLocal, StorageSession, StorageWorker:
		return v
	case "":
		logger.Info("storage type not provided, defaulting", "default", StorageLocal)
	default:
		logger.Warn("invalid storage type, defaulting", "provided", string(v), "default", StorageLocal)
	}
	return StorageLocal
}

// configOptions is the set of available options for NewConfig
type configOptions struct {
	withScope         string
	withGrantType     GrantType
	withPKCE          bool
	withClientSecret  ClientSecret
	withAuthMethod    ClientAuthMethod
	withStorageType   StorageType
	withState         interface{}
	withCustomParams  map[string]string
	withTokenCallback func(t *Token, state interface{})
	withProviderCA    string
	withLogger        hclog.Logger
	withLogLevel      hclog.Level
}

// configDefaults is a handy way to get the defaults at runtime and during
// unit tests.
func configDefaults() configOptions {
	return configOptions{
		withPKCE:     true,
		withLogLevel: hclog.Warn,
	}
}

// getConfigOpts gets the defaults and applies the opt overrides passed in.
func getConfigOpts(opt ...Option) configOptions {
	opts := configDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithScope provides an optional space-delimited scope string.
func WithScope(scope string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withScope = scope
		}
	}
}

// WithGrantType provides an optional grant type for the flow.
func WithGrantType(g GrantType) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withGrantType = g
		}
	}
}

// WithPKCE enables or disables PKCE for the authorization code flow.
// Disabling it requires a client secret.
func WithPKCE(use bool) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withPKCE = use
		}
	}
}

// WithClientSecret provides an optional client secret for confidential
// clients.
func WithClientSecret(secret ClientSecret) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withClientSecret = secret
		}
	}
}

// WithClientSecretAuthMethod selects the token-endpoint client
// authentication method.
func WithClientSecretAuthMethod(m ClientAuthMethod) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withAuthMethod = m
		}
	}
}

// WithStorageType selects the relay store backend.
func WithStorageType(t StorageType) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withStorageType = t
		}
	}
}

// WithState provides optional caller-supplied round-trip state.
func WithState(state interface{}) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withState = state
		}
	}
}

// WithCustomParams provides extra authorization request query parameters.
func WithCustomParams(params map[string]string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withCustomParams = params
		}
	}
}

// WithTokenAvailableCallback provides a callback fired when the client
// acquires a token.
func WithTokenAvailableCallback(fn func(t *Token, state interface{})) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withTokenCallback = fn
		}
	}
}

// WithProviderCA provides an optional CA cert PEM to trust when sending
// requests to the provider.
func WithProviderCA(cert string) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *configOptions:
			v.withProviderCA = cert
		case *discoverOptions:
			v.withProviderCA = cert
		}
	}
}

// WithLogger provides an optional logger.
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withLogger = l
		}
	}
}

// WithLogLevel sets the level of the default logger. Ignored when
// WithLogger is used.
func WithLogLevel(l hclog.Level) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withLogLevel = l
		}
	}
}
