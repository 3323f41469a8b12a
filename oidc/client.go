package oidc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/frontlane/oidcclient/oidc/redirect"
)

// Client is the protocol engine for a relying party: it builds
// authorization requests, recovers codes and implicit tokens after the
// redirect, exchanges codes for tokens with the configured client
// authentication method, and manages the token lifecycle against the relay
// store.
//
// The engine does not serialize concurrent calls; a second Token call
// racing the first is resolved by the last write to the relay store
// winning. Callers that need mutual exclusion must provide it.
type Client struct {
	config *Config
	issuer *IssuerConfig
	store  RelayStore
	nav    redirect.Navigator
	reader *redirect.Reader
	client *http.Client
	logger hclog.Logger
}

// NewClient creates a Client from a validated configuration, an issuer
// configuration, a relay store and the host's navigator. When the
// configuration has no redirect URI, the navigator's current URL (stripped
// of query and fragment) is used.
//
// Supported options: WithHTTPClient
func NewClient(c *Config, issuer *IssuerConfig, store RelayStore, nav redirect.Navigator, opt ...Option) (*Client, error) {
	const op = "oidc.NewClient"
	if c == nil {
		return nil, fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	if issuer == nil {
		return nil, fmt.Errorf("%s: issuer configuration is nil: %w", op, ErrNilParameter)
	}
	if store == nil {
		return nil, fmt.Errorf("%s: relay store is nil: %w", op, ErrNilParameter)
	}
	if nav == nil {
		return nil, fmt.Errorf("%s: navigator is nil: %w", op, ErrNilParameter)
	}
	opts := getClientOpts(opt...)

	cc := c.clone()
	if cc.RedirectURI == "" {
		u, err := nav.CurrentURL()
		if err != nil {
			return nil, fmt.Errorf("%s: redirect_uri is empty and the current URL is unavailable: %w", op, ErrInvalidParameter)
		}
		u.RawQuery = ""
		u.Fragment = ""
		cc.RedirectURI = u.String()
		cc.Logger.Info("redirect_uri not provided, defaulting to current URL", "redirect_uri", cc.RedirectURI)
	}
	if err := cc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	base := opts.withHTTPClient
	if base == nil {
		var err error
		base, err = httpClient(cc.ProviderCA)
		if err != nil {
			return nil, fmt.Errorf("%s: unable to create http client: %w", op, err)
		}
	}

	reader, err := redirect.NewReader(nav)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		config: cc,
		issuer: issuer,
		store:  store,
		nav:    nav,
		reader: reader,
		client: asClient(base),
		logger: cc.Logger,
	}, nil
}

// InitializeClient creates a Client and, when the relay store already holds
// a token or the current URL carries a completed authorization response,
// finishes the token acquisition before returning.
func InitializeClient(ctx context.Context, c *Config, issuer *IssuerConfig, store RelayStore, nav redirect.Navigator, opt ...Option) (*Client, error) {
	const op = "oidc.InitializeClient"
	client, err := NewClient(c, issuer, store, nav, opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if client.HasToken(ctx) || client.reader.TokenReady() {
		if _, err := client.Token(ctx); err != nil {
			return nil, fmt.Errorf("%s: unable to acquire token: %w", op, err)
		}
	}
	return client, nil
}

// HasToken reports whether the relay store holds a token with an access
// token.
func (c *Client) HasToken(ctx context.Context) bool {
	t, err := c.store.Token(ctx)
	return err == nil && t != nil && t.AccessToken != ""
}

// AuthorizeURL builds the authorization-endpoint URL for one authorization
// attempt. For the code flow it generates the PKCE/state/nonce artifacts
// and persists the code verifier and state to the relay store before
// returning, because the caller is expected to navigate away next. It does
// not validate the URL's reachability.
//
// Supported options: WithLoginHint, WithACRValues, WithSilentAuthentication
func (c *Client) AuthorizeURL(ctx context.Context, opt ...Option) (string, error) {
	const op = "Client.AuthorizeURL"
	if err := c.issuer.requireEndpoint(c.issuer.AuthorizationEndpoint, "authorization_endpoint"); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	opts := getAuthorizeOpts(opt...)

	oauth2Config := oauth2.Config{
		ClientID:    c.config.ClientID,
		RedirectURL: c.config.RedirectURI,
		Scopes:      strings.Fields(c.config.Scope),
		Endpoint: oauth2.Endpoint{
			AuthURL: c.issuer.AuthorizationEndpoint,
		},
	}

	var state string
	var authCodeOpts []oauth2.AuthCodeOption
	switch c.config.GrantType {
	case GrantAuthorizationCode:
		artifacts, err := NewPKCEArtifacts(c.config)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		state = artifacts.State
		authCodeOpts = append(authCodeOpts, oauth2.SetAuthURLParam("nonce", artifacts.Nonce))
		if c.config.UsePKCE {
			authCodeOpts = append(authCodeOpts,
				oauth2.SetAuthURLParam("code_challenge", artifacts.CodeChallenge),
				oauth2.SetAuthURLParam("code_challenge_method", artifacts.CodeChallengeMethod),
			)
			// The page is about to navigate away; the verifier must survive
			// in the relay store or the exchange can never complete.
			if err := c.store.StoreCodeVerifier(ctx, artifacts.CodeVerifier); err != nil {
				return "", fmt.Errorf("%s: unable to persist code verifier: %w", op, err)
			}
		}
		if err := c.store.SetClientState(ctx, state); err != nil {
			return "", fmt.Errorf("%s: unable to persist state: %w", op, err)
		}
	default:
		authCodeOpts = append(authCodeOpts, oauth2.SetAuthURLParam("response_type", c.config.GrantType.ResponseType()))
	}

	if opts.withLoginHint != "" {
		authCodeOpts = append(authCodeOpts, oauth2.SetAuthURLParam("login_hint", opts.withLoginHint))
	}
	if len(opts.withACRValues) > 0 {
		authCodeOpts = append(authCodeOpts, oauth2.SetAuthURLParam("acr_values", strings.Join(opts.withACRValues, " ")))
	}
	if opts.withSilent {
		authCodeOpts = append(authCodeOpts, oauth2.SetAuthURLParam("prompt", "none"))
	}
	for k, v := range c.config.CustomParams {
		authCodeOpts = append(authCodeOpts, oauth2.SetAuthURLParam(k, v))
	}

	return oauth2Config.AuthCodeURL(state, authCodeOpts...), nil
}

// Authorize builds the authorization URL and hands the current browsing
// context off to it. On success the application is abandoned; the flow
// resumes on the next page load via Token.
//
// Supported options: WithLoginHint, WithACRValues, WithSilentAuthentication
func (c *Client) Authorize(ctx context.Context, opt ...Option) error {
	const op = "Client.Authorize"
	authURL, err := c.AuthorizeURL(ctx, opt...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.logger.Debug("navigating to authorization endpoint", "url", c.issuer.AuthorizationEndpoint)
	if err := c.nav.Navigate(authURL); err != nil {
		return fmt.Errorf("%s: unable to navigate: %w", op, ErrNavigationFailed)
	}
	return nil
}

// AuthorizePopup runs an authorization attempt in a popup window instead of
// navigating away. Cross-origin navigation cannot be observed directly, so
// the popup's location is polled at a fixed interval until it lands back on
// the redirect URI; the return URL is then relayed into the navigator, the
// popup is closed and the token acquisition completes via Token.
//
// Supported options: WithLoginHint, WithACRValues, WithSilentAuthentication,
// WithPollInterval
func (c *Client) AuthorizePopup(ctx context.Context, open redirect.PopupOpener, opt ...Option) (*Token, error) {
	const op = "Client.AuthorizePopup"
	if open == nil {
		return nil, fmt.Errorf("%s: popup opener is nil: %w", op, ErrNilParameter)
	}
	opts := getAuthorizeOpts(opt...)

	authURL, err := c.AuthorizeURL(ctx, opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	w, err := open(authURL)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to open popup: %w", op, ErrNavigationFailed)
	}

	ticker := time.NewTicker(opts.withPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-ticker.C:
			loc, err := w.Location()
			if err != nil || loc == nil {
				// unreadable while the popup is on the provider's origin
				continue
			}
			if !strings.HasPrefix(loc.String(), c.config.RedirectURI) {
				continue
			}
			if err := c.nav.ReplaceURL(loc); err != nil {
				_ = w.Close()
				return nil, fmt.Errorf("%s: unable to relay return URL: %w", op, err)
			}
			_ = w.Close()
			return c.Token(ctx)
		}
	}
}

// Token acquires a token, checking in order: a token cached in the relay
// store, an implicit-flow token in the URL fragment, and an authorization
// code in the URL exchanged at the token endpoint. Codes and tokens read
// from the URL are removed from it. When none of the three sources yields
// anything, Token fails with ErrNoCodeOrToken.
//
// A nil token with a nil error means the token endpoint answered 2xx with
// an empty body, which some authorization servers do.
func (c *Client) Token(ctx context.Context) (*Token, error) {
	const op = "Client.Token"

	// A fresh response on the URL supersedes whatever is cached.
	if c.reader.TokenReady() {
		if err := c.store.RemoveToken(ctx); err != nil {
			return nil, fmt.Errorf("%s: unable to clear lingering token: %w", op, err)
		}
	}

	token, err := c.store.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read cached token: %w", op, err)
	}
	if token != nil {
		return token, nil
	}

	fragment, err := c.reader.ConsumeToken()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	switch {
	case fragment != nil:
		token = &Token{
			AccessToken: fragment.AccessToken,
			TokenType:   fragment.TokenType,
			ExpiresIn:   fragment.ExpiresIn,
			Scope:       fragment.Scope,
			IDToken:     fragment.IDToken,
		}
	default:
		code, err := c.reader.ConsumeCode()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if code == "" {
			return nil, fmt.Errorf("%s: a token was not found in storage or the URL: %w", op, ErrNoCodeOrToken)
		}
		token, err = c.exchangeCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if token == nil {
			c.logger.Warn("token endpoint returned an empty body, treating as no token")
			return nil, nil
		}
	}

	state, err := c.reader.ConsumeState()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if state == nil {
		// caller state that could not ride in the URL rides in the relay
		if s, err := c.store.ClientState(ctx); err == nil && s != "" {
			state = parseState(s)
			_ = c.store.RemoveClientState(ctx)
		}
	}
	token.State = state
	if token.ReceivedAt.IsZero() {
		token.ReceivedAt = time.Now()
	}

	if err := c.store.StoreToken(ctx, token); err != nil {
		return nil, fmt.Errorf("%s: unable to cache token: %w", op, err)
	}
	c.notifyToken(token)
	return token, nil
}

// exchangeCode swaps an authorization code for a token at the token
// endpoint. A PKCE flow attaches the verifier persisted by AuthorizeURL and
// fails fast when it did not survive the redirect.
func (c *Client) exchangeCode(ctx context.Context, code string) (*Token, error) {
	const op = "Client.exchangeCode"
	if err := c.issuer.requireEndpoint(c.issuer.TokenEndpoint, "token_endpoint"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	form := url.Values{}
	if c.config.GrantType == GrantAuthorizationCode {
		form.Set("grant_type", "authorization_code")
	}
	form.Set("code", code)
	form.Set("redirect_uri", c.config.RedirectURI)

	if c.config.GrantType == GrantAuthorizationCode && c.config.UsePKCE {
		verifier, err := c.store.CodeVerifier(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: unable to read code verifier: %w", op, err)
		}
		if verifier == "" {
			return nil, fmt.Errorf("%s: PKCE is enabled but no code verifier survived the redirect: %w", op, ErrMissingCodeVerifier)
		}
		form.Set("code_verifier", verifier)
	}

	token := &Token{}
	found, err := c.authServerPost(ctx, c.issuer.TokenEndpoint, form, token)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to exchange authorization code: %w", op, err)
	}
	if !found {
		return nil, nil
	}
	return token, nil
}

// RefreshToken reads and deletes the stored refresh token and exchanges it
// for a new token, replacing the cached one. When no refresh token survives
// or the authorization server rejects it, the client falls back to a silent
// authorization attempt (prompt=none) instead of surfacing a hard error; in
// that case the returned token is nil and the flow resumes on the next page
// load.
func (c *Client) RefreshToken(ctx context.Context) (*Token, error) {
	const op = "Client.RefreshToken"

	refreshToken, err := c.store.RefreshToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read refresh token: %w", op, err)
	}
	if err := c.store.RemoveToken(ctx); err != nil {
		return nil, fmt.Errorf("%s: unable to clear cached token: %w", op, err)
	}

	switch {
	case refreshToken != "":
		c.logger.Info("refresh token found in storage, using it to get a new access token")
		if err := c.issuer.requireEndpoint(c.issuer.TokenEndpoint, "token_endpoint"); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		form := url.Values{}
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", refreshToken)

		token := &Token{}
		found, err := c.authServerPost(ctx, c.issuer.TokenEndpoint, form, token)
		if err == nil && found {
			token.ReceivedAt = time.Now()
			if err := c.store.StoreToken(ctx, token); err != nil {
				return nil, fmt.Errorf("%s: unable to cache token: %w", op, err)
			}
			c.notifyToken(token)
			return token, nil
		}
		c.logger.Error("refresh token is invalid or expired, attempting a silent authentication request", "error", err)
	default:
		c.logger.Warn("no refresh token found, the authorization server may not support refresh tokens, attempting a silent authentication request")
	}

	if err := c.Authorize(ctx, WithSilentAuthentication()); err != nil {
		return nil, fmt.Errorf("%s: silent authentication fallback failed: %w", op, err)
	}
	return nil, nil
}

// Introspection is an RFC 7662 token introspection response.
type Introspection struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
}

// IntrospectToken asks the introspection endpoint about the cached token.
// When the server reports the token inactive, the client attempts a refresh
// (which itself falls back to silent authorization when no refresh token
// survives) before returning the introspection result.
func (c *Client) IntrospectToken(ctx context.Context) (*Introspection, error) {
	const op = "Client.IntrospectToken"
	token, err := c.cachedToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := c.issuer.requireEndpoint(c.issuer.IntrospectionEndpoint, "introspection_endpoint"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	form := url.Values{}
	form.Set("token", token.AccessToken)
	form.Set("token_type_hint", "access_token")

	introspection := &Introspection{}
	if _, err := c.authServerPost(ctx, c.issuer.IntrospectionEndpoint, form, introspection); err != nil {
		return nil, fmt.Errorf("%s: introspection request failed: %w", op, err)
	}

	if !introspection.Active {
		c.logger.Warn("authorization server reports token inactive, attempting refresh")
		if _, err := c.RefreshToken(ctx); err != nil {
			return introspection, fmt.Errorf("%s: refresh after inactive token failed: %w", op, err)
		}
	}
	return introspection, nil
}

// RevokeToken revokes the cached token at the revocation endpoint and, on
// success, clears the relay store.
func (c *Client) RevokeToken(ctx context.Context) error {
	const op = "Client.RevokeToken"
	token, err := c.cachedToken(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.issuer.requireEndpoint(c.issuer.RevocationEndpoint, "revocation_endpoint"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	form := url.Values{}
	form.Set("token", token.AccessToken)
	form.Set("token_type_hint", "access_token")

	if _, err := c.authServerPost(ctx, c.issuer.RevocationEndpoint, form, nil); err != nil {
		return fmt.Errorf("%s: revocation request failed: %w", op, err)
	}
	if err := c.store.RemoveToken(ctx); err != nil {
		return fmt.Errorf("%s: unable to clear revoked token: %w", op, err)
	}
	return nil
}

// UserInfo retrieves the userinfo claims for the cached token into claims,
// which may be a struct with json tags or a *map[string]interface{}.
func (c *Client) UserInfo(ctx context.Context, claims interface{}) error {
	const op = "Client.UserInfo"
	if claims == nil {
		return fmt.Errorf("%s: claims interface is nil: %w", op, ErrNilParameter)
	}
	token, err := c.cachedToken(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.issuer.requireEndpoint(c.issuer.UserInfoEndpoint, "userinfo_endpoint"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.issuer.UserInfoEndpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: unable to create request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: userinfo request failed: %w", op, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%s: unable to read userinfo response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("unsuccessful response from userinfo endpoint", "url", c.issuer.UserInfoEndpoint, "status", resp.StatusCode)
		return fmt.Errorf("%s: %s returned %d: %s: %w", op, c.issuer.UserInfoEndpoint, resp.StatusCode, bytes.TrimSpace(body), ErrUnsuccessfulResponse)
	}
	if err := json.Unmarshal(body, claims); err != nil {
		return fmt.Errorf("%s: unable to parse userinfo claims: %w", op, err)
	}
	return nil
}

// EndSession ends the user's session at the end-session endpoint, appending
// id_token_hint when an ID token is cached and post_logout_redirect_uri
// when given. The cached token is cleared and the browsing context
// navigates away; there is no response to return.
func (c *Client) EndSession(ctx context.Context, postLogoutRedirectURI string) error {
	const op = "Client.EndSession"
	if err := c.issuer.requireEndpoint(c.issuer.EndSessionEndpoint, "end_session_endpoint"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	q := url.Values{}
	if token, err := c.store.Token(ctx); err == nil && token != nil && token.IDToken != "" {
		c.logger.Info("id_token found, appending id_token_hint to the end session url")
		q.Set("id_token_hint", token.IDToken)
	}
	if postLogoutRedirectURI != "" {
		q.Set("post_logout_redirect_uri", postLogoutRedirectURI)
	}

	logoutURL := c.issuer.EndSessionEndpoint
	if len(q) > 0 {
		logoutURL += "?" + q.Encode()
	}

	if err := c.store.RemoveToken(ctx); err != nil {
		return fmt.Errorf("%s: unable to clear token: %w", op, err)
	}
	if err := c.nav.Navigate(logoutURL); err != nil {
		return fmt.Errorf("%s: unable to navigate: %w", op, ErrNavigationFailed)
	}
	return nil
}

const maxResponseBody = 1 << 20

// authServerPost performs a form POST to an authorization-server endpoint
// with the configured client authentication method. It returns found=false
// when the server answered 2xx with an empty body, a quirk some
// authorization servers exhibit.
func (c *Client) authServerPost(ctx context.Context, endpoint string, form url.Values, out interface{}) (bool, error) {
	const op = "Client.authServerPost"

	form.Set("client_id", c.config.ClientID)
	if c.config.ClientSecretAuthMethod == AuthMethodPost && c.config.ClientSecret != "" {
		form.Set("client_secret", string(c.config.ClientSecret))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("%s: unable to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.config.ClientSecretAuthMethod == AuthMethodBasic && c.config.ClientSecret != "" {
		req.SetBasicAuth(url.QueryEscape(c.config.ClientID), url.QueryEscape(string(c.config.ClientSecret)))
	}

	c.logger.Debug("POST to authorization server", "url", endpoint)
	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s: request to %s failed: %w", op, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return false, fmt.Errorf("%s: unable to read response from %s: %w", op, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("unsuccessful response from authorization server", "url", endpoint, "status", resp.StatusCode)
		return false, fmt.Errorf("%s: %s returned %d: %s: %w", op, endpoint, resp.StatusCode, bytes.TrimSpace(body), ErrUnsuccessfulResponse)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("%s: unable to parse response from %s: %w", op, endpoint, err)
	}
	return true, nil
}

func (c *Client) cachedToken(ctx context.Context) (*Token, error) {
	token, err := c.store.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to read cached token: %w", err)
	}
	if token == nil || token.AccessToken == "" {
		return nil, ErrNoToken
	}
	return token, nil
}

func (c *Client) notifyToken(t *Token) {
	if cb := c.config.TokenAvailableCallback; cb != nil {
		cb(t, t.State)
	}
}

// parseState recovers object state that was JSON-serialized for the round
// trip, returning the raw string unchanged when it does not parse.
func parseState(raw string) interface{} {
	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed
	}
	return raw
}

// clientOptions is the set of available options for NewClient
type clientOptions struct {
	withHTTPClient *http.Client
}

func clientDefaults() clientOptions {
	return clientOptions{}
}

func getClientOpts(opt ...Option) clientOptions {
	opts := clientDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// DefaultPopupPollInterval is how often AuthorizePopup checks the popup's
// location.
const DefaultPopupPollInterval = 500 * time.Millisecond

// authorizeOptions is the set of available options for the authorize family
type authorizeOptions struct {
	withLoginHint    string
	withACRValues    []string
	withSilent       bool
	withPollInterval time.Duration
}

func authorizeDefaults() authorizeOptions {
	return authorizeOptions{
		withPollInterval: DefaultPopupPollInterval,
	}
}

func getAuthorizeOpts(opt ...Option) authorizeOptions {
	opts := authorizeDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithLoginHint appends a login_hint to the authorization request when the
// username or email is already known.
func WithLoginHint(hint string) Option {
	return func(o interface{}) {
		if o, ok := o.(*authorizeOptions); ok {
			o.withLoginHint = hint
		}
	}
}

// WithACRValues appends the requested authentication context class
// references, space-delimited, to the authorization request.
func WithACRValues(values ...string) Option {
	return func(o interface{}) {
		if o, ok := o.(*authorizeOptions); ok {
			o.withACRValues = values
		}
	}
}

// WithSilentAuthentication appends prompt=none so the attempt succeeds or
// fails without user interaction.
func WithSilentAuthentication() Option {
	return func(o interface{}) {
		if o, ok := o.(*authorizeOptions); ok {
			o.withSilent = true
		}
	}
}

// WithPollInterval overrides how often AuthorizePopup checks the popup's
// location.
func WithPollInterval(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*authorizeOptions); ok {
			o.withPollInterval = d
		}
	}
}
