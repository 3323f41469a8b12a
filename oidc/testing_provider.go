package oidc

import (
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// TestProvider is an in-process authorization server for testing the
// Client against, without the need for a real provider. It serves
// discovery, token, userinfo, introspection and revocation endpoints over
// TLS from a test certificate, which CACert exposes for client
// configuration.
//
// Endpoints behave according to the knobs set via the Set* mutators, all
// of which are safe for concurrent use.
//
//	tp := StartTestProvider(t)
//	defer tp.Stop()
type TestProvider struct {
	httpServer *httptest.Server
	caCert     string

	mu sync.Mutex

	clientID     string
	clientSecret string
	authMethod   ClientAuthMethod

	expectedAuthCode     string
	expectedCodeVerifier string
	expectedRefreshToken string

	replyAccessToken  string
	replyRefreshToken string
	replyIDToken      string
	replyExpiresIn    int64

	introspectionActive bool
	emptyTokenBody      bool
	disabledEndpoints   map[string]bool

	lastTokenRequest url.Values
	lastAuthHeader   string

	t TestingT
}

// TestingT is the subset of *testing.T the TestProvider needs.
type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
}

// HelperT is an optional interface TestingT implementations may satisfy.
type HelperT interface {
	Helper()
}

// StartTestProvider starts a TestProvider with sensible defaults: token
// replies carry an access, refresh and ID token and introspection reports
// tokens active. Stop must be called to shut it down.
func StartTestProvider(t TestingT) *TestProvider {
	if v, ok := t.(HelperT); ok {
		v.Helper()
	}
	p := &TestProvider{
		t:                   t,
		replyAccessToken:    "test-access-token",
		replyRefreshToken:   "test-refresh-token",
		replyIDToken:        "test-id-token",
		replyExpiresIn:      3600,
		introspectionActive: true,
		disabledEndpoints:   map[string]bool{},
	}
	p.httpServer = httptest.NewUnstartedServer(p)
	p.httpServer.StartTLS()
	cert := p.httpServer.Certificate()
	p.caCert = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}))
	return p
}

// Stop shuts the provider's server down.
func (p *TestProvider) Stop() {
	p.httpServer.Close()
}

// Addr returns the provider's issuer URL.
func (p *TestProvider) Addr() string { return p.httpServer.URL }

// CACert returns the PEM-encoded certificate of the provider's TLS server.
func (p *TestProvider) CACert() string { return p.caCert }

// HTTPClient returns a client that trusts the provider's certificate.
func (p *TestProvider) HTTPClient() *http.Client { return p.httpServer.Client() }

// SetClientCreds sets the client credentials the token endpoint requires
// and the authentication method it expects them by.
func (p *TestProvider) SetClientCreds(id, secret string, method ClientAuthMethod) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clientID, p.clientSecret, p.authMethod = id, secret, method
}

// SetExpectedAuthCode sets the authorization code the token endpoint will
// accept; any other code is rejected with invalid_grant.
func (p *TestProvider) SetExpectedAuthCode(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedAuthCode = code
}

// SetExpectedCodeVerifier requires a PKCE exchange carrying this verifier.
func (p *TestProvider) SetExpectedCodeVerifier(verifier string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedCodeVerifier = verifier
}

// SetExpectedRefreshToken sets the refresh token the token endpoint will
// accept for the refresh_token grant.
func (p *TestProvider) SetExpectedRefreshToken(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expectedRefreshToken = token
}

// SetTokenReply sets the tokens the token endpoint hands out.
func (p *TestProvider) SetTokenReply(accessToken, refreshToken, idToken string, expiresIn int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replyAccessToken = accessToken
	p.replyRefreshToken = refreshToken
	p.replyIDToken = idToken
	p.replyExpiresIn = expiresIn
}

// SetIntrospectionActive sets whether introspection reports tokens active.
func (p *TestProvider) SetIntrospectionActive(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.introspectionActive = active
}

// SetEmptyTokenBody makes the token endpoint answer 200 with an empty
// body, which some authorization servers do.
func (p *TestProvider) SetEmptyTokenBody(empty bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emptyTokenBody = empty
}

// DisableEndpoint removes an endpoint (by its discovery document field
// name, e.g. "end_session_endpoint") from the discovery reply.
func (p *TestProvider) DisableEndpoint(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disabledEndpoints[name] = true
}

// LastTokenRequest returns the form values of the most recent token
// endpoint request, for asserting on what the client sent.
func (p *TestProvider) LastTokenRequest() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastTokenRequest
}

// LastAuthHeader returns the Authorization header of the most recent token
// endpoint request.
func (p *TestProvider) LastAuthHeader() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAuthHeader
}

func (p *TestProvider) writeJSON(w http.ResponseWriter, v interface{}) {
	if h, ok := p.t.(HelperT); ok {
		h.Helper()
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		p.t.Errorf("unable to encode reply: %s", err)
		p.t.FailNow()
	}
}

func (p *TestProvider) writeTokenError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// validClientAuth checks the request carries the configured client
// credentials by the configured method. A provider with no credentials
// configured accepts everything.
func (p *TestProvider) validClientAuth(r *http.Request, form url.Values) bool {
	if p.clientID == "" {
		return true
	}
	switch p.authMethod {
	case AuthMethodBasic:
		id, secret, ok := r.BasicAuth()
		if !ok {
			return false
		}
		id, _ = url.QueryUnescape(id)
		secret, _ = url.QueryUnescape(secret)
		return id == p.clientID && secret == p.clientSecret
	case AuthMethodPost:
		return form.Get("client_id") == p.clientID && form.Get("client_secret") == p.clientSecret
	default:
		return form.Get("client_id") == p.clientID
	}
}

// ServeHTTP implements the provider's endpoints.
func (p *TestProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch r.URL.Path {
	case "/.well-known/openid-configuration":
		reply := map[string]interface{}{
			"issuer":                                p.httpServer.URL,
			"authorization_endpoint":                p.httpServer.URL + "/authorize",
			"token_endpoint":                        p.httpServer.URL + "/token",
			"userinfo_endpoint":                     p.httpServer.URL + "/userinfo",
			"jwks_uri":                              p.httpServer.URL + "/.well-known/jwks.json",
			"end_session_endpoint":                  p.httpServer.URL + "/end-session",
			"introspection_endpoint":                p.httpServer.URL + "/introspect",
			"revocation_endpoint":                   p.httpServer.URL + "/revoke",
			"response_types_supported":              []string{"code", "token"},
			"grant_types_supported":                 []string{"authorization_code", "implicit", "refresh_token"},
			"code_challenge_methods_supported":      []string{"S256"},
			"token_endpoint_auth_methods_supported": []string{"none", "client_secret_basic", "client_secret_post"},
		}
		for name := range p.disabledEndpoints {
			delete(reply, name)
		}
		p.writeJSON(w, reply)

	case "/token":
		if err := r.ParseForm(); err != nil {
			p.writeTokenError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		p.lastTokenRequest = r.PostForm
		p.lastAuthHeader = r.Header.Get("Authorization")
		if !p.validClientAuth(r, r.PostForm) {
			p.writeTokenError(w, http.StatusUnauthorized, "invalid_client")
			return
		}
		switch r.PostForm.Get("grant_type") {
		case "refresh_token":
			if p.expectedRefreshToken != "" && r.PostForm.Get("refresh_token") != p.expectedRefreshToken {
				p.writeTokenError(w, http.StatusBadRequest, "invalid_grant")
				return
			}
		default:
			if p.expectedAuthCode != "" && r.PostForm.Get("code") != p.expectedAuthCode {
				p.writeTokenError(w, http.StatusBadRequest, "invalid_grant")
				return
			}
			if p.expectedCodeVerifier != "" && r.PostForm.Get("code_verifier") != p.expectedCodeVerifier {
				p.writeTokenError(w, http.StatusBadRequest, "invalid_grant")
				return
			}
		}
		if p.emptyTokenBody {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		p.writeJSON(w, map[string]interface{}{
			"access_token":  p.replyAccessToken,
			"token_type":    "Bearer",
			"expires_in":    p.replyExpiresIn,
			"refresh_token": p.replyRefreshToken,
			"id_token":      p.replyIDToken,
			"scope":         DefaultScope,
		})

	case "/userinfo":
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != p.replyAccessToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		p.writeJSON(w, map[string]interface{}{
			"sub":   "test-subject",
			"name":  "Alice Example",
			"email": "alice@example.com",
		})

	case "/introspect":
		if err := r.ParseForm(); err != nil {
			p.writeTokenError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if !p.validClientAuth(r, r.PostForm) {
			p.writeTokenError(w, http.StatusUnauthorized, "invalid_client")
			return
		}
		reply := map[string]interface{}{"active": p.introspectionActive}
		if p.introspectionActive {
			reply["client_id"] = p.clientID
			reply["token_type"] = "Bearer"
			reply["scope"] = DefaultScope
		}
		p.writeJSON(w, reply)

	case "/revoke":
		if err := r.ParseForm(); err != nil {
			p.writeTokenError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if !p.validClientAuth(r, r.PostForm) {
			p.writeTokenError(w, http.StatusUnauthorized, "invalid_client")
			return
		}
		w.WriteHeader(http.StatusOK)

	case "/authorize":
		// most tests drive the redirect through a Navigator and never
		// fetch this; answering anyway keeps real user agents working
		q := r.URL.Query()
		redirectURI := q.Get("redirect_uri")
		if redirectURI == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		back := url.Values{}
		if p.expectedAuthCode != "" {
			back.Set("code", p.expectedAuthCode)
		}
		if state := q.Get("state"); state != "" {
			back.Set("state", state)
		}
		w.Header().Set("Location", redirectURI+"?"+back.Encode())
		w.WriteHeader(http.StatusFound)

	case "/end-session":
		// a navigation target; tests assert on the URL, not the response
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
