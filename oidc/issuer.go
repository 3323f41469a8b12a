package oidc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// IssuerConfig is the set of endpoint URLs and supported-values metadata for
// an authorization server, sourced either from its discovery document (see
// DiscoverIssuerConfig) or supplied directly. It is read-only once built.
type IssuerConfig struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	UserInfoEndpoint                  string   `json:"userinfo_endpoint"`
	JWKSURI                           string   `json:"jwks_uri"`
	EndSessionEndpoint                string   `json:"end_session_endpoint"`
	IntrospectionEndpoint             string   `json:"introspection_endpoint"`
	RevocationEndpoint                string   `json:"revocation_endpoint"`
	ScopesSupported                   []string `json:"scopes_supported"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	ResponseModesSupported            []string `json:"response_modes_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	CodeChallengeMethodsSupported     []string `json:"code_challenge_methods_supported"`
	ClaimsSupported                   []string `json:"claims_supported"`
}

// DiscoverIssuerConfig builds an IssuerConfig from the issuer's
// /.well-known/openid-configuration document. The issuer URL must use the
// https scheme; a trailing slash is trimmed before the well-known path is
// appended.
//
// Supported options: WithProviderCA, WithHTTPClient
func DiscoverIssuerConfig(ctx context.Context, issuer string, opt ...Option) (*IssuerConfig, error) {
	const op = "oidc.DiscoverIssuerConfig"
	opts := getDiscoverOpts(opt...)

	issuer = strings.TrimSuffix(issuer, "/")
	u, err := url.Parse(issuer)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to parse issuer %q: %w", op, issuer, ErrInvalidIssuer)
	}
	if u.Scheme != "https" {
		return nil, fmt.Errorf("%s: issuer %q scheme is not https: %w", op, issuer, ErrInvalidIssuer)
	}

	client := opts.withHTTPClient
	if client == nil {
		client, err = httpClient(opts.withProviderCA)
		if err != nil {
			return nil, fmt.Errorf("%s: unable to create http client: %w", op, err)
		}
	}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, client), issuer)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to discover issuer configuration: %w", op, err)
	}

	var ic IssuerConfig
	if err := provider.Claims(&ic); err != nil {
		return nil, fmt.Errorf("%s: unable to read discovery document: %w", op, err)
	}
	return &ic, nil
}

// requireEndpoint returns a descriptive ErrEndpointNotSupported when the
// endpoint an operation needs is absent from the issuer configuration.
func (ic *IssuerConfig) requireEndpoint(endpoint string, name string) error {
	if ic == nil {
		return fmt.Errorf("issuer configuration is nil: %w", ErrNilParameter)
	}
	if endpoint == "" {
		return fmt.Errorf("no %s found, either discover the issuer configuration with "+
			"DiscoverIssuerConfig or set %s on the IssuerConfig directly: %w",
			name, name, ErrEndpointNotSupported)
	}
	return nil
}

// discoverOptions is the set of available options for DiscoverIssuerConfig
type discoverOptions struct {
	withProviderCA string
	withHTTPClient *http.Client
}

func discoverDefaults() discoverOptions {
	return discoverOptions{}
}

func getDiscoverOpts(opt ...Option) discoverOptions {
	opts := discoverDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithHTTPClient provides an http client override for requests to the
// provider.
func WithHTTPClient(client *http.Client) Option {
	return func(o interface{}) {
		switch v := o.(type) {
		case *discoverOptions:
			v.withHTTPClient = client
		case *clientOptions:
			v.withHTTPClient = client
		}
	}
}
