// Package oidc is a client-side OAuth 2.0 / OIDC relying party for
// applications that authenticate by redirecting the user's browsing context
// to an authorization server and recovering the response on return.
//
// The primary types are:
//
//   - Config: the relying party's configuration (client id, redirect URI,
//     scope, grant type, PKCE, client authentication).
//
//   - IssuerConfig: the authorization server's endpoints, either discovered
//     with DiscoverIssuerConfig or set directly.
//
//   - Client: the protocol engine. It builds authorization URLs, recovers
//     authorization codes and implicit tokens from the return URL,
//     exchanges codes for tokens and manages refresh, introspection,
//     revocation, userinfo and end-session.
//
//   - RelayStore: persistence that survives the redirect round trip, with
//     implementations in the relay package.
//
//   - redirect.Navigator: the host environment's view of the current URL,
//     with an in-memory implementation for tests and non-browser hosts.
//
// A typical flow: NewConfig, DiscoverIssuerConfig, NewClient, Authorize
// (which navigates away), and on the next load Token (which completes the
// exchange and caches the result in the relay store).
package oidc
