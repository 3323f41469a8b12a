// oidcclient is a collection of packages for a relying-party OAuth 2.0 /
// OpenID Connect client that survives a full redirect-based navigation:
// authorization URL construction with PKCE, recovery of codes and implicit
// tokens from a return URL, code-for-token exchange, and token lifecycle
// management (cache, refresh, introspect, revoke) backed by a persistent
// relay store.
//
// See README.md and the oidc, oidc/relay and oidc/redirect package
// documentation.
package oidcclient
