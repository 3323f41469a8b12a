/*
redirect models the browsing context an OIDC authorization flow travels
through: the current URL, history replacement, and navigation away to an
authorization server.

A full-page redirect destroys everything the application held in memory, so
whatever the flow needs after returning must ride either in the return URL
(authorization code, implicit token fragment, round-tripped state) or in
persistent storage. The Reader recovers that surviving information from a
Navigator exactly once and scrubs the consumed parameters so they never leak
into history or bookmarks.

Hosts embed the library by supplying a Navigator implementation appropriate
to their environment (wasm, a webview shell, a CLI driving a system
browser). MemNavigator is a ready-made in-memory implementation for tests
and non-browser hosts.
*/
package redirect
