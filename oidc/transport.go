package oidc

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// httpClient creates an http client which will use the optional CA
// certificate PEM if provided, otherwise the installed system CA chain.
func httpClient(caPEM string) (*http.Client, error) {
	const op = "oidc.httpClient"
	tr := cleanhttp.DefaultPooledTransport()

	if caPEM != "" {
		certPool := x509.NewCertPool()
		if ok := certPool.AppendCertsFromPEM([]byte(caPEM)); !ok {
			return nil, fmt.Errorf("%s: could not parse CA PEM value: %w", op, ErrInvalidCACert)
		}
		tr.TLSClientConfig = &tls.Config{
			RootCAs: certPool,
		}
	}

	return &http.Client{
		Transport: tr,
	}, nil
}

// asClient derives the client used for authorization-server calls. It never
// follows redirects transparently: a 3xx from a token endpoint is handed
// back to the engine as-is.
func asClient(base *http.Client) *http.Client {
	cp := *base
	cp.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &cp
}
