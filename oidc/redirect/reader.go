package redirect

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// FragmentToken is an implicit-flow token recovered from a URL fragment.
type FragmentToken struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	Scope       string
	IDToken     string
}

// Reader recovers authorization responses from a Navigator's current URL.
// Every Consume* method removes what it read from the visible URL via
// history replacement, so reading twice never yields the same value twice.
type Reader struct {
	nav Navigator
}

// NewReader creates a Reader over the given Navigator.
func NewReader(nav Navigator) (*Reader, error) {
	const op = "redirect.NewReader"
	if nav == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNilNavigator)
	}
	return &Reader{nav: nav}, nil
}

// TokenReady reports whether the current URL carries a completed
// authorization response: an access token in the fragment or an
// authorization code in the query string. It consumes nothing.
func (r *Reader) TokenReady() bool {
	u, err := r.nav.CurrentURL()
	if err != nil {
		return false
	}
	if frag, err := url.ParseQuery(u.Fragment); err == nil && frag.Get("access_token") != "" {
		return true
	}
	return u.Query().Get("code") != ""
}

// ConsumeCode extracts and removes the "code" query parameter. It returns
// an empty string when no code is present.
func (r *Reader) ConsumeCode() (string, error) {
	const op = "redirect.Reader.ConsumeCode"
	u, err := r.nav.CurrentURL()
	if err != nil {
		return "", fmt.Errorf("%s: unable to read current url: %w", op, err)
	}
	q := u.Query()
	code := q.Get("code")
	if code == "" {
		return "", nil
	}
	q.Del("code")
	u.RawQuery = q.Encode()
	if err := r.nav.ReplaceURL(u); err != nil {
		return "", fmt.Errorf("%s: unable to scrub code from url: %w", op, err)
	}
	return code, nil
}

// ConsumeToken parses the URL fragment for an implicit-flow token and
// scrubs the consumed parameters from the visible URL. It returns nil when
// the fragment holds no access token.
func (r *Reader) ConsumeToken() (*FragmentToken, error) {
	const op = "redirect.Reader.ConsumeToken"
	u, err := r.nav.CurrentURL()
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read current url: %w", op, err)
	}
	frag, err := url.ParseQuery(u.Fragment)
	if err != nil || frag.Get("access_token") == "" {
		return nil, nil
	}

	expiresIn, _ := strconv.ParseInt(frag.Get("expires_in"), 10, 64)
	t := &FragmentToken{
		AccessToken: frag.Get("access_token"),
		TokenType:   frag.Get("token_type"),
		ExpiresIn:   expiresIn,
		Scope:       frag.Get("scope"),
		IDToken:     frag.Get("id_token"),
	}

	for _, p := range []string{"access_token", "token_type", "expires_in", "scope", "id_token"} {
		frag.Del(p)
	}
	u.Fragment = frag.Encode()
	if err := r.nav.ReplaceURL(u); err != nil {
		return nil, fmt.Errorf("%s: unable to scrub token from url: %w", op, err)
	}
	return t, nil
}

// ConsumeState extracts and removes the round-tripped "state" parameter
// from the query string or, failing that, the fragment. Object state that
// was JSON-serialized for the round trip is parsed back; anything else is
// returned as the raw string. A nil return means no state was present.
func (r *Reader) ConsumeState() (interface{}, error) {
	const op = "redirect.Reader.ConsumeState"
	u, err := r.nav.CurrentURL()
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read current url: %w", op, err)
	}

	q := u.Query()
	frag, fragErr := url.ParseQuery(u.Fragment)

	var raw string
	switch {
	case q.Get("state") != "":
		raw = q.Get("state")
		q.Del("state")
		u.RawQuery = q.Encode()
	case fragErr == nil && frag.Get("state") != "":
		raw = frag.Get("state")
		frag.Del("state")
		u.Fragment = frag.Encode()
	default:
		return nil, nil
	}

	if err := r.nav.ReplaceURL(u); err != nil {
		return nil, fmt.Errorf("%s: unable to scrub state from url: %w", op, err)
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed, nil
	}
	return raw, nil
}
