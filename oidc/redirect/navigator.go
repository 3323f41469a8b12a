package redirect

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
)

var (
	// ErrNilNavigator is returned when an operation requires a Navigator and
	// none was provided.
	ErrNilNavigator = errors.New("nil navigator")

	// ErrInvalidURL is returned when a URL cannot be parsed.
	ErrInvalidURL = errors.New("invalid url")
)

// Navigator is the capability a host must supply for the library to observe
// and change the current browsing location. CurrentURL and ReplaceURL
// operate on the visible location without triggering a reload (the analogue
// of a history replacement); Navigate performs a full navigation away from
// the application.
type Navigator interface {
	// CurrentURL returns the current location. Implementations must return
	// a value the caller may modify freely.
	CurrentURL() (*url.URL, error)

	// ReplaceURL replaces the current location without navigating, so a
	// consumed code or token fragment disappears from history.
	ReplaceURL(u *url.URL) error

	// Navigate performs a full navigation to rawURL. For browser-like hosts
	// this abandons the running application.
	Navigate(rawURL string) error
}

// MemNavigator is an in-memory Navigator for tests and non-browser hosts.
// It records every Navigate call so callers can assert on where the flow
// went.
type MemNavigator struct {
	mu      sync.Mutex
	current *url.URL
	visited []string
}

// ensure MemNavigator implements the Navigator interface.
var _ Navigator = (*MemNavigator)(nil)

// NewMemNavigator creates a MemNavigator whose current location is rawURL.
func NewMemNavigator(rawURL string) (*MemNavigator, error) {
	const op = "redirect.NewMemNavigator"
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to parse %q: %w", op, rawURL, ErrInvalidURL)
	}
	return &MemNavigator{current: u}, nil
}

// CurrentURL implements the Navigator interface, returning a copy of the
// current location.
func (n *MemNavigator) CurrentURL() (*url.URL, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil, fmt.Errorf("redirect.MemNavigator.CurrentURL: no current url: %w", ErrInvalidURL)
	}
	cp := *n.current
	return &cp, nil
}

// ReplaceURL implements the Navigator interface.
func (n *MemNavigator) ReplaceURL(u *url.URL) error {
	const op = "redirect.MemNavigator.ReplaceURL"
	if u == nil {
		return fmt.Errorf("%s: url is nil: %w", op, ErrInvalidURL)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := *u
	n.current = &cp
	return nil
}

// Navigate implements the Navigator interface. The new location becomes the
// current URL and is appended to the visited list.
func (n *MemNavigator) Navigate(rawURL string) error {
	const op = "redirect.MemNavigator.Navigate"
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s: unable to parse %q: %w", op, rawURL, ErrInvalidURL)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = u
	n.visited = append(n.visited, rawURL)
	return nil
}

// Visited returns the URLs passed to Navigate, oldest first.
func (n *MemNavigator) Visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := make([]string, len(n.visited))
	copy(cp, n.visited)
	return cp
}
