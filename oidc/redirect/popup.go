package redirect

import (
	"fmt"
	"net/url"
	"sync"
)

// PopupWindow is a separate browsing context used for popup-based
// authorization. While the popup sits on the authorization server's origin
// its location is unreadable, so implementations should return an error
// from Location until the popup lands back on an origin the host can see.
type PopupWindow interface {
	Location() (*url.URL, error)
	Close() error
}

// PopupOpener opens a popup at the given authorization URL.
type PopupOpener func(rawURL string) (PopupWindow, error)

// MemPopup is an in-memory PopupWindow for tests and non-browser hosts.
// SetLocation simulates the popup navigating; until it is called, Location
// reports the cross-origin error a real host would.
type MemPopup struct {
	mu       sync.Mutex
	location *url.URL
	closed   bool
}

var _ PopupWindow = (*MemPopup)(nil)

// Location implements the PopupWindow interface.
func (p *MemPopup) Location() (*url.URL, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.location == nil {
		return nil, fmt.Errorf("redirect.MemPopup.Location: location not readable: %w", ErrInvalidURL)
	}
	cp := *p.location
	return &cp, nil
}

// SetLocation simulates the popup navigating to rawURL.
func (p *MemPopup) SetLocation(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("redirect.MemPopup.SetLocation: unable to parse %q: %w", rawURL, ErrInvalidURL)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.location = u
	return nil
}

// Close implements the PopupWindow interface.
func (p *MemPopup) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (p *MemPopup) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
