package scrape

import (
	"errors"
	"strings"
)

// DefaultContentLimit is the word budget used when a caller gives none.
const DefaultContentLimit = 600

var (
	ErrEmptyURL      = errors.New("website_url must not be empty")
	ErrNegativeLimit = errors.New("content_limit must not be negative")
)

// Request is one scrape invocation.
type Request struct {
	WebsiteURL string
	// ContentLimit is the number of words kept from the text fallback. It
	// does not apply to table output.
	ContentLimit int
}

// NewRequest returns a request for websiteURL with DefaultContentLimit.
func NewRequest(websiteURL string) Request {
	return Request{WebsiteURL: websiteURL, ContentLimit: DefaultContentLimit}
}

// Validate reports input errors that make a fetch pointless.
func (r Request) Validate() error {
	if strings.TrimSpace(r.WebsiteURL) == "" {
		return ErrEmptyURL
	}
	if r.ContentLimit < 0 {
		return ErrNegativeLimit
	}
	return nil
}
