package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	// DefaultTimeout bounds a single GET when PerRequestTimeout is zero.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBodyBytes caps response bodies when MaxBodyBytes is zero.
	DefaultMaxBodyBytes = 10 << 20
	// DefaultUserAgent is sent when UserAgent is empty.
	DefaultUserAgent = "goscrape/1.0 (+https://github.com/hyperifyio/goscrape)"
)

var (
	ErrUnsupportedScheme      = errors.New("unsupported URL scheme")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrHostNotAllowed         = errors.New("host not allowed")
	ErrBodyTooLarge           = errors.New("response body too large")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s for %s", e.Code, http.StatusText(e.Code), e.URL)
}

// Page is a fetched HTML document. Body is always UTF-8.
type Page struct {
	URL         string
	FinalURL    string
	ContentType string
	Body        []byte
}

// Client wraps http.Client with a per-request timeout, a redirect cap, a body
// cap and host policy. A zero Client is usable. It holds no per-call state and
// is safe for concurrent use.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// PerRequestTimeout bounds each request. Zero means DefaultTimeout.
	PerRequestTimeout time.Duration
	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
	// MaxBodyBytes caps the bytes read from a response. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// DomainAllowlist, when non-empty, restricts fetches to these hosts and
	// their subdomains. DomainDenylist takes precedence.
	DomainAllowlist []string
	DomainDenylist  []string
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

// Get issues a single GET for rawURL and returns the decoded page. There is
// no retry: a failed attempt is returned to the caller as is.
func (c *Client) Get(ctx context.Context, rawURL string) (Page, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Page{}, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if !isHTTPScheme(u) {
		return Page{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, rawURL)
	}
	if u.Host == "" {
		return Page{}, fmt.Errorf("invalid url %q: missing host", rawURL)
	}
	if !c.hostAllowed(u.Hostname()) {
		return Page{}, fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}

	timeout := c.PerRequestTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("new request: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	start := time.Now()
	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Page{}, &StatusError{URL: u.String(), Code: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isAllowedHTMLContentType(contentType) {
		return Page{}, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}

	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return Page{}, fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > limit {
		return Page{}, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}

	finalURL := u.String()
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	log.Debug().
		Str("url", u.String()).
		Str("final_url", finalURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(b)).
		Dur("took", time.Since(start)).
		Msg("fetched")

	return Page{
		URL:         u.String(),
		FinalURL:    finalURL,
		ContentType: contentType,
		Body:        toUTF8(b, contentType),
	}, nil
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return fmt.Errorf("redirect: %w", ErrUnsupportedScheme)
		}
		if !c.hostAllowed(req.URL.Hostname()) {
			return fmt.Errorf("redirect: %w: %s", ErrHostNotAllowed, req.URL.Hostname())
		}
		return nil
	}
}

func (c *Client) hostAllowed(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, d := range c.DomainDenylist {
		if matchesDomain(host, d) {
			return false
		}
	}
	if len(c.DomainAllowlist) == 0 {
		return true
	}
	for _, d := range c.DomainAllowlist {
		if matchesDomain(host, d) {
			return true
		}
	}
	return false
}

// matchesDomain reports whether host equals domain or is one of its subdomains.
func matchesDomain(host, domain string) bool {
	domain = strings.ToLower(strings.Trim(strings.TrimSpace(domain), "."))
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	// servers that omit the header are given the benefit of the doubt
	if ct == "" {
		return true
	}
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

// toUTF8 decodes b using the charset parameter of contentType. Unknown or
// absent charsets leave the bytes untouched.
func toUTF8(b []byte, contentType string) []byte {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return b
	}
	cs := strings.ToLower(strings.TrimSpace(params["charset"]))
	if cs == "" || cs == "utf-8" || cs == "utf8" {
		return b
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		log.Debug().Str("charset", cs).Msg("unknown charset; using raw bytes")
		return b
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		log.Debug().Err(err).Str("charset", cs).Msg("charset decode failed; using raw bytes")
		return b
	}
	return out
}
