package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGet_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "goscrape-test", PerRequestTimeout: 2 * time.Second}
	page, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.ContentType == "" || string(page.Body) != "<html><body>ok</body></html>" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if gotUA != "goscrape-test" {
		t.Fatalf("user agent not sent, got %q", gotUA)
	}
}

func TestGet_DefaultUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	var c Client
	if _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA != DefaultUserAgent {
		t.Fatalf("expected default user agent, got %q", gotUA)
	}
}

func TestGet_NoRetryOn5xx(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(502)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	_, err := c.Get(context.Background(), srv.URL)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 502 {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestGet_404IsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := &Client{}
	_, err := c.Get(context.Background(), srv.URL)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("expected StatusError 404, got %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("status code missing from message: %q", err.Error())
	}
}

func TestGet_RejectsNonHTTP(t *testing.T) {
	c := &Client{PerRequestTimeout: 1 * time.Second}
	_, err := c.Get(context.Background(), "file:///etc/hosts")
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestGet_RejectsMalformedURL(t *testing.T) {
	c := &Client{}
	for _, raw := range []string{"", "not a url", "http://", "://missing-scheme"} {
		if _, err := c.Get(context.Background(), raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestGet_ContentTypeGating(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	_, err := c.Get(context.Background(), srv.URL)
	if !errors.Is(err, ErrUnsupportedContentType) {
		t.Fatalf("expected ErrUnsupportedContentType, got %v", err)
	}
}

func TestGet_RedirectLimit(t *testing.T) {
	// First path redirects once to /next; with RedirectMaxHops=1 this should fail immediately
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/next", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second, RedirectMaxHops: 1}
	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected redirect limit error")
	}

	c.RedirectMaxHops = 3
	page, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected redirect to be followed: %v", err)
	}
	if !strings.HasSuffix(page.FinalURL, "/next") {
		t.Fatalf("expected final url to end in /next, got %q", page.FinalURL)
	}
}

func TestGet_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 50 * time.Millisecond}
	start := time.Now()
	_, err := c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout not applied, took %s", time.Since(start))
	}
}

func TestGet_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()

	c := &Client{MaxBodyBytes: 32}
	_, err := c.Get(context.Background(), srv.URL)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}

	c.MaxBodyBytes = 64
	if _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("body at the cap should pass: %v", err)
	}
}

func TestGet_DecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		_, _ = w.Write([]byte("<p>caf\xe9</p>"))
	}))
	defer srv.Close()

	c := &Client{}
	page, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(page.Body) != "<p>café</p>" {
		t.Fatalf("expected decoded body, got %q", string(page.Body))
	}
}

func TestHostPolicy(t *testing.T) {
	cases := []struct {
		name  string
		allow []string
		deny  []string
		host  string
		want  bool
	}{
		{"no lists", nil, nil, "example.com", true},
		{"allow exact", []string{"example.com"}, nil, "example.com", true},
		{"allow subdomain", []string{"example.com"}, nil, "docs.example.com", true},
		{"allow rejects other", []string{"example.com"}, nil, "example.org", false},
		{"suffix is not subdomain", []string{"example.com"}, nil, "badexample.com", false},
		{"deny wins", []string{"example.com"}, []string{"docs.example.com"}, "docs.example.com", false},
		{"deny case insensitive", nil, []string{"Example.COM"}, "example.com", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Client{DomainAllowlist: tc.allow, DomainDenylist: tc.deny}
			if got := c.hostAllowed(tc.host); got != tc.want {
				t.Fatalf("hostAllowed(%q)=%v, want %v", tc.host, got, tc.want)
			}
		})
	}
}

func TestGet_DeniedHostSkipsNetwork(t *testing.T) {
	c := &Client{DomainDenylist: []string{"bad.invalid"}}
	_, err := c.Get(context.Background(), "http://bad.invalid/page")
	if !errors.Is(err, ErrHostNotAllowed) {
		t.Fatalf("expected ErrHostNotAllowed, got %v", err)
	}
}
