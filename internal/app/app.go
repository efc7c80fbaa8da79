package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goscrape/internal/extract"
	"github.com/hyperifyio/goscrape/internal/fetch"
	"github.com/hyperifyio/goscrape/internal/llmtools"
	"github.com/hyperifyio/goscrape/internal/scrape"
)

// App wires configuration to the scraper and its tool registry.
type App struct {
	cfg        Config
	httpClient *http.Client
	scraper    *scrape.Scraper
	registry   *llmtools.Registry
}

// New validates cfg and builds the fetch client, text extractor, scraper and
// tool registry.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	ex, err := extract.New(cfg.TextMode)
	if err != nil {
		return nil, err
	}
	hc := newHTTPClient()
	client := &fetch.Client{
		HTTPClient:        hc,
		UserAgent:         cfg.UserAgent,
		PerRequestTimeout: cfg.RequestTimeout,
		RedirectMaxHops:   cfg.RedirectMaxHops,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		DomainAllowlist:   cfg.DomainAllowlist,
		DomainDenylist:    cfg.DomainDenylist,
	}
	a := &App{cfg: cfg, httpClient: hc, scraper: scrape.NewWithFetcher(client, ex)}
	a.registry, err = llmtools.NewWebScraperToolkit(a).Registry()
	if err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}
	log.Debug().
		Str("text_mode", cfg.TextMode).
		Dur("timeout", cfg.RequestTimeout).
		Strs("allow", cfg.DomainAllowlist).
		Strs("deny", cfg.DomainDenylist).
		Msg("app initialized")
	return a, nil
}

// Close releases idle keep-alive connections held by the shared transport.
// The app stays usable; later scrapes dial again.
func (a *App) Close() {
	a.httpClient.CloseIdleConnections()
}

// NewRequest returns a request for websiteURL using the configured default
// content limit.
func (a *App) NewRequest(websiteURL string) scrape.Request {
	req := scrape.NewRequest(websiteURL)
	if a.cfg.DefaultContentLimit > 0 {
		req.ContentLimit = a.cfg.DefaultContentLimit
	}
	return req
}

// Run performs one scrape and returns its text; errors come back as text.
func (a *App) Run(ctx context.Context, req scrape.Request) string {
	return a.scraper.Run(ctx, req)
}

// Registry exposes the tool registry backed by this app.
func (a *App) Registry() *llmtools.Registry {
	return a.registry
}
