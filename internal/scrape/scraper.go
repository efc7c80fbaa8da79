package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goscrape/internal/extract"
)

// ErrorPrefix starts every result produced from a failure.
const ErrorPrefix = "An error occurred during web scraping: "

// ExtractFunc turns a page URL into text.
type ExtractFunc func(ctx context.Context, pageURL string) (string, error)

// Scraper returns the tables of a page when it has any and otherwise its
// word-limited text. It keeps no per-call state.
type Scraper struct {
	structured ExtractFunc
	text       ExtractFunc
}

// New returns a Scraper that tries structured first and falls back to text.
func New(structured, text ExtractFunc) *Scraper {
	return &Scraper{structured: structured, text: text}
}

// NewWithFetcher wires the table and text extractors to one fetcher.
func NewWithFetcher(f Fetcher, ex extract.Extractor) *Scraper {
	return New(
		StructuredExtractor{Fetcher: f}.Extract,
		TextExtractor{Fetcher: f, Extractor: ex}.ExtractText,
	)
}

// Run performs one scrape. Failures never escape: they come back as a single
// line starting with ErrorPrefix.
func (s *Scraper) Run(ctx context.Context, req Request) (result string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("url", req.WebsiteURL).Msg("scrape panicked")
			result = errorText(fmt.Errorf("internal error: %v", r))
		}
	}()

	out, err := s.run(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("url", req.WebsiteURL).Msg("scrape failed")
		return errorText(err)
	}
	return out
}

func (s *Scraper) run(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	pageURL := strings.TrimSpace(req.WebsiteURL)

	structured, err := s.structured(ctx, pageURL)
	if err != nil {
		return "", err
	}
	if structured != "" {
		log.Info().Str("url", pageURL).Int("chars", len(structured)).Msg("returning structured content")
		return structured, nil
	}

	text, err := s.text(ctx, pageURL)
	if err != nil {
		return "", err
	}
	out := Truncate(text, req.ContentLimit)
	log.Info().
		Str("url", pageURL).
		Int("limit", req.ContentLimit).
		Int("chars", len(text)).
		Int("kept_chars", len(out)).
		Msg("returning text content")
	return out, nil
}

func errorText(err error) string {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	return ErrorPrefix + msg
}
