package scrape

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goscrape/internal/extract"
	"github.com/hyperifyio/goscrape/internal/fetch"
)

// Fetcher retrieves one HTML page. *fetch.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) (fetch.Page, error)
}

// StructuredExtractor turns the tables of a page into text.
type StructuredExtractor struct {
	Fetcher Fetcher
}

// Extract fetches pageURL and serializes its tables. A page without tables,
// or whose markup cannot be queried for tables, yields "" and no error; fetch
// failures are returned.
func (s StructuredExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	page, err := s.Fetcher.Get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	tables, err := extract.Tables(page.Body)
	if err != nil {
		log.Debug().Err(err).Str("url", pageURL).Msg("table detection failed; treating as no tables")
		return "", nil
	}
	log.Debug().Str("url", pageURL).Int("tables", len(tables)).Msg("structured extraction")
	return extract.FormatTables(tables), nil
}

// TextExtractor turns a page into readable text using Extractor.
type TextExtractor struct {
	Fetcher   Fetcher
	Extractor extract.Extractor
}

// ExtractText fetches pageURL and returns its full readable text.
func (t TextExtractor) ExtractText(ctx context.Context, pageURL string) (string, error) {
	page, err := t.Fetcher.Get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	base, _ := url.Parse(page.FinalURL)
	ex := t.Extractor
	if ex == nil {
		ex = extract.HeuristicExtractor{}
	}
	doc, err := ex.Extract(page.Body, base)
	if err != nil {
		return "", fmt.Errorf("extract text from %s: %w", pageURL, err)
	}
	log.Debug().Str("url", pageURL).Str("title", doc.Title).Int("chars", len(doc.Text)).Msg("text extraction")
	return doc.Text, nil
}
