package extract

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Extractor defines a minimal interface for content extraction strategies.
// Implementations can swap readability tactics without changing callers.
type Extractor interface {
	// Extract converts raw HTML bytes into a simplified Document. pageURL is
	// the address the bytes came from and may be nil.
	Extract(input []byte, pageURL *url.URL) (Document, error)
}

// Text extraction modes accepted by New.
const (
	ModeHeuristic   = "heuristic"
	ModeReadability = "readability"
	ModeTrafilatura = "trafilatura"
	ModeMarkdown    = "markdown"
)

// Modes lists every supported mode, default first.
var Modes = []string{ModeHeuristic, ModeReadability, ModeTrafilatura, ModeMarkdown}

// ErrEmptyInput is returned by extractors that cannot work on an empty body.
var ErrEmptyInput = errors.New("empty html input")

// New returns the extractor for mode. An empty mode selects ModeHeuristic.
func New(mode string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeHeuristic:
		return HeuristicExtractor{}, nil
	case ModeReadability:
		return ReadabilityExtractor{}, nil
	case ModeTrafilatura:
		return TrafilaturaExtractor{}, nil
	case ModeMarkdown:
		return MarkdownExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown text mode %q (want one of %s)", mode, strings.Join(Modes, ", "))
	}
}

// HeuristicExtractor uses FromHTML, which prefers <main>/<article> and applies
// light boilerplate reduction and normalization.
type HeuristicExtractor struct{}

func (HeuristicExtractor) Extract(input []byte, _ *url.URL) (Document, error) {
	return FromHTML(input)
}

// ReadabilityExtractor runs the readability algorithm and returns the article text.
type ReadabilityExtractor struct{}

func (ReadabilityExtractor) Extract(input []byte, pageURL *url.URL) (Document, error) {
	if len(bytes.TrimSpace(input)) == 0 {
		return Document{}, ErrEmptyInput
	}
	article, err := readability.FromReader(bytes.NewReader(input), orEmptyURL(pageURL))
	if err != nil {
		return Document{}, fmt.Errorf("readability: %w", err)
	}
	return Document{
		Title: strings.TrimSpace(article.Title),
		Text:  normalizeWhitespace(article.TextContent),
	}, nil
}

// TrafilaturaExtractor runs trafilatura main-content extraction.
type TrafilaturaExtractor struct{}

func (TrafilaturaExtractor) Extract(input []byte, pageURL *url.URL) (Document, error) {
	if len(bytes.TrimSpace(input)) == 0 {
		return Document{}, ErrEmptyInput
	}
	result, err := trafilatura.Extract(bytes.NewReader(input), trafilatura.Options{
		OriginalURL: pageURL,
	})
	if err != nil {
		return Document{}, fmt.Errorf("trafilatura: %w", err)
	}
	return Document{
		Title: strings.TrimSpace(result.Metadata.Title),
		Text:  normalizeWhitespace(result.ContentText),
	}, nil
}

// MarkdownExtractor converts the whole page to Markdown.
type MarkdownExtractor struct{}

func (MarkdownExtractor) Extract(input []byte, _ *url.URL) (Document, error) {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return Document{}, fmt.Errorf("parse html: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(string(input))
	if err != nil {
		return Document{}, fmt.Errorf("html to markdown: %w", err)
	}
	return Document{
		Title: strings.TrimSpace(findTitle(node)),
		Text:  strings.TrimSpace(md),
	}, nil
}

func orEmptyURL(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	return u
}
