package llmtools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hyperifyio/goscrape/internal/scrape"
)

// WebScraperToolName is the stable registry name of the scraper tool.
const WebScraperToolName = "web_scraper_enhanced"

// Runner performs one scrape and always returns text. NewRequest supplies the
// host's default content limit.
type Runner interface {
	NewRequest(websiteURL string) scrape.Request
	Run(ctx context.Context, req scrape.Request) string
}

var webScraperSchema = json.RawMessage(`{
    "type":"object",
    "properties":{
        "website_url":{
            "type":"string",
            "description":"Valid website URL without any quotes."
        },
        "content_limit":{
            "type":"integer",
            "minimum":0,
            "default":600,
            "description":"Limit for the content length to extract. Default is 600 words."
        }
    },
    "required":["website_url"]
}`)

// NewWebScraperTool returns the definition of the table-first web scraper.
// A missing content_limit means the runner's default. The result is the
// scraped text encoded as a JSON string; scrape failures are part of that
// text, so the handler only errors on malformed arguments.
func NewWebScraperTool(runner Runner) ToolDefinition {
	return ToolDefinition{
		StableName:   WebScraperToolName,
		DisplayName:  "WebScraperEnhancedTool",
		SemVer:       "v1.0.0",
		Description:  "Enhanced tool to scrape website URLs and extract text content with structured data handling.",
		JSONSchema:   webScraperSchema,
		Capabilities: []string{"fetch", "extract", "tables"},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			var in struct {
				WebsiteURL   string `json:"website_url"`
				ContentLimit *int   `json:"content_limit"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid args: %w", err)
			}
			req := runner.NewRequest(in.WebsiteURL)
			if in.ContentLimit != nil {
				req.ContentLimit = *in.ContentLimit
			}
			return json.Marshal(runner.Run(ctx, req))
		},
	}
}

// EnvKey declares a configuration value a toolkit needs from its host.
type EnvKey struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Toolkit groups tools for registration with a host framework.
type Toolkit struct {
	Name        string
	Description string
	runner      Runner
}

// NewWebScraperToolkit returns the toolkit exposing the scraper tool.
func NewWebScraperToolkit(runner Runner) Toolkit {
	return Toolkit{
		Name:        "Web Scraper Enhanced Toolkit",
		Description: "Enhanced Web Scraper toolkit for structured data extraction.",
		runner:      runner,
	}
}

// Tools returns the toolkit's tool definitions.
func (k Toolkit) Tools() []ToolDefinition {
	return []ToolDefinition{NewWebScraperTool(k.runner)}
}

// EnvKeys returns the configuration the toolkit requires. The scraper needs none.
func (k Toolkit) EnvKeys() []EnvKey {
	return []EnvKey{}
}

// Registry returns a registry with every tool of the toolkit registered.
func (k Toolkit) Registry() (*Registry, error) {
	r := NewRegistry()
	for _, def := range k.Tools() {
		if err := r.Register(def); err != nil {
			return nil, fmt.Errorf("register %s: %w", def.StableName, err)
		}
	}
	return r, nil
}
