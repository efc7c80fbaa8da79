package app

import "time"

// Config holds runtime configuration for the application.
// Zero values mean "use the default" throughout.
type Config struct {
	// Fetch
	UserAgent       string
	RequestTimeout  time.Duration
	MaxBodyBytes    int64
	RedirectMaxHops int

	// Domain policy: deny wins over allow; subdomains match.
	DomainAllowlist []string
	DomainDenylist  []string

	// Extraction
	TextMode            string
	DefaultContentLimit int

	// Behavior
	Verbose bool
}
