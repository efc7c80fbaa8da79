package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env. Malformed numbers are ignored.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = strings.TrimSpace(os.Getenv("GOSCRAPE_USER_AGENT"))
	}
	if cfg.TextMode == "" {
		cfg.TextMode = strings.TrimSpace(os.Getenv("GOSCRAPE_TEXT_MODE"))
	}

	if cfg.RequestTimeout == 0 {
		if s := strings.TrimSpace(os.Getenv("GOSCRAPE_TIMEOUT")); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.RequestTimeout = d
			}
		}
	}
	if cfg.MaxBodyBytes == 0 {
		if n, ok := envInt("GOSCRAPE_MAX_BODY_BYTES"); ok {
			cfg.MaxBodyBytes = int64(n)
		}
	}
	if cfg.RedirectMaxHops == 0 {
		if n, ok := envInt("GOSCRAPE_MAX_REDIRECTS"); ok {
			cfg.RedirectMaxHops = n
		}
	}
	if cfg.DefaultContentLimit == 0 {
		if n, ok := envInt("GOSCRAPE_CONTENT_LIMIT"); ok {
			cfg.DefaultContentLimit = n
		}
	}

	if len(cfg.DomainAllowlist) == 0 {
		cfg.DomainAllowlist = SplitList(os.Getenv("DOMAINS_ALLOW"))
	}
	if len(cfg.DomainDenylist) == 0 {
		cfg.DomainDenylist = SplitList(os.Getenv("DOMAINS_DENY"))
	}

	if !cfg.Verbose {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))) {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		}
	}
}

func envInt(key string) (int, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SplitList parses a comma-separated list, dropping blanks. It returns nil
// for an empty input.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	if len(list) == 0 {
		return nil
	}
	return list
}
