package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goscrape/internal/app"
	"github.com/hyperifyio/goscrape/internal/llmtools"
)

// errMissingURL is returned when no mode flag and no -url were given.
var errMissingURL = errors.New("missing -url (or use -tools / -call)")

type options struct {
	cfg        app.Config
	configPath string
	envFiles   []string

	url      string
	limit    int
	limitSet bool

	tools   bool
	call    bool
	version bool
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if err := resolveConfig(&opts); err != nil {
		log.Error().Err(err).Msg("config")
		os.Exit(1)
	}

	if opts.cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(context.Background(), opts, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Usage and argument errors exit 2; scrape failures are already text on stdout.
		if errors.Is(err, errMissingURL) || errors.Is(err, llmtools.ErrInvalidArgs) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var (
		opts         options
		envFiles     string
		domainsAllow string
		domainsDeny  string
	)
	fs := flag.NewFlagSet("goscrape", flag.ContinueOnError)
	fs.StringVar(&opts.url, "url", "", "Website URL to scrape")
	fs.IntVar(&opts.limit, "limit", 0, "Word limit for the text fallback (default from config, else 600)")
	fs.BoolVar(&opts.tools, "tools", false, "Print the OpenAI-compatible tool definitions as JSON and exit")
	fs.BoolVar(&opts.call, "call", false, "Read tool arguments as JSON from stdin and print the JSON result")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.StringVar(&opts.configPath, "config", os.Getenv("GOSCRAPE_CONFIG"), "Path to YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load (later files override)")
	fs.StringVar(&opts.cfg.UserAgent, "ua", "", "User-Agent for page requests")
	fs.DurationVar(&opts.cfg.RequestTimeout, "timeout", 0, "Per-request timeout (default 10s)")
	fs.Int64Var(&opts.cfg.MaxBodyBytes, "max.bytes", 0, "Maximum response body size in bytes (default 10 MiB)")
	fs.IntVar(&opts.cfg.RedirectMaxHops, "max.redirects", 0, "Maximum redirects to follow (default 5)")
	fs.StringVar(&opts.cfg.TextMode, "text.mode", "", "Text fallback mode: heuristic, readability, trafilatura or markdown")
	fs.StringVar(&domainsAllow, "domains.allow", "", "Comma-separated allowlist of hosts/domains; if set, only these are permitted (subdomains included)")
	fs.StringVar(&domainsDeny, "domains.deny", "", "Comma-separated denylist of hosts/domains; takes precedence over allow")
	fs.BoolVar(&opts.cfg.Verbose, "v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "limit" {
			opts.limitSet = true
		}
	})
	if opts.url == "" && fs.NArg() > 0 {
		opts.url = fs.Arg(0)
	}
	opts.envFiles = app.SplitList(envFiles)
	opts.cfg.DomainAllowlist = app.SplitList(domainsAllow)
	opts.cfg.DomainDenylist = app.SplitList(domainsDeny)
	return opts, nil
}

// resolveConfig layers flags > environment > config file > defaults.
func resolveConfig(opts *options) error {
	if err := app.LoadEnvFiles(opts.envFiles...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	app.ApplyEnvToConfig(&opts.cfg)
	if strings.TrimSpace(opts.configPath) != "" {
		fc, err := app.LoadConfigFile(opts.configPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w", opts.configPath, err)
		}
		app.ApplyFileConfig(&opts.cfg, fc)
	}
	return app.ValidateConfig(opts.cfg)
}

func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	if opts.version {
		_, err := fmt.Fprintf(stdout, "goscrape %s (%s)\n", app.BuildVersion, app.BuildCommit)
		return err
	}

	a, err := app.New(opts.cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	switch {
	case opts.tools:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(llmtools.EncodeTools(a.Registry().Specs()))
	case opts.call:
		args, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read args: %w", err)
		}
		out, err := a.Registry().Invoke(ctx, llmtools.WebScraperToolName, args)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(out))
		return err
	}

	if strings.TrimSpace(opts.url) == "" {
		return errMissingURL
	}
	req := a.NewRequest(opts.url)
	if opts.limitSet {
		req.ContentLimit = opts.limit
	}
	_, err = fmt.Fprintln(stdout, a.Run(ctx, req))
	return err
}
