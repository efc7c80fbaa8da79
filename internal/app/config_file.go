package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/goscrape/internal/extract"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Fetch struct {
		UserAgent    string   `yaml:"userAgent" json:"userAgent"`
		Timeout      Duration `yaml:"timeout" json:"timeout"`
		MaxBodyBytes int64    `yaml:"maxBodyBytes" json:"maxBodyBytes"`
		MaxRedirects int      `yaml:"maxRedirects" json:"maxRedirects"`
	} `yaml:"fetch" json:"fetch"`

	Extract struct {
		TextMode     string `yaml:"textMode" json:"textMode"`
		ContentLimit int    `yaml:"contentLimit" json:"contentLimit"`
	} `yaml:"extract" json:"extract"`

	Domains struct {
		Allow []string `yaml:"allow" json:"allow"`
		Deny  []string `yaml:"deny" json:"deny"`
	} `yaml:"domains" json:"domains"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// Duration accepts "10s" style strings in both YAML and JSON.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	if strings.TrimSpace(s) == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			fc = FileConfig{}
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg. Flags and env should already be applied;
// this lets the file supply defaults while preserving them.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.UserAgent == "" && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.RequestTimeout == 0 && fc.Fetch.Timeout != 0 {
		cfg.RequestTimeout = time.Duration(fc.Fetch.Timeout)
	}
	if cfg.MaxBodyBytes == 0 && fc.Fetch.MaxBodyBytes != 0 {
		cfg.MaxBodyBytes = fc.Fetch.MaxBodyBytes
	}
	if cfg.RedirectMaxHops == 0 && fc.Fetch.MaxRedirects != 0 {
		cfg.RedirectMaxHops = fc.Fetch.MaxRedirects
	}
	if cfg.TextMode == "" && fc.Extract.TextMode != "" {
		cfg.TextMode = fc.Extract.TextMode
	}
	if cfg.DefaultContentLimit == 0 && fc.Extract.ContentLimit != 0 {
		cfg.DefaultContentLimit = fc.Extract.ContentLimit
	}
	if len(cfg.DomainAllowlist) == 0 && len(fc.Domains.Allow) > 0 {
		cfg.DomainAllowlist = append([]string{}, fc.Domains.Allow...)
	}
	if len(cfg.DomainDenylist) == 0 && len(fc.Domains.Deny) > 0 {
		cfg.DomainDenylist = append([]string{}, fc.Domains.Deny...)
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig rejects settings the fetch and extract layers cannot honor.
func ValidateConfig(cfg Config) error {
	if cfg.RequestTimeout < 0 {
		return errors.New("config: negative timeout is not allowed")
	}
	if cfg.MaxBodyBytes < 0 || cfg.RedirectMaxHops < 0 || cfg.DefaultContentLimit < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if _, err := extract.New(cfg.TextMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
