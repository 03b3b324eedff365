// Package config loads the CLI-facing runtime configuration: which
// profile and categories to run, how to render output, and cache
// behavior for remote profiles. Pattern/exclude/extension data lives in
// the same antislop.toml file but is parsed separately by
// pkg/registry (via go-toml, matching the on-disk [[patterns]] shape);
// this package reads the remaining top-level keys with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/corvid-labs/antislop/pkg/models"
	"github.com/corvid-labs/antislop/pkg/registry"
)

// Config is the merged runtime configuration for a scan invocation.
type Config struct {
	// Profile names, or points to, the composed pattern set. Empty means
	// "baseline built-ins only".
	Profile string `koanf:"profile" toml:"profile"`

	// Only/Disable are category filters applied last, after profile
	// flattening. At most one of these is normally set.
	Only    []string `koanf:"only" toml:"only"`
	Disable []string `koanf:"disable" toml:"disable"`

	// Gitignore controls whether the Walker also honors .gitignore files
	// in addition to the Exclude globs carried by the composed ruleset.
	Gitignore bool `koanf:"gitignore" toml:"gitignore"`

	// Suppress lists per-path finding suppression rules the Aggregator
	// applies after detection: a path prefix plus the pattern ids to
	// drop for files it matches. An empty PatternIDs list suppresses
	// every finding for that path.
	Suppress []SuppressRule `koanf:"suppress" toml:"suppress"`

	Cache  CacheConfig  `koanf:"cache" toml:"cache"`
	Output OutputConfig `koanf:"output" toml:"output"`
}

// SuppressRule suppresses findings under Path, optionally restricted to
// specific pattern ids.
type SuppressRule struct {
	Path       string   `koanf:"path" toml:"path"`
	PatternIDs []string `koanf:"pattern_ids" toml:"pattern_ids"`
}

// CacheConfig controls the remote-profile cache: cached remote profiles
// get a freshness window, and staleness forces a refetch.
type CacheConfig struct {
	Enabled  bool   `koanf:"enabled" toml:"enabled"`
	Dir      string `koanf:"dir" toml:"dir"`
	TTLHours int    `koanf:"ttl_hours" toml:"ttl_hours"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, sarif
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a Config with sensible defaults: no profile
// beyond the baseline, every category enabled, gitignore respected, and
// a 24-hour remote profile cache.
func DefaultConfig() *Config {
	return &Config{
		Gitignore: true,
		Cache: CacheConfig{
			Enabled:  true,
			Dir:      "",
			TTLHours: 24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from path, choosing a koanf parser by
// extension (defaulting to TOML, since antislop.toml has no extension
// koanf recognizes on its own for the ".antislop" bare name).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, &models.ConfigError{Source: path, Reason: "could not parse configuration file", Err: err}
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, &models.ConfigError{Source: path, Reason: "configuration did not match expected shape", Err: err}
	}
	return cfg, nil
}

// FindConfigFile searches dir for a project configuration file, deferring
// to the registry package's own search so both loaders (koanf here,
// go-toml in pkg/registry) agree on which file is authoritative.
func FindConfigFile(dir string) (string, bool) {
	return registry.DiscoverProjectConfig(dir)
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
	dir  string
}

// WithPath specifies an explicit config file path, skipping discovery.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// WithSearchDir sets the directory FindConfigFile searches when no
// explicit path is given. Defaults to the current directory.
func WithSearchDir(dir string) LoadOption {
	return func(o *loadOptions) { o.dir = dir }
}

// LoadResult is the outcome of LoadConfig: the resolved Config and which
// file (if any) it came from.
type LoadResult struct {
	Config *Config
	Source string
}

// LoadConfig loads and validates configuration, searching standard
// locations when no explicit path is given and falling back to defaults
// when none is found.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{dir: "."}
	for _, opt := range opts {
		opt(o)
	}

	var cfg *Config
	var source string
	var err error

	switch {
	case o.path != "":
		if _, statErr := os.Stat(o.path); os.IsNotExist(statErr) {
			return nil, &models.ConfigError{Source: o.path, Reason: "configuration file not found"}
		}
		cfg, err = Load(o.path)
		source = o.path
	default:
		if found, ok := FindConfigFile(o.dir); ok {
			cfg, err = Load(found)
			source = found
		} else {
			cfg = DefaultConfig()
		}
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, &models.ConfigError{Source: source, Reason: "validation failed", Err: err}
	}
	return &LoadResult{Config: cfg, Source: source}, nil
}

var validFormats = map[string]bool{"text": true, "json": true, "markdown": true, "sarif": true}

// Validate checks that every field holds a value the rest of the engine
// understands, aggregating every failure with errors.Join rather than
// stopping at the first one.
func (c *Config) Validate() error {
	var errs []error

	for _, cat := range c.Only {
		if !models.Category(cat).Valid() {
			errs = append(errs, &models.InvalidCategory{Value: cat})
		}
	}
	for _, cat := range c.Disable {
		if !models.Category(cat).Valid() {
			errs = append(errs, &models.InvalidCategory{Value: cat})
		}
	}
	if len(c.Only) > 0 && len(c.Disable) > 0 {
		errs = append(errs, errors.New("only and disable are mutually exclusive"))
	}

	if !validFormats[c.Output.Format] {
		errs = append(errs, fmt.Errorf("output.format %q is not one of text, json, markdown, sarif", c.Output.Format))
	}
	if c.Cache.TTLHours < 0 {
		errs = append(errs, errors.New("cache.ttl_hours must be non-negative"))
	}

	for _, rule := range c.Suppress {
		if rule.Path == "" {
			errs = append(errs, errors.New("suppress rule has an empty path"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ComposeOptions converts c's string-based Only/Disable lists into
// registry.ComposeOptions' typed form.
func (c *Config) ComposeOptions() registry.ComposeOptions {
	opts := registry.ComposeOptions{}
	for _, cat := range c.Only {
		opts.Only = append(opts.Only, models.Category(cat))
	}
	for _, cat := range c.Disable {
		opts.Disable = append(opts.Disable, models.Category(cat))
	}
	return opts
}
