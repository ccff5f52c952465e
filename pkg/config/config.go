package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/theory/jsonpath"
	"gopkg.in/yaml.v3"
)

// Config holds all service configuration. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Listen      string                 `yaml:"listen"`
	LogMode     string                 `yaml:"log_mode"`
	Languages   []string               `yaml:"languages"`
	Skosmos     SkosmosConfig          `yaml:"skosmos"`
	Cache       CacheConfig            `yaml:"cache"`
	CORS        CORSConfig             `yaml:"cors"`
	Sources     map[string]RestSource  `yaml:"sources"`
	Autosuggest map[string]FieldConfig `yaml:"autosuggest"`
	Showroom    ShowroomConfig         `yaml:"showroom"`
}

// SkosmosConfig points at the vocabulary service.
// APIBase must end with a slash; paths such as "data" and "search" are appended.
type SkosmosConfig struct {
	APIBase  string        `yaml:"api_base"`
	Timeout  time.Duration `yaml:"timeout"`
	VocID    string        `yaml:"voc_id"`
	VocGraph string        `yaml:"voc_graph"`
	TaxID    string        `yaml:"tax_id"`
	TaxGraph string        `yaml:"tax_graph"`
}

// CacheConfig selects and tunes the cache backend.
// Backend is one of "sqlite" (default), "redis", "bolt" or "memory".
type CacheConfig struct {
	Backend     string        `yaml:"backend"`
	Path        string        `yaml:"path"`
	RedisAddr   string        `yaml:"redis_addr"`
	RedisDB     int           `yaml:"redis_db"`
	RedisPrefix string        `yaml:"redis_prefix"`
	TTL         time.Duration `yaml:"ttl"`
}

// CORSConfig controls cross-origin access to the HTTP API.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowAllOrigins  bool     `yaml:"allow_all_origins"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

// RestSource describes one external REST endpoint queried by the aggregator.
// Param values may contain the placeholders {query} and {lang}.
type RestSource struct {
	URL     string            `yaml:"url"`
	Params  map[string]string `yaml:"params"`
	Headers map[string]string `yaml:"headers"`
	Timeout time.Duration     `yaml:"timeout"`
	Mapping Mapping           `yaml:"mapping"`
}

// Mapping declares how a source's JSON response becomes concept records.
// All paths are JSONPath expressions; Results selects the item list and the
// other paths are evaluated relative to each item.
type Mapping struct {
	Results    string            `yaml:"results"`
	Source     string            `yaml:"source"`
	Label      map[string]string `yaml:"label"`
	LabelLang  string            `yaml:"label_lang"`
	SourceName string            `yaml:"source_name"`
}

// FieldConfig names the sources behind one autosuggest field. Either Local is
// set, or one or more of All, Search and Sources. Sources applies to both
// modes unless All or Search override it.
type FieldConfig struct {
	Local   string   `yaml:"local"`
	All     []string `yaml:"all"`
	Search  []string `yaml:"search"`
	Sources []string `yaml:"sources"`
}

// ShowroomConfig controls pushing profile data to Showroom.
type ShowroomConfig struct {
	Enabled bool          `yaml:"enabled"`
	APIBase string        `yaml:"api_base"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultSourceTimeout bounds each aggregator request.
const DefaultSourceTimeout = 2 * time.Second

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:    ":8000",
		LogMode:   "development",
		Languages: []string{"en", "de"},
		Skosmos: SkosmosConfig{
			APIBase:  "https://voc.uni-ak.ac.at/skosmos/rest/v1/",
			Timeout:  5 * time.Second,
			VocID:    "povoc",
			VocGraph: "http://base.uni-ak.ac.at/portfolio/vocabulary/",
			TaxID:    "potax",
			TaxGraph: "http://base.uni-ak.ac.at/portfolio/taxonomy/",
		},
		Cache: CacheConfig{
			Backend:     "sqlite",
			Path:        "baseauth-cache.db",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "baseauth:",
			TTL:         24 * time.Hour,
		},
		Autosuggest: map[string]FieldConfig{
			"expertise": {Local: "skills"},
		},
		Showroom: ShowroomConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Load reads a YAML config file, expands environment variables and validates
// the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for programmer errors that must be caught
// at startup rather than at request time.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "sqlite", "redis", "bolt", "memory":
	default:
		return fmt.Errorf("cache: unknown backend %q", c.Cache.Backend)
	}
	if c.Skosmos.APIBase == "" {
		return fmt.Errorf("skosmos: api_base is required")
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("languages: at least one language is required")
	}

	for name, src := range c.Sources {
		if src.URL == "" {
			return fmt.Errorf("source %q: url is required", name)
		}
		if src.Mapping.Source == "" {
			return fmt.Errorf("source %q: mapping.source is required", name)
		}
		if len(src.Mapping.Label) == 0 && src.Mapping.LabelLang == "" {
			return fmt.Errorf("source %q: mapping.label or mapping.label_lang is required", name)
		}
		if err := src.Mapping.validatePaths(); err != nil {
			return fmt.Errorf("source %q: %w", name, err)
		}
	}

	for _, field := range c.FieldNames() {
		fc := c.Autosuggest[field]
		rest := len(fc.All) > 0 || len(fc.Search) > 0 || len(fc.Sources) > 0
		if fc.Local != "" && rest {
			return fmt.Errorf("autosuggest %q: local and REST sources are mutually exclusive", field)
		}
		if fc.Local == "" && !rest {
			return fmt.Errorf("autosuggest %q: no sources configured", field)
		}
		for _, names := range [][]string{fc.All, fc.Search, fc.Sources} {
			for _, n := range names {
				if _, ok := c.Sources[n]; !ok {
					return fmt.Errorf("autosuggest %q: undefined source %q", field, n)
				}
			}
		}
	}

	if c.Showroom.Enabled && c.Showroom.APIBase == "" {
		return fmt.Errorf("showroom: api_base is required when enabled")
	}
	return nil
}

// FieldNames returns the configured autosuggest field names in sorted order.
func (c *Config) FieldNames() []string {
	names := make([]string, 0, len(c.Autosuggest))
	for name := range c.Autosuggest {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SourceTimeout returns the request timeout for a source.
func (s RestSource) SourceTimeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultSourceTimeout
}

func (m Mapping) validatePaths() error {
	paths := map[string]string{"mapping.source": m.Source}
	if m.Results != "" {
		paths["mapping.results"] = m.Results
	}
	if m.LabelLang != "" {
		paths["mapping.label_lang"] = m.LabelLang
	}
	for lang, p := range m.Label {
		paths["mapping.label."+lang] = p
	}
	for key, p := range paths {
		if _, err := jsonpath.Parse(p); err != nil {
			return fmt.Errorf("%s: invalid JSONPath %q: %w", key, p, err)
		}
	}
	return nil
}
