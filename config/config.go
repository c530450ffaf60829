// Package config holds shared settings for the citkit tools, loadable from
// an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/miku/citkit"
	"github.com/miku/citkit/resolve"
)

// Config for the citkit tools.
type Config struct {
	// DataDir is the generic data dir for all citkit tools.
	DataDir string `yaml:"data_dir"`
	// ReferenceDB is the path to the journal reference database blob.
	ReferenceDB string `yaml:"reference_db"`
	// StorePath is the path to the SQLite store for standardized documents.
	StorePath string `yaml:"store_path"`
	// Collection tags citation ids, e.g. "scl".
	Collection string `yaml:"collection"`
	// UseExact enables exact title matching.
	UseExact bool `yaml:"use_exact"`
	// UseFuzzy enables fuzzy title matching.
	UseFuzzy bool `yaml:"use_fuzzy"`
	// FuzzyThreshold is the minimum similarity for fuzzy matches.
	FuzzyThreshold    float64       `yaml:"fuzzy_threshold"`
	CrossrefApiEmail  string        `yaml:"crossref_api_email"`
	CrossrefUserAgent string        `yaml:"crossref_user_agent"`
	MaxRetries        int           `yaml:"max_retries"`
	Timeout           time.Duration `yaml:"timeout"`
}

// Default returns a config with sensible defaults, with data living under
// the XDG data home.
func Default() *Config {
	return &Config{
		DataDir:           filepath.Join(xdg.DataHome, citkit.AppName),
		ReferenceDB:       filepath.Join(xdg.DataHome, citkit.AppName, "refdb.json.zst"),
		StorePath:         filepath.Join(xdg.DataHome, citkit.AppName, "citations.db"),
		Collection:        "scl",
		UseExact:          true,
		UseFuzzy:          true,
		FuzzyThreshold:    resolve.DefaultThreshold,
		CrossrefUserAgent: citkit.UserAgent,
		MaxRetries:        3,
		Timeout:           30 * time.Second,
	}
}

// FromFile loads a config file on top of the defaults. A missing file is
// not an error; you just get the defaults back.
func FromFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// ResolverOptions translates config values into resolver options.
func (c *Config) ResolverOptions() resolve.Options {
	return resolve.Options{
		UseExact:  c.UseExact,
		UseFuzzy:  c.UseFuzzy,
		Threshold: c.FuzzyThreshold,
	}
}
