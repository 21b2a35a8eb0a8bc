package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iksnae/event-contexts/internal/contexts"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = ".event-contexts.yaml"
	cacheDirName   = ".event-contexts-cache"
	defaultWorkers = 4
)

var iconNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Config holds the organization, project and page location used to build
// links, plus local settings. It is read from YAML and overridden by flags.
type Config struct {
	Storage      string                `yaml:"storage,omitempty"`
	CacheDir     string                `yaml:"cache_dir,omitempty"`
	Workers      int                   `yaml:"workers,omitempty"`
	Organization contexts.Organization `yaml:"organization,omitempty"`
	Project      contexts.Project      `yaml:"project,omitempty"`
	Location     contexts.Location     `yaml:"location,omitempty"`
	// Icons extends the built-in logo catalog
	Icons []string `yaml:"icons,omitempty"`

	path string
}

// DefaultConfigPath returns ~/.event-contexts.yaml
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configFileName), nil
}

// DefaultCacheDir returns ~/.event-contexts-cache
func DefaultCacheDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, cacheDirName), nil
}

// LoadConfig reads a YAML config file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Workers: defaultWorkers, path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		LogDebug("No config file at %s, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigError{Path: path, Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	LogDebug("Loaded config from %s", path)
	return cfg, nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Validate checks field values that YAML decoding cannot
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return &ConfigError{Path: c.path, Field: "workers", Err: fmt.Errorf("must not be negative, got %d", c.Workers)}
	}
	for _, name := range c.Icons {
		if !iconNamePattern.MatchString(name) {
			return &ConfigError{Path: c.path, Field: "icons", Err: fmt.Errorf("invalid icon name %q", name)}
		}
	}
	return nil
}

// Overrides are command-line values that take precedence over the file
type Overrides struct {
	Storage  string
	CacheDir string
	Org      string
	Project  string
	Features []string
	Workers  int
}

// Apply copies every non-empty override onto the config
func (c *Config) Apply(o Overrides) {
	if o.Storage != "" {
		c.Storage = o.Storage
	}
	if o.CacheDir != "" {
		c.CacheDir = o.CacheDir
	}
	if o.Org != "" {
		c.Organization.Slug = o.Org
	}
	if o.Project != "" {
		c.Project.Slug = o.Project
	}
	for _, f := range o.Features {
		if !c.Organization.HasFeature(f) {
			c.Organization.Features = append(c.Organization.Features, f)
		}
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
}

// ResolvedCacheDir returns the configured cache dir or the default one
func (c *Config) ResolvedCacheDir() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	return DefaultCacheDir()
}

// IconCatalog returns the built-in catalog plus configured additions
func (c *Config) IconCatalog() contexts.IconCatalog {
	catalog := contexts.DefaultIconCatalog()
	for _, name := range c.Icons {
		catalog.Add(name)
	}
	return catalog
}

// NewNormalizer builds a normalizer from the config
func (c *Config) NewNormalizer() *Normalizer {
	n := NewNormalizer(c.IconCatalog())
	if c.Organization.Slug != "" {
		org := c.Organization
		n.Organization = &org
	}
	if c.Project.Slug != "" {
		project := c.Project
		n.Project = &project
	}
	if c.Location.Pathname != "" || len(c.Location.Query) > 0 {
		location := c.Location
		n.Location = &location
	}
	n.Workers = c.Workers
	return n
}
