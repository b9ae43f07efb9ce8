package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runnerr0/browserhist/internal/discovery"
	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/browserhist/config.yaml"

// MinOverlapMs is the smallest sync overlap; smaller values are raised to it.
// One second covers a visit exactly on the previous sync time, including
// Chromium bounds truncated to whole seconds.
const MinOverlapMs = 1000

// Config holds all browserhist settings.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Sync      SyncConfig      `yaml:"sync"`
	Filter    FilterConfig    `yaml:"filter"`
}

type StorageConfig struct {
	Path       string `yaml:"path"`
	ScratchDir string `yaml:"scratch_dir"`
	StateFile  string `yaml:"state_file"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type DiscoveryConfig struct {
	Disabled      []string            `yaml:"disabled"`
	ExtraPatterns []discovery.Pattern `yaml:"extra_patterns"`
}

type SyncConfig struct {
	Concurrency int    `yaml:"concurrency"`
	OverlapMs   uint64 `yaml:"overlap_ms"`
}

type FilterConfig struct {
	ExcludeSensitive bool     `yaml:"exclude_sensitive"`
	DenylistDomains  []string `yaml:"denylist_domains"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Sync.Concurrency < 1 {
		cfg.Sync.Concurrency = 1
	}
	if cfg.Sync.OverlapMs < MinOverlapMs {
		cfg.Sync.OverlapMs = MinOverlapMs
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that the storage entries name locations inside the data
// directory. The scratch directory is cleaned on every start, so it must be
// a proper subdirectory.
func (c *Config) Validate() error {
	if err := checkLocal("storage.scratch_dir", c.Storage.ScratchDir); err != nil {
		return err
	}
	return checkLocal("storage.state_file", c.Storage.StateFile)
}

func checkLocal(key, name string) error {
	if !filepath.IsLocal(name) || filepath.Clean(name) == "." {
		return fmt.Errorf("%s %q: %w", key, name, ErrNotLocal)
	}
	return nil
}

// ErrNotLocal reports a storage entry that is empty or escapes the data
// directory.
var ErrNotLocal = errors.New("must be a relative path inside storage.path")

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}

// DataDir returns the expanded storage path.
func (c *Config) DataDir() (string, error) {
	return ExpandPath(c.Storage.Path)
}

// Patterns returns the default discovery patterns followed by any
// configured extras.
func (c *Config) Patterns() []discovery.Pattern {
	return append(discovery.DefaultPatterns(), c.Discovery.ExtraPatterns...)
}

// Denylist returns the domains filtered out of read results.
func (c *Config) Denylist() []string {
	var domains []string
	if c.Filter.ExcludeSensitive {
		domains = append(domains, DefaultDenylistDomains()...)
	}
	return append(domains, c.Filter.DenylistDomains...)
}
