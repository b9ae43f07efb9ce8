package config

import "github.com/runnerr0/browserhist/internal/discovery"

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "~/.config/browserhist",
			ScratchDir: "temp",
			StateFile:  "config.json",
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
			Compress:   false,
		},
		Discovery: DiscoveryConfig{
			Disabled:      []string{},
			ExtraPatterns: []discovery.Pattern{},
		},
		Sync: SyncConfig{
			Concurrency: 4,
			OverlapMs:   MinOverlapMs,
		},
		Filter: FilterConfig{
			ExcludeSensitive: false,
			DenylistDomains:  []string{},
		},
	}
}
