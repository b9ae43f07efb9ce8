package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/runnerr0/browserhist/internal/config"
	"github.com/runnerr0/browserhist/internal/discovery"
	"github.com/runnerr0/browserhist/internal/logging"
	"github.com/runnerr0/browserhist/internal/service"
)

// loadConfig loads the file named by --config, or the default config,
// creating it with defaults when missing.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		path, err := config.ExpandPath(globals.Config)
		if err != nil {
			return nil, err
		}
		return config.LoadOrCreateAt(path)
	}
	return config.LoadOrCreate()
}

// openService loads configuration, discovers local browser databases once
// and returns a ready service. The returned closer flushes the log file.
func openService(globals *GlobalFlags) (*service.Service, io.Closer, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, nil, err
	}

	verbose := globals != nil && globals.Verbose
	logger, closer, err := logging.New(cfg.Logging, dataDir, verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("resolve home directory: %w", err)
	}
	dbs := discovery.DiscoverLocal(home, cfg.Patterns())
	logger.Debug("discovered browser databases", "browsers", len(dbs.Names()), "files", dbs.Len())

	svc, err := service.New(cfg, dbs, service.WithLogger(logger))
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return svc, closer, nil
}

// parseDuration parses a human-friendly duration string like "30d", "7d", "24h", "2w".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration: empty string")
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]

	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration: %q (use d, h, w, or m suffix)", s)
	}
}

// nowMillis returns the current time in Unix milliseconds.
func nowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

// formatMillis renders a Unix millisecond timestamp in local time.
func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatNumber formats an int with comma separators.
func formatNumber(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
