package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/browserhist/internal/service"
)

type syncBrowserJSON struct {
	Browser  string `json:"browser"`
	Records  int    `json:"records"`
	Failed   int    `json:"failed_profiles"`
	Advanced bool   `json:"advanced"`
}

// Execute implements the go-flags Commander interface for SyncCommand.
func (c *SyncCommand) Execute(args []string) error {
	svc, closer, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()

	return c.executeWithService(svc, nowMillis())
}

// executeWithService syncs every browser of the provided service up to now (for testing).
func (c *SyncCommand) executeWithService(svc *service.Service, now uint64) error {
	results, err := svc.Sync(context.Background(), now)
	if err != nil && results == nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := make([]syncBrowserJSON, len(results))
		for i, r := range results {
			out[i] = syncBrowserJSON{Browser: r.Browser, Records: len(r.Records), Failed: r.Failed, Advanced: r.Advanced}
		}
		if encErr := writeJSON(out); encErr != nil {
			return encErr
		}
		return err
	}

	total := 0
	for _, r := range results {
		total += len(r.Records)
		line := fmt.Sprintf("%-16s %s records", r.Browser, formatNumber(len(r.Records)))
		if r.Failed > 0 {
			line += fmt.Sprintf(" (%d unreadable profiles, marker kept)", r.Failed)
		}
		fmt.Println(line)
	}
	fmt.Printf("\nSynced %s records from %d browsers.\n", formatNumber(total), len(results))
	return err
}
