package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/browserhist/internal/history"
	"github.com/runnerr0/browserhist/internal/service"
)

type jsonReadOutput struct {
	Browser string           `json:"browser"`
	Start   uint64           `json:"start"`
	End     uint64           `json:"end"`
	Count   int              `json:"count"`
	Records []history.Record `json:"records"`
}

// Execute implements the go-flags Commander interface for ReadCommand.
func (c *ReadCommand) Execute(args []string) error {
	if c.Browser == "" {
		return fmt.Errorf("--browser is required")
	}

	start, end, err := c.window(time.Now())
	if err != nil {
		return err
	}

	svc, closer, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()

	return c.executeWithService(svc, start, end)
}

// window resolves the flags into a [start, end] range in Unix milliseconds.
func (c *ReadCommand) window(now time.Time) (uint64, uint64, error) {
	nowMs := uint64(now.UnixMilli())

	if c.Since != "" {
		dur, err := parseDuration(c.Since)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid --since value %q: %w", c.Since, err)
		}
		back := uint64(dur.Milliseconds())
		if back > nowMs {
			return 0, nowMs, nil
		}
		return nowMs - back, nowMs, nil
	}

	end := c.End
	if end == 0 {
		end = nowMs
	}
	return c.Start, end, nil
}

// executeWithService reads and prints records using the provided service (for testing).
func (c *ReadCommand) executeWithService(svc *service.Service, start, end uint64) error {
	records := svc.ReadHistory(context.Background(), c.Browser, start, end)
	if c.Limit > 0 && len(records) > c.Limit {
		records = records[:c.Limit]
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(jsonReadOutput{
			Browser: c.Browser,
			Start:   start,
			End:     end,
			Count:   len(records),
			Records: records,
		})
	}
	return c.printHuman(records)
}

func (c *ReadCommand) printHuman(records []history.Record) error {
	if len(records) == 0 {
		fmt.Printf("No history found for %s\n", c.Browser)
		return nil
	}

	word := "records"
	if len(records) == 1 {
		word = "record"
	}
	fmt.Printf("Found %s %s for %s\n\n", formatNumber(len(records)), word, c.Browser)

	for i, r := range records {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%d. %s\n", i+1, title)
		fmt.Printf("   %s\n", r.URL)
		fmt.Printf("   %s\n", formatMillis(r.LastVisited))

		if i < len(records)-1 {
			fmt.Println()
		}
	}
	return nil
}
