package cli

import (
	"fmt"

	"github.com/runnerr0/browserhist/internal/history"
	"github.com/runnerr0/browserhist/internal/service"
)

type browserJSON struct {
	Name     string   `json:"name"`
	Family   string   `json:"family"`
	Profiles int      `json:"profiles"`
	LastSync uint64   `json:"last_sync"`
	Paths    []string `json:"paths,omitempty"`
}

// Execute implements the go-flags Commander interface for BrowsersCommand.
func (c *BrowsersCommand) Execute(args []string) error {
	svc, closer, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()

	return c.executeWithService(svc)
}

// executeWithService lists browsers known to the provided service (for testing).
func (c *BrowsersCommand) executeWithService(svc *service.Service) error {
	lastSync := make(map[string]uint64)
	for _, b := range svc.GetConfig().Browsers {
		lastSync[b.Name] = b.LastSync
	}

	var out []browserJSON
	for _, name := range svc.Browsers() {
		paths := svc.Paths(name)
		b := browserJSON{
			Name:     name,
			Family:   history.Resolve(name).Family().String(),
			Profiles: len(paths),
			LastSync: lastSync[name],
		}
		if c.Paths {
			b.Paths = paths
		}
		out = append(out, b)
	}

	if c.globals != nil && c.globals.JSON {
		if out == nil {
			out = []browserJSON{}
		}
		return writeJSON(out)
	}

	if len(out) == 0 {
		fmt.Println("No browsers known on this system.")
		return nil
	}

	fmt.Printf("%-16s %-9s %8s  %s\n", "BROWSER", "FAMILY", "PROFILES", "LAST SYNC")
	for _, b := range out {
		last := "never"
		if b.LastSync > 0 {
			last = formatMillis(int64(b.LastSync))
		}
		fmt.Printf("%-16s %-9s %8s  %s\n", b.Name, b.Family, formatNumber(b.Profiles), last)
		for _, p := range b.Paths {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}
