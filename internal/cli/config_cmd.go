package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/runnerr0/browserhist/internal/config"
	"github.com/runnerr0/browserhist/internal/service"
)

// Execute implements the go-flags Commander interface for GetConfigCommand.
func (c *GetConfigCommand) Execute(args []string) error {
	svc, closer, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()

	return c.executeWithService(svc)
}

// executeWithService prints the sync configuration of the provided service.
// The output is always JSON so it can be edited and fed to set-config.
func (c *GetConfigCommand) executeWithService(svc *service.Service) error {
	return writeJSON(svc.GetConfig())
}

// Execute implements the go-flags Commander interface for SetConfigCommand.
func (c *SetConfigCommand) Execute(args []string) error {
	if c.File == "" {
		return fmt.Errorf("--file is required")
	}

	svc, closer, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()

	var in io.Reader = os.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("open config document: %w", err)
		}
		defer f.Close()
		in = f
	}

	return c.executeWithService(svc, in)
}

// executeWithService decodes a configuration document from in and stores it.
func (c *SetConfigCommand) executeWithService(svc *service.Service, in io.Reader) error {
	var doc config.Browsers
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse config document: %w", err)
	}

	if err := svc.SetConfig(doc); err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(map[string]any{"saved": true, "browsers": len(doc.Browsers)})
	}
	fmt.Printf("Saved sync configuration for %d browsers.\n", len(doc.Browsers))
	return nil
}
