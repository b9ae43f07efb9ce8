package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Browsers  *BrowsersCommand
	GetConfig *GetConfigCommand
	SetConfig *SetConfigCommand
	Read      *ReadCommand
	Sync      *SyncCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "browserhist"
	parser.LongDescription = "Read browsing history from local Chromium and Firefox profiles."

	cmds := &commands{
		Browsers:  &BrowsersCommand{globals: &globals, version: version},
		GetConfig: &GetConfigCommand{globals: &globals, version: version},
		SetConfig: &SetConfigCommand{globals: &globals, version: version},
		Read:      &ReadCommand{globals: &globals, version: version},
		Sync:      &SyncCommand{globals: &globals, version: version},
	}

	parser.AddCommand("browsers", "List discovered browsers", "List discovered browsers, their profiles and last sync markers.", cmds.Browsers)
	parser.AddCommand("get-config", "Print the sync configuration", "Print the per-browser sync configuration as JSON.", cmds.GetConfig)
	parser.AddCommand("set-config", "Replace the sync configuration", "Replace the per-browser sync configuration from a JSON document.", cmds.SetConfig)
	parser.AddCommand("read", "Read history of one browser", "Read history records of one browser within a time window.", cmds.Read)
	parser.AddCommand("sync", "Read all browsers since their last sync", "Read every browser from its last sync marker up to now and advance the markers.", cmds.Sync)

	return parser, &globals, cmds
}

// Run is the main entry point for the CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("browserhist %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
