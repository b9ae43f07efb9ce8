package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// BrowsersCommand — list discovered browsers and their sync markers.
type BrowsersCommand struct {
	Paths bool `long:"paths" description:"Also print every database file found"`

	globals *GlobalFlags
	version string
}

// GetConfigCommand — print the per-browser sync configuration.
type GetConfigCommand struct {
	globals *GlobalFlags
	version string
}

// SetConfigCommand — replace the per-browser sync configuration.
type SetConfigCommand struct {
	File string `long:"file" description:"JSON file with the new configuration, - for stdin (required)"`

	globals *GlobalFlags
	version string
}

// ReadCommand — read history records of one browser within a time window.
type ReadCommand struct {
	Browser string `long:"browser" description:"Browser display name, e.g. \"Google Chrome\" (required)"`
	Start   uint64 `long:"start" description:"Window start, Unix milliseconds (exclusive)"`
	End     uint64 `long:"end" description:"Window end, Unix milliseconds (exclusive); defaults to now"`
	Since   string `long:"since" description:"Window start relative to now (e.g., 7d, 24h, 2w); overrides --start and --end"`
	Limit   int    `long:"limit" description:"Maximum records to print, 0 for all" default:"0"`

	globals *GlobalFlags
	version string
}

// SyncCommand — read every browser since its last sync and advance the markers.
type SyncCommand struct {
	globals *GlobalFlags
	version string
}
