package cli

import (
	"bytes"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	goflags "github.com/jessevdk/go-flags"
	_ "github.com/mattn/go-sqlite3"
	"github.com/runnerr0/browserhist/internal/config"
	"github.com/runnerr0/browserhist/internal/discovery"
	"github.com/runnerr0/browserhist/internal/service"
	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// parseOnly parses args without running the matched command.
func parseOnly(t *testing.T, args ...string) (*GlobalFlags, *commands, error) {
	t.Helper()
	parser, globals, cmds := buildParser("test")
	parser.CommandHandler = func(goflags.Commander, []string) error { return nil }
	_, err := parser.ParseArgs(args)
	return globals, cmds, err
}

// chromeHistory writes a Chromium History file holding one visit per
// entry of visits (Unix milliseconds, whole seconds).
func chromeHistory(t *testing.T, visits map[string]int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "History")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE urls (id INTEGER PRIMARY KEY, url LONGVARCHAR, title LONGVARCHAR, last_visit_time INTEGER NOT NULL)`)
	require.NoError(t, err)
	for title, ms := range visits {
		native := (ms/1000 + 11644473600) * 1_000_000
		_, err := db.Exec(`INSERT INTO urls (url, title, last_visit_time) VALUES (?, ?, ?)`,
			"https://"+title+".example/", title, native)
		require.NoError(t, err)
	}
	return path
}

// setupService returns a service over a temporary data dir whose only
// browser is Google Chrome backed by the given History files.
func setupService(t *testing.T, paths ...string) *service.Service {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.Path = t.TempDir()

	dbs := discovery.NewDatabases([]string{"Google Chrome", "Firefox"}, map[string][]string{
		"Google Chrome": paths,
	})
	svc, err := service.New(cfg, dbs)
	require.NoError(t, err)
	return svc
}
