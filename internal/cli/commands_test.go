package cli

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/runnerr0/browserhist/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- parseDuration tests ---

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"24h", 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"30m", 30 * time.Minute},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "d", "7x", "abc", "-1d"} {
		_, err := parseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,234", formatNumber(1234))
	assert.Equal(t, "123,456", formatNumber(123456))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}

// --- read ---

func TestReadWindow(t *testing.T) {
	now := time.UnixMilli(1713836157169)

	c := &ReadCommand{Start: 100, End: 200}
	start, end, err := c.window(now)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), start)
	assert.Equal(t, uint64(200), end)

	c = &ReadCommand{Start: 100}
	_, end, err = c.window(now)
	require.NoError(t, err)
	assert.Equal(t, uint64(1713836157169), end)

	c = &ReadCommand{Start: 100, End: 200, Since: "1h"}
	start, end, err = c.window(now)
	require.NoError(t, err)
	assert.Equal(t, uint64(1713836157169-3600_000), start)
	assert.Equal(t, uint64(1713836157169), end)
}

func TestReadHuman(t *testing.T) {
	svc := setupService(t, chromeHistory(t, map[string]int64{"one": 1000, "two": 2000, "three": 3000}))
	cmd := &ReadCommand{Browser: "Google Chrome", globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, 1500, 3500))
	})

	assert.Contains(t, output, "Found 1 record for Google Chrome")
	assert.Contains(t, output, "1. two")
	assert.Contains(t, output, "https://two.example/")
	assert.NotContains(t, output, "three")
}

func TestReadJSON(t *testing.T) {
	svc := setupService(t, chromeHistory(t, map[string]int64{"one": 1000, "two": 2000}))
	cmd := &ReadCommand{Browser: "Google Chrome", globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, 0, 10_000))
	})

	var out struct {
		Browser string `json:"browser"`
		Count   int    `json:"count"`
		Records []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			LastVisited int64  `json:"last_visited"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, "Google Chrome", out.Browser)
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Records, 2)
	for _, r := range out.Records {
		assert.Contains(t, []int64{1000, 2000}, r.LastVisited)
	}
}

func TestReadLimit(t *testing.T) {
	svc := setupService(t, chromeHistory(t, map[string]int64{"a": 1000, "b": 2000, "c": 3000}))
	cmd := &ReadCommand{Browser: "Google Chrome", Limit: 2, globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, 0, 10_000))
	})
	assert.Contains(t, output, `"count": 2`)
}

func TestReadNoRecords(t *testing.T) {
	svc := setupService(t)
	cmd := &ReadCommand{Browser: "Firefox", globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, 0, 10_000))
	})
	assert.Contains(t, output, "No history found for Firefox")
}

func TestReadJSONEmptyRecordsArray(t *testing.T) {
	svc := setupService(t)
	cmd := &ReadCommand{Browser: "Safari", globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, 0, 10_000))
	})
	assert.Contains(t, output, `"records": []`)
}

// --- browsers ---

func TestBrowsersHuman(t *testing.T) {
	path := chromeHistory(t, nil)
	svc := setupService(t, path)
	cmd := &BrowsersCommand{Paths: true, globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc))
	})

	assert.Contains(t, output, "BROWSER")
	assert.Contains(t, output, "Google Chrome")
	assert.Contains(t, output, "chromium")
	assert.Contains(t, output, "Firefox")
	assert.Contains(t, output, "never")
	assert.Contains(t, output, path)
}

func TestBrowsersJSON(t *testing.T) {
	svc := setupService(t, chromeHistory(t, nil))
	require.NoError(t, svc.SetConfig(config.Browsers{Browsers: []config.Browser{
		{Name: "Google Chrome", LastSync: 1713744000000},
		{Name: "Firefox"},
	}}))
	cmd := &BrowsersCommand{globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc))
	})

	var out []browserJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	require.Len(t, out, 2)
	assert.Equal(t, browserJSON{Name: "Google Chrome", Family: "chromium", Profiles: 1, LastSync: 1713744000000}, out[0])
	assert.Equal(t, browserJSON{Name: "Firefox", Family: "firefox"}, out[1])
}

// --- get-config / set-config ---

func TestGetConfigPrintsJSON(t *testing.T) {
	svc := setupService(t)
	cmd := &GetConfigCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc))
	})
	assert.JSONEq(t, `{"browsers":[{"name":"Google Chrome","last_sync":0},{"name":"Firefox","last_sync":0}]}`, output)
}

func TestSetConfig(t *testing.T) {
	svc := setupService(t)
	cmd := &SetConfigCommand{File: "-", globals: &GlobalFlags{}}
	doc := `{"browsers":[{"name":"Firefox","last_sync":1713836157169}]}`

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, strings.NewReader(doc)))
	})

	assert.Contains(t, output, "Saved sync configuration for 1 browsers.")
	assert.Equal(t, []config.Browser{{Name: "Firefox", LastSync: 1713836157169}}, svc.GetConfig().Browsers)
}

func TestSetConfigRejectsInvalidJSON(t *testing.T) {
	svc := setupService(t)
	cmd := &SetConfigCommand{File: "-", globals: &GlobalFlags{}}

	err := cmd.executeWithService(svc, strings.NewReader(`{"browsers": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config document")

	err = cmd.executeWithService(svc, strings.NewReader(`{"browser": []}`))
	require.Error(t, err)
}

// --- sync ---

func TestSyncHuman(t *testing.T) {
	svc := setupService(t, chromeHistory(t, map[string]int64{"a": 1000, "b": 2000}))
	cmd := &SyncCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, 10_000))
	})

	assert.Contains(t, output, "Google Chrome")
	assert.Contains(t, output, "Synced 2 records from 2 browsers.")
	for _, b := range svc.GetConfig().Browsers {
		assert.Equal(t, uint64(10_000), b.LastSync, b.Name)
	}
}

func TestSyncJSON(t *testing.T) {
	svc := setupService(t, chromeHistory(t, map[string]int64{"a": 1000}))
	cmd := &SyncCommand{globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, 10_000))
	})

	var out []syncBrowserJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	require.Len(t, out, 2)
	assert.Equal(t, syncBrowserJSON{Browser: "Google Chrome", Records: 1, Advanced: true}, out[0])
	assert.Equal(t, syncBrowserJSON{Browser: "Firefox", Records: 0, Advanced: true}, out[1])
}
