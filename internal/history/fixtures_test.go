package history

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type visit struct {
	title any
	url   string
	ms    uint64
}

// createDB creates a SQLite file at dir/name, runs stmts and returns its path.
func createDB(t *testing.T, dir, name string, stmts ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

const chromiumSchema = `CREATE TABLE urls (
	id INTEGER PRIMARY KEY,
	url LONGVARCHAR,
	title LONGVARCHAR,
	visit_count INTEGER DEFAULT 0 NOT NULL,
	last_visit_time INTEGER NOT NULL
)`

const firefoxPlacesSchema = `CREATE TABLE moz_places (
	id INTEGER PRIMARY KEY,
	url LONGVARCHAR,
	title LONGVARCHAR
)`

const firefoxVisitsSchema = `CREATE TABLE moz_historyvisits (
	id INTEGER PRIMARY KEY,
	place_id INTEGER,
	visit_date INTEGER
)`

// chromiumDB writes a Chromium-shaped History file. Visit times are given
// in Unix milliseconds and stored as microseconds since 1601.
func chromiumDB(t *testing.T, dir string, visits ...visit) string {
	t.Helper()
	path := createDB(t, dir, "History", chromiumSchema)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	for _, v := range visits {
		native := (int64(v.ms)/1000 + windowsEpochOffset) * 1_000_000
		_, err := db.Exec("INSERT INTO urls (url, title, last_visit_time) VALUES (?, ?, ?)", v.url, v.title, native)
		require.NoError(t, err)
	}
	return path
}

// firefoxDB writes a Firefox-shaped places.sqlite with one place and one
// visit per entry.
func firefoxDB(t *testing.T, dir string, visits ...visit) string {
	t.Helper()
	path := createDB(t, dir, "places.sqlite", firefoxPlacesSchema, firefoxVisitsSchema)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	for i, v := range visits {
		id := i + 1
		_, err := db.Exec("INSERT INTO moz_places (id, url, title) VALUES (?, ?, ?)", id, v.url, v.title)
		require.NoError(t, err)
		_, err = db.Exec("INSERT INTO moz_historyvisits (place_id, visit_date) VALUES (?, ?)", id, int64(v.ms)*1000)
		require.NoError(t, err)
	}
	return path
}

func openFixture(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
