package history

import (
	"context"
	"database/sql"
	"fmt"
)

// Family is a group of browsers sharing one database schema and timestamp
// encoding.
type Family int

const (
	// Fallback handles unrecognized browsers: never valid, never queried.
	Fallback Family = iota
	Chromium
	Firefox
)

func (f Family) String() string {
	switch f {
	case Chromium:
		return "chromium"
	case Firefox:
		return "firefox"
	default:
		return "fallback"
	}
}

// families maps browser display names to their family. Names are matched
// exactly and case-sensitively.
var families = map[string]Family{
	"Google Chrome":  Chromium,
	"Microsoft Edge": Chromium,
	"Arc":            Chromium,
	"Firefox":        Firefox,
}

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// catalogCheck counts sqlite_master rows returned by query and accepts the
// file when the count equals want exactly.
type catalogCheck struct {
	query string
	want  int
}

func (c catalogCheck) matches(n int) bool { return n == c.want }

// family describes how one Family is validated and read.
type family struct {
	check    catalogCheck
	query    string
	toNative func(ms uint64) int64
}

const chromiumCatalog = `
	SELECT name
	FROM sqlite_master
	WHERE type = 'table' AND name = 'urls'
`

const chromiumQuery = `
	SELECT title,
	       url,
	       (last_visit_time / 1000000 - 11644473600) * 1000 AS last_visited
	FROM urls
	WHERE last_visit_time > ? AND last_visit_time < ?
`

// The missing parentheses are deliberate: the type filter binds only to
// moz_places, matching the validator already deployed against real
// profiles.
const firefoxCatalog = `
	SELECT name
	FROM sqlite_master
	WHERE type = 'table' AND name = 'moz_places' OR name = 'moz_historyvisits'
`

const firefoxQuery = `
	SELECT ifnull(p.title, '') AS title,
	       p.url,
	       h.visit_date / 1000 AS last_visited
	FROM moz_places p, moz_historyvisits h
	WHERE p.id = h.place_id AND h.visit_date > ? AND h.visit_date < ?
`

var familyTable = map[Family]family{
	Chromium: {
		check:    catalogCheck{query: chromiumCatalog, want: 1},
		query:    chromiumQuery,
		toNative: ChromiumToNative,
	},
	Firefox: {
		check:    catalogCheck{query: firefoxCatalog, want: 2},
		query:    firefoxQuery,
		toNative: FirefoxToNative,
	},
}

// Strategy is the stateless handling policy for one browser family.
type Strategy struct {
	family Family
}

// Resolve returns the strategy for a browser display name. Unknown names
// resolve to the Fallback strategy.
func Resolve(name string) Strategy {
	return Strategy{family: families[name]}
}

// Family reports which family the strategy handles.
func (s Strategy) Family() Family { return s.family }

// Validate reports whether the database behind q has the table layout this
// strategy expects. Failing to inspect the catalog is an error, not false.
func (s Strategy) Validate(ctx context.Context, q Querier) (bool, error) {
	f, ok := familyTable[s.family]
	if !ok {
		return false, nil
	}

	n, err := countRows(ctx, q, f.check.query)
	if err != nil {
		return false, fmt.Errorf("inspect catalog: %w", err)
	}
	return f.check.matches(n), nil
}

// Extract returns the visits strictly between start and end, both in Unix
// milliseconds. The caller must have validated the schema first.
func (s Strategy) Extract(ctx context.Context, q Querier, start, end uint64) ([]Record, error) {
	f, ok := familyTable[s.family]
	if !ok {
		return []Record{}, nil
	}

	rows, err := q.QueryContext(ctx, f.query, f.toNative(start), f.toNative(end))
	if err != nil {
		return nil, fmt.Errorf("query %s history: %w", s.family, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var title, url sql.NullString
		var r Record
		if err := rows.Scan(&title, &url, &r.LastVisited); err != nil {
			return nil, fmt.Errorf("scan %s record: %w", s.family, err)
		}
		r.Title = title.String
		r.URL = url.String
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s records: %w", s.family, err)
	}
	return records, nil
}

func countRows(ctx context.Context, q Querier, query string) (int, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}
