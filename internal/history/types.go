package history

import "fmt"

// Record is one normalized history entry. LastVisited is milliseconds since
// the Unix epoch, UTC, regardless of the source browser.
type Record struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	LastVisited int64  `json:"last_visited"`
}

// ErrorKind classifies a failed read.
type ErrorKind int

const (
	// KindIO covers staging, copying and removing the working copy.
	KindIO ErrorKind = iota + 1
	// KindOpen means the working copy is not a usable database.
	KindOpen
	// KindQuery means a statement failed against an opened connection.
	KindQuery
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindOpen:
		return "open"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Error is returned by Reader.Read for IO, open and query failures.
// A schema mismatch is never an Error.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error on %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
