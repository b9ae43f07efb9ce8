package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// sidecarSuffixes are files SQLite may create next to an opened database.
var sidecarSuffixes = []string{"", "-wal", "-shm", "-journal"}

const workingCopyExt = ".sqlite"

// DefaultStaleAfter is how old a working copy must be before CleanScratch
// removes it. Younger copies may belong to a read in another process.
const DefaultStaleAfter = time.Hour

// Reader extracts history records from browser databases. Each read works
// on a private copy of the source file inside scratchDir so the live
// database is never opened in place.
type Reader struct {
	scratchDir string
	staleAfter time.Duration
	logger     *slog.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the logger used for skipped profiles and cleanup failures.
func WithLogger(l *slog.Logger) ReaderOption {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStaleAfter sets the minimum age of working copies removed by
// CleanScratch.
func WithStaleAfter(d time.Duration) ReaderOption {
	return func(r *Reader) {
		if d >= 0 {
			r.staleAfter = d
		}
	}
}

// NewReader creates a Reader that stages working copies under scratchDir.
func NewReader(scratchDir string, opts ...ReaderOption) *Reader {
	r := &Reader{scratchDir: scratchDir, staleAfter: DefaultStaleAfter, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ScratchDir returns the directory working copies are staged in.
func (r *Reader) ScratchDir() string { return r.scratchDir }

// CleanScratch creates the scratch directory if needed and removes working
// copies left behind by earlier runs that are older than the stale age.
// Anything else in the directory is left alone.
func (r *Reader) CleanScratch() error {
	if err := os.MkdirAll(r.scratchDir, 0o755); err != nil {
		return &Error{Kind: KindIO, Path: r.scratchDir, Err: err}
	}
	entries, err := os.ReadDir(r.scratchDir)
	if err != nil {
		return &Error{Kind: KindIO, Path: r.scratchDir, Err: err}
	}

	cutoff := time.Now().Add(-r.staleAfter)
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() || !isWorkingCopy(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(r.scratchDir, e.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		r.logger.Debug("removed stale working copy", "path", path)
	}
	if err := errors.Join(errs...); err != nil {
		return &Error{Kind: KindIO, Path: r.scratchDir, Err: err}
	}
	return nil
}

// isWorkingCopy reports whether name is a file stage could have produced:
// <uuid>.sqlite or one of its SQLite sidecars.
func isWorkingCopy(name string) bool {
	for _, suffix := range sidecarSuffixes[1:] {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			name = trimmed
			break
		}
	}
	id, ok := strings.CutSuffix(name, workingCopyExt)
	if !ok {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Read returns the records of browser name stored in sourcePath whose visit
// time lies strictly between start and end (Unix milliseconds). A file that
// does not match the browser's schema yields an empty slice and no error.
func (r *Reader) Read(ctx context.Context, name, sourcePath string, start, end uint64) (records []Record, err error) {
	workPath, err := r.stage(sourcePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := removeWorkingCopy(workPath); rmErr != nil {
			r.logger.Warn("remove working copy", "path", workPath, "error", rmErr)
			if err == nil {
				records, err = nil, &Error{Kind: KindIO, Path: workPath, Err: rmErr}
			}
		}
	}()

	db, err := openDatabase(ctx, workPath)
	if err != nil {
		return nil, &Error{Kind: KindOpen, Path: sourcePath, Err: err}
	}
	defer db.Close()

	strategy := Resolve(name)
	valid, err := strategy.Validate(ctx, db)
	if err != nil {
		return nil, &Error{Kind: KindQuery, Path: sourcePath, Err: err}
	}
	if !valid {
		r.logger.Debug("schema mismatch, skipping", "browser", name, "family", strategy.Family(), "path", sourcePath)
		return []Record{}, nil
	}

	records, err = strategy.Extract(ctx, db, start, end)
	if err != nil {
		return nil, &Error{Kind: KindQuery, Path: sourcePath, Err: err}
	}
	r.logger.Debug("read history", "browser", name, "path", sourcePath, "records", len(records))
	return records, nil
}

// ReadAll reads every path for browser name and concatenates the results.
// A path that fails is logged and skipped; the remaining paths are still
// read. No paths means no records.
func (r *Reader) ReadAll(ctx context.Context, name string, paths []string, start, end uint64) []Record {
	all := []Record{}
	for _, p := range paths {
		records, err := r.Read(ctx, name, p, start, end)
		if err != nil {
			r.logger.Warn("skipping unreadable history database", "browser", name, "path", p, "error", err)
			continue
		}
		all = append(all, records...)
	}
	return all
}

// stage copies sourcePath to a uniquely named file in the scratch directory.
func (r *Reader) stage(sourcePath string) (string, error) {
	if err := os.MkdirAll(r.scratchDir, 0o755); err != nil {
		return "", &Error{Kind: KindIO, Path: r.scratchDir, Err: fmt.Errorf("create scratch dir: %w", err)}
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return "", &Error{Kind: KindIO, Path: sourcePath, Err: err}
	}
	defer src.Close()

	workPath := filepath.Join(r.scratchDir, uuid.NewString()+workingCopyExt)
	dst, err := os.OpenFile(workPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", &Error{Kind: KindIO, Path: workPath, Err: err}
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(workPath)
		return "", &Error{Kind: KindIO, Path: sourcePath, Err: fmt.Errorf("copy to working file: %w", err)}
	}
	if err := dst.Close(); err != nil {
		os.Remove(workPath)
		return "", &Error{Kind: KindIO, Path: workPath, Err: err}
	}
	return workPath, nil
}

// openDatabase opens path and forces SQLite to read its header, so a file
// that is not a database fails here rather than during validation.
func openDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	var version int64
	if err := db.QueryRowContext(ctx, "PRAGMA schema_version").Scan(&version); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func removeWorkingCopy(path string) error {
	var errs []error
	for _, suffix := range sidecarSuffixes {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
