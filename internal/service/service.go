// Package service exposes history extraction to a host application: fetch
// and persist the per-browser sync configuration, and read records for a
// browser within a time window.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/runnerr0/browserhist/internal/config"
	"github.com/runnerr0/browserhist/internal/discovery"
	"github.com/runnerr0/browserhist/internal/history"
	"golang.org/x/sync/errgroup"
)

// Service ties discovery, the sync-cursor store and the history reader
// together. It is safe for concurrent use.
type Service struct {
	reader      *history.Reader
	store       *config.BrowserStore
	dbs         *discovery.Databases
	disabled    map[string]bool
	denylist    []string
	concurrency int
	overlapMs   uint64
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service and reader logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a Service from cfg and a discovery result computed once by the
// caller. It loads or creates the state file, registering every discovered
// browser, and clears leftovers in the scratch area.
func New(cfg *config.Config, dbs *discovery.Databases, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}

	s := &Service{
		dbs:         dbs,
		disabled:    make(map[string]bool),
		denylist:    cfg.Denylist(),
		concurrency: cfg.Sync.Concurrency,
		overlapMs:   cfg.Sync.OverlapMs,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	if s.overlapMs < config.MinOverlapMs {
		s.overlapMs = config.MinOverlapMs
	}
	for _, name := range cfg.Discovery.Disabled {
		s.disabled[name] = true
	}

	s.reader = history.NewReader(filepath.Join(dataDir, cfg.Storage.ScratchDir), history.WithLogger(s.logger))
	if err := s.reader.CleanScratch(); err != nil {
		return nil, fmt.Errorf("prepare scratch dir: %w", err)
	}

	s.store = config.NewBrowserStore(dataDir, cfg.Storage.StateFile)
	if err := s.store.Init(s.Browsers()); err != nil {
		return nil, fmt.Errorf("init browser state: %w", err)
	}

	return s, nil
}

// Browsers returns the enabled browsers known to discovery.
func (s *Service) Browsers() []string {
	var names []string
	for _, n := range s.dbs.Names() {
		if !s.disabled[n] {
			names = append(names, n)
		}
	}
	return names
}

// Paths returns the discovered database files for name.
func (s *Service) Paths(name string) []string {
	if s.disabled[name] {
		return nil
	}
	return s.dbs.Paths(name)
}

// GetConfig returns the current sync configuration.
func (s *Service) GetConfig() config.Browsers {
	return s.store.Get()
}

// SetConfig replaces and persists the sync configuration.
func (s *Service) SetConfig(doc config.Browsers) error {
	if err := s.store.Set(doc); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// ReadHistory returns the records of every profile of name visited strictly
// between start and end (Unix milliseconds). Unreadable profiles are logged
// and skipped.
func (s *Service) ReadHistory(ctx context.Context, name string, start, end uint64) []history.Record {
	records := s.reader.ReadAll(ctx, name, s.Paths(name), start, end)
	return s.filter(records)
}

// SyncResult reports one browser of a Sync run.
type SyncResult struct {
	Browser  string           `json:"browser"`
	Records  []history.Record `json:"records"`
	Failed   int              `json:"failed_profiles"`
	Advanced bool             `json:"advanced"`
}

// Sync reads every enabled browser from its last sync marker, minus the
// overlap, up to now and advances the marker of each browser whose profiles
// were all readable. Browsers are read concurrently. Records in the overlap
// are returned again by the next run.
func (s *Service) Sync(ctx context.Context, now uint64) ([]SyncResult, error) {
	names := s.Browsers()
	results := make([]SyncResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			start := s.store.LastSync(name)
			if start > s.overlapMs {
				start -= s.overlapMs
			} else {
				start = 0
			}

			res := SyncResult{Browser: name, Records: []history.Record{}}
			for _, p := range s.Paths(name) {
				records, err := s.reader.Read(gctx, name, p, start, now)
				if err != nil {
					s.logger.Warn("skipping unreadable history database", "browser", name, "path", p, "error", err)
					res.Failed++
					continue
				}
				res.Records = append(res.Records, records...)
			}
			res.Records = s.filter(res.Records)
			results[i] = res
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs []error
	for i := range results {
		if results[i].Failed > 0 {
			continue
		}
		if err := s.store.SetLastSync(results[i].Browser, now); err != nil {
			errs = append(errs, fmt.Errorf("advance %s: %w", results[i].Browser, err))
			continue
		}
		results[i].Advanced = true
	}
	return results, errors.Join(errs...)
}

// filter drops records whose host is on the denylist or one of its
// subdomains.
func (s *Service) filter(records []history.Record) []history.Record {
	if len(s.denylist) == 0 {
		return records
	}

	kept := records[:0]
	for _, r := range records {
		if !denied(r.URL, s.denylist) {
			kept = append(kept, r)
		}
	}
	return kept
}

func denied(rawURL string, denylist []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, d := range denylist {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
