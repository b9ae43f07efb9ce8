package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Browser is the persisted sync cursor of one browser. LastSync is the
// upper bound, in Unix milliseconds, of the last successful read.
type Browser struct {
	Name     string `json:"name"`
	LastSync uint64 `json:"last_sync"`
}

// Browsers is the document stored in the state file.
type Browsers struct {
	Browsers []Browser `json:"browsers"`
}

func (b Browsers) clone() Browsers {
	return Browsers{Browsers: append([]Browser{}, b.Browsers...)}
}

func (b Browsers) index(name string) int {
	for i, br := range b.Browsers {
		if br.Name == name {
			return i
		}
	}
	return -1
}

// BrowserStore persists per-browser sync cursors as JSON. It is safe for
// concurrent use.
type BrowserStore struct {
	path string

	mu    sync.RWMutex
	inner Browsers
}

// NewBrowserStore returns a store backed by dir/file. Nothing is read until
// Init is called.
func NewBrowserStore(dir, file string) *BrowserStore {
	return &BrowserStore{path: filepath.Join(dir, file)}
}

// Path returns the state file location.
func (s *BrowserStore) Path() string { return s.path }

// Init loads the state file, creating it when missing. Every name in
// discovered that is not yet present is added with a zero cursor.
func (s *BrowserStore) Init(discovered []string) error {
	var doc Browsers

	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return fmt.Errorf("reading browser state: %w", err)
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing browser state %s: %w", s.path, err)
		}
	}

	for _, name := range discovered {
		if doc.index(name) < 0 {
			doc.Browsers = append(doc.Browsers, Browser{Name: name})
		}
	}

	return s.Set(doc)
}

// Get returns a copy of the current state.
func (s *BrowserStore) Get() Browsers {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.clone()
}

// Set replaces the state and writes it to disk.
func (s *BrowserStore) Set(doc Browsers) error {
	if doc.Browsers == nil {
		doc.Browsers = []Browser{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = doc.clone()
	return s.save()
}

// LastSync returns the cursor for name, zero when unknown.
func (s *BrowserStore) LastSync(name string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.inner.index(name); i >= 0 {
		return s.inner.Browsers[i].LastSync
	}
	return 0
}

// SetLastSync updates or adds the cursor for name and persists the state.
func (s *BrowserStore) SetLastSync(name string, ms uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.inner.index(name); i >= 0 {
		s.inner.Browsers[i].LastSync = ms
	} else {
		s.inner.Browsers = append(s.inner.Browsers, Browser{Name: name, LastSync: ms})
	}
	return s.save()
}

// save writes the state atomically. Callers hold mu.
func (s *BrowserStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.Marshal(s.inner)
	if err != nil {
		return fmt.Errorf("marshaling browser state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing browser state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing browser state: %w", err)
	}
	return nil
}
