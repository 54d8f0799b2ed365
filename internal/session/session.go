// Package session owns the lifecycle of one canonical store: it orchestrates
// an import run (locate, extract, load, stats), carries the resolved browser
// and OS identity into every aggregation and mutation call, and persists the
// last-used browser across process restarts. A Session replaces implicit
// global state; construct one per run and discard it at process end.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runnerr0/retrace/internal/browser"
	"github.com/runnerr0/retrace/internal/extract"
	"github.com/runnerr0/retrace/internal/storage"
)

const (
	stateFile  = "state.yaml"
	storeFile  = "history.db"
	stagingDir = "uploads"

	// defaultCutoffDays bounds an import to the recent past unless the
	// caller overrides the minimum date.
	defaultCutoffDays = 60
)

// ErrNoSession reports that no canonical store from a previous run exists.
var ErrNoSession = errors.New("no imported history found")

// Session is the explicit context for all post-import operations.
type Session struct {
	Store         *storage.Store
	Browser       browser.Browser
	OSDescription string

	// EarliestVisit/LatestVisit and NumDomains are refreshed after each
	// import.
	EarliestVisit string
	LatestVisit   string
	NumDomains    int

	dataDir string
	specs   browser.Specs
}

// state is the small persisted record remembering the last-used browser.
type state struct {
	Browser string `yaml:"browser"`
}

// DefaultDataDir returns the per-user working directory.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "retrace"), nil
}

// DefaultMinDate is the default import cutoff: 60 days before now.
func DefaultMinDate() time.Time {
	return time.Now().AddDate(0, 0, -defaultCutoffDays)
}

// New creates a session rooted at dataDir. No store is opened until Import
// runs; use Resume to reattach to a previous run's store.
func New(dataDir string, specs browser.Specs) *Session {
	return &Session{
		OSDescription: osDescription(),
		dataDir:       dataDir,
		specs:         specs,
	}
}

// Resume reattaches to the canonical store left by a previous run, restoring
// the persisted browser identity. Returns ErrNoSession when no usable store
// exists.
func Resume(dataDir string, specs browser.Specs) (*Session, error) {
	s := New(dataDir, specs)

	storePath := filepath.Join(dataDir, storeFile)
	if _, err := os.Stat(storePath); err != nil {
		return nil, ErrNoSession
	}

	st, err := s.loadState()
	if err != nil {
		return nil, ErrNoSession
	}
	b, err := browser.Parse(st.Browser)
	if err != nil {
		return nil, ErrNoSession
	}
	s.Browser = b

	store, err := storage.Open(storePath)
	if err != nil {
		return nil, fmt.Errorf("reopen canonical store: %w", err)
	}
	s.Store = store

	if err := s.refreshStats(context.Background()); err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

// Import runs one full import: persists the browser choice, recreates the
// canonical store, resolves the artifact path (unless one is supplied),
// extracts, loads, and refreshes the session statistics.
//
// path may be empty to trigger the source locator. minDate zero means the
// default 60-day cutoff. Returns browser.ErrNotFound when no artifact could
// be located (a normal outcome), extract.ErrUnreadable/ErrFormat for source
// failures, and a store error when a canonical write fails.
func (s *Session) Import(ctx context.Context, path string, b browser.Browser, minDate time.Time) error {
	if b == "" {
		st, err := s.loadState()
		if err != nil {
			return fmt.Errorf("no browser selected and no previous choice recorded: %w", err)
		}
		if b, err = browser.Parse(st.Browser); err != nil {
			return err
		}
	} else {
		if err := s.saveState(state{Browser: string(b)}); err != nil {
			return err
		}
	}
	s.Browser = b

	spec, err := s.specs.Get(b)
	if err != nil {
		return err
	}

	if minDate.IsZero() {
		minDate = DefaultMinDate()
	}

	if path == "" {
		path, err = browser.Locate(spec, runtime.GOOS)
		if err != nil {
			return err
		}
	}

	extractor, err := extract.ForBrowser(b, spec, filepath.Join(s.dataDir, stagingDir))
	if err != nil {
		return err
	}
	result, err := extractor.Extract(path, minDate)
	if err != nil {
		return err
	}

	store, err := s.recreateStore()
	if err != nil {
		return err
	}
	s.Store = store

	// Each table commits independently; a failure aborts the import but
	// leaves earlier tables committed. The store is disposable, so the
	// recovery path is simply re-importing.
	for _, table := range result.Tables {
		if err := store.InsertRows(ctx, table.Name, table.Columns, table.Rows); err != nil {
			return fmt.Errorf("load %s: %w", table.Name, err)
		}
	}

	return s.refreshStats(ctx)
}

// recreateStore destroys any previous run's canonical store and opens a
// fresh one. The store is a disposable working copy, never the user's
// original data.
func (s *Session) recreateStore() (*storage.Store, error) {
	if s.Store != nil {
		s.Store.Close()
		s.Store = nil
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	storePath := filepath.Join(s.dataDir, storeFile)
	if err := os.Remove(storePath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove previous canonical store: %w", err)
	}

	return storage.Open(storePath)
}

// refreshStats recomputes the resolved date range and domain count.
func (s *Session) refreshStats(ctx context.Context) error {
	stats, err := s.Store.Stats(ctx)
	if err != nil {
		return err
	}
	s.EarliestVisit = stats.EarliestVisit
	s.LatestVisit = stats.LatestVisit
	s.NumDomains = stats.NumDomains
	return nil
}

// Close releases the canonical store, if open.
func (s *Session) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}

func (s *Session) loadState() (state, error) {
	var st state
	data, err := os.ReadFile(filepath.Join(s.dataDir, stateFile))
	if err != nil {
		return st, err
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parsing state file: %w", err)
	}
	return st, nil
}

func (s *Session) saveState(st state) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, stateFile), data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// osDescription names the host OS for export and status output.
func osDescription() string {
	return runtime.GOOS + " " + runtime.GOARCH
}
