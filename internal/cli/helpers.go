package cli

import (
	"fmt"
	"time"

	"github.com/runnerr0/retrace/internal/browser"
	"github.com/runnerr0/retrace/internal/session"
)

// dayFormat is the accepted date-filter input form.
const dayFormat = "2006-01-02"

// resolveDataDir returns the --data-dir override or the per-user default.
func resolveDataDir(globals *GlobalFlags) (string, error) {
	if globals != nil && globals.DataDir != "" {
		return globals.DataDir, nil
	}
	return session.DefaultDataDir()
}

// loadSpecs loads the browser specs, honoring the --specs override file.
func loadSpecs(globals *GlobalFlags) (browser.Specs, error) {
	path := ""
	if globals != nil {
		path = globals.Specs
	}
	return browser.LoadOrDefault(path)
}

// resumeSession reattaches to the canonical store from a previous import.
func resumeSession(globals *GlobalFlags) (*session.Session, error) {
	dataDir, err := resolveDataDir(globals)
	if err != nil {
		return nil, err
	}
	specs, err := loadSpecs(globals)
	if err != nil {
		return nil, err
	}
	sess, err := session.Resume(dataDir, specs)
	if err == session.ErrNoSession {
		return nil, fmt.Errorf("no imported history found; run 'retrace import' first")
	}
	return sess, err
}

// parseDay parses a YYYY-MM-DD value in local time.
func parseDay(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dayFormat, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}
