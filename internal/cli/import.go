package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/retrace/internal/browser"
	"github.com/runnerr0/retrace/internal/extract"
	"github.com/runnerr0/retrace/internal/session"
)

type importJSON struct {
	Browser       string `json:"browser"`
	EarliestVisit string `json:"earliest_visit,omitempty"`
	LatestVisit   string `json:"latest_visit,omitempty"`
	NumDomains    int    `json:"num_domains"`
}

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	dataDir, err := resolveDataDir(c.globals)
	if err != nil {
		return err
	}
	specs, err := loadSpecs(c.globals)
	if err != nil {
		return err
	}

	sess := session.New(dataDir, specs)
	defer sess.Close()

	return c.executeWithSession(sess)
}

// executeWithSession runs the import against a provided session (for testing).
func (c *ImportCommand) executeWithSession(sess *session.Session) error {
	var b browser.Browser
	if c.Browser != "" {
		var err error
		if b, err = browser.Parse(c.Browser); err != nil {
			return err
		}
	}

	var minDate time.Time
	if c.Days > 0 {
		minDate = time.Now().AddDate(0, 0, -c.Days)
	}

	err := sess.Import(context.Background(), c.File, b, minDate)
	switch {
	case errors.Is(err, browser.ErrNotFound):
		return fmt.Errorf("history not found for %s on this machine; pass the file with --file", sess.Browser)
	case errors.Is(err, extract.ErrUnreadable):
		return fmt.Errorf("history file could not be read: %w", err)
	case err != nil:
		return err
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(importJSON{
			Browser:       string(sess.Browser),
			EarliestVisit: sess.EarliestVisit,
			LatestVisit:   sess.LatestVisit,
			NumDomains:    sess.NumDomains,
		})
	}

	fmt.Printf("Imported %s history\n", sess.Browser)
	if sess.EarliestVisit != "" {
		fmt.Printf("Date range:  %s - %s\n", sess.EarliestVisit, sess.LatestVisit)
	}
	fmt.Printf("Domains:     %d\n", sess.NumDomains)
	return nil
}
