package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/retrace/internal/session"
)

type entryJSON struct {
	URLID      int64  `json:"url_id"`
	Date       string `json:"date"`
	URL        string `json:"url"`
	VisitCount int64  `json:"visit_count"`
}

// Execute implements the go-flags Commander interface for EntriesCommand.
func (c *EntriesCommand) Execute(args []string) error {
	sess, err := resumeSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithSession(sess)
}

// executeWithSession runs the listing against a provided session (for testing).
func (c *EntriesCommand) executeWithSession(sess *session.Session) error {
	entries, err := sess.Store.Entries(context.Background(), c.Sort, c.Filter)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := make([]entryJSON, len(entries))
		for i, e := range entries {
			out[i] = entryJSON{URLID: e.URLID, Date: e.Date, URL: e.URL, VisitCount: e.VisitCount}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(entries) == 0 {
		fmt.Println("No matching entries.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("  %s  %6d  %s\n", e.Date, e.VisitCount, e.URL)
	}
	return nil
}
