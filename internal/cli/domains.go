package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/retrace/internal/session"
)

type domainSelectionJSON struct {
	Domain string  `json:"domain"`
	IDs    []int64 `json:"ids"`
	Count  int64   `json:"count"`
}

// Execute implements the go-flags Commander interface for DomainsCommand.
func (c *DomainsCommand) Execute(args []string) error {
	sess, err := resumeSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithSession(sess)
}

// executeWithSession runs the selection against a provided session (for testing).
func (c *DomainsCommand) executeWithSession(sess *session.Session) error {
	selection, err := sess.Store.SelectDomains(context.Background(), c.Sort, c.Filter, !c.Raw)
	if err != nil {
		return fmt.Errorf("select domains: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := make([]domainSelectionJSON, len(selection))
		for i, d := range selection {
			out[i] = domainSelectionJSON{Domain: d.Domain, IDs: d.IDs, Count: d.Count}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(selection) == 0 {
		fmt.Println("No matching domains.")
		return nil
	}

	for _, d := range selection {
		fmt.Printf("  %-40s %6d  (%d urls)\n", d.Domain, d.Count, len(d.IDs))
	}
	return nil
}
