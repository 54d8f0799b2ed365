package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/retrace/internal/session"
)

type termJSON struct {
	Term    string   `json:"term"`
	IDs     []int64  `json:"ids"`
	Count   int      `json:"count"`
	Domains []string `json:"domains"`
}

// Execute implements the go-flags Commander interface for TermsCommand.
func (c *TermsCommand) Execute(args []string) error {
	sess, err := resumeSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithSession(sess)
}

// executeWithSession runs the extraction against a provided session (for testing).
func (c *TermsCommand) executeWithSession(sess *session.Session) error {
	terms, err := sess.Store.SearchTerms(context.Background(), c.Sort, c.Filter)
	if err != nil {
		return fmt.Errorf("extract search terms: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := make([]termJSON, len(terms))
		for i, t := range terms {
			out[i] = termJSON{Term: t.Term, IDs: t.IDs, Count: t.Count, Domains: t.Domains}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(terms) == 0 {
		fmt.Println("No search terms found.")
		return nil
	}

	for _, t := range terms {
		fmt.Printf("  %-30s %4d  %s\n", t.Term, t.Count, strings.Join(t.Domains, ", "))
	}
	return nil
}
