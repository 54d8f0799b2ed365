package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/retrace/internal/session"
	"github.com/runnerr0/retrace/internal/storage"
)

type anonymizeJSON struct {
	Kind     string `json:"kind"`
	Selected int    `json:"selected"`
	Mutated  int    `json:"mutated"`
}

// Execute implements the go-flags Commander interface for AnonymizeCommand.
func (c *AnonymizeCommand) Execute(args []string) error {
	sess, err := resumeSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithSession(sess)
}

// executeWithSession runs the mutation against a provided session (for testing).
func (c *AnonymizeCommand) executeWithSession(sess *session.Session) error {
	kind, err := storage.ParseKind(c.Kind)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ids, err := c.resolveIDs(ctx, sess)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("nothing selected; pass --domain, --term, or --id")
	}

	mutated, err := sess.Store.Anonymize(ctx, kind, ids)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(anonymizeJSON{Kind: c.Kind, Selected: len(ids), Mutated: mutated})
	}

	fmt.Printf("Anonymized %d of %d selected urls (%s)\n", mutated, len(ids), c.Kind)
	return nil
}

// resolveIDs expands the selection keys into contributing url identifiers:
// stemmed domains through the domain selection, search terms through the
// term extraction, and explicit ids verbatim.
func (c *AnonymizeCommand) resolveIDs(ctx context.Context, sess *session.Session) ([]int64, error) {
	var ids []int64

	if len(c.Domains) > 0 {
		selection, err := sess.Store.SelectDomains(ctx, storage.SortDomains, "", true)
		if err != nil {
			return nil, fmt.Errorf("select domains: %w", err)
		}
		byDomain := make(map[string][]int64, len(selection))
		for _, d := range selection {
			byDomain[d.Domain] = d.IDs
		}
		for _, domain := range c.Domains {
			matched, ok := byDomain[domain]
			if !ok {
				return nil, fmt.Errorf("domain %q not found in imported history", domain)
			}
			ids = append(ids, matched...)
		}
	}

	if len(c.Terms) > 0 {
		terms, err := sess.Store.SearchTerms(ctx, storage.SortKeywords, "")
		if err != nil {
			return nil, fmt.Errorf("extract search terms: %w", err)
		}
		byTerm := make(map[string][]int64, len(terms))
		for _, t := range terms {
			byTerm[t.Term] = t.IDs
		}
		for _, term := range c.Terms {
			matched, ok := byTerm[term]
			if !ok {
				return nil, fmt.Errorf("search term %q not found in imported history", term)
			}
			ids = append(ids, matched...)
		}
	}

	ids = append(ids, c.IDs...)
	return ids, nil
}
