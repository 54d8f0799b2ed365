package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/retrace/internal/session"
	"github.com/runnerr0/retrace/internal/storage"
)

type visitsJSON struct {
	Total   int64             `json:"total"`
	Domains []domainCountJSON `json:"domains"`
}

type domainCountJSON struct {
	Domain  string  `json:"domain"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// Execute implements the go-flags Commander interface for VisitsCommand.
func (c *VisitsCommand) Execute(args []string) error {
	sess, err := resumeSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithSession(sess)
}

// executeWithSession runs the aggregation against a provided session (for testing).
func (c *VisitsCommand) executeWithSession(sess *session.Session) error {
	q := storage.VisitQuery{Limit: c.Limit, Ascending: c.Bottom}

	switch {
	case c.Date != "" && (c.From != "" || c.To != ""):
		return fmt.Errorf("--date and --from/--to are mutually exclusive")
	case c.Date != "":
		day, err := parseDay(c.Date)
		if err != nil {
			return err
		}
		q.Start = day
		q.End = day.AddDate(0, 0, 1)
	case c.From != "" || c.To != "":
		if c.From == "" || c.To == "" {
			return fmt.Errorf("--from and --to must be given together")
		}
		start, err := parseDay(c.From)
		if err != nil {
			return err
		}
		end, err := parseDay(c.To)
		if err != nil {
			return err
		}
		q.Start = start
		q.End = end.AddDate(0, 0, 1)
	}

	domains, total, err := sess.Store.Visits(context.Background(), q)
	if err != nil {
		return fmt.Errorf("aggregate visits: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := visitsJSON{Total: total, Domains: make([]domainCountJSON, len(domains))}
		for i, d := range domains {
			out.Domains[i] = domainCountJSON{Domain: d.Domain, Count: d.Count, Percent: d.Percent}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(domains) == 0 {
		fmt.Println("No visits in the selected range.")
		return nil
	}

	label := "Top"
	if c.Bottom {
		label = "Least"
	}
	fmt.Printf("%s %d visited domains (n=%d)\n\n", label, len(domains), total)
	for _, d := range domains {
		fmt.Printf("  %-40s %6d  %5.2f%%\n", d.Domain, d.Count, d.Percent)
	}
	return nil
}
