package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/retrace/internal/session"
)

type statusJSON struct {
	Version       string `json:"version"`
	Browser       string `json:"browser"`
	OS            string `json:"os"`
	TotalURLs     int64  `json:"total_urls"`
	TotalVisits   int64  `json:"total_visits"`
	EarliestVisit string `json:"earliest_visit,omitempty"`
	LatestVisit   string `json:"latest_visit,omitempty"`
	NumDomains    int    `json:"num_domains"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	sess, err := resumeSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithSession(sess)
}

// executeWithSession runs status against a provided session (for testing).
func (c *StatusCommand) executeWithSession(sess *session.Session) error {
	stats, err := sess.Store.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statusJSON{
			Version:       c.version,
			Browser:       string(sess.Browser),
			OS:            sess.OSDescription,
			TotalURLs:     stats.TotalURLs,
			TotalVisits:   stats.TotalVisits,
			EarliestVisit: stats.EarliestVisit,
			LatestVisit:   stats.LatestVisit,
			NumDomains:    stats.NumDomains,
		})
	}

	fmt.Println("Retrace Status")
	fmt.Println("==============")
	fmt.Printf("Version:     %s\n", c.version)
	fmt.Printf("Browser:     %s\n", sess.Browser)
	fmt.Printf("OS:          %s\n", sess.OSDescription)
	fmt.Printf("URLs:        %d\n", stats.TotalURLs)
	fmt.Printf("Visits:      %d\n", stats.TotalVisits)
	if stats.EarliestVisit != "" {
		fmt.Printf("Date range:  %s - %s\n", stats.EarliestVisit, stats.LatestVisit)
	}
	fmt.Printf("Domains:     %d\n", stats.NumDomains)
	return nil
}
