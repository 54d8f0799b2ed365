package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/runnerr0/retrace/internal/session"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	sess, err := resumeSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	return c.executeWithSession(sess)
}

// executeWithSession runs the export against a provided session (for testing).
func (c *ExportCommand) executeWithSession(sess *session.Session) error {
	var w io.Writer = os.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	count, err := sess.Store.Export(context.Background(), w, string(sess.Browser), sess.OSDescription)
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("nothing to export; run 'retrace import' first")
	}

	if c.Out != "" {
		fmt.Printf("Exported %d records to %s\n", count, c.Out)
	}
	return nil
}
