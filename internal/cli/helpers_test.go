package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/retrace/internal/browser"
	"github.com/runnerr0/retrace/internal/session"
	"github.com/runnerr0/retrace/internal/storage"
)

// captureOutput redirects stdout for the duration of fn and returns what was
// written.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

// newTestSession builds a session over a seeded canonical store in a temp
// directory.
func newTestSession(t *testing.T) *session.Session {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	now := float64(time.Now().Unix())

	urlCols := []string{"id", "url", "title", "visit_count", "typed", "last_visit_date"}
	require.NoError(t, store.InsertRows(ctx, "urls", urlCols, [][]any{
		{int64(1), "https://www.example.com/a", "Example A", int64(3), int64(0), now},
		{int64(2), "https://other.org/b", "Other B", int64(1), int64(0), now},
		{int64(3), "https://search.example.com/?q=golang", "Search", int64(1), int64(0), now},
	}))

	visitCols := []string{"id", "url_id", "visit_date"}
	require.NoError(t, store.InsertRows(ctx, "visits", visitCols, [][]any{
		{int64(10), int64(1), now - 120},
		{int64(11), int64(1), now - 60},
		{int64(12), int64(2), now - 30},
		{int64(13), int64(3), now},
	}))

	return &session.Session{
		Store:         store,
		Browser:       browser.Chrome,
		OSDescription: "linux amd64",
	}
}
