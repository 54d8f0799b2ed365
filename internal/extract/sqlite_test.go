package extract

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/retrace/internal/browser"
)

// chromeMicros encodes a wall-clock time in Chrome's native epoch,
// microseconds since 1601-01-01.
func chromeMicros(t time.Time) int64 {
	return (t.Unix() + 11644473600) * 1_000_000
}

// writeChromeFixture builds a minimal Chrome History database with three
// urls: one with a recent visit, one whose only visit predates any sane
// cutoff, and a file-scheme url with a recent visit.
func writeChromeFixture(t *testing.T, dir string, recent, old time.Time) string {
	t.Helper()

	path := filepath.Join(dir, "History")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE urls (
			id INTEGER PRIMARY KEY,
			url TEXT,
			title TEXT,
			visit_count INTEGER,
			typed INTEGER,
			last_visit_date INTEGER
		);
		CREATE TABLE visits (
			id INTEGER PRIMARY KEY,
			url INTEGER,
			visit_time INTEGER,
			transition INTEGER,
			from_visit INTEGER
		);`)
	require.NoError(t, err)

	insertURL := func(id int64, url, title string, visits int64, last time.Time) {
		_, err := db.Exec(
			"INSERT INTO urls VALUES (?, ?, ?, ?, 0, ?)",
			id, url, title, visits, chromeMicros(last))
		require.NoError(t, err)
	}
	insertVisit := func(id, urlID int64, at time.Time) {
		_, err := db.Exec(
			"INSERT INTO visits VALUES (?, ?, ?, 1, 0)",
			id, urlID, chromeMicros(at))
		require.NoError(t, err)
	}

	insertURL(1, "https://example.com/recent", "Recent", 3, recent)
	insertURL(2, "https://example.com/stale", "Stale", 1, old)
	insertURL(3, "file:///home/user/notes.html", "Notes", 1, recent)

	insertVisit(10, 1, recent)
	insertVisit(11, 2, old)
	insertVisit(12, 3, recent)

	return path
}

func TestExtractRelational_ChromeCutoffAndFileExclusion(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	recent := now.AddDate(0, 0, -10)
	old := now.AddDate(0, 0, -90)
	minDate := now.AddDate(0, 0, -60)

	dir := t.TempDir()
	path := writeChromeFixture(t, dir, recent, old)

	spec := browser.DefaultSpecs()[browser.Chrome]
	spec.CopyBeforeOpen = false

	result, err := extractRelational(spec, dir, path, minDate)
	require.NoError(t, err)
	require.Len(t, result.Tables, 2)

	urls := result.Tables[0]
	assert.Equal(t, "urls", urls.Name)
	require.Len(t, urls.Rows, 1, "stale and file-scheme urls are excluded")
	assert.Equal(t, int64(1), urls.Rows[0][0])
	assert.Equal(t, "https://example.com/recent", urls.Rows[0][1])
	assert.InDelta(t, float64(recent.Unix()), urls.Rows[0][5].(float64), 1.0,
		"timestamps arrive normalized to unix seconds")

	// The visit listing applies the cutoff but not the scheme filter, so
	// the file-scheme visit survives alongside the recent one.
	visits := result.Tables[1]
	assert.Equal(t, "visits", visits.Name)
	require.Len(t, visits.Rows, 2)
	assert.Equal(t, int64(10), visits.Rows[0][0])
	assert.Equal(t, int64(1), visits.Rows[0][1])
	assert.InDelta(t, float64(recent.Unix()), visits.Rows[0][2].(float64), 1.0)
	assert.Equal(t, int64(12), visits.Rows[1][0])
}

func TestExtractRelational_StagesLockedDatabases(t *testing.T) {
	now := time.Now().UTC()
	srcDir := t.TempDir()
	stagingDir := filepath.Join(t.TempDir(), "uploads")
	path := writeChromeFixture(t, srcDir, now.AddDate(0, 0, -1), now.AddDate(0, 0, -90))

	spec := browser.DefaultSpecs()[browser.Chrome]
	require.True(t, spec.CopyBeforeOpen)

	result, err := extractRelational(spec, stagingDir, path, now.AddDate(0, 0, -60))
	require.NoError(t, err)
	require.Len(t, result.Tables, 2)

	_, err = os.Stat(filepath.Join(stagingDir, "History"))
	assert.NoError(t, err, "source database copied into the staging directory")
}

func TestExtractRelational_MissingFile(t *testing.T) {
	spec := browser.DefaultSpecs()[browser.Chrome]
	spec.CopyBeforeOpen = false

	_, err := extractRelational(spec, t.TempDir(),
		filepath.Join(t.TempDir(), "History"), time.Now())
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestExtractRelational_NoRelationalMapping(t *testing.T) {
	spec := browser.DefaultSpecs()[browser.IE11]

	_, err := extractRelational(spec, t.TempDir(), "WebCacheV01.dat", time.Now())
	assert.ErrorIs(t, err, ErrFormat)
}

func TestForBrowser_CoversEveryFamily(t *testing.T) {
	specs := browser.DefaultSpecs()
	for _, b := range browser.All() {
		spec := specs[b]
		ex, err := ForBrowser(b, spec, t.TempDir())
		require.NoError(t, err, b)
		assert.NotNil(t, ex, b)
	}
}
