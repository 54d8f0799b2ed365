package extract

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/retrace/internal/browser"
)

// sourceDriver is a sqlite driver with a REGEXP function registered, so the
// BrowserSpec queries can exclude file-scheme urls by pattern. The match is
// anchored semantics-wise by the patterns themselves ('^file:').
const sourceDriver = "sqlite3_source"

func init() {
	sql.Register(sourceDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("regexp", func(pattern, value string) (bool, error) {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return false, err
				}
				return re.MatchString(value), nil
			}, true)
		},
	})
}

// relationalExtractor covers the browser families whose history is a sqlite
// database. The BrowserSpec declares the source queries (with the cutoff
// converted inline to each family's native epoch) and the canonical column
// mapping; the extractor just runs them read-only.
type relationalExtractor struct {
	spec       *browser.Spec
	stagingDir string
}

func (e *relationalExtractor) Extract(path string, minDate time.Time) (*Result, error) {
	return extractRelational(e.spec, e.stagingDir, path, minDate)
}

func extractRelational(spec *browser.Spec, stagingDir, path string, minDate time.Time) (*Result, error) {
	if len(spec.Tables) == 0 {
		return nil, fmt.Errorf("%w: browser %s has no relational mapping", ErrFormat, spec.Name)
	}

	// A running browser keeps some history databases locked; those are
	// staged into the working directory before opening.
	if spec.CopyBeforeOpen && filepath.Dir(path) != stagingDir {
		staged, err := stageCopy(path, stagingDir)
		if err != nil {
			return nil, err
		}
		path = staged
	}

	if err := checkReadable(path); err != nil {
		return nil, err
	}

	db, err := sql.Open(sourceDriver, "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer db.Close()

	cutoff := float64(minDate.Unix())
	result := &Result{}

	for _, table := range spec.Tables {
		rows, err := queryRows(db, table.Query, cutoff, len(table.Columns))
		if err != nil {
			// A schema mismatch is a format failure, never
			// partial success.
			return nil, fmt.Errorf("%w: table %s: %v", ErrFormat, table.Canonical, err)
		}
		result.Tables = append(result.Tables, TableData{
			Name:    table.Canonical,
			Columns: table.Columns,
			Rows:    rows,
		})
	}

	return result, nil
}

// queryRows runs one BrowserSpec query with the cutoff bound to every
// placeholder and scans all rows generically.
func queryRows(db *sql.DB, query string, cutoff float64, width int) ([][]any, error) {
	args := make([]any, strings.Count(query, "?"))
	for i := range args {
		args[i] = cutoff
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values := make([]any, width)
		ptrs := make([]any, width)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

// checkReadable distinguishes a permission/lock failure from a format one.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return f.Close()
}

// stageCopy copies an artifact into the staging directory and returns the
// staged path.
func stageCopy(path, stagingDir string) (string, error) {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer src.Close()

	staged := filepath.Join(stagingDir, filepath.Base(path))
	dst, err := os.Create(staged)
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", filepath.Base(path), err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("stage %s: %w", filepath.Base(path), err)
	}
	return staged, nil
}

// safariExtractor handles Safari's two historical schema variants: the
// relational History.db and the legacy History.plist, detected by file name.
type safariExtractor struct {
	spec       *browser.Spec
	stagingDir string
}

func (e *safariExtractor) Extract(path string, minDate time.Time) (*Result, error) {
	if filepath.Base(path) == "History.plist" {
		return extractPlist(path, minDate)
	}
	return extractRelational(e.spec, e.stagingDir, path, minDate)
}
