// Package extract turns browser-native history artifacts into normalized
// record streams ready for the canonical store. One extractor variant exists
// per supported browser family; adding a browser means adding a variant, not
// editing a dispatch chain.
package extract

import (
	"errors"
	"fmt"
	"time"

	"github.com/runnerr0/retrace/internal/browser"
)

var (
	// ErrUnreadable reports a permission or lock failure with no usable
	// fallback. The artifact exists but cannot be read.
	ErrUnreadable = errors.New("history artifact not readable")

	// ErrFormat reports a source that does not match the expected
	// schema or structure. Extraction never returns partial data.
	ErrFormat = errors.New("unexpected history artifact format")
)

// TableData is one normalized record stream destined for a canonical table.
// Columns is the canonical column mapping for Rows, in value order.
type TableData struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Result holds everything one extraction produced. Extractors apply the
// minimum-date cutoff themselves and exclude non-navigable (file-scheme)
// sources from the record streams.
type Result struct {
	Tables []TableData
}

// Extractor reads one history artifact and produces normalized records.
type Extractor interface {
	Extract(path string, minDate time.Time) (*Result, error)
}

// ForBrowser returns the extractor variant for a browser family.
// stagingDir is the working directory used for copies of locked artifacts.
func ForBrowser(b browser.Browser, spec *browser.Spec, stagingDir string) (Extractor, error) {
	switch b {
	case browser.Chrome, browser.Firefox:
		return &relationalExtractor{spec: spec, stagingDir: stagingDir}, nil
	case browser.Safari:
		// Two historical schema variants, detected by file name.
		return &safariExtractor{spec: spec, stagingDir: stagingDir}, nil
	case browser.IE11:
		return &webcacheExtractor{spec: spec, stagingDir: stagingDir}, nil
	default:
		return nil, fmt.Errorf("no extractor for browser %q", b)
	}
}
