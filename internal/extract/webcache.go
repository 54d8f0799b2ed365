package extract

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Velocidex/ordereddict"
	"www.velocidex.com/golang/go-ese/parser"

	"github.com/runnerr0/retrace/internal/browser"
)

// urlTokenRe recovers the embedded url from a WebCache record by stripping
// the leading "<flags>@" prefix token.
var urlTokenRe = regexp.MustCompile(`@(http[\w:_\-/.]+)`)

// webcacheExtractor reads the IE11/Edge ESE database (WebCacheVxx.dat). The
// artifact is usually locked by the running process, so it is staged through
// a volume snapshot first, with an already-staged copy as fallback.
type webcacheExtractor struct {
	spec       *browser.Spec
	stagingDir string
}

func (e *webcacheExtractor) Extract(path string, minDate time.Time) (*Result, error) {
	staged, err := stageLocked(path, e.stagingDir, e.spec.FileNames)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(staged)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	ese, err := parser.NewESEContext(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	catalog, err := parser.ReadCatalog(ese)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	// The Containers table indexes every logical store in the database;
	// only the History containers hold navigation records.
	var containerIDs []int64
	err = catalog.DumpTable("Containers", func(row *ordereddict.Dict) error {
		name := strings.Trim(dictString(row, "Name"), "\x00 ")
		if !strings.Contains(name, "History") {
			return nil
		}
		if id, ok := dictInt(row, "ContainerId"); ok {
			containerIDs = append(containerIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: Containers table: %v", ErrFormat, err)
	}

	acc := newWebcacheAccumulator(minDate)
	for _, cid := range containerIDs {
		table := fmt.Sprintf("Container_%d", cid)
		err = catalog.DumpTable(table, func(row *ordereddict.Dict) error {
			accessedTime, _ := dictInt(row, "AccessedTime")
			accessCount, _ := dictInt(row, "AccessCount")
			acc.add(historyRecord{
				ContainerID:  cid,
				URL:          dictString(row, "Url"),
				AccessedTime: accessedTime,
				AccessCount:  accessCount,
				RedirectURLs: dictString(row, "RedirectUrl"),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFormat, table, err)
		}
	}

	return acc.result(), nil
}

// historyRecord is one raw row from a History container.
type historyRecord struct {
	ContainerID  int64
	URL          string
	AccessedTime int64 // 100ns ticks since 1601-01-01
	AccessCount  int64
	RedirectURLs string
}

// webcacheURL is one deduplicated url with its summed access count.
type webcacheURL struct {
	ID           int64
	AccessCount  int64
	RedirectURLs string
}

// webcacheAccumulator collapses duplicate url sightings across containers.
// Duplicate sightings add their access count only when the increment is
// positive; zero and negative deltas are ignored so historical reset markers
// cannot corrupt totals.
type webcacheAccumulator struct {
	cutoff float64
	nextID int64
	urls   map[string]*webcacheURL
	order  []string
	visits [][]any
}

func newWebcacheAccumulator(minDate time.Time) *webcacheAccumulator {
	return &webcacheAccumulator{
		cutoff: float64(minDate.Unix()),
		nextID: 1,
		urls:   make(map[string]*webcacheURL),
	}
}

func (a *webcacheAccumulator) add(rec historyRecord) {
	m := urlTokenRe.FindStringSubmatch(rec.URL)
	if m == nil {
		return
	}
	date := browser.IE11.ToUnix(float64(rec.AccessedTime))
	if date < a.cutoff {
		return
	}
	recovered := m[1]

	if u, ok := a.urls[recovered]; ok {
		if rec.AccessCount > 0 {
			u.AccessCount += rec.AccessCount
		}
		return
	}

	u := &webcacheURL{
		ID:           a.nextID,
		AccessCount:  rec.AccessCount,
		RedirectURLs: rec.RedirectURLs,
	}
	a.nextID++
	a.urls[recovered] = u
	a.order = append(a.order, recovered)

	// Composite visit key: container id concatenated with the per-run
	// url sequence number, keeping identifiers unique across containers.
	visitID, err := strconv.ParseInt(
		strconv.FormatInt(rec.ContainerID, 10)+strconv.FormatInt(u.ID, 10), 10, 64)
	if err != nil {
		return
	}
	a.visits = append(a.visits, []any{date, visitID, u.ID})
}

func (a *webcacheAccumulator) result() *Result {
	urls := make([][]any, 0, len(a.order))
	for _, recovered := range a.order {
		u := a.urls[recovered]
		var redirects any
		if u.RedirectURLs != "" {
			redirects = u.RedirectURLs
		}
		urls = append(urls, []any{u.AccessCount, redirects, u.ID, recovered})
	}

	return &Result{Tables: []TableData{
		{
			Name:    "urls",
			Columns: []string{"visit_count", "redirect_urls", "id", "url"},
			Rows:    urls,
		},
		{
			Name:    "visits",
			Columns: []string{"visit_date", "id", "url_id"},
			Rows:    a.visits,
		},
	}}
}

// ESE column values arrive as driver-dependent dynamic types.

func dictString(d *ordereddict.Dict, key string) string {
	v, ok := d.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func dictInt(d *ordereddict.Dict, key string) (int64, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case int:
		return int64(t), true
	case uint64:
		return int64(t), true
	case uint32:
		return int64(t), true
	case float64:
		return int64(t), true
	default:
		return 0, false
	}
}
