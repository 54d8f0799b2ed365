package extract

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"howett.net/plist"

	"github.com/runnerr0/retrace/internal/browser"
)

// extractPlist parses a legacy Safari History.plist. Each entry in
// WebHistoryDates keys its url under the empty string; timestamps are
// WebKit-epoch seconds, often serialized as strings. One canonical
// identifier is assigned per unique url in file order.
func extractPlist(path string, minDate time.Time) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var doc map[string]any
	if _, err := plist.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	entries, ok := doc["WebHistoryDates"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing WebHistoryDates", ErrFormat)
	}

	cutoff := float64(minDate.Unix())
	var (
		urls   [][]any
		visits [][]any
		nextID int64 = 1
	)

	for _, raw := range entries {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: malformed history entry", ErrFormat)
		}

		rawURL := plistString(item[""])
		date := browser.Safari.ToUnix(plistFloat(item["lastVisitedDate"]))

		// Filter by navigable url and minimum date.
		if !isNavigable(rawURL) || date < cutoff {
			continue
		}

		title := plistString(item["title"])
		visitCount := plistInt(item["visitCount"])

		var redirectURLs any
		if chain, ok := item["redirectURLs"].([]any); ok {
			parts := make([]string, 0, len(chain))
			for _, u := range chain {
				parts = append(parts, plistString(u))
			}
			redirectURLs = strings.Join(parts, " ")
		}

		id := nextID
		nextID++
		urls = append(urls, []any{id, date, redirectURLs, title, rawURL, visitCount})
		visits = append(visits, []any{id, date})
	}

	return &Result{Tables: []TableData{
		{
			Name:    "urls",
			Columns: []string{"id", "last_visit_date", "redirect_urls", "title", "url", "visit_count"},
			Rows:    urls,
		},
		{
			Name:    "visits",
			Columns: []string{"url_id", "visit_date"},
			Rows:    visits,
		},
	}}, nil
}

// isNavigable reports whether a value looks like a navigable url (has a
// scheme delimiter followed by a host).
func isNavigable(rawURL string) bool {
	i := strings.Index(rawURL, "://")
	return i > 0 && i+3 < len(rawURL)
}

// plist values arrive with format-dependent dynamic types; these helpers
// coerce the handful of shapes Safari has used across OS versions.

func plistString(v any) string {
	s, _ := v.(string)
	return s
}

func plistFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	case uint64:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return 0
	}
}

func plistInt(v any) int64 {
	switch t := v.(type) {
	case uint64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
