package storage

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"
)

// VisitQuery filters and bounds the domain visit aggregation.
type VisitQuery struct {
	// Start and End bound visit_date; zero values mean unbounded. End is
	// exclusive, so a single calendar day is [day, day+24h).
	Start time.Time
	End   time.Time

	// Limit selects the top N domains by count (or bottom N when
	// Ascending is set). Zero means all domains.
	Limit     int
	Ascending bool
}

// Visits groups visits by stemmed domain. Each url's visit_count contributes
// to its domain total exactly once per distinct url identifier, not once per
// visit row, so urls with many visit timestamps are not double-counted.
// Returns the selected domains and the total count across all domains (the
// percentage base).
func (s *Store) Visits(ctx context.Context, q VisitQuery) ([]DomainVisits, int64, error) {
	query := "SELECT url, visit_count, urls.id FROM urls, visits WHERE urls.id = visits.url_id"
	var args []any
	if !q.Start.IsZero() || !q.End.IsZero() {
		query += " AND visit_date >= ? AND visit_date < ?"
		args = append(args, float64(q.Start.Unix()), float64(q.End.Unix()))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	// Aggregate in first-seen order so the later stable sort breaks
	// count ties deterministically.
	totals := make(map[string]int64)
	var order []string
	seen := make(map[int64]struct{})

	for rows.Next() {
		var (
			rawURL string
			count  int64
			urlID  int64
		)
		if err := rows.Scan(&rawURL, &count, &urlID); err != nil {
			return nil, 0, fmt.Errorf("scan visit row: %w", err)
		}

		domain := StemDomain(rawURL)
		if _, ok := totals[domain]; !ok {
			totals[domain] = 0
			order = append(order, domain)
		}
		if _, ok := seen[urlID]; !ok {
			seen[urlID] = struct{}{}
			totals[domain] += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	result := make([]DomainVisits, 0, len(order))
	for _, domain := range order {
		total += totals[domain]
		result = append(result, DomainVisits{Domain: domain, Count: totals[domain]})
	}

	if q.Ascending {
		sort.SliceStable(result, func(i, j int) bool { return result[i].Count < result[j].Count })
	} else {
		sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	}
	if q.Limit > 0 && q.Limit < len(result) {
		result = result[:q.Limit]
	}

	if total > 0 {
		for i := range result {
			result[i].Percent = float64(result[i].Count) / float64(total) * 100
		}
	}

	return result, total, nil
}

// SelectDomains groups canonical urls (not visits) by stemmed domain,
// optionally filtered by a substring over the raw url. When stem is false
// the raw url is used as the grouping key instead. Sortable by domain name
// or by aggregate visit count.
func (s *Store) SelectDomains(ctx context.Context, sortBy, filter string, stem bool) ([]DomainSelection, error) {
	query := "SELECT id, url, visit_count FROM urls"
	var args []any
	if filter != "" {
		query += " WHERE url LIKE ?"
		args = append(args, "%"+filter+"%")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query urls: %w", err)
	}
	defer rows.Close()

	groups := make(map[string]*DomainSelection)
	var order []string

	for rows.Next() {
		var (
			id     int64
			rawURL string
			count  int64
		)
		if err := rows.Scan(&id, &rawURL, &count); err != nil {
			return nil, fmt.Errorf("scan url row: %w", err)
		}

		key := rawURL
		if stem {
			key = StemDomain(rawURL)
		}
		g, ok := groups[key]
		if !ok {
			g = &DomainSelection{Domain: key}
			groups[key] = g
			order = append(order, key)
		}
		g.IDs = append(g.IDs, id)
		g.Count += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]DomainSelection, 0, len(order))
	for _, key := range order {
		result = append(result, *groups[key])
	}

	switch sortBy {
	case SortFrequency:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	default: // SortDomains
		sort.SliceStable(result, func(i, j int) bool { return result[i].Domain < result[j].Domain })
	}

	return result, nil
}

// Entries returns the flat per-visit listing with human-readable dates,
// optionally filtered by a substring over the url. Sortable by domain, by
// frequency, or by date (descending, the default).
func (s *Store) Entries(ctx context.Context, sortBy, filter string) ([]Entry, error) {
	query := "SELECT urls.id, visit_date, url, visit_count FROM visits, urls WHERE visits.url_id = urls.id"
	var args []any
	if filter != "" {
		query += " AND url LIKE ?"
		args = append(args, "%"+filter+"%")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.URLID, &e.VisitDate, &e.URL, &e.VisitCount); err != nil {
			return nil, fmt.Errorf("scan entry row: %w", err)
		}
		e.Date = formatDate(e.VisitDate)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch sortBy {
	case SortDomains:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].URL < entries[j].URL })
	case SortFrequency:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].VisitCount > entries[j].VisitCount })
	default: // SortDate
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].VisitDate > entries[j].VisitDate })
	}

	return entries, nil
}

// SearchTerms scans every url for known search query parameters and
// aggregates the percent-decoded terms. Each term tracks its contributing
// url ids, occurrence count, and the distinct domains it occurred on.
func (s *Store) SearchTerms(ctx context.Context, sortBy, filter string) ([]SearchTerm, error) {
	query := "SELECT id, url FROM urls"
	var args []any
	if filter != "" {
		query += " WHERE url LIKE ?"
		args = append(args, "%"+filter+"%")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query urls: %w", err)
	}
	defer rows.Close()

	terms := make(map[string]*SearchTerm)
	var order []string

	for rows.Next() {
		var (
			id     int64
			rawURL string
		)
		if err := rows.Scan(&id, &rawURL); err != nil {
			return nil, fmt.Errorf("scan url row: %w", err)
		}

		domain := StemDomain(rawURL)
		for _, m := range searchTermRe.FindAllStringSubmatch(rawURL, -1) {
			term := decodeTerm(m[1])
			t, ok := terms[term]
			if !ok {
				t = &SearchTerm{Term: term}
				terms[term] = t
				order = append(order, term)
			}
			t.IDs = append(t.IDs, id)
			t.Count++
			if !containsString(t.Domains, domain) {
				t.Domains = append(t.Domains, domain)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]SearchTerm, 0, len(order))
	for _, term := range order {
		result = append(result, *terms[term])
	}

	switch sortBy {
	case SortFrequency:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	default: // SortKeywords
		sort.SliceStable(result, func(i, j int) bool { return result[i].Term < result[j].Term })
	}

	return result, nil
}

// decodeTerm percent-decodes a matched query value, treating '+' as space.
// Undecodable values are kept raw.
func decodeTerm(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
