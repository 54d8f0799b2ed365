package storage

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// exportHeader is the column order of the tabular export.
var exportHeader = []string{
	"url_id", "visits_id", "url", "title", "rev_host", "visit_count", "typed",
	"last_visit_date", "redirect_urls", "referrer", "visit_date", "visit_type",
	"browser", "operating_system",
}

// Export writes the full canonical join (url × visit) to w as a
// semicolon-separated record stream, augmented with the active browser name
// and host OS description. Returns the number of records written.
func (s *Store) Export(ctx context.Context, w io.Writer, browserName, osDesc string) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url_id, visits.id, url, title, rev_host, visit_count, typed,
		       last_visit_date, redirect_urls, referrer, visit_date, visit_type
		FROM visits, urls
		WHERE visits.url_id = urls.id`)
	if err != nil {
		return 0, fmt.Errorf("query export join: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write export header: %w", err)
	}

	count := 0
	for rows.Next() {
		var (
			urlID, visitID, visitCount, typed int64
			rawURL                            string
			title, revHost, redirectURLs      sql.NullString
			lastVisitDate, visitDate          sql.NullFloat64
			referrer, visitType               sql.NullInt64
		)
		if err := rows.Scan(&urlID, &visitID, &rawURL, &title, &revHost,
			&visitCount, &typed, &lastVisitDate, &redirectURLs,
			&referrer, &visitDate, &visitType); err != nil {
			return count, fmt.Errorf("scan export row: %w", err)
		}

		record := []string{
			strconv.FormatInt(urlID, 10),
			strconv.FormatInt(visitID, 10),
			rawURL,
			title.String,
			revHost.String,
			strconv.FormatInt(visitCount, 10),
			strconv.FormatInt(typed, 10),
			nullFloat(lastVisitDate),
			redirectURLs.String,
			nullInt(referrer),
			nullFloat(visitDate),
			nullInt(visitType),
			browserName,
			osDesc,
		}
		if err := cw.Write(record); err != nil {
			return count, fmt.Errorf("write export record: %w", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, err
	}

	cw.Flush()
	return count, cw.Error()
}

func nullFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func nullInt(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}
