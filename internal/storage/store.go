package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// dateFormat is the human-readable form used for visit dates in listings,
// date ranges, and the status output.
const dateFormat = "02.01.2006 15:04:05"

// Store is the canonical per-run history store. It is private to one import
// run: created fresh, loaded once by the extractors, then only read by the
// aggregation engine and mutated by the anonymization engine.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the canonical store at path and applies
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open canonical store: %w", err)
	}

	store, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an already-opened database, applying migrations.
func New(db *sql.DB) (*Store, error) {
	runner := NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertRows loads one extracted record stream into a canonical table. The
// insert is built from the declared column mapping and uses insert-or-ignore
// semantics, so re-loading the same natural keys within a run is a no-op.
// The whole stream commits as one statement batch; a failure aborts the
// batch, but tables already committed by earlier calls stay committed.
func (s *Store) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) error {
	if table != "urls" && table != "visits" {
		return fmt.Errorf("unknown canonical table %q", table)
	}
	if len(columns) == 0 {
		return fmt.Errorf("empty column mapping for table %q", table)
	}
	if len(rows) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders,
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("row has %d values, column mapping has %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// URL fetches one canonical url row by identifier.
func (s *Store) URL(ctx context.Context, id int64) (*URLRecord, error) {
	var (
		r             URLRecord
		title         sql.NullString
		revHost       sql.NullString
		lastVisitDate sql.NullFloat64
		redirectURLs  sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, url, title, rev_host, visit_count, typed, last_visit_date, redirect_urls FROM urls WHERE id = ?",
		id,
	).Scan(&r.ID, &r.URL, &title, &revHost, &r.VisitCount, &r.Typed, &lastVisitDate, &redirectURLs)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("url %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get url %d: %w", id, err)
	}
	r.Title = title.String
	r.RevHost = revHost.String
	r.LastVisitDate = lastVisitDate.Float64
	r.RedirectURLs = redirectURLs.String
	return &r, nil
}

// DateRange returns the earliest and latest visit dates, human-formatted.
// Both are empty when no visits are stored.
func (s *Store) DateRange(ctx context.Context) (string, string, error) {
	var min, max sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		"SELECT min(visit_date), max(visit_date) FROM visits",
	).Scan(&min, &max)
	if err != nil {
		return "", "", fmt.Errorf("visit date range: %w", err)
	}
	if !min.Valid || !max.Valid {
		return "", "", nil
	}
	return formatDate(min.Float64), formatDate(max.Float64), nil
}

// Stats returns aggregate counts and the resolved date range.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM urls").Scan(&stats.TotalURLs); err != nil {
		return nil, fmt.Errorf("count urls: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visits").Scan(&stats.TotalVisits); err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}

	earliest, latest, err := s.DateRange(ctx)
	if err != nil {
		return nil, err
	}
	stats.EarliestVisit = earliest
	stats.LatestVisit = latest

	domains, _, err := s.Visits(ctx, VisitQuery{})
	if err != nil {
		return nil, err
	}
	stats.NumDomains = len(domains)

	return stats, nil
}

// formatDate renders a Unix-seconds timestamp as a local human date.
func formatDate(unix float64) string {
	return time.Unix(int64(unix), 0).Format(dateFormat)
}
