package storage

import "database/sql"

// migrateV001 creates the canonical schema: one urls table and one visits
// table. Identifiers are assigned by the extractors and are stable for one
// import run only; the whole store is recreated at the start of each run.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS urls (
			id              INTEGER PRIMARY KEY,
			url             TEXT NOT NULL,
			title           TEXT,
			rev_host        TEXT,
			visit_count     INTEGER NOT NULL DEFAULT 0,
			typed           INTEGER NOT NULL DEFAULT 0,
			last_visit_date REAL,
			redirect_urls   TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS visits (
			id         INTEGER PRIMARY KEY,
			url_id     INTEGER NOT NULL REFERENCES urls(id),
			visit_date REAL NOT NULL,
			visit_type INTEGER,
			referrer   INTEGER
		)`,

		`CREATE INDEX IF NOT EXISTS idx_visits_url_id ON visits(url_id)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_date   ON visits(visit_date)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
