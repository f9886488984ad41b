package store

import "database/sql"

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS listings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source_url TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL DEFAULT '',
  company TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  sector TEXT,
  posting_date TEXT,
  applicants INTEGER,
  quota INTEGER,
  acceptance_rate REAL,
  demand_ratio REAL,
  status TEXT NOT NULL DEFAULT 'open',
  short_description TEXT,
  fetched_at TEXT NOT NULL,
  content_hash TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS companies (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  active_listings INTEGER NOT NULL DEFAULT 0,
  quota_total INTEGER NOT NULL DEFAULT 0,
  applicants_total INTEGER NOT NULL DEFAULT 0,
  avg_acceptance_rate REAL,
  avg_demand_ratio REAL,
  source_url TEXT,
  fetched_at TEXT
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS site_stats (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  companies INTEGER,
  applications INTEGER,
  total_listings INTEGER,
  fetched_at TEXT
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS program_timeline (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  batch TEXT,
  title TEXT,
  start_date TEXT,
  end_date TEXT,
  status TEXT,
  order_index INTEGER NOT NULL DEFAULT 0
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_listings_fetched_at
ON listings(fetched_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_listings_company
ON listings(company);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
