package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"magangpulse-engine/internal/domain"
)

// UpsertListings writes every record keyed by source_url. Idempotent: feeding
// the same batch twice leaves the table unchanged.
func UpsertListings(ctx context.Context, db *sql.DB, rows []domain.Listing) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO listings(
  source_url, title, company, location, sector, posting_date,
  applicants, quota, acceptance_rate, demand_ratio,
  status, short_description, fetched_at, content_hash
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(source_url) DO UPDATE SET
  title=excluded.title,
  company=excluded.company,
  location=excluded.location,
  sector=excluded.sector,
  posting_date=excluded.posting_date,
  applicants=excluded.applicants,
  quota=excluded.quota,
  acceptance_rate=excluded.acceptance_rate,
  demand_ratio=excluded.demand_ratio,
  status=excluded.status,
  short_description=excluded.short_description,
  fetched_at=excluded.fetched_at,
  content_hash=excluded.content_hash;`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if r.SourceURL == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			r.SourceURL,
			r.Title,
			r.Company,
			r.Location,
			nullStr(r.Sector),
			nullStr(r.PostingDate),
			nullInt(r.Applicants),
			nullInt(r.Quota),
			nullFloat(r.AcceptanceRate),
			nullFloat(r.DemandRatio),
			r.Status,
			nullStr(r.ShortDescription),
			r.FetchedAt.UTC().Format(time.RFC3339),
			r.ContentHash,
		); err != nil {
			return fmt.Errorf("upsert listing %s: %w", r.SourceURL, err)
		}
	}

	return tx.Commit()
}

// RecomputeCompanies rebuilds the company rollup table from the listing rows.
// Delete + reinsert keeps the aggregate SQL in one place.
func RecomputeCompanies(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM companies;`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO companies(name, active_listings, quota_total, applicants_total,
                      avg_acceptance_rate, avg_demand_ratio, source_url, fetched_at)
SELECT company,
       SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END),
       SUM(COALESCE(quota, 0)),
       SUM(COALESCE(applicants, 0)),
       AVG(acceptance_rate),
       AVG(demand_ratio),
       MIN(source_url),
       MAX(fetched_at)
FROM listings
WHERE company != ''
GROUP BY company;`); err != nil {
		return err
	}

	return tx.Commit()
}

// UpsertSiteStats merges into the singleton row; nil fields keep the previous
// value.
func UpsertSiteStats(ctx context.Context, db *sql.DB, s domain.SiteStats) error {
	if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO site_stats(id) VALUES(1);`); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, `
UPDATE site_stats SET
  companies      = COALESCE(?, companies),
  applications   = COALESCE(?, applications),
  total_listings = COALESCE(?, total_listings),
  fetched_at     = COALESCE(?, fetched_at)
WHERE id = 1;`,
		nullInt(s.Companies),
		nullInt(s.Applications),
		nullInt(s.TotalListings),
		nullStr(s.FetchedAt.UTC().Format(time.RFC3339)),
	)
	return err
}

// ReplaceTimeline swaps the whole program timeline for the given entries.
func ReplaceTimeline(ctx context.Context, db *sql.DB, items []domain.TimelineEntry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM program_timeline;`); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO program_timeline(batch, title, start_date, end_date, status, order_index)
VALUES (?,?,?,?,?,?);`,
			nullStr(it.Batch), nullStr(it.Title), nullStr(it.StartDate),
			nullStr(it.EndDate), nullStr(it.Status), it.OrderIndex,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
