package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// ListingRow is a listing as the read API serves it. Nullable columns stay
// pointers so the UI can tell "unknown" from zero.
type ListingRow struct {
	ID               int64    `json:"id"`
	SourceURL        string   `json:"source_url"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Sector           *string  `json:"sector"`
	PostingDate      *string  `json:"posting_date"`
	Applicants       *int64   `json:"applicants"`
	Quota            *int64   `json:"quota"`
	AcceptanceRate   *float64 `json:"acceptance_rate"`
	DemandRatio      *float64 `json:"demand_ratio"`
	Status           string   `json:"status"`
	ShortDescription *string  `json:"short_description"`
	FetchedAt        string   `json:"fetched_at"`
	ContentHash      string   `json:"content_hash"`
}

type CompanyRow struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	ActiveListings    int64    `json:"active_listings"`
	QuotaTotal        int64    `json:"quota_total"`
	ApplicantsTotal   int64    `json:"applicants_total"`
	AvgAcceptanceRate *float64 `json:"avg_acceptance_rate"`
	AvgDemandRatio    *float64 `json:"avg_demand_ratio"`
	SourceURL         *string  `json:"source_url"`
	FetchedAt         *string  `json:"fetched_at"`
}

type SiteStatsRow struct {
	Companies     *int64  `json:"companies"`
	Applications  *int64  `json:"applications"`
	TotalListings *int64  `json:"total_listings"`
	FetchedAt     *string `json:"fetched_at"`
}

type TimelineRow struct {
	ID         int64   `json:"id"`
	Batch      *string `json:"batch"`
	Title      *string `json:"title"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Status     *string `json:"status"`
	OrderIndex int64   `json:"order_index"`
}

type ListListingsOpts struct {
	Page     int
	PageSize int

	Query     string   // free text over title/company
	Companies []string // exact match, OR
	Locations []string
	Sectors   []string // LIKE over the "; "-joined sector column

	MinAR, MaxAR                 *float64
	MinApplicants, MaxApplicants *int
	MinQuota, MaxQuota           *int

	Sort string // recent | ar_desc | ar_asc | applicants_desc | ... | quota_asc
}

var listingSorts = map[string]string{
	"recent":          "datetime(fetched_at) DESC",
	"ar_desc":         "acceptance_rate DESC",
	"ar_asc":          "acceptance_rate ASC",
	"applicants_desc": "applicants DESC",
	"applicants_asc":  "applicants ASC",
	"quota_desc":      "quota DESC",
	"quota_asc":       "quota ASC",
}

const listingColumns = `id, source_url, title, company, location, sector, posting_date,
applicants, quota, acceptance_rate, demand_ratio, status, short_description, fetched_at, content_hash`

// ListListings runs the filtered, sorted, paginated read over listings and
// returns the page plus the unpaginated total.
func ListListings(ctx context.Context, db *sql.DB, opts ListListingsOpts) ([]ListingRow, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}

	where := []string{"1=1"}
	var args []any

	if q := strings.TrimSpace(opts.Query); q != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(company) LIKE ?)")
		pat := "%" + strings.ToLower(q) + "%"
		args = append(args, pat, pat)
	}

	addIn := func(col string, vals []string) {
		var clean []string
		for _, v := range vals {
			if v = strings.TrimSpace(v); v != "" {
				clean = append(clean, v)
			}
		}
		if len(clean) == 0 {
			return
		}
		ph := strings.TrimSuffix(strings.Repeat("?,", len(clean)), ",")
		where = append(where, fmt.Sprintf("%s IN (%s)", col, ph))
		for _, v := range clean {
			args = append(args, v)
		}
	}
	addIn("company", opts.Companies)
	addIn("location", opts.Locations)

	if len(opts.Sectors) > 0 {
		var likes []string
		for _, s := range opts.Sectors {
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			likes = append(likes, "LOWER(sector) LIKE ?")
			args = append(args, "%"+strings.ToLower(s)+"%")
		}
		if len(likes) > 0 {
			where = append(where, "("+strings.Join(likes, " OR ")+")")
		}
	}

	addRange := func(col string, min, max any, hasMin, hasMax bool) {
		if hasMin {
			where = append(where, col+" >= ?")
			args = append(args, min)
		}
		if hasMax {
			where = append(where, col+" <= ?")
			args = append(args, max)
		}
	}
	addRange("acceptance_rate", deref(opts.MinAR), deref(opts.MaxAR), opts.MinAR != nil, opts.MaxAR != nil)
	addRange("applicants", derefInt(opts.MinApplicants), derefInt(opts.MaxApplicants), opts.MinApplicants != nil, opts.MaxApplicants != nil)
	addRange("quota", derefInt(opts.MinQuota), derefInt(opts.MaxQuota), opts.MinQuota != nil, opts.MaxQuota != nil)

	cond := strings.Join(where, " AND ")

	var total int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM listings WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	// whitelisted sort map keeps ORDER BY out of injection territory
	order, ok := listingSorts[opts.Sort]
	if !ok {
		order = listingSorts["recent"]
	}

	query := fmt.Sprintf(
		"SELECT %s FROM listings WHERE %s ORDER BY %s LIMIT ? OFFSET ?",
		listingColumns, cond, order,
	)
	rows, err := db.QueryContext(ctx, query, append(args, opts.PageSize, (opts.Page-1)*opts.PageSize)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []ListingRow
	for rows.Next() {
		var r ListingRow
		if err := rows.Scan(
			&r.ID, &r.SourceURL, &r.Title, &r.Company, &r.Location, &r.Sector,
			&r.PostingDate, &r.Applicants, &r.Quota, &r.AcceptanceRate,
			&r.DemandRatio, &r.Status, &r.ShortDescription, &r.FetchedAt, &r.ContentHash,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

var companySorts = map[string]string{
	"ar_desc":         "avg_acceptance_rate DESC",
	"ar_asc":          "avg_acceptance_rate ASC",
	"applicants_desc": "applicants_total DESC",
	"applicants_asc":  "applicants_total ASC",
	"quota_desc":      "quota_total DESC",
	"quota_asc":       "quota_total ASC",
	"active_desc":     "active_listings DESC",
	"active_asc":      "active_listings ASC",
}

func ListCompanies(ctx context.Context, db *sql.DB, sort string, page, pageSize int) ([]CompanyRow, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	order, ok := companySorts[sort]
	if !ok {
		order = companySorts["ar_desc"]
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
SELECT id, name, active_listings, quota_total, applicants_total,
       avg_acceptance_rate, avg_demand_ratio, source_url, fetched_at
FROM companies ORDER BY %s LIMIT ? OFFSET ?`, order)

	rows, err := db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []CompanyRow
	for rows.Next() {
		var r CompanyRow
		if err := rows.Scan(
			&r.ID, &r.Name, &r.ActiveListings, &r.QuotaTotal, &r.ApplicantsTotal,
			&r.AvgAcceptanceRate, &r.AvgDemandRatio, &r.SourceURL, &r.FetchedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// Home returns the singleton stats row plus the ordered timeline.
func Home(ctx context.Context, db *sql.DB) (SiteStatsRow, []TimelineRow, error) {
	var stats SiteStatsRow
	err := db.QueryRowContext(ctx, `
SELECT companies, applications, total_listings, fetched_at
FROM site_stats WHERE id = 1`).Scan(
		&stats.Companies, &stats.Applications, &stats.TotalListings, &stats.FetchedAt)
	if err != nil && err != sql.ErrNoRows {
		return stats, nil, err
	}

	rows, err := db.QueryContext(ctx, `
SELECT id, batch, title, start_date, end_date, status, order_index
FROM program_timeline ORDER BY order_index ASC, id ASC`)
	if err != nil {
		return stats, nil, err
	}
	defer rows.Close()

	var timeline []TimelineRow
	for rows.Next() {
		var t TimelineRow
		if err := rows.Scan(&t.ID, &t.Batch, &t.Title, &t.StartDate, &t.EndDate, &t.Status, &t.OrderIndex); err != nil {
			return stats, nil, err
		}
		timeline = append(timeline, t)
	}
	return stats, timeline, rows.Err()
}

type Options struct {
	Companies []string `json:"companies"`
	Locations []string `json:"locations"`
	Sectors   []string `json:"sectors"`
}

// ListOptions returns the distinct values the UI filter dropdowns need.
// Sector cells hold "A; B; C" so they get split into tokens.
func ListOptions(ctx context.Context, db *sql.DB) (Options, error) {
	var out Options

	distinct := func(col string) ([]string, error) {
		rows, err := db.QueryContext(ctx, fmt.Sprintf(`
SELECT DISTINCT %s FROM listings
WHERE %s IS NOT NULL AND TRIM(%s) != ''
ORDER BY %s`, col, col, col, col))
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var vals []string
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return nil, err
			}
			if v = strings.TrimSpace(v); v != "" {
				vals = append(vals, v)
			}
		}
		return vals, rows.Err()
	}

	var err error
	if out.Companies, err = distinct("company"); err != nil {
		return out, err
	}
	if out.Locations, err = distinct("location"); err != nil {
		return out, err
	}

	rows, err := db.QueryContext(ctx, `
SELECT sector FROM listings WHERE sector IS NOT NULL AND TRIM(sector) != ''`)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	seen := map[string]bool{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return out, err
		}
		for _, tok := range strings.Split(s, ";") {
			if tok = strings.TrimSpace(tok); tok != "" && !seen[tok] {
				seen[tok] = true
				out.Sectors = append(out.Sectors, tok)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	sort.Strings(out.Sectors)
	return out, nil
}

func deref(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

