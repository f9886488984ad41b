// Package scrape sequences the full harvest: pagination, extraction,
// fingerprinting, detail enrichment, and the handoff to storage.
package scrape

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"magangpulse-engine/internal/config"
	"magangpulse-engine/internal/domain"
	"magangpulse-engine/internal/scrape/enrich"
	"magangpulse-engine/internal/scrape/fingerprint"
	"magangpulse-engine/internal/scrape/home"
	"magangpulse-engine/internal/scrape/listing"
	"magangpulse-engine/internal/scrape/session"
	"magangpulse-engine/internal/scrape/util"
	"magangpulse-engine/internal/store"
)

type Status struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastAdded int    `json:"last_added"`
	Running   bool   `json:"running"`
}

type Summary struct {
	Pages         int
	Listings      int
	WithSector    int
	TotalEstimate *int
	TimelineItems int
}

// baseRootOf strips the listing path so relative detail hrefs resolve
// against the site root.
func baseRootOf(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if i := strings.Index(base, "/lowongan"); i >= 0 {
		return base[:i]
	}
	return base
}

// RunFull executes the whole pipeline against the configured site and hands
// every result to storage. Only driver/root failures abort; parse misses and
// per-item enrichment failures degrade the result instead.
func RunFull(ctx context.Context, db *sql.DB, cfg config.Config, onEvent func(typ string, data any)) (Summary, error) {
	var sum Summary
	publish := func(typ string, data any) {
		if onEvent != nil {
			onEvent(typ, data)
		}
	}

	log.Printf("[cfg] max_pages=%d detail_max=%d detail_enrich=%v workers=%d use_browser=%v",
		cfg.Scrape.MaxPages, cfg.Detail.MaxItems, cfg.Detail.Enabled, cfg.Detail.Workers, cfg.Scrape.UseBrowser)

	baseRoot := baseRootOf(cfg.Scrape.BaseURL)
	listingURL := baseRoot + "/lowongan"

	driver := session.New(cfg)
	if err := step("Start browser session", func() error {
		return driver.Start(ctx)
	}); err != nil {
		return sum, err
	}
	defer driver.Close()

	// -------- Pagination --------
	var pages []domain.PageSnapshot
	err := step("Crawl listing pages", func() error {
		if cfg.Scrape.UseBrowser {
			total, err := driver.NavigateListing(ctx, listingURL)
			if err != nil {
				return err
			}
			sum.TotalEstimate = total
			pages, err = driver.Paginate(ctx, total)
			return err
		}

		// Static mode only ever sees page 1.
		log.Printf("[scrape] static mode: collecting listing page 1 only")
		snap, err := driver.FetchSingle(ctx, listingURL, false)
		if err != nil {
			return err
		}
		sum.TotalEstimate = util.ParseTotalListings(snap.HTML)
		pages = []domain.PageSnapshot{snap}
		return nil
	})
	if err != nil {
		return sum, fmt.Errorf("crawl listing: %w", err)
	}
	sum.Pages = len(pages)
	publish("scrape_pages", map[string]any{"pages": len(pages)})

	// -------- Extraction + fingerprinting --------
	var rows []domain.Listing
	_ = step(fmt.Sprintf("Parse %d pages into cards", len(pages)), func() error {
		for pi, page := range pages {
			recs := listing.Extract(page.HTML)
			for i := range recs {
				fingerprint.Normalize(&recs[i], baseRoot)
				fingerprint.Stamp(&recs[i])
			}
			rows = append(rows, recs...)
			if (pi+1)%10 == 0 || pi == len(pages)-1 {
				log.Printf("[scrape] parsed pages %d/%d (cards so far: %d)", pi+1, len(pages), len(rows))
			}
		}
		return nil
	})
	sum.Listings = len(rows)

	// -------- Detail enrichment --------
	if cfg.Detail.Enabled && len(rows) > 0 {
		limit := cfg.Detail.MaxItems
		if limit > len(rows) {
			limit = len(rows)
		}
		_ = step(fmt.Sprintf("Enrich detail pages (limit=%d workers=%d)", limit, cfg.Detail.Workers), func() error {
			enrich.Run(ctx, driver, rows, limit, cfg.Detail.Workers)
			return nil
		})
		for _, r := range rows[:limit] {
			if strings.TrimSpace(r.Sector) != "" {
				sum.WithSector++
			}
		}
	} else {
		log.Printf("[scrape] detail enrichment disabled or no rows")
	}

	// -------- Handoff to storage --------
	if err := step("Upsert listings & recompute companies", func() error {
		if err := store.UpsertListings(ctx, db, rows); err != nil {
			return err
		}
		return store.RecomputeCompanies(ctx, db)
	}); err != nil {
		return sum, fmt.Errorf("store listings: %w", err)
	}
	publish("scrape_upserted", map[string]any{"listings": len(rows)})

	// -------- Home stats & timeline --------
	_ = step("Fetch home stats & timeline", func() error {
		snap, err := driver.FetchSingle(ctx, baseRoot+"/", cfg.Scrape.UseBrowser)
		if err != nil {
			return err
		}
		companies, applications := home.Stats(snap.HTML)
		stats := domain.SiteStats{
			Companies:     companies,
			Applications:  applications,
			TotalListings: sum.TotalEstimate,
			FetchedAt:     time.Now().UTC(),
		}
		if err := store.UpsertSiteStats(ctx, db, stats); err != nil {
			return err
		}
		timeline := home.Timeline(snap.HTML)
		sum.TimelineItems = len(timeline)
		if len(timeline) > 0 {
			return store.ReplaceTimeline(ctx, db, timeline)
		}
		return nil
	})

	log.Printf("[summary] listings=%d pages=%d with_sector=%d timeline_items=%d total_estimate=%s",
		sum.Listings, sum.Pages, sum.WithSector, sum.TimelineItems, intOrNA(sum.TotalEstimate))
	publish("scrape_done", map[string]any{"listings": sum.Listings})

	return sum, nil
}

func intOrNA(p *int) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprint(*p)
}
