// Package enrich augments listings with detail-page attributes under a
// bounded worker pool. One failing item never aborts the batch.
package enrich

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"magangpulse-engine/internal/domain"
	"magangpulse-engine/internal/scrape/detail"
)

// Fetcher is the single driver capability the enricher needs.
type Fetcher interface {
	FetchDetail(ctx context.Context, url string) (domain.PageSnapshot, error)
}

const progressEvery = 50

// Run enriches the first limit records in place: workers pull record indexes
// from a shared queue and each index belongs to exactly one worker, so no two
// goroutines ever touch the same record. Records beyond limit pass through
// untouched; order is preserved. No retries: a failed fetch or parse leaves
// that record as extracted.
func Run(ctx context.Context, f Fetcher, records []domain.Listing, limit, workers int) {
	if limit > len(records) {
		limit = len(records)
	}
	if limit <= 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}

	start := time.Now()
	var done atomic.Int64

	queue := make(chan int)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for idx := range queue {
				enrichOne(ctx, f, &records[idx])

				n := done.Add(1)
				if n%progressEvery == 0 || n == int64(limit) {
					elapsed := time.Since(start)
					rate := float64(n) / elapsed.Seconds()
					log.Printf("[enrich] detail done %d/%d • %.2f pages/s • elapsed %s",
						n, limit, rate, elapsed.Round(100*time.Millisecond))
				}
			}
			return nil
		})
	}

	for i := 0; i < limit; i++ {
		queue <- i
	}
	close(queue)
	_ = g.Wait()
}

// enrichOne fetches and parses one detail page. Every failure is swallowed:
// a network error and a selector miss look identical downstream (the fields
// just stay unset), so the cause is only logged.
func enrichOne(ctx context.Context, f Fetcher, rec *domain.Listing) {
	if rec.SourceURL == "" {
		return
	}

	snap, err := f.FetchDetail(ctx, rec.SourceURL)
	if err != nil {
		log.Printf("[enrich] fetch failed url=%q err=%v", rec.SourceURL, err)
		return
	}

	if tags := detail.ProgramStudi(snap.HTML); len(tags) > 0 {
		rec.Sector = strings.Join(tags, "; ")
	}
	if desc := detail.Description(snap.HTML); desc != "" {
		rec.ShortDescription = desc
	}
}
