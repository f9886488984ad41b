package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"magangpulse-engine/internal/domain"
)

// pageSession is the slice of the driver the pagination loop needs. The UI
// never raises a page-changed event, so advancing is click + watch the
// sentinel.
type pageSession interface {
	Content(ctx context.Context) (string, error)
	FirstCardText(ctx context.Context) (string, error)
	ClickNext(ctx context.Context, nextPage int) (bool, error)
}

// collectPages captures up to target pages from the session. The sequence is
// ordered, finite and non-restartable: a missing control or a page that never
// changes after a click ends it. Under-collection beats hanging.
func collectPages(ctx context.Context, s pageSession, target int, pollInterval, stallDeadline, settle time.Duration) ([]domain.PageSnapshot, error) {
	var pages []domain.PageSnapshot

	for i := 0; i < target; i++ {
		html, err := s.Content(ctx)
		if err != nil {
			if len(pages) == 0 {
				return nil, fmt.Errorf("capture page 1: %w", err)
			}
			log.Printf("[paginate] capture page %d failed, keeping %d pages: %v", i+1, len(pages), err)
			break
		}
		pages = append(pages, domain.PageSnapshot{Index: i, HTML: html})

		// Last planned page: stop without touching the pagination controls.
		if i == target-1 {
			break
		}

		sentinel, err := s.FirstCardText(ctx)
		if err != nil {
			log.Printf("[paginate] sentinel read failed on page %d: %v", i+1, err)
			break
		}

		clicked, err := s.ClickNext(ctx, i+2)
		if err != nil {
			log.Printf("[paginate] click next failed on page %d: %v", i+1, err)
			break
		}
		if !clicked {
			log.Printf("[paginate] no next/number control after page %d; assuming end of list", i+1)
			break
		}

		if !waitSentinelChange(ctx, s, sentinel, pollInterval, stallDeadline) {
			log.Printf("[paginate] page did not change after click (page %d); assuming end of list", i+1)
			break
		}

		select {
		case <-ctx.Done():
			return pages, nil
		case <-time.After(settle):
		}
	}

	return pages, nil
}

// waitSentinelChange polls the first card's text until it differs from prev
// or the deadline passes. No retries past the deadline.
func waitSentinelChange(ctx context.Context, s pageSession, prev string, interval, deadline time.Duration) bool {
	waitCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	for {
		cur, err := s.FirstCardText(waitCtx)
		if err == nil && cur != "" && cur != prev {
			return true
		}
		select {
		case <-waitCtx.Done():
			return false
		case <-time.After(interval):
		}
	}
}
