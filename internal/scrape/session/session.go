// Package session owns the browser/network session against the target site:
// root navigation, next-page driving, and single-page fetches with
// render-or-plain fallback.
package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"

	"magangpulse-engine/internal/config"
	"magangpulse-engine/internal/domain"
	"magangpulse-engine/internal/scrape/util"
)

const (
	// The site shows 20 cards per listing page; used only to turn the
	// "Ditemukan N lowongan" banner into a page estimate.
	assumedPageSize = 20

	navigateTimeout   = 90 * time.Second
	listingReadyWait  = 10 * time.Second
	detailReadyWait   = 30 * time.Second
	stallDeadline     = 12 * time.Second
	stallPollInterval = 300 * time.Millisecond
	settleDelay       = 800 * time.Millisecond

	listingScrollNudges = 3
	detailScrollNudges  = 4
)

type Driver struct {
	cfg      config.Config
	throttle *util.Throttle
	hc       *http.Client

	allocCtx     context.Context
	browserCtx   context.Context
	cancelAlloc  context.CancelFunc
	cancelBrowse context.CancelFunc
}

func New(cfg config.Config) *Driver {
	return &Driver{
		cfg:      cfg,
		throttle: util.NewThrottle(time.Duration(cfg.Scrape.ThrottleSeconds * float64(time.Second))),
		hc: &http.Client{
			Timeout: time.Duration(cfg.Scrape.RequestTimeoutSeconds) * time.Second,
		},
	}
}

// Start launches the headless browser when any rendered mode is enabled.
// Failure here is fatal to the run.
func (d *Driver) Start(ctx context.Context) error {
	if !d.cfg.Scrape.UseBrowser && !d.cfg.Scrape.UseBrowserDetail {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(d.cfg.Scrape.UserAgent),
		chromedp.WindowSize(1366, 900),
	)

	d.allocCtx, d.cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)
	d.browserCtx, d.cancelBrowse = chromedp.NewContext(d.allocCtx)

	// Force the browser process up now so a broken Chrome fails the run
	// instead of the first fetch.
	startCtx, cancel := context.WithTimeout(d.browserCtx, 30*time.Second)
	defer cancel()
	if err := chromedp.Run(startCtx); err != nil {
		d.Close()
		return fmt.Errorf("browser start: %w", err)
	}
	return nil
}

func (d *Driver) Close() {
	if d.cancelBrowse != nil {
		d.cancelBrowse()
	}
	if d.cancelAlloc != nil {
		d.cancelAlloc()
	}
}

// NavigateListing opens the listing root in the session tab and estimates the
// total listing count from the "Ditemukan N lowongan" banner. Nil estimate
// when the banner is absent. Errors here are fatal.
func (d *Driver) NavigateListing(ctx context.Context, listingURL string) (*int, error) {
	if d.browserCtx == nil {
		return nil, fmt.Errorf("navigate listing: browser session not started")
	}

	navCtx, cancel := context.WithTimeout(d.browserCtx, navigateTimeout)
	defer cancel()

	if err := chromedp.Run(navCtx,
		chromedp.Navigate(listingURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		return nil, fmt.Errorf("navigate listing %s: %w", listingURL, err)
	}

	// Tolerant wait for the cards to show; absence is not an error.
	_ = d.waitAny(navCtx, listingReadySignals, listingReadyWait)

	html, err := d.Content(navCtx)
	if err != nil {
		return nil, fmt.Errorf("navigate listing: read content: %w", err)
	}
	return util.ParseTotalListings(html), nil
}

// Paginate drives the next-page loop in the already-navigated session tab.
// The returned snapshots are ordered and final: the sequence stops early on a
// missing control or a stalled page, never retries.
func (d *Driver) Paginate(ctx context.Context, totalEstimate *int) ([]domain.PageSnapshot, error) {
	target := targetPages(d.cfg.Scrape.MaxPages, totalEstimate)
	return collectPages(ctx, d, target, stallPollInterval, stallDeadline, settleDelay)
}

// targetPages caps the planned page count by the banner estimate when one
// exists.
func targetPages(maxPages int, totalEstimate *int) int {
	if totalEstimate == nil || *totalEstimate <= 0 {
		return maxPages
	}
	est := (*totalEstimate + assumedPageSize - 1) / assumedPageSize
	if est < maxPages {
		return est
	}
	return maxPages
}

// FetchSingle fetches one URL. render=false is a plain GET with the fixed
// user agent and the mandatory post-fetch delay; render=true opens a fresh
// tab and waits for the listing cards.
func (d *Driver) FetchSingle(ctx context.Context, url string, render bool) (domain.PageSnapshot, error) {
	if !render || d.browserCtx == nil {
		return d.fetchPlain(ctx, url)
	}

	tabCtx, cancel := chromedp.NewContext(d.browserCtx)
	defer cancel()
	navCtx, cancelNav := context.WithTimeout(tabCtx, navigateTimeout)
	defer cancelNav()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return d.fetchPlain(ctx, url)
	}
	_ = d.waitAny(navCtx, listingReadySignals, listingReadyWait)
	scrollNudge(navCtx, listingScrollNudges, 600*time.Millisecond)
	if err := chromedp.Run(navCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return d.fetchPlain(ctx, url)
	}
	return domain.PageSnapshot{HTML: html}, nil
}

// FetchDetail renders a posting's detail page, waiting for the first of the
// detail readiness signals, then nudging lazy content. Any rendering error
// falls back transparently to the plain fetch.
func (d *Driver) FetchDetail(ctx context.Context, url string) (domain.PageSnapshot, error) {
	if !d.cfg.Scrape.UseBrowserDetail || d.browserCtx == nil {
		return d.fetchPlain(ctx, url)
	}

	tabCtx, cancel := chromedp.NewContext(d.browserCtx)
	defer cancel()
	navCtx, cancelNav := context.WithTimeout(tabCtx, navigateTimeout)
	defer cancelNav()

	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		return d.fetchPlain(ctx, url)
	}

	// Selector absence is tolerated; proceed once the deadline passes.
	_ = d.waitAny(navCtx, detailReadySignals, detailReadyWait)
	scrollNudge(navCtx, detailScrollNudges, 500*time.Millisecond)

	var html string
	if err := chromedp.Run(navCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return d.fetchPlain(ctx, url)
	}
	return domain.PageSnapshot{HTML: html}, nil
}

func (d *Driver) fetchPlain(ctx context.Context, url string) (domain.PageSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.PageSnapshot{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("User-Agent", d.cfg.Scrape.UserAgent)

	res, err := d.hc.Do(req)
	if err != nil {
		return domain.PageSnapshot{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return domain.PageSnapshot{}, fmt.Errorf("fetch %s: status %d", url, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.PageSnapshot{}, fmt.Errorf("fetch %s: read body: %w", url, err)
	}

	// Mandatory inter-request delay; this is the whole throttling policy.
	if err := d.throttle.Wait(ctx); err != nil {
		return domain.PageSnapshot{}, err
	}
	return domain.PageSnapshot{HTML: string(body)}, nil
}
