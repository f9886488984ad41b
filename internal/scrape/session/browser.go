package session

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const cardSelectorJS = `a.v-card.v-card--flat.v-card--link[href*='/lowongan/view/']`

// listingReadySignals: cards rendered, or at least the listing heading.
const listingReadySignals = `(function(){
	if (document.querySelector("` + cardSelectorJS + `")) return true;
	return (document.body.innerText || '').indexOf('Daftar Lowongan Magang') !== -1;
})()`

// detailReadySignals: any of the detail heading, the Program Studi label, a
// rendered chip, or the Deskripsi label.
const detailReadySignals = `(function(){
	if (document.querySelector('.v-chip__content')) return true;
	var labels = document.querySelectorAll('label, div, span');
	for (var i = 0; i < labels.length; i++) {
		var t = (labels[i].textContent || '').trim();
		if (/^Program Studi$/i.test(t) || /^Deskripsi$/i.test(t)) return true;
	}
	return (document.body.innerText || '').indexOf('Detail Lowongan') !== -1;
})()`

// waitAny polls a readiness expression until it returns true or the deadline
// passes. Timing out is not an error for the caller; the page is used as-is.
func (d *Driver) waitAny(ctx context.Context, signalJS string, deadline time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	for {
		var ready bool
		if err := chromedp.Run(waitCtx, chromedp.Evaluate(signalJS, &ready)); err != nil {
			return err
		}
		if ready {
			return nil
		}
		select {
		case <-waitCtx.Done():
			return waitCtx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}

// scrollNudge scrolls to the bottom a fixed number of times to trigger lazy
// content. Errors are ignored; this is best-effort.
func scrollNudge(ctx context.Context, times int, pause time.Duration) {
	for i := 0; i < times; i++ {
		_ = chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(pause),
		)
	}
}

// Content captures the session tab's current render.
func (d *Driver) Content(ctx context.Context) (string, error) {
	var html string
	if err := chromedp.Run(withBrowser(ctx, d.browserCtx), chromedp.OuterHTML("html", &html)); err != nil {
		return "", err
	}
	return html, nil
}

// FirstCardText reads the sentinel: the first card's visible text. Empty when
// no card is rendered.
func (d *Driver) FirstCardText(ctx context.Context) (string, error) {
	js := `(function(){
		var el = document.querySelector("` + cardSelectorJS + `");
		return el ? el.innerText.trim() : '';
	})()`
	var txt string
	if err := chromedp.Run(withBrowser(ctx, d.browserCtx), chromedp.Evaluate(js, &txt)); err != nil {
		return "", err
	}
	return txt, nil
}

// ClickNext tries to advance to nextPage (1-based) by, in order: an enabled
// Next control, a page-number button, an aria-label page button. False means
// no control matched, assume end of list.
func (d *Driver) ClickNext(ctx context.Context, nextPage int) (bool, error) {
	js := fmt.Sprintf(`(function(n){
		var disabled = function(b){
			if (b.disabled) return true;
			return ((b.getAttribute('aria-disabled') || '').trim().toLowerCase() === 'true');
		};
		var click = function(b){ b.scrollIntoView(); b.click(); return true; };

		var btns = Array.prototype.slice.call(document.querySelectorAll('button'));
		for (var i = 0; i < btns.length; i++) {
			var b = btns[i];
			var name = (b.getAttribute('aria-label') || '') + ' ' + (b.textContent || '');
			if (/next/i.test(name)) {
				if (disabled(b)) break;
				return click(b);
			}
		}

		var nums = document.querySelectorAll('li.v-pagination__item button');
		for (var j = 0; j < nums.length; j++) {
			if ((nums[j].textContent || '').trim() === String(n)) return click(nums[j]);
		}

		var aria = document.querySelector("button[aria-label*='Page " + n + "']");
		if (aria) return click(aria);

		return false;
	})(%d)`, nextPage)

	var clicked bool
	if err := chromedp.Run(withBrowser(ctx, d.browserCtx), chromedp.Evaluate(js, &clicked)); err != nil {
		return false, err
	}
	return clicked, nil
}

// withBrowser routes an action to the session tab unless the caller already
// holds a chromedp context (e.g. one derived from it with a timeout).
func withBrowser(ctx, browserCtx context.Context) context.Context {
	if chromedp.FromContext(ctx) != nil {
		return ctx
	}
	return browserCtx
}
