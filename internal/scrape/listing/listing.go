// Package listing turns one rendered listing page into ordered records.
// Extraction is pure: no I/O, no errors. A heuristic that misses on a card
// leaves that field empty and moves on.
package listing

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"magangpulse-engine/internal/domain"
	"magangpulse-engine/internal/scrape/util"
)

// cardSelector is the structural signature of one posting tile: a flat,
// link-wrapped Vuetify card pointing at a detail path.
const cardSelector = "a.v-card.v-card--flat.v-card--link[href*='/lowongan/view/']"

// Extract parses every listing card in document order. Malformed or partial
// cards still yield a record with whatever fields matched.
func Extract(htmlSrc string) []domain.Listing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil
	}

	now := time.Now().UTC()

	var out []domain.Listing
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		href := strings.TrimSpace(card.AttrOr("href", ""))
		if href == "" {
			return
		}

		rec := domain.Listing{
			SourceURL: href,
			Status:    domain.StatusOpen,
			FetchedAt: now,
		}

		// Company & title, primary class selector then bare tag.
		company := card.Find("h6.text-h6").First()
		if company.Length() == 0 {
			company = card.Find("h6").First()
		}
		rec.Company = util.CleanText(company.Text())

		title := card.Find("h5.text-h5").First()
		if title.Length() == 0 {
			title = card.Find("h5").First()
		}
		rec.Title = util.CleanText(title.Text())

		rec.Location = extractLocation(card, company)

		// Date: calendar icon marker, following span, "3 Oktober 2025".
		if icon := card.Find(".tabler-calendar").First(); icon.Length() > 0 {
			if span := firstSpanAfter(card, icon); span != nil {
				rec.PostingDate = util.DateIDToISO(util.CleanText(span.Text()))
			}
		}

		// Applicants/quota: users icon marker, "905 pelamar | 1 kebutuhan".
		if icon := card.Find(".tabler-users").First(); icon.Length() > 0 {
			if span := firstSpanAfter(card, icon); span != nil {
				rec.Applicants, rec.Quota = util.ParseApplicantsQuota(util.CleanText(span.Text()))
			}
		}

		rec.ComputeMetrics()
		out = append(out, rec)
	})
	return out
}

// extractLocation scans the card's blocks for one styled small whose text
// reads as a place line, then falls back to the block right after the
// company name.
func extractLocation(card, company *goquery.Selection) string {
	var loc string
	card.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		txt := util.CleanText(div.Text())
		if txt == "" {
			return true
		}
		style := strings.ToLower(div.AttrOr("style", ""))
		if strings.Contains(style, "font-size") && util.LooksLikeLocation(txt) {
			loc = txt
			return false
		}
		return true
	})

	if loc == "" && company.Length() > 0 {
		if div := firstDivAfter(card, company); div != nil {
			if txt := util.CleanText(div.Text()); util.LooksLikeLocation(txt) {
				loc = txt
			}
		}
	}

	return util.NormalizeLocation(loc)
}

// firstSpanAfter returns the first span in the card that appears after the
// marker in document order, spanning sibling/ancestor boundaries the way the
// rendered markup nests icons.
func firstSpanAfter(card, marker *goquery.Selection) *goquery.Selection {
	return firstAfter(card, marker, "span")
}

func firstDivAfter(card, marker *goquery.Selection) *goquery.Selection {
	return firstAfter(card, marker, "div")
}

func firstAfter(card, marker *goquery.Selection, tag string) *goquery.Selection {
	if marker.Length() == 0 {
		return nil
	}
	order := docOrder(card.Get(0))
	markerIdx, ok := order[marker.Get(0)]
	if !ok {
		return nil
	}

	var found *goquery.Selection
	card.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if idx, ok := order[s.Get(0)]; ok && idx > markerIdx {
			found = s
			return false
		}
		return true
	})
	return found
}

// docOrder indexes every node under root by depth-first position.
func docOrder(root *html.Node) map[*html.Node]int {
	order := make(map[*html.Node]int)
	i := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		order[n] = i
		i++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return order
}
