// Package home parses the site's landing page: headline counters and the
// program-batch timeline. Structurally simple compared to the listing view;
// both results go to storage unchanged.
package home

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"magangpulse-engine/internal/domain"
	"magangpulse-engine/internal/scrape/util"
)

var batchRx = regexp.MustCompile(`(?i)Batch\s*(\d+)`)

// Stats reads the "Jumlah Perusahaan" / "Jumlah Lamaran" counters. Each label
// sits near an h4 holding the number; missing labels leave nil.
func Stats(htmlSrc string) (companies, applications *int) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, nil
	}
	companies = counterNear(doc, "Jumlah Perusahaan")
	applications = counterNear(doc, "Jumlah Lamaran")
	return companies, applications
}

// counterNear walks up from the label text to the first ancestor holding an
// h4, then parses that number.
func counterNear(doc *goquery.Document, label string) *int {
	var out *int
	lower := strings.ToLower(label)
	doc.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(util.CleanText(el.Text())), lower) {
			return true
		}
		// Only consider elements that directly carry the label text, not
		// every ancestor of it.
		if el.Children().Length() > 0 && !strings.Contains(strings.ToLower(ownText(el)), lower) {
			return true
		}
		for p := el.Parent(); p.Length() > 0; p = p.Parent() {
			if h4 := p.Find("h4").First(); h4.Length() > 0 {
				if n := util.ParseIntID(util.CleanText(h4.Text())); n != nil {
					out = n
					return false
				}
			}
		}
		return true
	})
	return out
}

func ownText(el *goquery.Selection) string {
	var b strings.Builder
	for _, n := range el.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}

// Timeline reads the batch schedule section: one entry per .timeline-item,
// date ranges split on "-", active/upcoming taken from the item classes.
func Timeline(htmlSrc string) []domain.TimelineEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil
	}

	container := doc.Find(".timeline-section").First()
	if container.Length() == 0 {
		container = doc.Selection
	}

	batch := ""
	container.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		txt := util.CleanText(ownText(el))
		if m := batchRx.FindStringSubmatch(txt); m != nil {
			batch = "Batch " + m[1]
			return false
		}
		return true
	})

	var items []domain.TimelineEntry
	container.Find(".timeline .timeline-item").Each(func(i int, it *goquery.Selection) {
		entry := domain.TimelineEntry{Batch: batch, OrderIndex: i}

		title := it.Find("h5, h6").First()
		entry.Title = util.CleanText(title.Text())

		dateEl := it.Find(".text-muted, .small, .text-body").First()
		dateText := util.CleanText(dateEl.Text())
		parts := strings.Split(dateText, "-")
		if len(parts) > 0 {
			entry.StartDate = util.DateIDToISO(strings.TrimSpace(parts[0]))
		}
		if len(parts) > 1 {
			entry.EndDate = util.DateIDToISO(strings.TrimSpace(parts[1]))
		}

		if it.HasClass("active") {
			entry.Status = "active"
		} else if it.HasClass("upcoming") {
			entry.Status = "upcoming"
		}

		items = append(items, entry)
	})
	return items
}
