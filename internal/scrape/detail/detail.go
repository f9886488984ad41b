// Package detail parses a posting's detail page: the "Program Studi" chip
// list and the "Deskripsi" body. The markup nests differently between
// postings, so both walk label -> ancestor -> content with fallbacks.
package detail

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"magangpulse-engine/internal/scrape/util"
)

// MaxDescriptionLen caps the stored short description.
const MaxDescriptionLen = 1200

const chipContainerSelector = ".flex-wrap, .gap-2"

// ProgramStudi lists the program-of-study chips, deduped, in first-seen
// order. Empty slice when the page carries none.
func ProgramStudi(htmlSrc string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil
	}

	var containers []*goquery.Selection
	if label := findLabel(doc, "Program Studi"); label != nil {
		// Vuetify puts the chip wrapper in the label's column or the one
		// next to it.
		for _, anc := range []*goquery.Selection{label.Parent(), label.ParentsFiltered("div").First()} {
			if anc.Length() == 0 {
				continue
			}
			if cand := anc.Find(chipContainerSelector).First(); cand.Length() > 0 {
				containers = append(containers, cand)
				break
			}
		}
		if len(containers) == 0 {
			if sib := firstAfter(doc, label, chipContainerSelector); sib != nil {
				containers = append(containers, sib)
			}
		}
	}
	if len(containers) == 0 {
		// No label anywhere: sweep every chip wrapper on the page.
		doc.Find(chipContainerSelector).Each(func(_ int, s *goquery.Selection) {
			containers = append(containers, s)
		})
	}

	var tags []string
	seen := map[string]bool{}
	for _, cont := range containers {
		cont.Find(".v-chip__content").Each(func(_ int, chip *goquery.Selection) {
			t := util.CleanText(chip.Text())
			if t == "" || seen[t] {
				return
			}
			seen[t] = true
			tags = append(tags, t)
		})
	}
	return tags
}

var (
	bulletRx        = regexp.MustCompile(`(?m)^\s*[-•]\s*`)
	trailingWsRx    = regexp.MustCompile(`[ \t]+\n`)
	descriptionBody = ".text-body-1"
)

// Description extracts the "Deskripsi" block: label -> row ancestor ->
// right-hand body text, paragraphs joined by newline, bullets normalized.
// "" when the page has no usable description.
func Description(htmlSrc string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return ""
	}

	label := findLabel(doc, "Deskripsi")
	if label == nil {
		return ""
	}

	row := label.ParentsFiltered(".v-row").First()
	if row.Length() == 0 {
		row = label.ParentsFiltered("div").First()
	}

	var target *goquery.Selection
	if row.Length() > 0 {
		if t := row.Find(descriptionBody).First(); t.Length() > 0 {
			target = t
		} else if right := row.Find(".v-col-md-8, .v-col-12").First(); right.Length() > 0 {
			if t := right.Find(descriptionBody).First(); t.Length() > 0 {
				target = t
			} else {
				target = right
			}
		}
	}
	if target == nil {
		target = firstAfter(doc, label, descriptionBody)
	}
	if target == nil {
		return ""
	}

	var parts []string
	target.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := util.CleanText(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		if raw := util.CleanText(target.Text()); raw != "" {
			parts = []string{raw}
		}
	}
	if len(parts) == 0 {
		return ""
	}

	text := strings.Join(parts, "\n")
	text = bulletRx.ReplaceAllString(text, "• ")
	text = trailingWsRx.ReplaceAllString(text, "\n")
	text = strings.TrimSpace(text)

	if runes := []rune(text); len(runes) > MaxDescriptionLen {
		text = string(runes[:MaxDescriptionLen])
	}
	return text
}

// findLabel locates an element whose own text is exactly the wanted label,
// ignoring case and surrounding whitespace. Labels show up as <label>, <div>
// or <span> depending on the page build.
func findLabel(doc *goquery.Document, want string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("label, div, span").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if strings.EqualFold(util.CleanText(el.Text()), want) {
			found = el
			return false
		}
		return true
	})
	return found
}

// firstAfter returns the first selector match appearing after the marker in
// document order.
func firstAfter(doc *goquery.Document, marker *goquery.Selection, selector string) *goquery.Selection {
	if marker.Length() == 0 {
		return nil
	}
	root := doc.Selection.Get(0)
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

	markerIdx, ok := order[marker.Get(0)]
	if !ok {
		return nil
	}
	var found *goquery.Selection
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if idx, ok := order[s.Get(0)]; ok && idx > markerIdx {
			found = s
			return false
		}
		return true
	})
	return found
}
