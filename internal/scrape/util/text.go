package util

import (
	"regexp"
	"strings"
)

var commaRx = regexp.MustCompile(`\s*,\s*`)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// NormalizeLocation evens out the spacing around commas; the site renders
// "KAB. TANGERANG , BANTEN" with whatever whitespace the layout left behind.
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}
	return strings.TrimSpace(commaRx.ReplaceAllString(loc, " , "))
}

var locHintRx = regexp.MustCompile(`(?i)\b(KOTA|KAB\.?|KABUPATEN|PROV\.?|PROVINSI)\b`)

// LooksLikeLocation reports whether a text block reads as an Indonesian
// place line (comma-separated or carrying a city/regency/province marker).
func LooksLikeLocation(txt string) bool {
	return strings.Contains(txt, ",") || locHintRx.MatchString(txt)
}
