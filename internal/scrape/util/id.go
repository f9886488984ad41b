package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Numbers on the site use Indonesian dot-grouped thousands: "1.234".
var numRx = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})+|\d+)`)

// ParseIntID pulls the first integer out of a text fragment, stripping
// dot-grouped separators. Returns nil when no number is present.
func ParseIntID(s string) *int {
	m := numRx.FindString(s)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ".", ""))
	if err != nil {
		return nil
	}
	return &n
}

var monthID = map[string]string{
	"Januari": "01", "Februari": "02", "Maret": "03", "April": "04",
	"Mei": "05", "Juni": "06", "Juli": "07", "Agustus": "08",
	"September": "09", "Oktober": "10", "November": "11", "Desember": "12",
	// abbreviated forms
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04", "Jun": "06",
	"Jul": "07", "Agu": "08", "Sep": "09", "Okt": "10", "Nov": "11", "Des": "12",
}

// DateIDToISO converts "3 Oktober 2025" / "31 Des 2024" to ISO-8601.
// Anything that is not exactly day month-name year comes back "".
func DateIDToISO(text string) string {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) != 3 {
		return ""
	}
	mm, ok := monthID[parts[1]]
	if !ok {
		return ""
	}
	d, err := strconv.Atoi(parts[0])
	if err != nil || d < 1 || d > 31 {
		return ""
	}
	if _, err := strconv.Atoi(parts[2]); err != nil || len(parts[2]) != 4 {
		return ""
	}
	return fmt.Sprintf("%s-%s-%02d", parts[2], mm, d)
}

var (
	applicantsRx = regexp.MustCompile(`(?i)(\d[\d\.]*)\s*pelamar`)
	quotaRx      = regexp.MustCompile(`(?i)(\d[\d\.]*)\s*(kebutuhan|kuota)`)
	foundRx      = regexp.MustCompile(`(?i)Ditemukan\s+(\d[\d\.]*)\s+lowongan`)
)

// ParseApplicantsQuota reads "905 pelamar | 1 kebutuhan" style lines. Either
// side may be missing independently.
func ParseApplicantsQuota(info string) (applicants, quota *int) {
	if m := applicantsRx.FindStringSubmatch(info); m != nil {
		applicants = ParseIntID(m[1])
	}
	if m := quotaRx.FindStringSubmatch(info); m != nil {
		quota = ParseIntID(m[1])
	}
	return applicants, quota
}

// ParseTotalListings finds the "Ditemukan N lowongan" banner anywhere in a
// text blob. Nil when the banner is absent.
func ParseTotalListings(text string) *int {
	m := foundRx.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return ParseIntID(m[1])
}
