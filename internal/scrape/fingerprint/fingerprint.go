// Package fingerprint makes harvested listings storable: absolute URLs and a
// stable content digest for change detection between crawl runs.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"magangpulse-engine/internal/domain"
)

// Normalize rewrites a root-relative source URL against the site root.
// Absolute URLs pass through untouched.
func Normalize(l *domain.Listing, baseRoot string) {
	if strings.HasPrefix(l.SourceURL, "/") {
		l.SourceURL = strings.TrimRight(baseRoot, "/") + l.SourceURL
	}
}

// Hash digests the change-relevant projection of a listing. FetchedAt is
// deliberately excluded so repeated crawls of an unchanged posting hash
// identically.
func Hash(l domain.Listing) string {
	key := strings.Join([]string{
		l.Title,
		l.Company,
		intKey(l.Applicants),
		intKey(l.Quota),
		l.PostingDate,
	}, "|")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Stamp sets the content hash in place.
func Stamp(l *domain.Listing) {
	l.ContentHash = Hash(*l)
}

func intKey(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}
