package domain

import "time"

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Listing is one internship posting as harvested from the listing view,
// optionally enriched once from its detail page. SourceURL is the natural key
// across crawl runs.
type Listing struct {
	SourceURL string

	Title    string
	Company  string
	Location string
	Sector   string // "; "-joined program-of-study tags, "" when unknown

	PostingDate string // ISO-8601 date, "" when unparseable/absent

	Applicants *int
	Quota      *int

	AcceptanceRate *float64 // quota/applicants, only when applicants > 0
	DemandRatio    *float64 // applicants/quota, only when quota > 0

	Status           string // open | closed
	ShortDescription string // <= 1200 chars, "" when absent

	FetchedAt   time.Time
	ContentHash string
}

// ComputeMetrics fills AcceptanceRate and DemandRatio from Applicants/Quota.
// Neither ratio is clamped; missing or zero denominators leave the ratio nil.
func (l *Listing) ComputeMetrics() {
	l.AcceptanceRate = nil
	l.DemandRatio = nil

	var applicants, quota int
	if l.Applicants != nil {
		applicants = *l.Applicants
	}
	if l.Quota != nil {
		quota = *l.Quota
	}

	if applicants > 0 {
		ar := float64(quota) / float64(applicants)
		l.AcceptanceRate = &ar
	}
	if quota > 0 {
		dr := float64(applicants) / float64(quota)
		l.DemandRatio = &dr
	}
}

// PageSnapshot is one rendered page of the listing view. Ephemeral: consumed
// once by the extractor, never persisted.
type PageSnapshot struct {
	Index int
	HTML  string
}

// SiteStats mirrors the counters shown on the site's home page. Singleton row
// in storage.
type SiteStats struct {
	Companies     *int
	Applications  *int
	TotalListings *int
	FetchedAt     time.Time
}

// TimelineEntry is one step of the program-batch schedule on the home page.
type TimelineEntry struct {
	Batch      string
	Title      string
	StartDate  string // ISO-8601 or ""
	EndDate    string
	Status     string // active | upcoming | ""
	OrderIndex int
}
