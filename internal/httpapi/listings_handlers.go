package httpapi

import (
	"database/sql"
	"net/http"
	"net/url"
	"strconv"

	"magangpulse-engine/internal/store"
)

type ListingsHandler struct {
	DB *sql.DB
}

// List serves the filtered/sorted/paginated listing read. Every filter is
// optional; unknown sorts fall back to "recent".
func (h ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := store.ListListingsOpts{
		Page:      queryInt(q, "page", 1),
		PageSize:  queryInt(q, "page_size", 20),
		Query:     q.Get("query"),
		Companies: q["company"],
		Locations: q["location"],
		Sectors:   q["sector"],
		Sort:      q.Get("sort"),

		MinAR:         queryFloatPtr(q, "min_ar"),
		MaxAR:         queryFloatPtr(q, "max_ar"),
		MinApplicants: queryIntPtr(q, "min_applicants"),
		MaxApplicants: queryIntPtr(q, "max_applicants"),
		MinQuota:      queryIntPtr(q, "min_quota"),
		MaxQuota:      queryIntPtr(q, "max_quota"),
	}

	rows, total, err := store.ListListings(r.Context(), h.DB, opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"data":      rows,
		"total":     total,
		"page":      opts.Page,
		"page_size": opts.PageSize,
	})
}

func (h ListingsHandler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := store.ListOptions(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	writeJSON(w, opts)
}

func queryInt(q url.Values, key string, def int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func queryIntPtr(q url.Values, key string) *int {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func queryFloatPtr(q url.Values, key string) *float64 {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
