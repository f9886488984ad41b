package httpapi

import (
	"database/sql"
	"net/http"

	"magangpulse-engine/internal/store"
)

type CompaniesHandler struct {
	DB *sql.DB
}

func (h CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rows, total, err := store.ListCompanies(r.Context(), h.DB,
		q.Get("sort"),
		queryInt(q, "page", 1),
		queryInt(q, "page_size", 50),
	)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"data":  rows,
		"total": total,
	})
}
