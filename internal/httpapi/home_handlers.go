package httpapi

import (
	"database/sql"
	"net/http"

	"magangpulse-engine/internal/store"
)

type HomeHandler struct {
	DB *sql.DB
}

func (h HomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, timeline, err := store.Home(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "query_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"stats":    stats,
		"timeline": timeline,
	})
}
