package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"sync/atomic"
	"time"

	"magangpulse-engine/internal/config"
	"magangpulse-engine/internal/events"
	"magangpulse-engine/internal/scrape"
)

type ScrapeHandler struct {
	DB           *sql.DB
	CfgVal       *atomic.Value // config.Config
	ScrapeStatus *atomic.Value // scrape.Status
	Hub          *events.Hub
	RunScrape    func(ctx context.Context, db *sql.DB, cfg config.Config, onEvent func(string, any)) (scrape.Summary, error)
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.ScrapeStatus.Load().(scrape.Status)
	writeJSON(w, st)
}

// Run kicks off one full crawl in the background. Single-flight: a second
// POST while one is running is refused, not queued.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := h.ScrapeStatus.Load().(scrape.Status)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.ScrapeStatus.Store(scrape.Status{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastError: "",
		LastAdded: 0,
		LastOkAt:  st.LastOkAt,
	})

	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		sum, err := h.RunScrape(context.Background(), h.DB, cfg, func(typ string, data any) {
			h.Hub.Publish(events.MakeEvent("", typ, 1, data))
		})

		now := time.Now().Format(time.RFC3339)
		next := h.ScrapeStatus.Load().(scrape.Status)
		next.Running = false
		next.LastRunAt = now
		next.LastAdded = sum.Listings
		if err != nil {
			next.LastError = err.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.ScrapeStatus.Store(next)
	}()

	writeJSON(w, map[string]any{"ok": true})
}
