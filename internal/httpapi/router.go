package httpapi

import "net/http"

// NewMux returns the raw mux so main() can wrap it with middleware.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Listings
	lh := ListingsHandler{DB: d.DB}
	mux.HandleFunc("/api/listings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	}))
	mux.HandleFunc("/api/options", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.Options,
	}))

	// Companies
	coh := CompaniesHandler{DB: d.DB}
	mux.HandleFunc("/api/companies", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: coh.List,
	}))

	// Home (site stats + program timeline)
	hh := HomeHandler{DB: d.DB}
	mux.HandleFunc("/api/home", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Get,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Scrape
	sch := ScrapeHandler{
		DB:           d.DB,
		CfgVal:       d.CfgVal,
		ScrapeStatus: d.ScrapeStatus,
		Hub:          d.Hub,
		RunScrape:    d.RunScrape,
	}
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hlh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hlh.Health,
	}))

	return mux
}
