package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"magangpulse-engine/internal/config"
	"magangpulse-engine/internal/events"
	"magangpulse-engine/internal/scrape"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	ScrapeStatus *atomic.Value // stores scrape.Status

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Scrape entrypoint (inject for testability)
	RunScrape func(ctx context.Context, db *sql.DB, cfg config.Config, onEvent func(string, any)) (scrape.Summary, error)
}
