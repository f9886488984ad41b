package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"magangpulse-engine/internal/config"
	"magangpulse-engine/internal/scrape"
	"magangpulse-engine/internal/store"
)

// One-shot crawl from the terminal. Same pipeline as POST /scrape/run,
// without starting the HTTP server.
func main() {
	maxPages := flag.Int("max-pages", 0, "override scrape.max_pages (0 keeps config)")
	noDetail := flag.Bool("no-detail", false, "skip detail enrichment for this run")
	flag.Parse()

	config.LoadDotenv()

	defaultCfgPath := filepath.Join("config", "config.yml")

	dataDir := os.Getenv("MAGANGPULSE_DATA_DIR")
	if dataDir == "" {
		if seed, err := config.Load(defaultCfgPath); err == nil {
			dataDir = seed.App.DataDir
		}
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// Same lock the server takes; a crawl alongside a running engine would
	// fight over the SQLite writer.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock data dir: %v", err)
	}
	if !locked {
		log.Fatalf("another engine/scrape instance already holds %s", dataDir)
	}
	defer lock.Unlock()

	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		log.Printf("[config] warn: %s", w)
	}
	if !vr.OK() {
		for _, e := range vr.Errors {
			log.Printf("[config] error: %s", e)
		}
		os.Exit(1)
	}

	if *maxPages > 0 {
		cfg.Scrape.MaxPages = *maxPages
	}
	if *noDetail {
		cfg.Detail.Enabled = false
	}

	db, err := store.Open(filepath.Join(dataDir, "magangpulse.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	sum, err := scrape.RunFull(context.Background(), db.Pool, cfg, nil)
	if err != nil {
		log.Fatalf("scrape failed: %v", err)
	}
	log.Printf("done: pages=%d listings=%d with_sector=%d timeline_items=%d",
		sum.Pages, sum.Listings, sum.WithSector, sum.TimelineItems)
}
