package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"magangpulse-engine/internal/config"
	"magangpulse-engine/internal/events"
	"magangpulse-engine/internal/httpapi"
	"magangpulse-engine/internal/scheduler"
	"magangpulse-engine/internal/scrape"
	"magangpulse-engine/internal/store"
)

const defaultPort = 38515

func main() {
	config.LoadDotenv()

	defaultCfgPath := filepath.Join("config", "config.yml")

	// Data dir: env wins (the desktop shell passes one), then the shipped
	// default config's app.data_dir, else local folder.
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

	// One engine per data dir. A second instance would fight over the
	// sqlite writer and the browser profile.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock data dir: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance already holds %s", dataDir)
	}
	defer lock.Unlock()

	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			log.Printf("[config] warn: %s", w)
		}
		for _, e := range vr.Errors {
			log.Printf("[config] error: %s", e)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "magangpulse.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	var scrapeStatus atomic.Value // stores scrape.Status
	scrapeStatus.Store(scrape.Status{})

	deps := httpapi.Deps{
		DB:           db.Pool,
		Hub:          hub,
		CfgVal:       &cfgVal,
		ScrapeStatus: &scrapeStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		RunScrape:    scrape.RunFull,
	}

	mux := httpapi.NewMux(deps)
	handler := httpapi.Chain(mux,
		httpapi.Recover,
		httpapi.RequestID,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional background re-crawl. Reads the config snapshot each tick so
	// a PUT /config takes effect without a restart.
	if secs := cfg.Polling.ScrapeSeconds; secs > 0 {
		interval := time.Duration(secs) * time.Second
		go scheduler.Every(ctx, interval, "poll-scrape", func(ctx context.Context) error {
			st := scrapeStatus.Load().(scrape.Status)
			if st.Running {
				log.Printf("[poll-scrape] previous run still in flight, skipping")
				return nil
			}
			cur := cfgVal.Load().(config.Config)
			scrapeStatus.Store(scrape.Status{
				LastRunAt: time.Now().Format(time.RFC3339),
				Running:   true,
				LastOkAt:  st.LastOkAt,
			})
			sum, err := scrape.RunFull(ctx, db.Pool, cur, func(typ string, data any) {
				hub.Publish(events.MakeEvent("", typ, 1, data))
			})
			now := time.Now().Format(time.RFC3339)
			next := scrapeStatus.Load().(scrape.Status)
			next.Running = false
			next.LastRunAt = now
			next.LastAdded = sum.Listings
			if err != nil {
				next.LastError = err.Error()
			} else {
				next.LastError = ""
				next.LastOkAt = now
			}
			scrapeStatus.Store(next)
			return err
		})
	}

	port := cfg.App.Port
	if port == 0 {
		port = defaultPort
	}
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.Serve(ln))
}
