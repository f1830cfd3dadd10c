package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"leadengine/internal/config"
	"leadengine/internal/events"
	"leadengine/internal/httpapi"
	"leadengine/internal/poll"
	"leadengine/internal/scheduler"
	"leadengine/internal/scrape"
	"leadengine/internal/scrape/util"
	"leadengine/internal/secrets"
	"leadengine/internal/store"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	// Engine data dir: use env if provided, else a local folder.
	dataDir := os.Getenv("LEADENGINE_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir; a second instance would fight over the
	// sqlite file and double-scrape every source.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock data dir: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running in %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		raw, err := config.Load(userCfgPath)
		if err != nil {
			return config.Config{}, err
		}
		normalized, vr := config.NormalizeAndValidate(raw)
		for _, w := range vr.Warnings {
			log.Printf("[config] warning: %s", w)
		}
		if !vr.OK() {
			for _, e := range vr.Errors {
				log.Printf("[config] error: %s", e)
			}
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "leadengine.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	runner := &scrape.Runner{
		DB:       db.Pool,
		Limiter:  util.NewHostLimiter(1, 2),
		GeoKey:   secrets.GeocoderKey,
		RapidKey: secrets.CompsKey,
	}
	runner.OnNew = func(row store.Lead) {
		hub.Publish(events.MakeEvent("", events.TypeLeadCreated, 1, map[string]any{"id": row.ID}))
		if row.HotLead {
			hub.Publish(events.MakeEvent("", events.TypeHotLead, 1, map[string]any{
				"id": row.ID, "title": row.Title, "score": row.Score,
			}))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// background scrape loop
	go poll.Run(ctx, func() time.Duration {
		c := cfgVal.Load().(config.Config)
		return time.Duration(c.Polling.ScrapeMinutes) * time.Minute
	}, func(ctx context.Context) {
		c := cfgVal.Load().(config.Config)
		if _, err := runner.Run(ctx, c); err != nil {
			log.Printf("[scrape] cycle failed: %v", err)
		}
	})

	// stale lead cleanup
	cleanupEvery := time.Duration(cfg.Polling.CleanupHours) * time.Hour
	if cleanupEvery <= 0 {
		cleanupEvery = 24 * time.Hour
	}
	go scheduler.Every(ctx, cleanupEvery, func(ctx context.Context) {
		c := cfgVal.Load().(config.Config)
		n, err := store.CleanupOldLeads(db.Pool, c.Polling.MaxLeadAgeDays)
		if err != nil {
			log.Printf("[cleanup] %v", err)
			return
		}
		if n > 0 {
			log.Printf("[cleanup] deleted %d stale leads", n)
		}
	})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db.Pool,
		Hub:         hub,
		Runner:      runner,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Printf("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
