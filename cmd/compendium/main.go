package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"CarbonCompendium/internal/api"
	"CarbonCompendium/internal/atlas"
	"CarbonCompendium/internal/cache"
	"CarbonCompendium/internal/collector"
	"CarbonCompendium/internal/config"
	"CarbonCompendium/internal/glossary"
	"CarbonCompendium/internal/notifier"
	"CarbonCompendium/internal/observability"
	"CarbonCompendium/internal/recorder"
	"CarbonCompendium/internal/registry"
	"CarbonCompendium/internal/scenarios"
	"CarbonCompendium/internal/scheduler"
	"CarbonCompendium/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CarbonCompendium starting...")

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stores
	var projects registry.Store
	if sq, err := registry.NewSQLiteStore(cfg.Database.RegistryPath); err != nil {
		log.Printf("[WARN] init project registry failed, using memory: %v", err)
		projects = registry.NewMemoryStore()
	} else {
		projects = sq
	}
	defer projects.Close()

	var rec recorder.Recorder
	if sr, err := recorder.NewSQLiteRecorder(cfg.Database.RunsPath); err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		rec = recorder.NewNoopRecorder()
	} else {
		rec = sr
	}
	defer rec.Close()

	var gl api.GlossaryStore
	var glStore *glossary.Store
	if glStore, err = glossary.Open(cfg.Database.GlossaryPath); err != nil {
		log.Printf("[WARN] glossary unavailable: %v", err)
	} else {
		defer glStore.Close()
		gl = glStore
		if n, err := glStore.Seed(ctx, cfg.Glossary.SeedFile); err != nil {
			log.Printf("[WARN] seed glossary: %v", err)
		} else if n > 0 {
			log.Printf("[INFO] glossary seeded with %d terms", n)
		}
	}

	var at api.AtlasStore
	if atStore, err := atlas.Open(cfg.Database.AtlasPath, cfg.Atlas.AdminPass); err != nil {
		log.Printf("[WARN] commodity atlas unavailable: %v", err)
	} else {
		defer atStore.Close()
		at = atStore
		if !atStore.EditingEnabled() {
			log.Println("[INFO] atlas editing disabled: no admin password configured")
		}
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	// Result cache
	ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
	var resultCache cache.Cache = cache.NewMemoryCache(ttl)
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisCache(cfg.Redis.Addr, ttl)
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Printf("[WARN] redis %s unreachable, using memory cache: %v", cfg.Redis.Addr, err)
			rc.Close()
		} else {
			resultCache = rc
			defer rc.Close()
			log.Printf("[INFO] result cache: redis %s", cfg.Redis.Addr)
		}
		pingCancel()
	}

	// Electricity history
	var fetcher collector.Fetcher = &collector.MockFetcher{}
	switch {
	case cfg.Electricity.HistoryURL != "":
		fetcher = collector.NewHTTPFetcher(cfg.Electricity.HistoryURL, cfg.Electricity.APIKey, cfg.Proxy)
	case cfg.Electricity.HistoryFile != "":
		fetcher = collector.NewCSVFetcher(cfg.Electricity.HistoryFile)
	}
	log.Printf("[INFO] electricity data source: %s", fetcher.Name())
	var fallback collector.Fetcher
	if fetcher.Name() != "mock" {
		fallback = &collector.MockFetcher{}
	}
	explorer := scenarios.NewExplorer(collector.NewCollector(fetcher, fallback), cfg.Electricity.HorizonYear)

	svc := service.New(service.Options{
		MinTrials:     cfg.Simulation.MinTrials,
		MaxTrials:     cfg.Simulation.MaxTrials,
		DefaultTrials: cfg.Simulation.DefaultTrials,
		HistogramBins: cfg.Simulation.HistogramBins,
	}, resultCache, rec, metrics)

	router := api.NewRouter(api.Deps{
		Service:   svc,
		Projects:  projects,
		Glossary:  gl,
		Atlas:     at,
		Scenarios: explorer,
		Metrics:   metrics,
		Gatherer:  reg,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Telegram notifier
	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Println("[INFO] Telegram disabled: no bot token configured")
	}

	var searcher scheduler.GlossarySearcher
	if glStore != nil {
		searcher = glStore
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, svc, cfg.Scenarios, projects, searcher, sender)
	if err := sched.RegisterAll(); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run a named scenario immediately on start
	if name := os.Getenv("RUN_ON_START"); name != "" {
		if _, ok := cfg.Scenario(name); ok {
			log.Printf("[INFO] RUN_ON_START enabled, running scenario %s now", name)
			go func() {
				if err := sched.RunScenarioNow(name); err != nil {
					log.Printf("[ERROR] run scenario %s: %v", name, err)
				}
			}()
		} else {
			log.Printf("[WARN] RUN_ON_START names unknown scenario %q", name)
		}
	}

	log.Println("[INFO] CarbonCompendium is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] CarbonCompendium stopped")
}
