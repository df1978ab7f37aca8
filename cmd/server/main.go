package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/recallflash/internal/api"
	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/config"
	"github.com/vytor/recallflash/internal/db"
	"github.com/vytor/recallflash/internal/generator"
	"github.com/vytor/recallflash/internal/jobs"
	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/repository/sqlite"
	"github.com/vytor/recallflash/internal/services"
	"github.com/vytor/recallflash/internal/worker"
)

const sessionSweepInterval = time.Minute

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("RecallFlash Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.TimeZone)
	log.Debug("generator_url=%s", cfg.GeneratorURL)
	log.Debug("generator_timeout=%v", cfg.GeneratorTimeout)
	log.Debug("generator_batch_size=%d", cfg.GeneratorBatchSize)
	log.Debug("generation_worker_count=%d", cfg.GenerationWorkerCount)
	log.Debug("generation_queue_size=%d", cfg.GenerationQueueSize)
	log.Debug("session_idle_timeout=%v", cfg.SessionIdleTimeout)

	clk, err := clock.NewSystem(cfg.TimeZone)
	if err != nil {
		log.Error("invalid timezone %q: %v", cfg.TimeZone, err)
		os.Exit(1)
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	if cfg.GeneratorURL == "" {
		log.Warn("GENERATOR_URL not set, empty materials cannot be turned into cards")
	}
	gen := generator.New(generator.Options{
		Endpoint:  cfg.GeneratorURL,
		APIKey:    cfg.GeneratorAPIKey,
		Timeout:   cfg.GeneratorTimeout,
		BatchSize: cfg.GeneratorBatchSize,
	})

	// Initialize repositories
	cardRepo := sqlite.NewCardRepository(database.DB)
	materialRepo := sqlite.NewMaterialRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Initialize services
	deckService := services.NewDeckService(cardRepo, materialRepo, gen, clk)
	generationPool := worker.NewPool("generation", cfg.GenerationWorkerCount, cfg.GenerationQueueSize)
	jobQueue := jobs.NewWorkerQueue(generationPool, deckService)
	materialService := services.NewMaterialService(materialRepo, statsRepo, jobQueue, clk)
	sessionService := services.NewSessionService(deckService, cardRepo, clk, cfg.SessionIdleTimeout)

	srv := &api.Server{
		DB:              database.DB,
		MaterialService: materialService,
		DeckService:     deckService,
		SessionService:  sessionService,
		GenerationPool:  generationPool,
		RequestTimeout:  cfg.GeneratorTimeout + 30*time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	generationPool.Start(ctx)
	go sweepSessions(ctx, sessionService, log)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: srv.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Cancel the sweeper and any running generation jobs
	cancel()
	log.Debug("stopping generation pool")
	generationPool.Stop()

	log.Info("===========================================")
	log.Info("RecallFlash Server Stopped")
	log.Info("===========================================")
}

// sweepSessions evicts idle review sessions until ctx is cancelled.
func sweepSessions(ctx context.Context, sessions services.SessionService, log *logger.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := sessions.Sweep(now); n > 0 {
				log.Info("evicted %d idle sessions (%d active)", n, sessions.Count())
			}
		}
	}
}
