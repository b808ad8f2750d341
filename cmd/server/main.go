package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lucasmv/triviarush/internal/api"
	"github.com/lucasmv/triviarush/internal/config"
	"github.com/lucasmv/triviarush/internal/db"
	"github.com/lucasmv/triviarush/internal/logger"
	"github.com/lucasmv/triviarush/internal/opentdb"
	"github.com/lucasmv/triviarush/internal/quiz"
	"github.com/lucasmv/triviarush/internal/repository"
	"github.com/lucasmv/triviarush/internal/repository/file"
	"github.com/lucasmv/triviarush/internal/repository/sqlite"
	"github.com/lucasmv/triviarush/internal/services"
	"github.com/lucasmv/triviarush/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("TriviaRush Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("provider_base_url=%s", cfg.ProviderBaseURL)
	log.Debug("round_seconds=%d", cfg.RoundSeconds)
	log.Debug("session_ttl_minutes=%d", cfg.SessionTTLMinutes)
	log.Debug("leaderboard_backend=%s", cfg.LeaderboardBackend)
	log.Debug("persist_worker_count=%d", cfg.PersistWorkerCount)
	log.Debug("persist_queue_size=%d", cfg.PersistQueueSize)

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

	// Load templates
	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}
	log.Debug("templates loaded successfully")

	// Initialize worker pool for history writes and category refreshes
	persistPool := worker.NewPool(cfg.PersistWorkerCount, cfg.PersistQueueSize)

	// Pick the leaderboard backend
	var scoreStore repository.ScoreStore
	if cfg.LeaderboardBackend == "file" {
		scoreStore = file.NewScoreStore(cfg.LeaderboardPath)
	} else {
		scoreStore = sqlite.NewScoreStore(database.DB)
	}
	log.Info("leaderboard backend: %s", cfg.LeaderboardBackend)

	historyRepo := sqlite.NewHistoryRepository(database.DB)

	// Initialize services
	provider := opentdb.New(cfg.ProviderBaseURL, time.Duration(cfg.ProviderTimeoutSec)*time.Second)
	hub := quiz.NewHub(time.Duration(cfg.SessionTTLMinutes) * time.Minute)
	leaderboardService := services.NewLeaderboardService(scoreStore, cfg.LeaderboardSize)
	categoryService := services.NewCategoryService(provider, time.Duration(cfg.CategoryRefreshMin)*time.Minute)
	statsService := services.NewStatsService(historyRepo)

	quizOpts := quiz.Options{
		RoundSeconds:   cfg.RoundSeconds,
		LowTimeSeconds: cfg.LowTimeSeconds,
		RevealDelay:    time.Duration(cfg.RevealDelaySec) * time.Second,
	}
	quizService := services.NewQuizService(
		provider,
		hub,
		quizOpts,
		leaderboardService,
		categoryService,
		historyRepo,
		persistPool,
		cfg.MaxQuestionCount,
	)

	srv := &api.Server{
		DB:                   database,
		Quiz:                 quizService,
		Leaderboard:          leaderboardService,
		Categories:           categoryService,
		Stats:                statsService,
		Templates:            tmpl,
		DefaultQuestionCount: cfg.DefaultQuestionCount,
	}

	ctx, cancel := context.WithCancel(context.Background())
	persistPool.Start(ctx)

	// Warm the category cache and keep it fresh
	persistPool.Submit(&worker.RefreshCategoriesJob{Categories: categoryService})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.CategoryRefreshMin) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				persistPool.TrySubmit(&worker.RefreshCategoriesJob{Categories: categoryService})
			}
		}
	}()

	// Drop quizzes abandoned past the session TTL
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := hub.Sweep(); n > 0 {
					log.Info("swept %d idle quizzes", n)
				}
			}
		}
	}()

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	log.Debug("stopping background goroutines")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	persistPool.Stop()

	log.Info("===========================================")
	log.Info("TriviaRush Server Stopped")
	log.Info("===========================================")
}
