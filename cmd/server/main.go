package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bencao/herbquiz/internal/api"
	"github.com/bencao/herbquiz/internal/config"
	"github.com/bencao/herbquiz/internal/content"
	"github.com/bencao/herbquiz/internal/db"
	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/repository/sqlite"
	"github.com/bencao/herbquiz/internal/services"
	"github.com/bencao/herbquiz/internal/worker"
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
	log.Info("HerbQuiz Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("data_dir=%s", cfg.DataDir)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("suggestion_limit=%d", cfg.SuggestionLimit)
	log.Debug("distractor_count=%d", cfg.DistractorCount)
	log.Debug("distractor_attempts=%d", cfg.DistractorAttempts)
	log.Debug("content_enabled=%t", cfg.ContentEnabled())
	log.Debug("content_worker_count=%d", cfg.ContentWorkerCount)
	log.Debug("content_queue_size=%d", cfg.ContentQueueSize)

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

	// Initialize repositories and services. A failed catalog load is not
	// fatal: dependent endpoints answer 503 until an admin reload succeeds.
	ledgerRepo := sqlite.NewLedgerRepository(database.DB)
	resultRepo := sqlite.NewResultRepository(database.DB)

	catalogService := services.NewCatalogService(cfg.DataDir, cfg.SuggestionLimit)
	quizService := services.NewQuizService(catalogService, ledgerRepo, resultRepo, cfg.DistractorCount, cfg.DistractorAttempts)
	ledgerService := services.NewLedgerService(ledgerRepo)
	resultService := services.NewResultService(resultRepo)

	var contentService services.ContentService
	if cfg.ContentEnabled() {
		contentService = services.NewContentService(content.New(content.Config{
			APIBase: cfg.ContentAPIBase,
			Repo:    cfg.ContentRepo,
			Branch:  cfg.ContentBranch,
			Token:   cfg.ContentToken,
		}))
		log.Info("content management enabled for repo %s", cfg.ContentRepo)
	} else {
		log.Info("content management disabled (CONTENT_TOKEN/CONTENT_REPO not set)")
	}

	contentPool := worker.NewPool(cfg.ContentWorkerCount, cfg.ContentQueueSize)

	srv := &api.Server{
		CatalogService: catalogService,
		QuizService:    quizService,
		LedgerService:  ledgerService,
		ResultService:  resultService,
		ContentService: contentService,
		ContentPool:    contentPool,
		AdminToken:     cfg.AdminToken,
		DataDir:        cfg.DataDir,
		CORSOrigins:    cfg.CORSOrigins,
	}

	ctx, cancel := context.WithCancel(context.Background())
	contentPool.Start(ctx)

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

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	contentPool.Stop()

	log.Info("===========================================")
	log.Info("HerbQuiz Server Stopped")
	log.Info("===========================================")
}
