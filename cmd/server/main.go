package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stemsi/careerpath/internal/config"
	"github.com/stemsi/careerpath/internal/database"
	"github.com/stemsi/careerpath/internal/handler"
	"github.com/stemsi/careerpath/internal/logger"
	"github.com/stemsi/careerpath/internal/middleware"
	"github.com/stemsi/careerpath/internal/repository"
	"github.com/stemsi/careerpath/internal/router"
	"github.com/stemsi/careerpath/internal/service"
	"github.com/stemsi/careerpath/internal/store"
	"github.com/stemsi/careerpath/internal/validator"
	"github.com/stemsi/careerpath/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting CareerPath API")
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, every caller is anonymous")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	kv := store.NewRedisStore(rdb)

	// ─── Initialize Repositories ───────────────────────────────────────
	questionRepo := repository.NewQuestionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	progressService := service.NewProgressService(kv, kv, log).WithHistory(resultRepo)
	examService := service.NewExamService(questionRepo, kv, progressService, cfg, log)
	roadmapService := service.NewRoadmapService(kv, progressService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": pool,
			"redis":    handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		}),
		Exam:     handler.NewExamHandler(examService, progressService),
		Progress: handler.NewProgressHandler(progressService),
		Roadmap:  handler.NewRoadmapHandler(roadmapService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	archiveWorker := worker.NewResultArchiveWorker(kv, resultRepo, cfg, log)
	go func() {
		archiveWorker.Start(workerCtx)
		close(workerDone)
	}()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	stopCleanup := make(chan struct{})
	go limiter.RunCleanup(stopCleanup, time.Minute, 3*time.Minute)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, middleware.NewIdentity(cfg.JWTSecret), limiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	close(stopCleanup)

	// 2. Stop the archive worker and wait for its final flush.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Archive worker did not finish in time")
	}

	log.Info().Msg("Shutdown complete")
}
