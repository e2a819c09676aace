package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lumilearn/lumilearn-api/internal/api"
	"github.com/lumilearn/lumilearn-api/internal/blob"
	"github.com/lumilearn/lumilearn-api/internal/config"
	"github.com/lumilearn/lumilearn-api/internal/repository/postgres"
	"github.com/lumilearn/lumilearn-api/internal/repository/redis"
	"github.com/lumilearn/lumilearn-api/internal/retention"
	"github.com/lumilearn/lumilearn-api/internal/scheduler"
	"github.com/lumilearn/lumilearn-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting Lumilearn API server")

	// Initialize database
	db, err := postgres.NewDB(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Blob storage for transcript attachments. Missing credentials leave the
	// store unavailable; cleanup then skips file deletion.
	blobStore, err := blob.NewS3Store(context.Background(), cfg.Blob)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize blob storage")
	}

	// Background recompute queue
	queue := service.NewQueue(cfg.Cleanup.WorkerCount, cfg.Cleanup.QueueSize)

	// Retention cleanup engine and its cron schedule
	engine := retention.NewEngine(
		postgres.NewSessionRepository(db.Pool),
		retention.NewResolver(postgres.NewSettingsRepository(db.Pool)),
		blobStore,
	)
	sched := scheduler.New(engine, cfg.Cleanup)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start cleanup scheduler")
	}

	// Initialize router
	router := api.NewRouter(cfg, db, redisClient, queue, engine)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	sched.Stop()
	queue.Shutdown(ctx)

	log.Info().Msg("Server stopped")
}
