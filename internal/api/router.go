package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lumilearn/lumilearn-api/internal/api/handler"
	customMiddleware "github.com/lumilearn/lumilearn-api/internal/api/middleware"
	"github.com/lumilearn/lumilearn-api/internal/classifier"
	"github.com/lumilearn/lumilearn-api/internal/config"
	"github.com/lumilearn/lumilearn-api/internal/llm/gemini"
	"github.com/lumilearn/lumilearn-api/internal/repository/postgres"
	"github.com/lumilearn/lumilearn-api/internal/repository/redis"
	"github.com/lumilearn/lumilearn-api/internal/retention"
	"github.com/lumilearn/lumilearn-api/internal/security"
	"github.com/lumilearn/lumilearn-api/internal/service"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router. The queue and cleanup
// engine are owned by the caller so their lifecycle outlives any request.
func NewRouter(
	cfg *config.Config,
	db *postgres.DB,
	redisClient *redis.Client,
	queue *service.Queue,
	engine *retention.Engine,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret)

	// Initialize repositories
	sessionRepo := postgres.NewSessionRepository(db.Pool)
	progressRepo := postgres.NewProgressRepository(db.Pool)
	activityRepo := postgres.NewUserActivityRepository(db.Pool)

	statsCache := redis.NewStatsCache(redisClient)

	// Subject classification oracle
	oracle := gemini.NewProvider(cfg.LLM.Gemini)
	if !oracle.IsConfigured() {
		log.Warn().Msg("Gemini API key is empty, classification falls back to defaults")
	}
	subjects := classifier.New(oracle)

	// Initialize services
	sessionService := service.NewSessionService(
		sessionRepo,
		progressRepo,
		activityRepo,
		subjects,
		queue,
		statsCache,
	)
	statsService := service.NewStatsService(
		sessionRepo,
		progressRepo,
		activityRepo,
		statsCache,
	)

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	statsHandler := handler.NewStatsHandler(statsService)
	adminHandler := handler.NewAdminHandler(engine, cfg.Cleanup.IncompleteAfterDays)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Session routes
			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Post("/", sessionHandler.Create)
				r.Get("/active", sessionHandler.GetActive)

				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", sessionHandler.Get)
					r.Patch("/", sessionHandler.Update)
					r.Delete("/", sessionHandler.Delete)
					r.Post("/resume", sessionHandler.Resume)
				})
			})

			// Derived-metrics routes
			r.Route("/stats", func(r chi.Router) {
				r.Get("/", statsHandler.PersonalStats)
				r.Get("/streak", statsHandler.Streak)
				r.Get("/medals", statsHandler.Medals)
				r.Get("/star-progress", statsHandler.StarProgress)
			})

			// Manual cleanup triggers
			r.Route("/admin/cleanup", func(r chi.Router) {
				r.Post("/", adminHandler.CleanupExpired)
				r.Post("/stale", adminHandler.CleanupStale)
				r.Post("/incomplete", adminHandler.CleanupIncomplete)
				r.Post("/orphaned-files", adminHandler.SweepOrphanedFiles)
			})
		})
	})

	return r
}
