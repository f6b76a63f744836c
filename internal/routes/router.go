package routes

import (
	"context"
	"net/http"
	"time"

	"horizonva/opsdesk/internal/api"
	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/config"
	"horizonva/opsdesk/internal/db"
	"horizonva/opsdesk/internal/jobs"
	"horizonva/opsdesk/internal/logging"
	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/middleware"
	"horizonva/opsdesk/internal/workers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func RegisterRoutes(cfg *config.Config, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	if cfg.AppEnv == "development" {
		// Dumps request and response bodies, development only
		r.Use(middleware.Logging)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// Unknown paths and wrong methods answer in the same envelope as
	// everything else so clients never have to parse chi's plain-text default.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		common.RespondError(w, time.Now(), nil, "Route not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		common.RespondError(w, time.Now(), nil, "Method not allowed", http.StatusMethodNotAllowed)
	})

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/health", api.HealthCheckHandler(db.DB, upSince))

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(context.Background(), cfg, metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Scheduled roster generation; the returned job also backs the manual
	// trigger endpoint.
	genJob := jobs.InitializeJobs(
		context.Background(),
		deps.Services.Ingestion,
		deps.Services.Builder,
		deps.Services.Catalog,
		metricsReg,
		cfg.RosterGenInterval,
	)

	workers.InitWorkers(
		context.Background(),
		deps.Sheets,
		cfg.LedgerSpreadsheetID,
		cfg.LedgerSheetName,
		deps.RedisLedger,
		deps.ChannelLedger,
		metricsReg,
	)

	// Initialize handlers with dependencies
	handlers := api.NewHandlers(deps, genJob)

	RegisterAPIRoutes(r, handlers, deps.Repo.Keys, cfg.JWTSecret)

	return r
}
