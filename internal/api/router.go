package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/verity/internal/api/handlers"
	mw "github.com/Harshitk-cp/verity/internal/api/middleware"
	"github.com/Harshitk-cp/verity/internal/config"
	"github.com/Harshitk-cp/verity/internal/domain"
	"github.com/Harshitk-cp/verity/internal/embedding"
	"github.com/Harshitk-cp/verity/internal/evidence"
	"github.com/Harshitk-cp/verity/internal/research"
	"github.com/Harshitk-cp/verity/internal/service"
	"github.com/Harshitk-cp/verity/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and request metrics for lifecycle management.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	reportStore := store.NewReportStore(db)

	// External clients via provider factory
	var researchClient domain.ResearchClient
	var embeddingClient domain.EmbeddingClient

	researchProvider := config.ResearchProvider()
	researchAPIKey := config.ResearchAPIKey()
	embeddingProvider := config.EmbeddingProvider()
	embeddingAPIKey := config.EmbeddingAPIKey()

	var err error
	researchClient, err = research.NewClient(researchProvider, researchAPIKey)
	if err != nil {
		logger.Warn("research client initialization failed", zap.String("provider", researchProvider), zap.Error(err))
	} else {
		logger.Info("research client initialized", zap.String("provider", researchProvider))
	}

	embeddingClient, err = embedding.NewClient(embeddingProvider, embeddingAPIKey)
	if err != nil {
		logger.Warn("embedding client initialization failed", zap.String("provider", embeddingProvider), zap.Error(err))
	} else {
		logger.Info("embedding client initialized", zap.String("provider", embeddingProvider))
	}

	// Citation policy and services
	policy := evidence.NewAuthorityPolicy(config.AuthorityDomains()...)
	gateSvc := service.NewGateService(researchClient, policy, config.RequireCitations(), config.ResearchTimeout(), logger)
	reportSvc := service.NewReportService(researchClient, gateSvc, reportStore, embeddingClient, config.ResearchTimeout(), config.EvaluationTimeout(), logger)

	// Handlers
	queryHandler := handlers.NewQueryHandler(gateSvc)
	reportHandler := handlers.NewReportHandler(reportSvc)
	categoryHandler := handlers.NewCategoryHandler()

	r := chi.NewRouter()

	// Initialize app with metrics tracking
	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                 // Generate/extract request ID first
	r.Use(middleware.RealIP)                                            // Extract real IP
	r.Use(metricsCollector.Middleware)                                  // Collect metrics
	r.Use(mw.Logging(logger))                                           // Log all requests
	r.Use(middleware.Recoverer)                                         // Recover from panics
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		// Gated research queries
		r.Post("/queries", queryHandler.Create)
		r.Post("/updates", queryHandler.SearchUpdates)

		// Category catalog
		r.Get("/categories", categoryHandler.List)

		// Compliance reports
		r.Route("/reports", func(r chi.Router) {
			r.Post("/", reportHandler.Create)
			r.Get("/", reportHandler.List)
			r.Get("/search", reportHandler.Search)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", reportHandler.GetByID)
				r.Get("/similar", reportHandler.Similar)
			})
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that do not need metrics.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.ReportStore     = (*store.ReportStore)(nil)
	_ domain.ResearchClient  = (*research.OpenAIClient)(nil)
	_ domain.ResearchClient  = (*research.AnthropicClient)(nil)
	_ domain.ResearchClient  = (*research.MockClient)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
)
