package rest

import (
	"net/http"

	"squad-backend/application/ports"
	"squad-backend/application/services"
	"squad-backend/infrastructure/config"
	"squad-backend/interfaces/http/rest/handlers"
	"squad-backend/interfaces/http/rest/middleware"
	"squad-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	service *services.WeekendService
	status  ports.StorageStatus
	cfg     *config.Config
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	service *services.WeekendService,
	status ports.StorageStatus,
	cfg *config.Config,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Router {
	return &Router{
		service: service,
		status:  status,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))
	router.Use(middleware.NoAPICache)

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Health check reads only the selector's published state
	healthHandler := handlers.NewHealthHandler(rt.status)
	router.Get("/health", healthHandler.Health)

	// API routes
	router.Route("/api", func(r chi.Router) {
		weekendHandler := handlers.NewWeekendHandler(rt.service, rt.logger)
		r.Get("/weekends", weekendHandler.List)
		r.Post("/weekends", weekendHandler.Upsert)
		r.Post("/initialize", weekendHandler.Initialize)
	})

	// Front-end assets
	staticHandler := handlers.NewStaticHandler(rt.cfg.StaticDir, rt.cfg.APIKey)
	router.Get("/", staticHandler.Index)
	router.Get("/env.js", staticHandler.EnvJS)
	router.Get("/*", staticHandler.Serve)

	return router
}
