package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/growthops/lead-intake/internal/http/handlers"
	httpmiddleware "github.com/growthops/lead-intake/internal/http/middleware"
	"github.com/growthops/lead-intake/internal/leads"
	"github.com/growthops/lead-intake/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	StatsHandler       *handlers.StatsHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// MetaMiddleware resolves request metadata (IP, country, device) before
	// the submission handler runs. Optional; the handler falls back to
	// resolving from the bare request.
	MetaMiddleware func(http.Handler) http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handlers.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.LeadsHandler != nil {
		if cfg.MetaMiddleware != nil {
			r.With(cfg.MetaMiddleware).Post("/api/submit-lead", cfg.LeadsHandler.SubmitLead)
		} else {
			r.Post("/api/submit-lead", cfg.LeadsHandler.SubmitLead)
		}
	}
	if cfg.StatsHandler != nil {
		r.Get("/api/stats", cfg.StatsHandler.GetStats)
	}

	return r
}
