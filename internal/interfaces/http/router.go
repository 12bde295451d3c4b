package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.  Nil handlers leave their routes
// unmounted; nil middleware is skipped.
type RouterConfig struct {
	// Handlers
	ReportHandler *handlers.ReportHandler
	GeoHandler    *handlers.GeoHandler
	HealthHandler *handlers.HealthHandler

	// Middleware
	CORSMiddleware      func(http.Handler) http.Handler
	LoggingMiddleware   *middleware.LoggingMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	MaxBodyBytes        int64

	// Infrastructure
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string // defaults to /metrics
}

// NewRouter builds the route tree:
//
//	GET  /healthz, /readyz, /healthz/detail
//	GET  /metrics
//	POST /api/v1/reports/parse
//	POST /api/v1/reports/parse/batch
//	GET  /api/v1/geo/area-codes/{code}
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Handler)
	}
	r.Use(chimw.Recoverer)
	if cfg.CORSMiddleware != nil {
		r.Use(cfg.CORSMiddleware)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteError(w, req, errors.NotFound("no route for "+req.Method+" "+req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteJSON(w, http.StatusMethodNotAllowed, middleware.ErrorResponse{
			Code:      errors.ErrCodeBadRequest.String(),
			Message:   "method not allowed",
			Detail:    req.Method,
			RequestID: chimw.GetReqID(req.Context()),
		})
	})

	// --- Probes ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	// --- API v1 ---
	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimitMiddleware != nil {
			api.Use(cfg.RateLimitMiddleware.Handler)
		}
		api.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

		registerReportRoutes(api, cfg.ReportHandler)
		registerGeoRoutes(api, cfg.GeoHandler)
	})

	return r
}

func registerReportRoutes(r chi.Router, h *handlers.ReportHandler) {
	if h == nil {
		return
	}
	r.Route("/reports", func(rr chi.Router) {
		rr.Post("/parse", h.Parse)
		rr.Post("/parse/batch", h.ParseBatch)
	})
}

func registerGeoRoutes(r chi.Router, h *handlers.GeoHandler) {
	if h == nil {
		return
	}
	r.Get("/geo/area-codes/{code}", h.AreaCode)
}

//Personal.AI order the ending
