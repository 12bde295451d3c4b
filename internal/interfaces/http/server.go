package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/internal/config"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

// APIDeps are the collaborators NewAPIHandler wires into the router.
type APIDeps struct {
	Config    *config.Config
	Service   analysis.Service
	Collector prometheus.MetricsCollector // nil disables /metrics
	Metrics   *prometheus.AppMetrics
	Logger    logging.Logger
	Version   string
	Checkers  []handlers.HealthChecker
}

// NewAPIHandler assembles handlers and middleware from configuration.  The
// returned stop func releases the rate limiter's cleanup goroutine.
func NewAPIHandler(d APIDeps) (http.Handler, func()) {
	cfg := d.Config
	stop := func() {}

	rc := RouterConfig{
		ReportHandler:     handlers.NewReportHandler(d.Service, d.Logger),
		GeoHandler:        handlers.NewGeoHandler(d.Service, d.Logger),
		HealthHandler:     handlers.NewHealthHandler(d.Version, append([]handlers.HealthChecker{handlers.ParserChecker(d.Service)}, d.Checkers...)...),
		LoggingMiddleware: middleware.NewLoggingMiddleware(d.Logger, d.Metrics, middleware.DefaultLoggingConfig()),
		MaxBodyBytes:      cfg.Server.MaxBodyBytes,
		MetricsCollector:  d.Collector,
		MetricsPath:       cfg.Metrics.Path,
	}
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		rc.CORSMiddleware = middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.CORSAllowedOrigins))
	}
	if cfg.RateLimit.Enabled {
		rl := middleware.RateLimitConfigFrom(cfg.RateLimit)
		limiter := middleware.NewTokenBucketLimiter(rl.RequestsPerSecond, rl.BurstSize, rl.CleanupInterval)
		rc.RateLimitMiddleware = middleware.NewRateLimitMiddleware(limiter, rl, d.Metrics)
		stop = limiter.Stop
	}
	return NewRouter(rc), stop
}

// Server wraps http.Server with configured timeouts and a graceful stop.
type Server struct {
	srv             *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 30 * time.Second
	}
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       60 * time.Second,
		},
		logger:          logger.Named("http.server"),
		shutdownTimeout: shutdown,
	}
}

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.srv.Addr }

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start listens on the configured address and blocks.  It returns nil after
// Stop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "listen on "+s.srv.Addr)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln and blocks.  It returns nil after Stop.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("HTTP server listening", logging.String("addr", ln.Addr().String()))
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, errors.ErrCodeInternal, "http server failed")
	}
	return nil
}

// Stop drains in-flight requests for at most the shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, errors.ErrCodeTimeout, "server shutdown failed")
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Run serves until ctx is done, then stops gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	if err := s.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

// RunFromConfig builds the metrics registry, the analysis service and the HTTP
// stack from cfg and serves until ctx is done.  cmd/apiserver and `skiptrace serve`
// both start through it.
func RunFromConfig(ctx context.Context, cfg *config.Config, logger logging.Logger, version string) error {
	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.AppMetrics
	)
	if cfg.Metrics.Enabled {
		c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
		}, logger)
		if err != nil {
			return err
		}
		collector = c
		metrics = prometheus.NewAppMetrics(c)
	}

	svc := analysis.NewFromConfig(cfg, logger, metrics)
	handler, release := NewAPIHandler(APIDeps{
		Config:    cfg,
		Service:   svc,
		Collector: collector,
		Metrics:   metrics,
		Logger:    logger,
		Version:   version,
	})
	defer release()

	srv := NewServer(cfg.Server, handler, logger)
	logger.Info("api server listening",
		logging.String("addr", srv.Addr()),
		logging.String("version", version),
		logging.Bool("metrics", collector != nil),
		logging.Bool("model_enabled", cfg.Analysis.ModelEnabled))
	return srv.Run(ctx)
}

//Personal.AI order the ending
