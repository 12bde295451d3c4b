package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// HeaderRequestID is echoed on every response.
const HeaderRequestID = "X-Request-ID"

// LoggingConfig holds configuration for the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are served and measured but not logged.
	SkipPaths []string

	// SlowThreshold promotes successful requests slower than this to Warn.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig skips the probe and scrape endpoints.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// wrappedResponseWriter captures the status code and bytes written.
type wrappedResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func newWrappedResponseWriter(w http.ResponseWriter) *wrappedResponseWriter {
	return &wrappedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *wrappedResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.statusCode = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *wrappedResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += int64(n)
	return n, err
}

func (w *wrappedResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// LoggingMiddleware logs each request, propagates the request ID into the
// context logger fields and records the HTTP metrics.
type LoggingMiddleware struct {
	logger  logging.Logger
	metrics *prometheus.AppMetrics
	config  LoggingConfig
	skip    map[string]bool
}

// NewLoggingMiddleware builds the middleware.  metrics may be nil.
func NewLoggingMiddleware(logger logging.Logger, metrics *prometheus.AppMetrics, config LoggingConfig) *LoggingMiddleware {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	return &LoggingMiddleware{
		logger:  logger.Named("http"),
		metrics: metrics,
		config:  config,
		skip:    skip,
	}
}

// Handler must run after chi's RequestID middleware.
func (m *LoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := chimw.GetReqID(r.Context())
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)
		r = r.WithContext(logging.ContextWithRequestID(r.Context(), requestID))

		group := routeGroup(r.URL.Path)
		if m.metrics != nil {
			g := m.metrics.HTTPActiveRequests.WithLabelValues(group)
			g.Inc()
			defer g.Dec()
		}

		wrapped := newWrappedResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		route := routePattern(r)
		prometheus.RecordHTTPRequest(m.metrics, r.Method, route, wrapped.statusCode, duration)

		if m.skip[r.URL.Path] {
			return
		}

		log := m.logger.WithContext(r.Context())
		fields := []logging.Field{
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("route", route),
			logging.Int("status", wrapped.statusCode),
			logging.Int64(logging.KeyDurationMS, duration.Milliseconds()),
			logging.Int64("bytes", wrapped.bytesWritten),
			logging.String("remote_addr", r.RemoteAddr),
		}
		if ua := r.UserAgent(); ua != "" {
			fields = append(fields, logging.String("user_agent", ua))
		}

		switch {
		case wrapped.statusCode >= 500:
			log.Error("request failed", fields...)
		case wrapped.statusCode >= 400:
			log.Warn("request rejected", fields...)
		case m.config.SlowThreshold > 0 && duration >= m.config.SlowThreshold:
			log.Warn("slow request", fields...)
		default:
			log.Info("request completed", fields...)
		}
	})
}

// routePattern returns the matched chi pattern, which keeps metric label
// cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// routeGroup buckets a raw path before routing has resolved a pattern.
func routeGroup(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/"):
		return "api"
	case path == "/metrics":
		return "metrics"
	default:
		return "probe"
	}
}

//Personal.AI order the ending
