// Package config defines the configuration tree of the SkipTrace services
// and its validation.  Loading lives in loader.go; defaults in defaults.go.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sections
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	// CORSAllowedOrigins enables CORS for the listed origins; "*" allows any.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ParserConfig holds the deterministic parser tunables.
type ParserConfig struct {
	SubjectFallbackChars int     `mapstructure:"subject_fallback_chars"`
	DeceasedWindowChars  int     `mapstructure:"deceased_window_chars"`
	MaxRelatives         int     `mapstructure:"max_relatives"`
	MaxVehicles          int     `mapstructure:"max_vehicles"`
	MaxEmployment        int     `mapstructure:"max_employment"`
	MaxAliases           int     `mapstructure:"max_aliases"`
	NeutralRecency       float64 `mapstructure:"neutral_recency"`
	MaxInputBytes        int     `mapstructure:"max_input_bytes"`
}

// AnalysisConfig configures the orchestrator and the optional model analyzer.
type AnalysisConfig struct {
	ModelEnabled     bool          `mapstructure:"model_enabled"`
	ModelEndpoint    string        `mapstructure:"model_endpoint"`
	ModelAPIKey      string        `mapstructure:"model_api_key"`
	ModelTimeout     time.Duration `mapstructure:"model_timeout"`
	BatchConcurrency int           `mapstructure:"batch_concurrency"`
	MaxBatchSize     int           `mapstructure:"max_batch_size"`
}

// InboxConfig configures the directory watcher.
type InboxConfig struct {
	Dir         string `mapstructure:"dir"`
	OutputDir   string `mapstructure:"output_dir"`
	Pattern     string `mapstructure:"pattern"`
	Concurrency int    `mapstructure:"concurrency"`
	// ProcessExisting parses files already present when the watch starts.
	ProcessExisting bool `mapstructure:"process_existing"`
}

// KafkaConfig configures the report-ingest worker.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	SubmittedTopic  string        `mapstructure:"submitted_topic"`
	ParsedTopic     string        `mapstructure:"parsed_topic"`
	DeadLetterTopic string        `mapstructure:"dead_letter_topic"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
	MaxRetryBackoff time.Duration `mapstructure:"max_retry_backoff"`
	StartOffset     string        `mapstructure:"start_offset"` // earliest | latest
}

// IngestConfig groups the non-HTTP ingest surfaces.
type IngestConfig struct {
	Inbox InboxConfig `mapstructure:"inbox"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

// MetricsConfig configures the Prometheus registry and endpoint.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Namespace            string `mapstructure:"namespace"`
	Path                 string `mapstructure:"path"`
	Addr                 string `mapstructure:"addr"` // side port for cmd/worker
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration shared by cmd/apiserver, cmd/worker and
// the CLI.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Log       logging.LogConfig `mapstructure:"log"`
	Parser    ParserConfig      `mapstructure:"parser"`
	Analysis  AnalysisConfig    `mapstructure:"analysis"`
	Ingest    IngestConfig      `mapstructure:"ingest"`
	Metrics   MetricsConfig     `mapstructure:"metrics"`
	RateLimit RateLimitConfig   `mapstructure:"ratelimit"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate checks a defaulted Config and returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.MaxBodyBytes < 1 {
		return fmt.Errorf("config: server.max_body_bytes must be >= 1, got %d", c.Server.MaxBodyBytes)
	}

	switch strings.ToLower(c.Log.Level) {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError, logging.LevelFatal:
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error|fatal", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Parser.NeutralRecency < 0 || c.Parser.NeutralRecency > 1 {
		return fmt.Errorf("config: parser.neutral_recency %.2f is out of range [0, 1]", c.Parser.NeutralRecency)
	}
	if c.Parser.MaxInputBytes < 1 {
		return fmt.Errorf("config: parser.max_input_bytes must be >= 1, got %d", c.Parser.MaxInputBytes)
	}
	if int64(c.Parser.MaxInputBytes) > c.Server.MaxBodyBytes {
		return fmt.Errorf("config: parser.max_input_bytes %d exceeds server.max_body_bytes %d",
			c.Parser.MaxInputBytes, c.Server.MaxBodyBytes)
	}

	if c.Analysis.ModelEnabled && c.Analysis.ModelEndpoint == "" {
		return fmt.Errorf("config: analysis.model_endpoint is required when analysis.model_enabled is true")
	}
	if c.Analysis.BatchConcurrency < 1 {
		return fmt.Errorf("config: analysis.batch_concurrency must be >= 1, got %d", c.Analysis.BatchConcurrency)
	}
	if c.Analysis.MaxBatchSize < 1 {
		return fmt.Errorf("config: analysis.max_batch_size must be >= 1, got %d", c.Analysis.MaxBatchSize)
	}

	if c.Ingest.Inbox.Concurrency < 1 {
		return fmt.Errorf("config: ingest.inbox.concurrency must be >= 1, got %d", c.Ingest.Inbox.Concurrency)
	}
	switch c.Ingest.Kafka.StartOffset {
	case "earliest", "latest":
	default:
		return fmt.Errorf("config: ingest.kafka.start_offset %q is invalid; expected earliest|latest", c.Ingest.Kafka.StartOffset)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("config: ratelimit requires requests_per_second > 0 and burst >= 1")
	}
	return nil
}

// ValidateKafka checks the fields cmd/worker needs beyond Validate.
func (c *Config) ValidateKafka() error {
	k := c.Ingest.Kafka
	if len(k.Brokers) == 0 {
		return fmt.Errorf("config: ingest.kafka.brokers must contain at least one broker address")
	}
	if k.GroupID == "" {
		return fmt.Errorf("config: ingest.kafka.group_id is required")
	}
	if k.SubmittedTopic == "" || k.ParsedTopic == "" {
		return fmt.Errorf("config: ingest.kafka.submitted_topic and parsed_topic are required")
	}
	return nil
}

//Personal.AI order the ending
