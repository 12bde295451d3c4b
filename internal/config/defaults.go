package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Defaults
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 4 << 20

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultSubjectFallbackChars = 3000
	DefaultDeceasedWindowChars  = 500
	DefaultMaxRelatives         = 20
	DefaultMaxVehicles          = 10
	DefaultMaxEmployment        = 10
	DefaultMaxAliases           = 10
	DefaultNeutralRecency       = 0.3
	DefaultMaxInputBytes        = 2 << 20

	DefaultModelTimeout     = 20 * time.Second
	DefaultBatchConcurrency = 4
	DefaultMaxBatchSize     = 100

	DefaultInboxPattern     = "*.txt"
	DefaultInboxConcurrency = 2

	DefaultKafkaBroker      = "localhost:9092"
	DefaultKafkaGroupID     = "skiptrace-worker"
	DefaultSubmittedTopic   = "skiptrace.reports.submitted"
	DefaultParsedTopic      = "skiptrace.reports.parsed"
	DefaultDeadLetterTopic  = "skiptrace.reports.dlq"
	DefaultKafkaMaxRetries  = 3
	DefaultRetryBackoff     = 500 * time.Millisecond
	DefaultMaxRetryBackoff  = 10 * time.Second
	DefaultKafkaStartOffset = "earliest"

	DefaultMetricsNamespace = "skiptrace"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsAddr      = ":9091"

	DefaultRateLimitRPS     = 10.0
	DefaultRateLimitBurst   = 20
	DefaultRateLimitCleanup = 5 * time.Minute
)

// NewDefaultConfig returns a Config with every default applied.  Metrics and
// rate limiting are enabled; the model analyzer is not.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Metrics:   MetricsConfig{Enabled: true},
		RateLimit: RateLimitConfig{Enabled: true},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields of cfg in place.  Boolean switches
// are left alone: false is a legitimate explicit value.
func ApplyDefaults(cfg *Config) {
	s := &cfg.Server
	if s.Host == "" {
		s.Host = DefaultServerHost
	}
	if s.Port == 0 {
		s.Port = DefaultServerPort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	p := &cfg.Parser
	if p.SubjectFallbackChars == 0 {
		p.SubjectFallbackChars = DefaultSubjectFallbackChars
	}
	if p.DeceasedWindowChars == 0 {
		p.DeceasedWindowChars = DefaultDeceasedWindowChars
	}
	if p.MaxRelatives == 0 {
		p.MaxRelatives = DefaultMaxRelatives
	}
	if p.MaxVehicles == 0 {
		p.MaxVehicles = DefaultMaxVehicles
	}
	if p.MaxEmployment == 0 {
		p.MaxEmployment = DefaultMaxEmployment
	}
	if p.MaxAliases == 0 {
		p.MaxAliases = DefaultMaxAliases
	}
	if p.NeutralRecency == 0 {
		p.NeutralRecency = DefaultNeutralRecency
	}
	if p.MaxInputBytes == 0 {
		p.MaxInputBytes = DefaultMaxInputBytes
	}

	a := &cfg.Analysis
	if a.ModelTimeout == 0 {
		a.ModelTimeout = DefaultModelTimeout
	}
	if a.BatchConcurrency == 0 {
		a.BatchConcurrency = DefaultBatchConcurrency
	}
	if a.MaxBatchSize == 0 {
		a.MaxBatchSize = DefaultMaxBatchSize
	}

	in := &cfg.Ingest.Inbox
	if in.Pattern == "" {
		in.Pattern = DefaultInboxPattern
	}
	if in.Concurrency == 0 {
		in.Concurrency = DefaultInboxConcurrency
	}

	k := &cfg.Ingest.Kafka
	if len(k.Brokers) == 0 {
		k.Brokers = []string{DefaultKafkaBroker}
	}
	if k.GroupID == "" {
		k.GroupID = DefaultKafkaGroupID
	}
	if k.SubmittedTopic == "" {
		k.SubmittedTopic = DefaultSubmittedTopic
	}
	if k.ParsedTopic == "" {
		k.ParsedTopic = DefaultParsedTopic
	}
	if k.DeadLetterTopic == "" {
		k.DeadLetterTopic = DefaultDeadLetterTopic
	}
	if k.MaxRetries == 0 {
		k.MaxRetries = DefaultKafkaMaxRetries
	}
	if k.RetryBackoff == 0 {
		k.RetryBackoff = DefaultRetryBackoff
	}
	if k.MaxRetryBackoff == 0 {
		k.MaxRetryBackoff = DefaultMaxRetryBackoff
	}
	if k.StartOffset == "" {
		k.StartOffset = DefaultKafkaStartOffset
	}

	m := &cfg.Metrics
	if m.Namespace == "" {
		m.Namespace = DefaultMetricsNamespace
	}
	if m.Path == "" {
		m.Path = DefaultMetricsPath
	}
	if m.Addr == "" {
		m.Addr = DefaultMetricsAddr
	}

	r := &cfg.RateLimit
	if r.RequestsPerSecond == 0 {
		r.RequestsPerSecond = DefaultRateLimitRPS
	}
	if r.Burst == 0 {
		r.Burst = DefaultRateLimitBurst
	}
	if r.CleanupInterval == 0 {
		r.CleanupInterval = DefaultRateLimitCleanup
	}
}

//Personal.AI order the ending
