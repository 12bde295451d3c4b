package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// AppMetrics holds every metric the service records.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec
	RateLimitedTotal    CounterVec

	// Parsing
	ReportsParsedTotal CounterVec
	ParseDuration      HistogramVec
	ParseConfidence    HistogramVec
	ReportSize         HistogramVec
	ExtractedRecords   HistogramVec
	FlagsRaisedTotal   CounterVec

	// Model analyzer
	ModelRequestsTotal  CounterVec
	ModelDuration       HistogramVec
	ModelFallbacksTotal CounterVec

	// Ingest
	IngestMessagesTotal CounterVec
	IngestInFlight      GaugeVec

	ErrorsTotal CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultParseDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultModelDurationBuckets = []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60}
	ConfidenceBuckets           = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
	ReportSizeBuckets           = []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304}
	RecordCountBuckets          = []float64{0, 1, 2, 3, 5, 10, 20}
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeFallback = "fallback"
	// OutcomeDeadLettered marks an ingest message parked on the dead-letter
	// topic after its retries ran out.
	OutcomeDeadLettered = "dead_lettered"
)

// NewAppMetrics registers every metric on collector.
func NewAppMetrics(c MetricsCollector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:   c.RegisterCounter("http_requests_total", "HTTP requests by route and status", "method", "route", "status_code"),
		HTTPRequestDuration: c.RegisterHistogram("http_request_duration_seconds", "HTTP request latency", DefaultHTTPDurationBuckets, "method", "route"),
		HTTPActiveRequests:  c.RegisterGauge("http_active_requests", "In-flight HTTP requests", "route"),
		RateLimitedTotal:    c.RegisterCounter("http_rate_limited_total", "Requests rejected by the rate limiter", "route"),

		ReportsParsedTotal: c.RegisterCounter("reports_parsed_total", "Reports parsed by method, source and outcome", "method", "source", "outcome"),
		ParseDuration:      c.RegisterHistogram("parse_duration_seconds", "Report parse latency", DefaultParseDurationBuckets, "method"),
		ParseConfidence:    c.RegisterHistogram("parse_confidence", "Overall parse confidence", ConfidenceBuckets, "method"),
		ReportSize:         c.RegisterHistogram("report_size_bytes", "Raw report size", ReportSizeBuckets, "source"),
		ExtractedRecords:   c.RegisterHistogram("extracted_records", "Records extracted per report", RecordCountBuckets, "kind"),
		FlagsRaisedTotal:   c.RegisterCounter("flags_raised_total", "Risk flags raised", "type"),

		ModelRequestsTotal:  c.RegisterCounter("model_requests_total", "Model analyzer calls by outcome", "outcome"),
		ModelDuration:       c.RegisterHistogram("model_duration_seconds", "Model analyzer latency", DefaultModelDurationBuckets),
		ModelFallbacksTotal: c.RegisterCounter("model_fallbacks_total", "Deterministic fallbacks after model failure", "reason"),

		IngestMessagesTotal: c.RegisterCounter("ingest_messages_total", "Ingested reports by source and outcome", "source", "outcome"),
		IngestInFlight:      c.RegisterGauge("ingest_in_flight", "Reports currently being processed by ingest", "source"),

		ErrorsTotal: c.RegisterCounter("errors_total", "Errors by component and code", "component", "code"),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(m *AppMetrics, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordParse records a parse Result produced for source.  size is the raw
// text length in bytes.
func RecordParse(m *AppMetrics, source string, res report.Result, d time.Duration, size int) {
	if m == nil {
		return
	}
	method := string(res.ParseMethod)
	outcome := OutcomeSuccess
	if !res.Success {
		outcome = OutcomeFailure
	}
	m.ReportsParsedTotal.WithLabelValues(method, source, outcome).Inc()
	m.ParseDuration.WithLabelValues(method).Observe(d.Seconds())
	m.ReportSize.WithLabelValues(source).Observe(float64(size))
	if !res.Success || res.Data == nil {
		return
	}
	r := res.Data
	m.ParseConfidence.WithLabelValues(method).Observe(r.ParseConfidence)
	m.ExtractedRecords.WithLabelValues("addresses").Observe(float64(len(r.Addresses)))
	m.ExtractedRecords.WithLabelValues("phones").Observe(float64(len(r.Phones)))
	m.ExtractedRecords.WithLabelValues("relatives").Observe(float64(len(r.Relatives)))
	m.ExtractedRecords.WithLabelValues("vehicles").Observe(float64(len(r.Vehicles)))
	m.ExtractedRecords.WithLabelValues("employment").Observe(float64(len(r.Employment)))
	for _, f := range r.Flags {
		m.FlagsRaisedTotal.WithLabelValues(string(f.Type)).Inc()
	}
}

// RecordModelCall records one model analyzer attempt.
func RecordModelCall(m *AppMetrics, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ModelRequestsTotal.WithLabelValues(outcome).Inc()
	m.ModelDuration.WithLabelValues().Observe(d.Seconds())
}

// RecordFallback records a deterministic fallback and why it happened.
func RecordFallback(m *AppMetrics, reason string) {
	if m == nil {
		return
	}
	m.ModelFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordIngest records one report taken from an ingest source.
func RecordIngest(m *AppMetrics, source, outcome string) {
	if m == nil {
		return
	}
	m.IngestMessagesTotal.WithLabelValues(source, outcome).Inc()
}

// RecordError counts an error by component and code.
func RecordError(m *AppMetrics, component, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
