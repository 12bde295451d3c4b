// Package analysis orchestrates report parsing for every surface: the HTTP
// API, the CLI, the inbox watcher and the Kafka worker.  It owns the choice
// between an optional model analyzer and the deterministic parser, the
// deterministic fallback, input limits, batch fan-out, and the metrics and
// logs around each parse.
package analysis

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SkipTrace-Intelligence/internal/intelligence/geo"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// ============================================================================
// Enums & Constants
// ============================================================================

// Mode selects the parse path for a request.
type Mode string

const (
	// ModeAuto uses the model analyzer when one is enabled, falling back to
	// the deterministic parser.
	ModeAuto Mode = "auto"
	// ModeDeterministic never calls the model analyzer.
	ModeDeterministic Mode = "deterministic"
)

// Fallback reasons, also used as metric label values.
const (
	FallbackModelError   = "model_error"
	FallbackModelTimeout = "model_timeout"
	FallbackModelFailed  = "model_unsuccessful"
)

// Source labels for metrics and logs.
const (
	SourceHTTP  = "http"
	SourceCLI   = "cli"
	SourceInbox = "inbox"
	SourceKafka = "kafka"
)

// ============================================================================
// DTOs
// ============================================================================

// AnalyzeRequest is one report to parse.  A nil Text is the "no report text"
// case and yields an unsuccessful Result rather than an error.
type AnalyzeRequest struct {
	ReportID string  `json:"reportId,omitempty"`
	Text     *string `json:"text"`
	Mode     Mode    `json:"mode,omitempty"`
	Source   string  `json:"-"`
}

// AnalyzeResponse is the outcome of one parse.
type AnalyzeResponse struct {
	ReportID       string        `json:"reportId"`
	Result         report.Result `json:"result"`
	DurationMS     int64         `json:"durationMs"`
	FallbackReason string        `json:"fallbackReason,omitempty"`
}

// ============================================================================
// Dependencies
// ============================================================================

// DeterministicParser is the offline parser.  *report_parser.Parser
// satisfies it.
type DeterministicParser interface {
	ParseValue(v interface{}) report.Result
}

// ModelAnalyzer is an optional external analyzer producing the same
// ParsedReport shape.
type ModelAnalyzer interface {
	Analyze(ctx context.Context, text string) (report.Result, error)
}

// Options tunes the orchestrator.
type Options struct {
	ModelEnabled     bool
	ModelTimeout     time.Duration
	BatchConcurrency int
	MaxBatchSize     int
	MaxInputBytes    int
}

// Service is the analysis entry point.
type Service interface {
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error)

	// AnalyzeBatch parses reqs concurrently and returns responses in input
	// order.  A request rejected on its own (too large, bad encoding) yields
	// an unsuccessful Result in its slot instead of failing the batch.
	AnalyzeBatch(ctx context.Context, reqs []AnalyzeRequest) ([]*AnalyzeResponse, error)

	// LookupAreaCode resolves an area code to its city and state.
	LookupAreaCode(code string) (report.PhoneLocation, error)
}

type serviceImpl struct {
	parser  DeterministicParser
	model   ModelAnalyzer
	locator geo.AreaCodeLocator
	opts    Options
	logger  logging.Logger
	metrics *prometheus.AppMetrics
	newID   func() string
}

// NewService wires the orchestrator.  model may be nil; metrics may be nil.
func NewService(
	parser DeterministicParser,
	model ModelAnalyzer,
	locator geo.AreaCodeLocator,
	opts Options,
	logger logging.Logger,
	metrics *prometheus.AppMetrics,
) Service {
	if parser == nil || locator == nil || logger == nil {
		panic("nil dependency injected into analysis.Service")
	}
	if opts.BatchConcurrency < 1 {
		opts.BatchConcurrency = 1
	}
	return &serviceImpl{
		parser:  parser,
		model:   model,
		locator: locator,
		opts:    opts,
		logger:  logger.Named("analysis"),
		metrics: metrics,
		newID:   uuid.NewString,
	}
}

// ============================================================================
// Analyze
// ============================================================================

func (s *serviceImpl) validate(req *AnalyzeRequest) error {
	if req.Text == nil {
		return nil
	}
	if s.opts.MaxInputBytes > 0 && len(*req.Text) > s.opts.MaxInputBytes {
		return errors.New(errors.ErrCodeReportTooLarge, "report text exceeds the configured size limit").
			WithDetail(fmt.Sprintf("size=%d limit=%d", len(*req.Text), s.opts.MaxInputBytes))
	}
	if !utf8.ValidString(*req.Text) {
		return errors.New(errors.ErrCodeReportEncoding, "report text is not valid UTF-8")
	}
	switch req.Mode {
	case "", ModeAuto, ModeDeterministic:
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown mode %q; expected auto or deterministic", req.Mode))
	}
	return nil
}

func (s *serviceImpl) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	if req == nil {
		req = &AnalyzeRequest{}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "analysis cancelled")
	}

	reportID := req.ReportID
	if reportID == "" {
		reportID = s.newID()
	}
	source := req.Source
	if source == "" {
		source = SourceHTTP
	}
	ctx = logging.ContextWithReportID(ctx, reportID)
	log := s.logger.WithContext(ctx).With(logging.String(logging.KeySource, source))

	if err := s.validate(req); err != nil {
		prometheus.RecordError(s.metrics, "analysis", errors.GetCode(err).String())
		log.WithError(err).Warn("report rejected")
		return nil, err
	}

	start := time.Now()
	resp := &AnalyzeResponse{ReportID: reportID}

	if s.useModel(req) {
		res, reason := s.runModel(ctx, *req.Text, log)
		if reason == "" {
			resp.Result = res
			return s.finish(resp, start, source, req, log), nil
		}
		resp.FallbackReason = reason
		prometheus.RecordFallback(s.metrics, reason)
	}

	resp.Result = s.parser.ParseValue(req.Text)
	return s.finish(resp, start, source, req, log), nil
}

func (s *serviceImpl) useModel(req *AnalyzeRequest) bool {
	return s.model != nil && s.opts.ModelEnabled && req.Mode != ModeDeterministic && req.Text != nil
}

// runModel calls the model analyzer under the configured timeout.  A
// non-empty reason means the caller must fall back.
func (s *serviceImpl) runModel(ctx context.Context, text string, log logging.Logger) (report.Result, string) {
	mctx := ctx
	if s.opts.ModelTimeout > 0 {
		var cancel context.CancelFunc
		mctx, cancel = context.WithTimeout(ctx, s.opts.ModelTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.model.Analyze(mctx, text)
	elapsed := time.Since(start)

	switch {
	case err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(mctx.Err(), context.DeadlineExceeded)):
		prometheus.RecordModelCall(s.metrics, prometheus.OutcomeFallback, elapsed)
		log.WithError(err).Warn("model analyzer timed out, falling back to deterministic parser",
			logging.Duration("timeout", s.opts.ModelTimeout))
		return report.Result{}, FallbackModelTimeout
	case err != nil:
		prometheus.RecordModelCall(s.metrics, prometheus.OutcomeFailure, elapsed)
		log.WithError(err).Warn("model analyzer failed, falling back to deterministic parser")
		return report.Result{}, FallbackModelError
	case !res.Success || res.Data == nil:
		prometheus.RecordModelCall(s.metrics, prometheus.OutcomeFailure, elapsed)
		log.Warn("model analyzer returned no report, falling back to deterministic parser",
			logging.String("model_error", res.Error))
		return report.Result{}, FallbackModelFailed
	}
	prometheus.RecordModelCall(s.metrics, prometheus.OutcomeSuccess, elapsed)
	return res, ""
}

func (s *serviceImpl) finish(resp *AnalyzeResponse, start time.Time, source string, req *AnalyzeRequest, log logging.Logger) *AnalyzeResponse {
	elapsed := time.Since(start)
	resp.DurationMS = elapsed.Milliseconds()

	size := 0
	if req.Text != nil {
		size = len(*req.Text)
	}
	prometheus.RecordParse(s.metrics, source, resp.Result, elapsed, size)

	fields := []logging.Field{
		logging.String(logging.KeyMethod, string(resp.Result.ParseMethod)),
		logging.Float64(logging.KeyConfidence, resp.Result.Confidence),
		logging.Int64(logging.KeyDurationMS, resp.DurationMS),
	}
	if !resp.Result.Success {
		log.Info("report not parsed", append(fields, logging.String("reason", resp.Result.Error))...)
		return resp
	}
	d := resp.Result.Data
	log.Info("report parsed", append(fields,
		logging.Int("addresses", len(d.Addresses)),
		logging.Int("phones", len(d.Phones)),
		logging.Int("flags", len(d.Flags)),
	)...)
	return resp
}

// ============================================================================
// Batch
// ============================================================================

func (s *serviceImpl) AnalyzeBatch(ctx context.Context, reqs []AnalyzeRequest) ([]*AnalyzeResponse, error) {
	if len(reqs) == 0 {
		return nil, errors.New(errors.ErrCodeBatchEmpty, "batch contains no reports")
	}
	if s.opts.MaxBatchSize > 0 && len(reqs) > s.opts.MaxBatchSize {
		return nil, errors.New(errors.ErrCodeBatchTooLarge, "batch exceeds the configured size limit").
			WithDetail(fmt.Sprintf("size=%d limit=%d", len(reqs), s.opts.MaxBatchSize))
	}

	out := make([]*AnalyzeResponse, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i := range reqs {
		i := i
		g.Go(func() error {
			resp, err := s.Analyze(gctx, &reqs[i])
			if err == nil {
				out[i] = resp
				return nil
			}
			if errors.IsCode(err, errors.ErrCodeTimeout) {
				return err
			}
			id := reqs[i].ReportID
			if id == "" {
				id = s.newID()
			}
			out[i] = &AnalyzeResponse{
				ReportID: id,
				Result:   report.Failure(report.MethodDeterministic, err.Error()),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ============================================================================
// Geo
// ============================================================================

func (s *serviceImpl) LookupAreaCode(code string) (report.PhoneLocation, error) {
	if !geo.IsAreaCode(code) {
		return report.PhoneLocation{}, errors.New(errors.ErrCodeAreaCodeInvalid, "area code must be three digits").WithDetail("code=" + code)
	}
	loc, ok := s.locator.LocationForAreaCode(code)
	if !ok {
		return report.PhoneLocation{}, errors.New(errors.ErrCodeAreaCodeNotFound, "area code not in lookup table").WithDetail("code=" + code)
	}
	return loc, nil
}

//Personal.AI order the ending
