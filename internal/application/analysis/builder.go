package analysis

import (
	"github.com/turtacn/SkipTrace-Intelligence/internal/config"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SkipTrace-Intelligence/internal/intelligence/geo"
	"github.com/turtacn/SkipTrace-Intelligence/internal/intelligence/report_parser"
)

// ParserConfig maps the parser section onto the parser tunables.
func ParserConfig(c config.ParserConfig) report_parser.Config {
	return report_parser.Config{
		SubjectFallbackChars: c.SubjectFallbackChars,
		DeceasedWindowChars:  c.DeceasedWindowChars,
		MaxRelatives:         c.MaxRelatives,
		MaxVehicles:          c.MaxVehicles,
		MaxEmployment:        c.MaxEmployment,
		MaxAliases:           c.MaxAliases,
		NeutralRecency:       c.NeutralRecency,
	}
}

// BuildParser returns a deterministic parser over the built-in geo table.
func BuildParser(c config.ParserConfig, table *geo.Table) *report_parser.Parser {
	return report_parser.NewParser(
		report_parser.WithConfig(ParserConfig(c)),
		report_parser.WithAreaCodeLookup(table),
		report_parser.WithAreaCodeLocator(table),
	)
}

// OptionsFromConfig extracts the orchestrator options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ModelEnabled:     cfg.Analysis.ModelEnabled,
		ModelTimeout:     cfg.Analysis.ModelTimeout,
		BatchConcurrency: cfg.Analysis.BatchConcurrency,
		MaxBatchSize:     cfg.Analysis.MaxBatchSize,
		MaxInputBytes:    cfg.Parser.MaxInputBytes,
	}
}

// NewFromConfig builds the full orchestrator: parser, optional HTTP model
// analyzer, and geo table.
func NewFromConfig(cfg *config.Config, logger logging.Logger, metrics *prometheus.AppMetrics) Service {
	table := geo.NewTable()
	var model ModelAnalyzer
	if cfg.Analysis.ModelEnabled && cfg.Analysis.ModelEndpoint != "" {
		model = NewHTTPModelAnalyzer(cfg.Analysis.ModelEndpoint, cfg.Analysis.ModelAPIKey, nil, cfg.Analysis.ModelTimeout)
	}
	return NewService(BuildParser(cfg.Parser, table), model, table, OptionsFromConfig(cfg), logger, metrics)
}

//Personal.AI order the ending
