package report_parser

import (
	"time"

	"github.com/turtacn/SkipTrace-Intelligence/internal/intelligence/geo"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Default tunables.  NeutralRecency is the score given to an address or phone
// whose date is missing or unparseable.
const (
	DefaultSubjectFallbackChars = 3000
	DefaultDeceasedWindowChars  = 500
	DefaultMaxRelatives         = 20
	DefaultMaxVehicles          = 10
	DefaultMaxEmployment        = 10
	DefaultMaxAliases           = 10
	NeutralRecency              = 0.3
)

// Config holds the tuneable parameters of the pipeline.
type Config struct {
	SubjectFallbackChars int     `json:"subject_fallback_chars" yaml:"subject_fallback_chars"`
	DeceasedWindowChars  int     `json:"deceased_window_chars" yaml:"deceased_window_chars"`
	MaxRelatives         int     `json:"max_relatives" yaml:"max_relatives"`
	MaxVehicles          int     `json:"max_vehicles" yaml:"max_vehicles"`
	MaxEmployment        int     `json:"max_employment" yaml:"max_employment"`
	MaxAliases           int     `json:"max_aliases" yaml:"max_aliases"`
	NeutralRecency       float64 `json:"neutral_recency" yaml:"neutral_recency"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		SubjectFallbackChars: DefaultSubjectFallbackChars,
		DeceasedWindowChars:  DefaultDeceasedWindowChars,
		MaxRelatives:         DefaultMaxRelatives,
		MaxVehicles:          DefaultMaxVehicles,
		MaxEmployment:        DefaultMaxEmployment,
		MaxAliases:           DefaultMaxAliases,
		NeutralRecency:       NeutralRecency,
	}
}

// withDefaults fills zero or out-of-range values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SubjectFallbackChars <= 0 {
		c.SubjectFallbackChars = d.SubjectFallbackChars
	}
	if c.DeceasedWindowChars <= 0 {
		c.DeceasedWindowChars = d.DeceasedWindowChars
	}
	if c.MaxRelatives <= 0 {
		c.MaxRelatives = d.MaxRelatives
	}
	if c.MaxVehicles <= 0 {
		c.MaxVehicles = d.MaxVehicles
	}
	if c.MaxEmployment <= 0 {
		c.MaxEmployment = d.MaxEmployment
	}
	if c.MaxAliases <= 0 {
		c.MaxAliases = d.MaxAliases
	}
	if c.NeutralRecency < 0 || c.NeutralRecency > 1 {
		c.NeutralRecency = d.NeutralRecency
	}
	return c
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Option configures a Parser.
type Option func(*Parser)

// WithConfig replaces the pipeline tunables.
func WithConfig(cfg Config) Option {
	return func(p *Parser) {
		p.cfg = cfg.withDefaults()
	}
}

// WithAreaCodeLookup injects the ZIP to area-code lookup used by the ranker.
func WithAreaCodeLookup(l geo.AreaCodeLookup) Option {
	return func(p *Parser) {
		if l != nil {
			p.lookup = l
		}
	}
}

// WithAreaCodeLocator injects the area-code to location lookup used to
// annotate phones.
func WithAreaCodeLocator(l geo.AreaCodeLocator) Option {
	return func(p *Parser) {
		if l != nil {
			p.locator = l
		}
	}
}

// WithClock sets the time source recency is measured against.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

//Personal.AI order the ending
