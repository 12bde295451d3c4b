// Package report_parser turns free-form skip-trace report text into a
// structured, ranked ParsedReport.
//
// The pipeline is fixed: normalize, segment into sections, run six
// extractors over their sections (falling back to the whole document when a
// section is absent), detect risk flags, rank addresses then phones, and
// assemble the overall confidence and recommendations.  Every stage is a
// pure function of its input and the Parser's injected dependencies; the
// package keeps no mutable state and does no I/O.
package report_parser

import (
	"fmt"
	"time"

	"github.com/turtacn/SkipTrace-Intelligence/internal/intelligence/geo"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// MissingTextMessage is the error returned when no report text was given.
const MissingTextMessage = "No report text provided"

// Parser is the deterministic report parser.  A Parser is immutable after
// construction and safe for concurrent use.
type Parser struct {
	cfg     Config
	lookup  geo.AreaCodeLookup
	locator geo.AreaCodeLocator
	now     func() time.Time
}

// NewParser returns a Parser with the built-in area-code table, the system
// clock and default tunables unless overridden by opts.
func NewParser(opts ...Option) *Parser {
	table := geo.NewTable()
	p := &Parser{
		cfg:     DefaultConfig(),
		lookup:  table,
		locator: table,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the tunables in effect.
func (p *Parser) Config() Config {
	return p.cfg
}

// ParseValue accepts an arbitrary value from a loosely typed caller.  Only a
// string (or non-nil *string) is parsed; anything else yields the
// "No report text provided" failure.
func (p *Parser) ParseValue(v interface{}) report.Result {
	switch t := v.(type) {
	case string:
		return p.Parse(t)
	case *string:
		if t != nil {
			return p.Parse(*t)
		}
	}
	return report.Failure(report.MethodDeterministic, MissingTextMessage)
}

// Parse runs the full pipeline over text.  It never panics: an unexpected
// failure inside the pipeline is returned as an unsuccessful Result.
func (p *Parser) Parse(text string) (res report.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = report.Failure(report.MethodDeterministic, fmt.Sprintf("report parsing failed: %v", r))
		}
	}()
	parsed := p.parse(text)
	return report.Success(parsed)
}

func (p *Parser) parse(text string) *report.ParsedReport {
	norm := NormalizeText(text)
	sec := Segment(norm, p.cfg.SubjectFallbackChars)

	r := &report.ParsedReport{
		Subject:    extractSubject(sec.Get(SectionSubject), norm, p.cfg),
		Addresses:  extractAddresses(sec.sectionOrFull(SectionAddresses, norm)),
		Phones:     extractPhones(sec.sectionOrFull(SectionPhones, norm), p.locator),
		Relatives:  extractRelatives(sec.sectionOrFull(SectionRelatives, norm), p.cfg.MaxRelatives),
		Vehicles:   extractVehicles(sec.sectionOrFull(SectionVehicles, norm), p.cfg.MaxVehicles),
		Employment: extractEmployment(sec.sectionOrFull(SectionEmployment, norm), p.cfg.MaxEmployment, sec.has(SectionEmployment)),
		Flags:      extractFlags(norm, p.cfg.DeceasedWindowChars),
	}

	ranker := NewRanker(p.lookup, p.now(), p.cfg.NeutralRecency)
	r.Addresses = ranker.RankAddresses(r.Addresses, r.Vehicles, r.Employment, r.Phones)
	var top *report.ParsedAddress
	if len(r.Addresses) > 0 {
		top = &r.Addresses[0]
	}
	r.Phones = ranker.RankPhones(r.Phones, top)

	assemble(r)
	return r
}

//Personal.AI order the ending
