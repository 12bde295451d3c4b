package report_parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SkipTrace-Intelligence/internal/intelligence/geo"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

func newTestRanker() Ranker {
	return NewRanker(geo.NewTable(), testNow, NeutralRecency)
}

func dallasCurrent() report.ParsedAddress {
	return report.ParsedAddress{
		Address:     "1234 Main Street",
		City:        "Dallas",
		State:       "TX",
		Zip:         "75201",
		FullAddress: "1234 Main Street, Dallas, TX 75201",
		ToDate:      "PRESENT",
		IsCurrent:   true,
		Reasons:     []string{},
	}
}

func houstonOld() report.ParsedAddress {
	return report.ParsedAddress{
		Address:     "5678 Oak Avenue",
		City:        "Houston",
		State:       "TX",
		Zip:         "77002",
		FullAddress: "5678 Oak Avenue, Houston, TX 77002",
		ToDate:      "2010",
		Reasons:     []string{},
	}
}

func TestRankAddresses_ScoresAndOrder(t *testing.T) {
	vehicles := []report.ParsedVehicle{{RegisteredAddress: "1234 Main St, Dallas, TX 75201"}}
	jobs := []report.ParsedEmployment{{Employer: "Acme", Address: "1234 MAIN ST DALLAS TX 75201"}}
	phones := []report.ParsedPhone{{Number: "(214) 555-1234"}}

	ranked := newTestRanker().RankAddresses([]report.ParsedAddress{houstonOld(), dallasCurrent()}, vehicles, jobs, phones)
	require.Len(t, ranked, 2)

	top := ranked[0]
	assert.Equal(t, "1234 Main Street", top.Address)
	assert.InDelta(t, 0.9, top.Confidence, 1e-9)
	assert.Equal(t, []string{
		reasonRecent,
		reasonCurrent,
		reasonVehicle,
		reasonEmployment,
		reasonAreaCode,
		reasonCompleteAddr,
	}, top.Reasons)
	assert.Equal(t, []string{report.SignalVehicle, report.SignalEmployment, report.SignalPhone}, top.LinkedSignals)

	old := ranked[1]
	assert.InDelta(t, 0.09, old.Confidence, 1e-9)
	assert.Equal(t, "Older address record (last seen 2010)", old.Reasons[0])
	assert.Empty(t, old.LinkedSignals)
}

func TestRankAddresses_MissingDateIsNeutral(t *testing.T) {
	a := report.ParsedAddress{Address: "77 Sunset Blvd", FullAddress: "77 Sunset Blvd", Reasons: []string{}}
	ranked := newTestRanker().RankAddresses([]report.ParsedAddress{a}, nil, nil, nil)
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.4*NeutralRecency, ranked[0].Confidence, 1e-9)
	assert.Equal(t, []string{reasonNoDate}, ranked[0].Reasons)
}

func TestRankAddresses_StableTies(t *testing.T) {
	a := report.ParsedAddress{Address: "1 A St", FullAddress: "1 A St"}
	b := report.ParsedAddress{Address: "2 B St", FullAddress: "2 B St"}
	ranked := newTestRanker().RankAddresses([]report.ParsedAddress{a, b}, nil, nil, nil)
	assert.Equal(t, "1 A St", ranked[0].Address)
	assert.Equal(t, "2 B St", ranked[1].Address)
}

func TestRankAddresses_NopLookupSkipsAreaCode(t *testing.T) {
	r := NewRanker(nil, testNow, NeutralRecency)
	ranked := r.RankAddresses([]report.ParsedAddress{dallasCurrent()}, nil, nil,
		[]report.ParsedPhone{{Number: "(214) 555-1234"}})
	assert.NotContains(t, ranked[0].Reasons, reasonAreaCode)
	assert.InDelta(t, 0.65, ranked[0].Confidence, 1e-9)
}

func TestRankPhones(t *testing.T) {
	top := dallasCurrent()
	phones := []report.ParsedPhone{
		{Number: "(713) 555-9876", Type: report.PhoneLandline},
		{Number: "(214) 555-1234", Type: report.PhoneMobile, IsActive: true, Carrier: "Verizon"},
		{Number: "(305) 555-0000", Type: report.PhoneUnknown, LastSeen: "2026"},
	}
	ranked := newTestRanker().RankPhones(phones, &top)
	require.Len(t, ranked, 3)

	assert.Equal(t, "(214) 555-1234", ranked[0].Number)
	assert.InDelta(t, 0.74, ranked[0].Confidence, 1e-9)
	assert.Equal(t, "(305) 555-0000", ranked[1].Number)
	assert.InDelta(t, 0.3, ranked[1].Confidence, 1e-9)
	assert.Equal(t, "(713) 555-9876", ranked[2].Number)
	assert.InDelta(t, 0.19, ranked[2].Confidence, 1e-9)
}

func TestRankPhones_NoTopAddress(t *testing.T) {
	phones := []report.ParsedPhone{{Number: "(214) 555-1234", Type: report.PhoneMobile, IsActive: true}}
	ranked := newTestRanker().RankPhones(phones, nil)
	assert.InDelta(t, 0.59, ranked[0].Confidence, 1e-9)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-0.2))
	assert.Equal(t, 1.0, clampScore(1.7))
	assert.Equal(t, 0.333, clampScore(1.0/3.0))
}

//Personal.AI order the ending
