package report_parser

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/turtacn/SkipTrace-Intelligence/internal/intelligence/geo"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// ---------------------------------------------------------------------------
// Ranking
// ---------------------------------------------------------------------------

// Address scoring weights.
const (
	addrWeightRecency    = 0.4
	addrWeightCurrent    = 0.2
	addrWeightVehicle    = 0.1
	addrWeightEmployment = 0.1
	addrWeightAreaCode   = 0.05
	addrWeightComplete   = 0.05
)

// Phone scoring weights.
const (
	phoneWeightActive   = 0.3
	phoneWeightMobile   = 0.2
	phoneWeightLandline = 0.1
	phoneWeightRecency  = 0.3
	phoneWeightAreaCode = 0.1
	phoneWeightCarrier  = 0.05
)

// Address reason strings.
const (
	reasonRecent        = "Recent address record"
	reasonNoDate        = "No date information available"
	reasonOlderFmt      = "Older address record (last seen %d)"
	reasonModerate      = "Address reported within the last five years"
	reasonCurrent       = "Marked as current address"
	reasonVehicle       = "Linked to vehicle registration"
	reasonEmployment    = "Matches employment address"
	reasonAreaCode      = "Area code matches phone on file"
	reasonCompleteAddr  = "Complete address (city, state, ZIP)"
	recentThreshold     = 0.85
	moderateThreshold   = 0.5
	confidencePrecision = 1000
)

// Ranker scores and orders addresses and phones.  It holds no mutable state.
type Ranker struct {
	lookup  geo.AreaCodeLookup
	now     time.Time
	neutral float64
}

// NewRanker builds a Ranker measuring recency against now.
func NewRanker(lookup geo.AreaCodeLookup, now time.Time, neutral float64) Ranker {
	if lookup == nil {
		lookup = geo.Nop{}
	}
	return Ranker{lookup: lookup, now: now, neutral: neutral}
}

func clampScore(x float64) float64 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return math.Round(x*confidencePrecision) / confidencePrecision
}

// RankAddresses scores every address and sorts descending by confidence.
// The sort is stable, so ties keep extraction order.
func (r Ranker) RankAddresses(addrs []report.ParsedAddress, vehicles []report.ParsedVehicle,
	jobs []report.ParsedEmployment, phones []report.ParsedPhone) []report.ParsedAddress {

	phoneAreas := make(map[string]bool, len(phones))
	for _, p := range phones {
		if ac := p.AreaCode(); ac != "" {
			phoneAreas[ac] = true
		}
	}

	out := make([]report.ParsedAddress, len(addrs))
	for i, a := range addrs {
		var score float64
		reasons := make([]string, 0, 4)
		var signals []string

		rec := Recency(a.ToDate, r.now, r.neutral)
		score += addrWeightRecency * rec
		switch {
		case a.ToDate == "":
			reasons = append(reasons, reasonNoDate)
		case rec >= recentThreshold:
			reasons = append(reasons, reasonRecent)
		case rec >= moderateThreshold:
			reasons = append(reasons, reasonModerate)
		case lastYear(a.ToDate) > 0:
			reasons = append(reasons, fmt.Sprintf(reasonOlderFmt, lastYear(a.ToDate)))
		default:
			reasons = append(reasons, reasonNoDate)
		}

		if a.IsCurrent {
			score += addrWeightCurrent
			reasons = append(reasons, reasonCurrent)
		}
		if matchesVehicle(a, vehicles) {
			score += addrWeightVehicle
			reasons = append(reasons, reasonVehicle)
			signals = append(signals, report.SignalVehicle)
		}
		if matchesEmployment(a, jobs) {
			score += addrWeightEmployment
			reasons = append(reasons, reasonEmployment)
			signals = append(signals, report.SignalEmployment)
		}
		if ac, ok := r.lookup.AreaCodeForZIP(a.Zip); ok && phoneAreas[ac] {
			score += addrWeightAreaCode
			reasons = append(reasons, reasonAreaCode)
			signals = append(signals, report.SignalPhone)
		}
		if a.City != "" && a.State != "" && a.Zip != "" {
			score += addrWeightComplete
			reasons = append(reasons, reasonCompleteAddr)
		}

		a.Confidence = clampScore(score)
		a.Reasons = reasons
		a.LinkedSignals = signals
		out[i] = a
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

func matchesVehicle(a report.ParsedAddress, vehicles []report.ParsedVehicle) bool {
	for _, v := range vehicles {
		if v.RegisteredAddress != "" && FuzzyAddressMatch(a.FullAddress, v.RegisteredAddress) {
			return true
		}
	}
	return false
}

func matchesEmployment(a report.ParsedAddress, jobs []report.ParsedEmployment) bool {
	for _, e := range jobs {
		if e.Address != "" && FuzzyAddressMatch(a.FullAddress, e.Address) {
			return true
		}
	}
	return false
}

// RankPhones scores phones against the top-ranked address (which may be nil)
// and sorts descending by confidence.
func (r Ranker) RankPhones(phones []report.ParsedPhone, top *report.ParsedAddress) []report.ParsedPhone {
	topArea := ""
	if top != nil {
		topArea, _ = r.lookup.AreaCodeForZIP(top.Zip)
	}

	out := make([]report.ParsedPhone, len(phones))
	for i, p := range phones {
		var score float64
		if p.IsActive {
			score += phoneWeightActive
		}
		switch p.Type {
		case report.PhoneMobile:
			score += phoneWeightMobile
		case report.PhoneLandline:
			score += phoneWeightLandline
		}
		score += phoneWeightRecency * Recency(p.LastSeen, r.now, r.neutral)
		if topArea != "" && p.AreaCode() == topArea {
			score += phoneWeightAreaCode
		}
		if p.Carrier != "" {
			score += phoneWeightCarrier
		}
		p.Confidence = clampScore(score)
		out[i] = p
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

//Personal.AI order the ending
