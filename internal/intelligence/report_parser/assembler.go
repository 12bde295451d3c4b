package report_parser

import (
	"fmt"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// Overall confidence factor weights.  The sum is normalised by the number of
// factors present times factorScale.
const (
	factorName    = 0.2
	factorDOB     = 0.15
	factorSSN     = 0.15
	factorAddress = 0.25
	factorPhone   = 0.25
	factorScale   = 0.2

	lowAddressConfidence = 0.5
)

// Recommendation texts.
const (
	recDeceased       = "Subject may be deceased - verify death records before proceeding"
	recNoAddresses    = "No addresses found - consider additional data sources"
	recLowAddress     = "Low confidence on current address - verify with additional sources"
	recActivePhones   = "%d active phone number(s) found - prioritize for contact"
	recRelativeLeads  = "%d relative(s) with known addresses - potential contact points"
	recHighRisk       = "High-risk indicators present - review safety precautions before field contact"
)

// overallConfidence combines the identity and contact factors that are
// present into one score in [0,1].
func overallConfidence(s report.Subject, addrs []report.ParsedAddress, phones []report.ParsedPhone) float64 {
	var sum float64
	n := 0
	if s.FullName != "" && s.FullName != report.UnknownName {
		sum += factorName
		n++
	}
	if s.DOB != "" {
		sum += factorDOB
		n++
	}
	if s.PartialSSN != "" {
		sum += factorSSN
		n++
	}
	if len(addrs) > 0 {
		sum += factorAddress * addrs[0].Confidence
		n++
	}
	if len(phones) > 0 {
		sum += factorPhone * phones[0].Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return clampScore(sum / (float64(n) * factorScale))
}

func recommendations(r *report.ParsedReport) []string {
	recs := make([]string, 0)
	if r.Subject.DeceasedIndicator {
		recs = append(recs, recDeceased)
	}
	switch {
	case len(r.Addresses) == 0:
		recs = append(recs, recNoAddresses)
	case r.Addresses[0].Confidence < lowAddressConfidence:
		recs = append(recs, recLowAddress)
	}

	active := 0
	for _, p := range r.Phones {
		if p.IsActive {
			active++
		}
	}
	if active > 0 {
		recs = append(recs, fmt.Sprintf(recActivePhones, active))
	}

	withAddr := 0
	for _, rel := range r.Relatives {
		if rel.CurrentAddress != "" {
			withAddr++
		}
	}
	if withAddr > 0 {
		recs = append(recs, fmt.Sprintf(recRelativeLeads, withAddr))
	}
	if r.HasFlag(report.FlagHighRisk) {
		recs = append(recs, recHighRisk)
	}
	return recs
}

// assemble fills the derived fields of a report whose lists are already
// ranked.
func assemble(r *report.ParsedReport) {
	r.ParseMethod = report.MethodDeterministic
	r.ParseConfidence = overallConfidence(r.Subject, r.Addresses, r.Phones)
	r.Recommendations = recommendations(r)
}

//Personal.AI order the ending
