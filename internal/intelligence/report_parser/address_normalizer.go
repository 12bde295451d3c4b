package report_parser

import (
	"strings"
)

// streetAbbreviations maps long street-type and unit words to the USPS
// abbreviations so two renderings of one address compare equal.
var streetAbbreviations = map[string]string{
	"STREET":    "ST",
	"AVENUE":    "AVE",
	"DRIVE":     "DR",
	"ROAD":      "RD",
	"LANE":      "LN",
	"BOULEVARD": "BLVD",
	"COURT":     "CT",
	"CIRCLE":    "CIR",
	"PLACE":     "PL",
	"PARKWAY":   "PKWY",
	"HIGHWAY":   "HWY",
	"TERRACE":   "TER",
	"TRAIL":     "TRL",
	"APARTMENT": "APT",
	"SUITE":     "STE",
}

var addressPunctuation = strings.NewReplacer(".", "", ",", " ", "#", " ")

// NormalizeAddress upper-cases s, drops '.', ',' and '#', collapses
// whitespace and abbreviates street-type words.
func NormalizeAddress(s string) string {
	s = addressPunctuation.Replace(strings.ToUpper(s))
	fields := strings.Fields(s)
	for i, f := range fields {
		if abbr, ok := streetAbbreviations[f]; ok {
			fields[i] = abbr
		}
	}
	return strings.Join(fields, " ")
}

// FuzzyAddressMatch reports whether a and b plausibly name the same place:
// the normalized forms are equal, one contains the other, or both start with
// the same street number and one compacted street name contains the other.
func FuzzyAddressMatch(a, b string) bool {
	na, nb := NormalizeAddress(a), NormalizeAddress(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb || strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	numA, restA := splitStreetNumber(na)
	numB, restB := splitStreetNumber(nb)
	if numA == "" || numA != numB || restA == "" || restB == "" {
		return false
	}
	ca := strings.ReplaceAll(restA, " ", "")
	cb := strings.ReplaceAll(restB, " ", "")
	return strings.Contains(ca, cb) || strings.Contains(cb, ca)
}

// splitStreetNumber separates a leading all-digit house number.
func splitStreetNumber(normalized string) (string, string) {
	head, rest, found := strings.Cut(normalized, " ")
	if !found || !isAllDigits(head) {
		return "", normalized
	}
	return head, rest
}

//Personal.AI order the ending
