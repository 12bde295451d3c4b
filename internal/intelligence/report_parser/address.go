package report_parser

import (
	"regexp"
	"strings"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// ---------------------------------------------------------------------------
// Address extraction
// ---------------------------------------------------------------------------

// usStates holds USPS state and territory codes.
var usStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true,
	"DE": true, "DC": true, "FL": true, "GA": true, "HI": true, "ID": true, "IL": true,
	"IN": true, "IA": true, "KS": true, "KY": true, "LA": true, "ME": true, "MD": true,
	"MA": true, "MI": true, "MN": true, "MS": true, "MO": true, "MT": true, "NE": true,
	"NV": true, "NH": true, "NJ": true, "NM": true, "NY": true, "NC": true, "ND": true,
	"OH": true, "OK": true, "OR": true, "PA": true, "RI": true, "SC": true, "SD": true,
	"TN": true, "TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true, "PR": true, "GU": true, "VI": true,
}

const (
	streetSuffix = `(?i:STREET|ST|AVENUE|AVE|AV|ROAD|RD|DRIVE|DR|LANE|LN|BOULEVARD|BLVD|COURT|CT|CIRCLE|CIR|` +
		`WAY|WY|PLACE|PL|PARKWAY|PKWY|HIGHWAY|HWY|TRAIL|TRL|TERRACE|TER|LOOP|PIKE|SQUARE|SQ|PLAZA|PLZ|` +
		`RUN|PATH|CROSSING|XING|POINT|PT|COVE|CV|ROW|ALLEY|ALY|EXPRESSWAY|EXPY|FREEWAY|FWY)`
	unitSuffix = `(?:[ ,]+(?i:APT|APARTMENT|UNIT|STE|SUITE|LOT|BLDG|FL|RM|SPC)\.?[ ]*#?[ ]*[A-Za-z0-9\-]+|[ ]+#[ ]*[A-Za-z0-9\-]+)?`
	streetExpr = `\b\d{1,6}[A-Za-z]?(?:[ ]+[A-Za-z0-9][A-Za-z0-9'.\-]*){1,6}?[ ]+` + streetSuffix + `\b\.?` +
		`(?:[ ]+(?:N|S|E|W|NE|NW|SE|SW)\b)?` + unitSuffix
	cityStateZip = `([A-Za-z][A-Za-z .'\-]*?),?[ ]+([A-Z]{2}),?[ ]+(\d{5}(?:-\d{4})?)\b`
)

var (
	// fullAddressPatterns match street, city, state and ZIP on one line.
	fullAddressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(` + streetExpr + `),?[ ]+` + cityStateZip),
		regexp.MustCompile(`(\b\d{1,6}[A-Za-z]?[ ]+[A-Za-z0-9][^,\n]{1,60}?),[ ]*` + cityStateZip),
	}
	streetLineRe = regexp.MustCompile(`^[ ]*(?:\d+[.)][ ]+|[-*•][ ]*)?(` + streetExpr + `)[ ]*(?:[,\-|(].*)?$`)
	cszLineRe    = regexp.MustCompile(`^[ ]*` + cityStateZip + `[ ]*(?:[,\-|(].*)?$`)
	currentRe    = regexp.MustCompile(`(?i)\b(?:CURRENT|PRESENT)\b`)
)

// addressParts is one address found in text.
type addressParts struct {
	street, city, state, zip string
	// lines is how many lines the address spans from its street line.
	lines int
}

func (a addressParts) full() string {
	if a.city == "" {
		return a.street
	}
	return a.street + ", " + a.city + ", " + a.state + " " + a.zip
}

func cleanStreet(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), " ,-")
}

// fullAddressesOnLine returns every complete address on a single line.
func fullAddressesOnLine(line string) []addressParts {
	for _, re := range fullAddressPatterns {
		ms := re.FindAllStringSubmatch(line, -1)
		var out []addressParts
		for _, m := range ms {
			if !usStates[m[3]] {
				continue
			}
			out = append(out, addressParts{
				street: cleanStreet(m[1]),
				city:   strings.TrimSpace(m[2]),
				state:  m[3],
				zip:    m[4],
				lines:  1,
			})
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// multiLineAddressAt recognises a street line at lines[i] and looks for its
// "City, ST 12345" on one of the next two lines.  Without one the address is
// kept street-only.
func multiLineAddressAt(lines []string, i int) (addressParts, bool) {
	m := streetLineRe.FindStringSubmatch(lines[i])
	if m == nil {
		return addressParts{}, false
	}
	a := addressParts{street: cleanStreet(m[1]), lines: 1}
	for j := i + 1; j < len(lines) && j <= i+2; j++ {
		if c := cszLineRe.FindStringSubmatch(lines[j]); c != nil && usStates[c[2]] {
			a.city, a.state, a.zip = strings.TrimSpace(c[1]), c[2], c[3]
			a.lines = j - i + 1
			break
		}
	}
	return a, true
}

// findAddresses lists addresses with the index of their street line.
func findAddresses(lines []string) ([]addressParts, []int) {
	var found []addressParts
	var at []int
	for i := range lines {
		if full := fullAddressesOnLine(lines[i]); len(full) > 0 {
			for _, a := range full {
				found = append(found, a)
				at = append(at, i)
			}
			continue
		}
		if a, ok := multiLineAddressAt(lines, i); ok {
			found = append(found, a)
			at = append(at, i)
		}
	}
	return found, at
}

// firstAddress returns the first address in text formatted as a full
// address, or "".
func firstAddress(text string) string {
	found, _ := findAddresses(splitLines(text))
	if len(found) == 0 {
		return ""
	}
	return found[0].full()
}

// extractAddresses returns deduplicated addresses with dates and the current
// marker taken from a two-line context window.
func extractAddresses(text string) []report.ParsedAddress {
	lines := splitLines(text)
	found, at := findAddresses(lines)

	out := make([]report.ParsedAddress, 0, len(found))
	index := make(map[string]int)
	for k, a := range found {
		i := at[k]
		own := strings.Join(lines[i:minInt(len(lines), i+a.lines)], "\n")
		window := paragraphWindow(lines, i, 2)

		dr := ExtractDateRange(own)
		if dr.Empty() {
			dr = ExtractDateRange(window)
		}
		pa := report.ParsedAddress{
			Address:     a.street,
			City:        a.city,
			State:       a.state,
			Zip:         a.zip,
			FullAddress: a.full(),
			FromDate:    dr.From,
			ToDate:      dr.To,
			Confidence:  0.5,
			Reasons:     []string{},
			IsCurrent:   currentRe.MatchString(window),
		}

		key := NormalizeAddress(pa.FullAddress)
		if j, dup := index[key]; dup {
			mergeAddress(&out[j], pa)
			continue
		}
		index[key] = len(out)
		out = append(out, pa)
	}
	return out
}

func mergeAddress(dst *report.ParsedAddress, src report.ParsedAddress) {
	dst.IsCurrent = dst.IsCurrent || src.IsCurrent
	if dst.FromDate == "" {
		dst.FromDate = src.FromDate
	}
	if dst.ToDate == "" || IsOpenEnded(src.ToDate) {
		if src.ToDate != "" {
			dst.ToDate = src.ToDate
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

//Personal.AI order the ending
