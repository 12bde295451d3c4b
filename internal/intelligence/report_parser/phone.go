package report_parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/turtacn/SkipTrace-Intelligence/internal/intelligence/geo"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// ---------------------------------------------------------------------------
// Phone extraction
// ---------------------------------------------------------------------------

var (
	phoneParenRe = regexp.MustCompile(`\([ ]*(\d{3})[ ]*\)[ ]*(\d{3})[ .\-]?(\d{4})\b`)
	phoneDashRe  = regexp.MustCompile(`\b(?:\+?1[ .\-])?(\d{3})[.\-](\d{3})[.\-](\d{4})\b`)

	phoneActiveRe   = regexp.MustCompile(`(?i)\b(?:ACTIVE|CURRENT|CONNECTED)\b`)
	phoneInactiveRe = regexp.MustCompile(`(?i)\b(?:INACTIVE|DISCONNECTED|NOT[ ]+IN[ ]+SERVICE|OUT[ ]+OF[ ]+SERVICE|NON-WORKING)\b`)

	lastSeenRe  = regexp.MustCompile(`(?i)\blast[ ]+seen\b[ ]*:?[ ]*(` + dateToken + `)`)
	firstSeenRe = regexp.MustCompile(`(?i)\bfirst[ ]+seen\b[ ]*:?[ ]*(` + dateToken + `)`)

	carrierLabelRe = regexp.MustCompile(`(?i)\bcarrier\b[ ]*[:\-][ ]*([^|,;\n()]+)`)
	knownCarrierRe = regexp.MustCompile(`(?i)\b(VERIZON(?:[ ]+WIRELESS)?|AT&T(?:[ ]+(?:MOBILITY|WIRELESS))?|T-MOBILE|SPRINT|` +
		`CRICKET(?:[ ]+WIRELESS)?|METRO[ ]*PCS|BOOST[ ]+MOBILE|US[ ]+CELLULAR|TRACFONE|GOOGLE[ ]+VOICE|BANDWIDTH|` +
		`COMCAST|XFINITY|SPECTRUM|CHARTER|CENTURYLINK|LUMEN|FRONTIER|WINDSTREAM|ONVOY|VONAGE|OOMA)`)
)

// phoneTypeRule maps line keywords to a type.  Rules are checked in order.
type phoneTypeRule struct {
	t  report.PhoneType
	re *regexp.Regexp
}

var phoneTypeRules = []phoneTypeRule{
	{report.PhoneMobile, regexp.MustCompile(`(?i)\b(?:MOBILE|CELL|CELLULAR|WIRELESS)\b`)},
	{report.PhoneLandline, regexp.MustCompile(`(?i)\b(?:LANDLINE|LAND[ ]+LINE|HOME|RESIDENTIAL)\b`)},
	{report.PhoneVoIP, regexp.MustCompile(`(?i)\b(?:VOIP|INTERNET|VIRTUAL)\b`)},
	{report.PhoneWork, regexp.MustCompile(`(?i)\b(?:WORK|BUSINESS|OFFICE)\b`)},
}

func classifyPhoneType(text string) (report.PhoneType, bool) {
	for _, r := range phoneTypeRules {
		if r.re.MatchString(text) {
			return r.t, true
		}
	}
	return report.PhoneUnknown, false
}

// phoneStatus reads activity from text.  decided is false when text carries
// no status word at all.
func phoneStatus(text string) (active, decided bool) {
	if phoneInactiveRe.MatchString(text) {
		return false, true
	}
	if phoneActiveRe.MatchString(text) {
		return true, true
	}
	return false, false
}

// phoneMatch is a validated number on a line.
type phoneMatch struct {
	pos    int
	digits string
}

// findPhones returns valid ten-digit numbers on line in order of position.
// Area codes and exchanges may not start with 0 or 1.
func findPhones(line string) []phoneMatch {
	var out []phoneMatch
	seen := make(map[int]bool)
	for _, re := range []*regexp.Regexp{phoneParenRe, phoneDashRe} {
		for _, idx := range re.FindAllStringSubmatchIndex(line, -1) {
			area := line[idx[2]:idx[3]]
			exch := line[idx[4]:idx[5]]
			if area[0] < '2' || exch[0] < '2' || seen[idx[2]] {
				continue
			}
			seen[idx[2]] = true
			out = append(out, phoneMatch{pos: idx[0], digits: area + exch + line[idx[6]:idx[7]]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	return out
}

// FormatPhone renders ten digits as "(NNN) NNN-NNNN".
func FormatPhone(digits string) string {
	if len(digits) != 10 {
		return digits
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// firstPhone returns the first phone in text, formatted, or "".
func firstPhone(text string) string {
	for _, line := range splitLines(text) {
		if ms := findPhones(line); len(ms) > 0 {
			return FormatPhone(ms[0].digits)
		}
	}
	return ""
}

func extractCarrier(line string) string {
	if m := carrierLabelRe.FindStringSubmatch(line); m != nil {
		c := m[1]
		if i := strings.Index(c, " - "); i >= 0 {
			c = c[:i]
		}
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	if m := knownCarrierRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// extractPhones returns phones deduplicated by their ten digits.  Type and
// status come from the phone's own line first and from the one-line context
// window only when the own line is silent.
func extractPhones(text string, locator geo.AreaCodeLocator) []report.ParsedPhone {
	lines := splitLines(text)
	out := make([]report.ParsedPhone, 0)
	index := make(map[string]int)

	for i, line := range lines {
		matches := findPhones(line)
		if len(matches) == 0 {
			continue
		}
		window := paragraphWindow(lines, i, 1)

		ptype, ok := classifyPhoneType(line)
		if !ok {
			ptype, _ = classifyPhoneType(window)
		}
		active, decided := phoneStatus(line)
		if !decided {
			active = phoneActiveRe.MatchString(window)
		}
		first, last := phoneDates(line, window)
		carrier := extractCarrier(line)

		for _, m := range matches {
			p := report.ParsedPhone{
				Number:     FormatPhone(m.digits),
				Type:       ptype,
				FirstSeen:  first,
				LastSeen:   last,
				Confidence: 0.5,
				IsActive:   active,
				Carrier:    carrier,
			}
			if loc, ok := locator.LocationForAreaCode(m.digits[:3]); ok {
				l := loc
				p.Location = &l
			}
			if j, dup := index[m.digits]; dup {
				mergePhone(&out[j], p)
				continue
			}
			index[m.digits] = len(out)
			out = append(out, p)
		}
	}
	return out
}

func phoneDates(line, window string) (first, last string) {
	for _, text := range []string{line, window} {
		if dr := ExtractDateRange(text); dr.From != "" && dr.To != "" {
			return dr.From, dr.To
		}
		if m := lastSeenRe.FindStringSubmatch(text); m != nil {
			last = m[1]
		}
		if m := firstSeenRe.FindStringSubmatch(text); m != nil {
			first = m[1]
		}
		if first != "" || last != "" {
			return first, last
		}
	}
	return "", ""
}

func mergePhone(dst *report.ParsedPhone, src report.ParsedPhone) {
	dst.IsActive = dst.IsActive || src.IsActive
	if dst.Type == report.PhoneUnknown {
		dst.Type = src.Type
	}
	if dst.FirstSeen == "" {
		dst.FirstSeen = src.FirstSeen
	}
	if dst.LastSeen == "" {
		dst.LastSeen = src.LastSeen
	}
	if dst.Carrier == "" {
		dst.Carrier = src.Carrier
	}
}

//Personal.AI order the ending
