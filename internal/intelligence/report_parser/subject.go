package report_parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// ---------------------------------------------------------------------------
// Subject identity
// ---------------------------------------------------------------------------

// nameStrategy is one step of the subject-name cascade.  extract returns the
// cleaned name and whether the candidate was accepted.
type nameStrategy struct {
	name    string
	pattern *regexp.Regexp
	extract func(groups []string) (string, bool)
}

// subjectNameStrategies runs in order; the first accepted candidate wins.
var subjectNameStrategies = []nameStrategy{
	{
		name:    "labeled",
		pattern: regexp.MustCompile(`(?i:\b(?:FULL[ ]+NAME|SUBJECT(?:[ ]+NAME)?|NAME))\b[ ]*[:\-]?[ ]*([A-Z][A-Za-z'.\-]*(?:,?[ ]+[A-Z][A-Za-z'.\-]*){1,4})`),
		extract: func(g []string) (string, bool) { return cleanPersonName(g[1], 2) },
	},
	{
		name:    "subject-delimited",
		pattern: regexp.MustCompile(`(?i:SUBJECT)[ ]*:[ ]*([A-Za-z][A-Za-z ,.'\-]*?)[ ]*(?:\(|\b(?i:DOB|SSN)\b)`),
		extract: func(g []string) (string, bool) { return cleanPersonName(g[1], 2) },
	},
	{
		name:    "capitalized-line",
		pattern: regexp.MustCompile(`(?m)^[ ]*([A-Z][A-Z'.\-]+(?:[ ]+[A-Z][A-Z'.\-]*){1,3})[ ]*$`),
		extract: func(g []string) (string, bool) {
			if isHeaderLine(g[1]) {
				return "", false
			}
			tokens := strings.Fields(g[1])
			if usStates[tokens[len(tokens)-1]] {
				return "", false
			}
			for _, t := range tokens {
				if nameRejectWords[strings.Trim(t, ".,")] {
					return "", false
				}
			}
			return cleanPersonName(g[1], 2)
		},
	},
}

// nameStopTokens end a name candidate: everything from the first one on is
// dropped.
var nameStopTokens = map[string]bool{
	"DOB": true, "D.O.B": true, "D.O.B.": true, "SSN": true, "AGE": true, "BORN": true,
	"DECEASED": true, "SEX": true, "GENDER": true, "RACE": true, "PHONE": true,
	"ADDRESS": true, "AKA": true, "ID": true,
}

// nameRejectWords disqualify a candidate outright.
var nameRejectWords = map[string]bool{
	"INFORMATION": true, "SUMMARY": true, "REPORT": true, "DETAILS": true, "PROFILE": true,
	"SECTION": true, "RECORDS": true, "RECORD": true, "HISTORY": true, "SEARCH": true,
	"RESULTS": true, "BACKGROUND": true, "COMPREHENSIVE": true, "CONFIDENTIAL": true,
	"SKIP": true, "TRACE": true, "DATA": true, "SUBJECT": true, "ADDRESSES": true,
	"PHONES": true, "RELATIVES": true, "ASSOCIATES": true, "VEHICLES": true,
	"EMPLOYMENT": true, "CURRENT": true, "PREVIOUS": true, "POSSIBLE": true,
	"UNKNOWN": true, "NONE": true, "N/A": true, "PERSON": true, "CHECK": true,
	"PHONE": true, "NUMBER": true, "NUMBERS": true, "ADDRESS": true, "KNOWN": true,
}

// cleanPersonName trims a raw candidate at the first stop token and accepts
// it when at least minTokens name tokens remain and none is a reject word.
func cleanPersonName(raw string, minTokens int) (string, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "(|"); i >= 0 {
		raw = raw[:i]
	}
	var kept []string
	for _, tok := range strings.Fields(raw) {
		bare := strings.ToUpper(strings.Trim(tok, ",:-"))
		if nameStopTokens[bare] {
			break
		}
		if nameRejectWords[bare] {
			return "", false
		}
		kept = append(kept, tok)
	}
	if len(kept) < minTokens {
		return "", false
	}
	name := strings.TrimRight(strings.Join(kept, " "), " ,-")
	if strings.IndexFunc(name, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0 {
		return "", false
	}
	return name, true
}

// extractSubjectName runs the strategy cascade over text.
func extractSubjectName(text string) string {
	for _, s := range subjectNameStrategies {
		for _, g := range s.pattern.FindAllStringSubmatch(text, -1) {
			if name, ok := s.extract(g); ok {
				return name
			}
		}
	}
	return report.UnknownName
}

const dobLabel = `\b(?:DOB|D\.O\.B|DATE[ ]+OF[ ]+BIRTH|BIRTH[ ]*DATE|BORN)\.?[ ]*[:\-]?[ ]*`

// dobPatterns are tried in order: masked-day slash date, month-name date,
// month/year, then a date followed by "(DOB)".
var dobPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + dobLabel + `(\d{1,2}/(?:\d{1,2}|[X*#]{2})/(?:19|20)\d{2})\b`),
	regexp.MustCompile(`(?i)` + dobLabel + `((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?[ ]+\d{1,2},?[ ]+(?:19|20)\d{2})\b`),
	regexp.MustCompile(`(?i)` + dobLabel + `(\d{1,2}/(?:19|20)\d{2}|(?:19|20)\d{2}-\d{2}(?:-\d{2})?)\b`),
	regexp.MustCompile(`(?i)(\d{1,2}/\d{1,2}/(?:19|20)\d{2})[ ]*\([ ]*(?:DOB|D\.O\.B\.?)[ ]*\)`),
}

func extractDOB(text string) string {
	for _, re := range dobPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// SSN masking
// ---------------------------------------------------------------------------

const (
	ssnMaskPrefix = "***-**-"
	ssnFullyMask  = "***-**-****"
)

var (
	ssnLabeledRe = regexp.MustCompile(`(?i)(?:\bSSN|\bSS#|\bSOC(?:IAL)?[ ]*SEC(?:URITY)?(?:[ ]*(?:NO\.?|NUMBER|#))?)[ ]*[:#\-]?[ ]*` +
		`([0-9X*#]{3})[- ]?([0-9X*#]{2})[- ]?([0-9X*#]{4})(?:[^0-9]|\z)`)
	ssnMaskedRe = regexp.MustCompile(`(?i)(?:XXX|\*\*\*|###)-(?:XX|\*\*|##)-(\d{4}|XXXX|\*\*\*\*|####)`)
)

// extractSSN finds an SSN and returns it masked.  Only the last four digits
// ever survive; anything else is replaced by '*'.
func extractSSN(text string) string {
	if m := ssnLabeledRe.FindStringSubmatch(text); m != nil {
		return maskSSN(m[3])
	}
	if m := ssnMaskedRe.FindStringSubmatch(text); m != nil {
		return maskSSN(m[1])
	}
	return ""
}

func maskSSN(last4 string) string {
	if len(last4) == 4 && isAllDigits(last4) {
		return ssnMaskPrefix + last4
	}
	return ssnFullyMask
}

// ---------------------------------------------------------------------------
// Person id, deceased, aliases
// ---------------------------------------------------------------------------

var personIDRe = regexp.MustCompile(`(?i)\b(?:PERSON[ ]*ID|SUBJECT[ ]*ID|LEX[ ]*ID|RECORD[ ]*ID|REPORT[ ]*ID)[ ]*[:#]?[ ]*([A-Z0-9][A-Z0-9\-]{3,})\b`)

func extractPersonID(text string) string {
	if m := personIDRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// deceasedProximity is how far, in bytes, a DECEASED token may sit from a
// SUBJECT token and still describe the subject.
const deceasedProximity = 200

var subjectTokenRe = regexp.MustCompile(`(?i)\bSUBJECT\b`)

// deceasedNegations are values after "DECEASED:" that deny the indicator.
var deceasedNegations = map[string]bool{
	"NO": true, "N": true, "FALSE": true, "NONE": true, "UNKNOWN": true, "N/A": true,
}

func isNegatedDeceased(value string) bool {
	return deceasedNegations[strings.ToUpper(strings.TrimSpace(value))]
}

// detectDeceased reports a non-negated DECEASED token within
// deceasedProximity of a SUBJECT token, on either side.  Token positions are
// collected once and compared, which keeps the check linear in text length.
func detectDeceased(text string) bool {
	subjects := subjectTokenRe.FindAllStringIndex(text, -1)
	if len(subjects) == 0 {
		return false
	}
	starts := make([]int, len(subjects))
	for i, loc := range subjects {
		starts[i] = loc[0]
	}

	for _, m := range deceasedTokenRe.FindAllStringSubmatchIndex(text, -1) {
		value := ""
		if m[2] >= 0 {
			value = text[m[2]:m[3]]
		}
		if isNegatedDeceased(value) {
			continue
		}
		tokStart, tokEnd := m[0], m[0]+len("DECEASED")
		// nearest SUBJECT token starting at or after the DECEASED token
		k := sort.SearchInts(starts, tokStart)
		if k < len(starts) && starts[k]-tokEnd <= deceasedProximity {
			return true
		}
		if k > 0 && tokStart-subjects[k-1][1] <= deceasedProximity {
			return true
		}
	}
	return false
}

var (
	aliasLabelRe = regexp.MustCompile(`(?i)^[ #*\-]*(?:ALIASES|ALIAS(?:[ ]+NAMES)?|AKAS?|A\.K\.A\.?|ALSO[ ]+KNOWN[ ]+AS|(?:OTHER[ ]+)?NAMES?[ ]+USED|OTHER[ ]+NAMES)` +
		`[ ]*(?:\(\d+\))?[ ]*(?:[:\-][ ]*(.*))?$`)
	aliasSplitRe = regexp.MustCompile(`[,;\n]`)
)

// extractAliases scans the whole document for alias blocks.  A block runs
// from the label to the next blank line or section header.
func extractAliases(text string, limit int) []string {
	aliases := make([]string, 0)
	seen := make(map[string]bool)
	lines := splitLines(text)

	for i := 0; i < len(lines) && len(aliases) < limit; i++ {
		m := aliasLabelRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		block := []string{m[1]}
		j := i + 1
		for ; j < len(lines); j++ {
			if isBlank(lines[j]) || isHeaderLine(lines[j]) {
				break
			}
			block = append(block, lines[j])
		}
		i = j - 1

		for _, tok := range aliasSplitRe.Split(strings.Join(block, "\n"), -1) {
			tok = strings.Trim(strings.TrimSpace(tok), ".-* ")
			if len([]rune(tok)) < 3 || isAllDigits(strings.ReplaceAll(tok, " ", "")) {
				continue
			}
			key := strings.ToUpper(tok)
			if seen[key] {
				continue
			}
			seen[key] = true
			aliases = append(aliases, tok)
			if len(aliases) == limit {
				break
			}
		}
	}
	return aliases
}

// extractSubject builds the subject record from the subject section, with
// aliases read from the whole document.
func extractSubject(subjectText, fullText string, cfg Config) report.Subject {
	return report.Subject{
		FullName:          extractSubjectName(subjectText),
		DOB:               extractDOB(subjectText),
		PartialSSN:        extractSSN(subjectText),
		PersonID:          extractPersonID(subjectText),
		DeceasedIndicator: detectDeceased(subjectText),
		Aliases:           extractAliases(fullText, cfg.MaxAliases),
	}
}

//Personal.AI order the ending
