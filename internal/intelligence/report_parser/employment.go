package report_parser

import (
	"regexp"
	"strings"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// ---------------------------------------------------------------------------
// Employment
// ---------------------------------------------------------------------------

var (
	employerLabelRe = regexp.MustCompile(`(?i)^[ ]*(?:EMPLOYER|COMPANY|BUSINESS|ORGANIZATION)(?:[ ]+NAME)?[ ]*[:\-][ ]*(.+)$`)
	titleLabelRe    = regexp.MustCompile(`(?i)^[ ]*(?:JOB[ ]+TITLE|TITLE|POSITION|ROLE|OCCUPATION)[ ]*[:\-][ ]*(.+)$`)
	workAddressRe   = regexp.MustCompile(`(?i)^[ ]*(?:ADDRESS|LOCATION|WORK[ ]+ADDRESS)[ ]*[:\-][ ]*(.+)$`)
	currentJobRe    = regexp.MustCompile(`(?i)\b(?:CURRENT|CURRENTLY|PRESENT)\b`)
	wholeDateRe     = regexp.MustCompile(`^` + dateToken + `$`)
)

// employmentRecordStart opens a record on an employer label, or when a line
// carries a date range and the block already has one.
func employmentRecordStart(line string, current []string) bool {
	if employerLabelRe.MatchString(line) {
		return true
	}
	if dateRangeRe.MatchString(line) {
		return anyLineMatches(current, dateRangeRe)
	}
	return false
}

// segmentsOf splits an unlabeled "Employer - Title - dates" line.
func segmentsOf(line string) []string {
	line = strings.ReplaceAll(line, "|", " - ")
	var out []string
	for _, s := range strings.Split(line, " - ") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// isDateish reports whether s is a date or an open-ended sentinel.
func isDateish(s string) bool {
	return IsOpenEnded(s) || wholeDateRe.MatchString(strings.TrimSpace(s))
}

func unlabeledEmployer(line string) (employer, title string) {
	if fieldLabelRe.MatchString(line) || isHeaderLine(line) || cszLineRe.MatchString(line) ||
		streetLineRe.MatchString(line) || len(findPhones(line)) > 0 {
		return "", ""
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || (trimmed[0] >= '0' && trimmed[0] <= '9') {
		return "", ""
	}
	segs := segmentsOf(trimmed)
	if len(segs) == 0 || isDateish(segs[0]) {
		return "", ""
	}
	employer = strings.TrimSpace(dateRangeRe.ReplaceAllString(segs[0], ""))
	if i := strings.Index(employer, "("); i > 0 {
		employer = strings.TrimSpace(employer[:i])
	}
	if len(segs) > 1 && !isDateish(segs[1]) && !dateRangeRe.MatchString(segs[1]) {
		title = segs[1]
	}
	return employer, title
}

// parseEmployment reads one record.  Without an employer label the first
// line is taken as the employer only when unlabeled is set.
func parseEmployment(block []string, unlabeled bool) (report.ParsedEmployment, bool) {
	var e report.ParsedEmployment
	joined := strings.Join(block, "\n")

	e.Employer = labeledValue(block, employerLabelRe)
	if e.Employer != "" {
		if segs := segmentsOf(e.Employer); len(segs) > 0 {
			e.Employer = segs[0]
		}
	} else if unlabeled {
		e.Employer, e.Title = unlabeledEmployer(block[0])
	}
	if e.Employer == "" {
		return e, false
	}
	if t := labeledValue(block, titleLabelRe); t != "" {
		e.Title = t
	}

	if a := labeledValue(block, workAddressRe); a != "" {
		if full := firstAddress(a); full != "" {
			a = full
		}
		e.Address = a
	} else {
		e.Address = firstAddress(joined)
	}
	e.Phone = firstPhone(joined)

	dr := ExtractDateRange(joined)
	e.FromDate, e.ToDate = dr.From, dr.To
	e.IsCurrent = currentJobRe.MatchString(joined) || IsOpenEnded(e.ToDate)
	return e, true
}

// extractEmployment returns employment records deduplicated by employer.
// sectioned is true when text is a recognised employment section; over the
// whole document only labelled employers are accepted.
func extractEmployment(text string, limit int, sectioned bool) []report.ParsedEmployment {
	out := make([]report.ParsedEmployment, 0)
	seen := make(map[string]bool)
	for _, block := range splitBlocks(text, employmentRecordStart) {
		e, ok := parseEmployment(block, sectioned)
		if !ok {
			continue
		}
		key := strings.ToUpper(e.Employer)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

//Personal.AI order the ending
