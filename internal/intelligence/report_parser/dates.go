package report_parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Date ranges
// ---------------------------------------------------------------------------

// Sentinels recognised as an open-ended "to" date.
const (
	sentinelCurrent = "CURRENT"
	sentinelPresent = "PRESENT"
)

// dateToken matches a single date in any of the shapes reports use:
// MM/DD/YYYY, MM/YYYY, YYYY-MM(-DD), "Month YYYY" / "Month D, YYYY" and a
// bare four-digit year.  Years are limited to 19xx and 20xx so street numbers
// and phone suffixes are not mistaken for dates.
const dateToken = `(?:\b\d{1,2}/\d{1,2}/(?:19|20)\d{2}\b` +
	`|\b\d{1,2}/(?:19|20)\d{2}\b` +
	`|\b(?:19|20)\d{2}-\d{2}(?:-\d{2})?\b` +
	`|\b(?i:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*)\.?[ \t]+(?:\d{1,2},?[ \t]+)?(?:19|20)\d{2}\b` +
	`|\b(?:19|20)\d{2}\b)`

var (
	dateRangeRe = regexp.MustCompile(`(` + dateToken + `)[ \t]*(?:-|–|—|\b(?i:to|thru|through|until)\b)[ \t]*(` +
		dateToken + `|\b(?i:current|present)\b)`)
	labeledFromRe = regexp.MustCompile(`(?i)\b(?:since|from|first\s+seen|first\s+reported)\b[ \t]*:?[ \t]*(` + dateToken + `)`)
	labeledToRe   = regexp.MustCompile(`(?i)\b(?:last\s+seen|last\s+reported|as\s+of|updated|reported)\b[ \t]*:?[ \t]*(` + dateToken + `)`)

	yearRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
)

// DateRange is a from/to pair taken verbatim from the text.  Either end may
// be empty; To may hold a CURRENT or PRESENT sentinel.
type DateRange struct {
	From string
	To   string
}

// Empty reports whether neither end was found.
func (d DateRange) Empty() bool {
	return d.From == "" && d.To == ""
}

// ExtractDateRange returns the first date range found in text.  When no
// range is present a single labelled date ("Since 2019", "Last seen
// 03/2024") fills the matching end.
func ExtractDateRange(text string) DateRange {
	if m := dateRangeRe.FindStringSubmatch(text); m != nil {
		to := strings.TrimSpace(m[2])
		if IsOpenEnded(to) {
			to = strings.ToUpper(to)
		}
		return DateRange{From: strings.TrimSpace(m[1]), To: to}
	}
	var dr DateRange
	if m := labeledFromRe.FindStringSubmatch(text); m != nil {
		dr.From = strings.TrimSpace(m[1])
	}
	if m := labeledToRe.FindStringSubmatch(text); m != nil {
		dr.To = strings.TrimSpace(m[1])
	}
	return dr
}

// IsOpenEnded reports whether s contains a CURRENT or PRESENT sentinel.
func IsOpenEnded(s string) bool {
	u := strings.ToUpper(s)
	return strings.Contains(u, sentinelCurrent) || strings.Contains(u, sentinelPresent)
}

// ---------------------------------------------------------------------------
// Recency
// ---------------------------------------------------------------------------

// Recency maps a "to" date onto [0,1] relative to now.  Open-ended dates
// score 1.0; a missing or unparseable date scores neutral.
//
//	years ago  score
//	<= 0       1.0
//	1          0.85
//	2          0.7
//	3..5       0.5
//	6..10      0.3
//	> 10       0.1
func Recency(date string, now time.Time, neutral float64) float64 {
	date = strings.TrimSpace(date)
	if date == "" {
		return neutral
	}
	if IsOpenEnded(date) {
		return 1.0
	}
	years, ok := yearsAgo(date, now)
	if !ok {
		return neutral
	}
	switch {
	case years <= 0:
		return 1.0
	case years == 1:
		return 0.85
	case years == 2:
		return 0.7
	case years <= 5:
		return 0.5
	case years <= 10:
		return 0.3
	default:
		return 0.1
	}
}

// yearsAgo returns the calendar-year difference between now and the last
// year in date.  A month, when present, does not change the result.
func yearsAgo(date string, now time.Time) (int, bool) {
	ys := yearRe.FindAllStringSubmatch(date, -1)
	if len(ys) == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(ys[len(ys)-1][1])
	if err != nil {
		return 0, false
	}
	return now.Year() - year, true
}

// lastYear returns the most recent year mentioned in date, or 0.
func lastYear(date string) int {
	ys := yearRe.FindAllStringSubmatch(date, -1)
	if len(ys) == 0 {
		return 0
	}
	y, _ := strconv.Atoi(ys[len(ys)-1][1])
	return y
}

//Personal.AI order the ending
