package report_parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var horizontalSpaceRe = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)

// NormalizeText canonicalises raw report text: NFC composition, "\r\n" and
// "\r" line endings become "\n", tabs and runs of horizontal whitespace
// collapse to one space, and trailing spaces are trimmed from every line.
// Line structure is preserved because segmentation is line based.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = horizontalSpaceRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n ")
}

// splitLines splits normalized text into lines.  Empty text yields no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// paragraphWindow joins lines[i-radius .. i+radius], clamped to bounds and
// cut at blank lines so context never leaks in from a neighbouring record.
func paragraphWindow(lines []string, i, radius int) string {
	lo := i
	for lo > 0 && lo > i-radius && !isBlank(lines[lo-1]) {
		lo--
	}
	hi := i + 1
	for hi < len(lines) && hi <= i+radius && !isBlank(lines[hi]) {
		hi++
	}
	return strings.Join(lines[lo:hi], "\n")
}

// runePrefix returns at most n runes of s.
func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// isBlank reports whether a line holds only whitespace.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// isAllDigits reports whether s is non-empty and made only of ASCII digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

//Personal.AI order the ending
