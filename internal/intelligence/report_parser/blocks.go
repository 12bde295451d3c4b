package report_parser

import (
	"regexp"
	"strings"
)

// maxBlockLines bounds a record block.
const maxBlockLines = 40

// recordStartFunc reports whether line opens a new record given the lines
// already collected for the current one.
type recordStartFunc func(line string, current []string) bool

// splitBlocks cuts section text into record blocks.  Blank lines always end
// a block, header lines are dropped, and startsRecord decides where a record
// begins inside an unbroken run of lines.
func splitBlocks(text string, startsRecord recordStartFunc) [][]string {
	var blocks [][]string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, cur)
			cur = nil
		}
	}
	for _, line := range splitLines(text) {
		switch {
		case isBlank(line):
			flush()
		case isHeaderLine(line):
			flush()
		default:
			if len(cur) >= maxBlockLines || (len(cur) > 0 && startsRecord != nil && startsRecord(line, cur)) {
				flush()
			}
			cur = append(cur, strings.TrimSpace(line))
		}
	}
	flush()
	return blocks
}

// fieldLabelRe matches a "Label: value" field line.
var fieldLabelRe = regexp.MustCompile(`^[ ]*[A-Za-z][A-Za-z .#/]{0,24}[ ]*:`)

// labeledValue returns the value of the first line in block whose label
// matches re; re must capture the value in group 1.
func labeledValue(block []string, re *regexp.Regexp) string {
	for _, line := range block {
		if m := re.FindStringSubmatch(line); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

func anyLineMatches(block []string, re *regexp.Regexp) bool {
	for _, line := range block {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
