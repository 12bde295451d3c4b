package report_parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// ---------------------------------------------------------------------------
// Relatives and associates
// ---------------------------------------------------------------------------

// relationshipWords is the relationship vocabulary.  The alternation is
// built longest-first so "mother-in-law" wins over "mother".
var relationshipWords = []string{
	"mother", "father", "parent", "son", "daughter", "child", "spouse", "wife", "husband",
	"ex-wife", "ex-husband", "ex-spouse", "brother", "sister", "sibling",
	"half-brother", "half-sister", "stepbrother", "stepsister", "stepmother", "stepfather",
	"stepson", "stepdaughter", "step-brother", "step-sister", "step-mother", "step-father",
	"grandmother", "grandfather", "grandparent", "grandson", "granddaughter", "grandchild",
	"aunt", "uncle", "niece", "nephew", "cousin",
	"mother-in-law", "father-in-law", "son-in-law", "daughter-in-law",
	"brother-in-law", "sister-in-law",
	"partner", "fiance", "fiancee", "girlfriend", "boyfriend", "roommate", "associate",
}

var relationshipRe = func() *regexp.Regexp {
	words := append([]string(nil), relationshipWords...)
	sort.SliceStable(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`)
}()

var relationshipSet = func() map[string]bool {
	m := make(map[string]bool, len(relationshipWords))
	for _, w := range relationshipWords {
		m[strings.ToUpper(w)] = true
	}
	return m
}()

const personName = `[A-Z][A-Za-z'\-]+(?:[ ]+[A-Z][A-Za-z'.\-]*){1,3}`

var (
	relativeLabelRe = regexp.MustCompile(`(?i)^[ ]*(?:NAME|RELATIVE|ASSOCIATE|POSSIBLE[ ]+(?:RELATIVE|ASSOCIATE))[ ]*:[ ]*(` + `(?-i:` + personName + `))`)
	leadingNameRe   = regexp.MustCompile(`^[ ]*(?:[-*•][ ]*|\d+[.)][ ]+)?(` + personName + `)`)
	ageRe           = regexp.MustCompile(`(?i)\bAGE\b[ ]*[:\-]?[ ]*(\d{1,3})\b`)
	relationLabelRe = regexp.MustCompile(`(?i)^[ ]*RELATIONSHIP[ ]*[:\-][ ]*(.+)$`)
)

// relativeNamePrefixes mark a header-ish line, never a person.
var relativeNamePrefixes = []string{"RELATIVE", "ASSOCIATE", "FAMILY", "POSSIBLE"}

// relativeRecordStart opens a record on a labelled name line, or on a line
// that leads with a capitalized name and is neither a field nor a
// city/state/ZIP line.
func relativeRecordStart(line string, _ []string) bool {
	if relativeLabelRe.MatchString(line) {
		return true
	}
	if fieldLabelRe.MatchString(line) || cszLineRe.MatchString(line) {
		return false
	}
	m := leadingNameRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	_, ok := cleanRelativeName(m[1])
	return ok
}

// cleanRelativeName strips trailing relationship and age tokens and rejects
// header-like candidates.
func cleanRelativeName(raw string) (string, bool) {
	tokens := strings.Fields(strings.TrimSpace(raw))
	for len(tokens) > 0 {
		last := strings.ToUpper(strings.Trim(tokens[len(tokens)-1], ".,"))
		if relationshipSet[last] || last == "AGE" {
			tokens = tokens[:len(tokens)-1]
			continue
		}
		break
	}
	if len(tokens) < 2 {
		return "", false
	}
	name := strings.Join(tokens, " ")
	upper := strings.ToUpper(name)
	for _, p := range relativeNamePrefixes {
		if strings.HasPrefix(upper, p) {
			return "", false
		}
	}
	for _, t := range tokens {
		if nameRejectWords[strings.ToUpper(strings.Trim(t, ".,"))] {
			return "", false
		}
	}
	if isHeaderLine(name) {
		return "", false
	}
	return name, true
}

func relativeName(block []string) string {
	for _, line := range block {
		if m := relativeLabelRe.FindStringSubmatch(line); m != nil {
			if n, ok := cleanRelativeName(m[1]); ok {
				return n
			}
		}
	}
	if fieldLabelRe.MatchString(block[0]) {
		return ""
	}
	if m := leadingNameRe.FindStringSubmatch(block[0]); m != nil {
		if n, ok := cleanRelativeName(m[1]); ok {
			return n
		}
	}
	return ""
}

func relativeRelationship(block []string, name string) string {
	if v := labeledValue(block, relationLabelRe); v != "" {
		if m := relationshipRe.FindStringSubmatch(v); m != nil {
			return capitalize(m[1])
		}
		return capitalize(strings.TrimSpace(v))
	}
	text := strings.Replace(strings.Join(block, "\n"), name, "", 1)
	if m := relationshipRe.FindStringSubmatch(text); m != nil {
		return capitalize(m[1])
	}
	return ""
}

// extractRelatives parses relative blocks, deduplicated by name and capped
// at limit.
func extractRelatives(text string, limit int) []report.ParsedRelative {
	out := make([]report.ParsedRelative, 0)
	seen := make(map[string]bool)
	for _, block := range splitBlocks(text, relativeRecordStart) {
		name := relativeName(block)
		if name == "" {
			continue
		}
		key := strings.ToUpper(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		joined := strings.Join(block, "\n")
		rel := report.ParsedRelative{
			Name:           name,
			Relationship:   relativeRelationship(block, name),
			CurrentAddress: firstAddress(joined),
			Confidence:     0.6,
		}
		if m := ageRe.FindStringSubmatch(joined); m != nil {
			if age, err := strconv.Atoi(m[1]); err == nil && age > 0 && age < 125 {
				rel.Age = age
			}
		}
		if p := firstPhone(joined); p != "" {
			rel.Phones = []string{p}
		}
		out = append(out, rel)
		if len(out) == limit {
			break
		}
	}
	return out
}

//Personal.AI order the ending
