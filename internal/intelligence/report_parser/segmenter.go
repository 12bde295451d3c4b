package report_parser

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Section segmentation
// ---------------------------------------------------------------------------

// SectionKind names a family of report section headers.
type SectionKind int

const (
	SectionSubject SectionKind = iota
	SectionAddresses
	SectionPhones
	SectionRelatives
	SectionVehicles
	SectionEmployment
	SectionAliases
	// SectionOther collects headers of sections nothing extracts from
	// (criminal, bankruptcies, liens, emails, properties...).  Recognising
	// them stops the previous section from absorbing their content.
	SectionOther
	sectionUnassigned
)

var sectionNames = map[SectionKind]string{
	SectionSubject:    "subject",
	SectionAddresses:  "addresses",
	SectionPhones:     "phones",
	SectionRelatives:  "relatives",
	SectionVehicles:   "vehicles",
	SectionEmployment: "employment",
	SectionAliases:    "aliases",
	SectionOther:      "other",
	sectionUnassigned: "unassigned",
}

func (k SectionKind) String() string {
	if n, ok := sectionNames[k]; ok {
		return n
	}
	return "unknown"
}

// headerLine wraps a header body so it only matches a whole header-like
// line: optional decoration, optional "(N)" count, optional trailing colon.
func headerLine(body string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^[ #=*_>|•-]*(?:` + body + `)(?:[ ]*\(\d+\))?[ =*_:|-]*$`)
}

type headerFamily struct {
	kind     SectionKind
	patterns []*regexp.Regexp
}

// headerFamilies is evaluated in declaration order; the first family with a
// matching pattern claims the line.
var headerFamilies = []headerFamily{
	{kind: SectionSubject, patterns: []*regexp.Regexp{
		headerLine(`SUBJECT(?:[ ]+(?:INFORMATION|INFO|SUMMARY|DETAILS|PROFILE|IDENTITY|DATA))?`),
		headerLine(`PERSONAL[ ]+(?:INFORMATION|INFO|DETAILS|PROFILE|DATA)`),
		headerLine(`(?:IDENTITY|IDENTIFICATION)(?:[ ]+(?:INFORMATION|SUMMARY|DETAILS))?`),
		regexp.MustCompile(`(?i)^[ #*-]*SUBJECT(?:[ ]+NAME)?[ ]*:[ ]*\S`),
	}},
	{kind: SectionAddresses, patterns: []*regexp.Regexp{
		headerLine(`(?:(?:CURRENT|PREVIOUS|PRIOR|PAST|POSSIBLE|OTHER|KNOWN|ALL|LAST[ ]+KNOWN)[ ]+)?` +
			`(?:ADDRESS(?:ES)?|RESIDENCES?|LOCATIONS?)(?:[ ]+(?:HISTORY|SUMMARY|INFORMATION|INFO|RECORDS?|ON[ ]+FILE))?`),
		headerLine(`(?:RESIDENTIAL|ADDRESS)[ ]+HISTORY`),
	}},
	{kind: SectionPhones, patterns: []*regexp.Regexp{
		headerLine(`(?:(?:CURRENT|PREVIOUS|POSSIBLE|OTHER|KNOWN|ASSOCIATED)[ ]+)?` +
			`(?:PHONES?(?:[ ]+NUMBERS?)?|TELEPHONES?(?:[ ]+NUMBERS?)?)(?:[ ]+(?:HISTORY|SUMMARY|INFORMATION|INFO|RECORDS?))?`),
		headerLine(`CONTACT[ ]+(?:NUMBERS|INFORMATION|INFO)`),
	}},
	{kind: SectionRelatives, patterns: []*regexp.Regexp{
		headerLine(`(?:(?:POSSIBLE|KNOWN|LIKELY)[ ]+)?` +
			`(?:RELATIVES[ ]+(?:AND|&)[ ]+ASSOCIATES|RELATIVES?|ASSOCIATES|FAMILY(?:[ ]+MEMBERS)?|NEXT[ ]+OF[ ]+KIN)` +
			`(?:[ ]+(?:INFORMATION|SUMMARY))?`),
	}},
	{kind: SectionVehicles, patterns: []*regexp.Regexp{
		headerLine(`(?:(?:REGISTERED|POSSIBLE|KNOWN|MOTOR)[ ]+)?(?:VEHICLES?|AUTOMOBILES?|AUTOS)` +
			`(?:[ ]+(?:REGISTRATIONS?|INFORMATION|HISTORY|RECORDS?|OWNED))?`),
		headerLine(`DMV[ ]+RECORDS?`),
	}},
	{kind: SectionEmployment, patterns: []*regexp.Regexp{
		headerLine(`(?:(?:POSSIBLE|KNOWN|CURRENT|PREVIOUS|PAST)[ ]+)?(?:EMPLOYMENT|EMPLOYERS?|WORK|OCCUPATIONS?)` +
			`(?:[ ]+(?:HISTORY|INFORMATION|INFO|RECORDS?))?`),
	}},
	{kind: SectionAliases, patterns: []*regexp.Regexp{
		headerLine(`ALIASES|ALIAS(?:[ ]+NAMES)?|AKAS?|A\.K\.A\.?|ALSO[ ]+KNOWN[ ]+AS|(?:OTHER[ ]+)?NAMES?[ ]+USED|OTHER[ ]+NAMES`),
		regexp.MustCompile(`(?i)^[ #*-]*(?:ALIASES|AKA|A\.K\.A\.?|ALSO[ ]+KNOWN[ ]+AS|NAMES[ ]+USED)[ ]*:[ ]*\S`),
	}},
	{kind: SectionOther, patterns: []*regexp.Regexp{
		headerLine(`(?:CRIMINAL|COURT|ARREST|TRAFFIC|BANKRUPTC(?:Y|IES)|LIENS?|JUDGMENTS?|EVICTIONS?|FORECLOSURES?|` +
			`PROPERT(?:Y|IES)|REAL[ ]+ESTATE|EMAILS?(?:[ ]+ADDRESSES)?|E-MAIL(?:[ ]+ADDRESSES)?|SOCIAL[ ]+MEDIA|` +
			`PROFESSIONAL[ ]+LICENSES?|LICENSES?|UCC[ ]+FILINGS?|CORPORATE[ ]+AFFILIATIONS?|BUSINESS[ ]+AFFILIATIONS?|` +
			`NEIGHBORS|SEX[ ]+OFFENDER|WEAPONS?[ ]+PERMITS?|VOTER[ ]+REGISTRATIONS?|WATERCRAFT|AIRCRAFT|EDUCATION|` +
			`NOTES|DISCLAIMER|SOURCES?)` +
			`(?:[ ]+(?:RECORDS?|HISTORY|INFORMATION|FILINGS?|SEARCH|RESULTS|OFFENSES?|CASES?|DATA|REGISTRY))?`),
	}},
}

// classifyHeader returns the family whose header matches line.
func classifyHeader(line string) (SectionKind, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 80 {
		return sectionUnassigned, false
	}
	for _, fam := range headerFamilies {
		for _, re := range fam.patterns {
			if re.MatchString(trimmed) {
				return fam.kind, true
			}
		}
	}
	return sectionUnassigned, false
}

// isHeaderLine reports whether line is a section header of any family.
func isHeaderLine(line string) bool {
	_, ok := classifyHeader(line)
	return ok
}

// Sections holds the text of each section family.  Repeated sections of the
// same family are concatenated with a blank line between them.
type Sections struct {
	buckets            map[SectionKind]string
	SubjectHeaderFound bool
}

// Get returns the text collected for kind, empty when none.
func (s Sections) Get(kind SectionKind) string {
	return s.buckets[kind]
}

// Segment assigns every line of normalized text to the section opened by the
// nearest preceding header.  Header lines belong to the section they open;
// lines before the first header are unassigned.  When no subject header is
// found the subject section falls back to the first fallbackChars characters.
func Segment(text string, fallbackChars int) Sections {
	chunks := make(map[SectionKind][]string)
	found := false
	active := sectionUnassigned
	var buf []string

	flush := func() {
		if len(buf) > 0 {
			chunks[active] = append(chunks[active], strings.Join(buf, "\n"))
			buf = nil
		}
	}

	for _, line := range splitLines(text) {
		if kind, ok := classifyHeader(line); ok {
			flush()
			active = kind
			if kind == SectionSubject {
				found = true
			}
		}
		buf = append(buf, line)
	}
	flush()

	sec := Sections{buckets: make(map[SectionKind]string, len(chunks)), SubjectHeaderFound: found}
	for kind, parts := range chunks {
		sec.buckets[kind] = strings.Join(parts, "\n\n")
	}
	if !found {
		sec.buckets[SectionSubject] = runePrefix(text, fallbackChars)
	}
	return sec
}

// has reports whether a header of kind was found with content under it.
func (s Sections) has(kind SectionKind) bool {
	return strings.TrimSpace(s.Get(kind)) != ""
}

// sectionOrFull returns the section text, or the whole document when the
// section is empty.
func (s Sections) sectionOrFull(kind SectionKind, full string) string {
	if s.has(kind) {
		return s.Get(kind)
	}
	return full
}

//Personal.AI order the ending
