// Package geo holds the small, explicitly partial US geography tables used to
// correlate addresses and phones: ZIP prefix to telephone area code, and area
// code to a coarse city/state.  Both tables sit behind interfaces so a complete
// dataset can replace them without touching the ranking formulas.
package geo

import (
	"strings"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// AreaCodeLookup resolves the telephone area code serving a ZIP code.
type AreaCodeLookup interface {
	// AreaCodeForZIP returns the area code for zip (5-digit or ZIP+4) and
	// whether the table had an entry.
	AreaCodeForZIP(zip string) (string, bool)
}

// AreaCodeLocator resolves a coarse location for an area code.
type AreaCodeLocator interface {
	LocationForAreaCode(areaCode string) (report.PhoneLocation, bool)
}

// Table implements both lookups over in-memory maps.  A Table is immutable
// after construction and safe for concurrent use.
type Table struct {
	zipPrefixes map[string]string
	locations   map[string]report.PhoneLocation
}

// metro ties a set of 3-digit ZIP prefixes to the primary area code serving
// them and the city that area code names.
type metro struct {
	areaCode string
	city     string
	state    string
	prefixes []string
}

var metros = []metro{
	{"212", "New York", "NY", []string{"100", "101", "102"}},
	{"213", "Los Angeles", "CA", []string{"900", "901"}},
	{"312", "Chicago", "IL", []string{"606", "607", "608"}},
	{"404", "Atlanta", "GA", []string{"303", "311"}},
	{"504", "New Orleans", "LA", []string{"700", "701"}},
	{"713", "Houston", "TX", []string{"770", "772"}},
	{"305", "Miami", "FL", []string{"330", "331", "332"}},
	{"702", "Las Vegas", "NV", []string{"889", "890", "891"}},
	{"206", "Seattle", "WA", []string{"980", "981"}},
	{"415", "San Francisco", "CA", []string{"940", "941"}},
	{"214", "Dallas", "TX", []string{"750", "751", "752", "753"}},
	{"602", "Phoenix", "AZ", []string{"850", "852", "853"}},
	{"215", "Philadelphia", "PA", []string{"190", "191"}},
	{"617", "Boston", "MA", []string{"021", "022"}},
	{"202", "Washington", "DC", []string{"200", "202", "203", "204", "205"}},
	{"303", "Denver", "CO", []string{"800", "802"}},
	{"512", "Austin", "TX", []string{"786", "787"}},
	{"210", "San Antonio", "TX", []string{"780", "781", "782"}},
	{"619", "San Diego", "CA", []string{"919", "920", "921"}},
	{"313", "Detroit", "MI", []string{"481", "482"}},
}

// overlays are area codes sharing a metro with a primary code; they locate a
// phone but never change the ZIP mapping.
var overlays = map[string]string{
	"972": "214", "469": "214", "917": "212", "646": "212", "332": "212",
	"323": "213", "872": "312", "678": "404", "470": "404", "832": "713",
	"281": "713", "786": "305", "725": "702", "628": "415", "267": "215",
	"857": "617", "720": "303", "737": "512", "726": "210", "858": "619",
	"480": "602", "623": "602",
}

// NewTable returns the built-in metro table.
func NewTable() *Table {
	t := &Table{
		zipPrefixes: make(map[string]string),
		locations:   make(map[string]report.PhoneLocation),
	}
	for _, m := range metros {
		loc := report.PhoneLocation{City: m.city, State: m.state}
		t.locations[m.areaCode] = loc
		for _, p := range m.prefixes {
			t.zipPrefixes[p] = m.areaCode
		}
	}
	for overlay, primary := range overlays {
		if loc, ok := t.locations[primary]; ok {
			t.locations[overlay] = loc
		}
	}
	return t
}

// AreaCodeForZIP implements AreaCodeLookup.
func (t *Table) AreaCodeForZIP(zip string) (string, bool) {
	zip = strings.TrimSpace(zip)
	if len(zip) < 5 || !isDigits(zip[:5]) {
		return "", false
	}
	code, ok := t.zipPrefixes[zip[:3]]
	return code, ok
}

// LocationForAreaCode implements AreaCodeLocator.
func (t *Table) LocationForAreaCode(areaCode string) (report.PhoneLocation, bool) {
	loc, ok := t.locations[areaCode]
	return loc, ok
}

// Len returns the number of located area codes.
func (t *Table) Len() int { return len(t.locations) }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// IsAreaCode reports whether s is a syntactically valid NANP area code.
func IsAreaCode(s string) bool {
	return len(s) == 3 && isDigits(s) && s[0] >= '2'
}

// Nop never resolves anything.  It lets the ranker run with area-code
// correlation disabled.
type Nop struct{}

func (Nop) AreaCodeForZIP(string) (string, bool) { return "", false }

func (Nop) LocationForAreaCode(string) (report.PhoneLocation, bool) {
	return report.PhoneLocation{}, false
}

//Personal.AI order the ending
