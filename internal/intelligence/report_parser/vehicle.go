package report_parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// ---------------------------------------------------------------------------
// Vehicles
// ---------------------------------------------------------------------------

// vehicleMakes maps recognised make spellings to their display name.
var vehicleMakes = map[string]string{
	"ACURA": "Acura", "ALFA ROMEO": "Alfa Romeo", "AUDI": "Audi", "BMW": "BMW", "BUICK": "Buick",
	"CADILLAC": "Cadillac", "CHEVROLET": "Chevrolet", "CHEVY": "Chevrolet", "CHRYSLER": "Chrysler",
	"DODGE": "Dodge", "FIAT": "Fiat", "FORD": "Ford", "GENESIS": "Genesis", "GMC": "GMC",
	"HARLEY-DAVIDSON": "Harley-Davidson", "HONDA": "Honda", "HUMMER": "Hummer", "HYUNDAI": "Hyundai",
	"INFINITI": "Infiniti", "ISUZU": "Isuzu", "JAGUAR": "Jaguar", "JEEP": "Jeep", "KIA": "Kia",
	"LAND ROVER": "Land Rover", "LEXUS": "Lexus", "LINCOLN": "Lincoln", "MAZDA": "Mazda",
	"MERCEDES-BENZ": "Mercedes-Benz", "MERCEDES": "Mercedes-Benz", "MERCURY": "Mercury",
	"MINI": "Mini", "MITSUBISHI": "Mitsubishi", "NISSAN": "Nissan", "OLDSMOBILE": "Oldsmobile",
	"PLYMOUTH": "Plymouth", "PONTIAC": "Pontiac", "PORSCHE": "Porsche", "RAM": "Ram",
	"SATURN": "Saturn", "SCION": "Scion", "SUBARU": "Subaru", "SUZUKI": "Suzuki", "TESLA": "Tesla",
	"TOYOTA": "Toyota", "VOLKSWAGEN": "Volkswagen", "VW": "Volkswagen", "VOLVO": "Volvo",
	"KAWASAKI": "Kawasaki", "YAMAHA": "Yamaha", "FREIGHTLINER": "Freightliner",
}

var vehicleColors = `BLACK|WHITE|SILVER|GRAY|GREY|RED|BLUE|GREEN|GOLD|BEIGE|BROWN|TAN|MAROON|BURGUNDY|` +
	`YELLOW|ORANGE|PURPLE|CHARCOAL|CHAMPAGNE|BRONZE|TEAL|NAVY`

var (
	vehicleMakeRe = regexp.MustCompile(`(?i)\b(ALFA[ ]+ROMEO|LAND[ ]+ROVER|MERCEDES-BENZ|HARLEY-DAVIDSON|` +
		`ACURA|AUDI|BMW|BUICK|CADILLAC|CHEVROLET|CHEVY|CHRYSLER|DODGE|FIAT|FORD|GENESIS|GMC|HONDA|HUMMER|` +
		`HYUNDAI|INFINITI|ISUZU|JAGUAR|JEEP|KIA|LEXUS|LINCOLN|MAZDA|MERCEDES|MERCURY|MINI|MITSUBISHI|NISSAN|` +
		`OLDSMOBILE|PLYMOUTH|PONTIAC|PORSCHE|RAM|SATURN|SCION|SUBARU|SUZUKI|TESLA|TOYOTA|VOLKSWAGEN|VW|VOLVO|` +
		`KAWASAKI|YAMAHA|FREIGHTLINER)\b`)
	vehicleColorRe  = regexp.MustCompile(`(?i)\b(` + vehicleColors + `)\b`)
	vinRe           = regexp.MustCompile(`\b([A-HJ-NPR-Z0-9]{17})\b`)
	plateRe         = regexp.MustCompile(`(?i)\b(?:LICENSE[ ]+PLATE|LIC(?:ENSE)?|PLATE|TAG)[ ]*(?:NO\.?|NUMBER|#)?[ ]*[:#\-]?[ ]*([A-Z0-9][A-Z0-9\-]{1,7})\b`)
	vehicleYearRe   = regexp.MustCompile(`\b(19\d{2}|20[0-2]\d)\b`)
	plateStateRe    = regexp.MustCompile(`\b([A-Z]{2})[ ]*(?i:PLATE|TAG|LICENSE)\b`)
	labeledStateRe  = regexp.MustCompile(`(?i)\b(?:PLATE[ ]+STATE|TAG[ ]+STATE|REG(?:ISTRATION)?\.?[ ]+STATE|STATE)[ ]*[:\-][ ]*([A-Za-z]{2})\b`)
	modelLabelRe    = regexp.MustCompile(`(?i)^[ ]*MODEL[ ]*[:\-][ ]*(.+)$`)
	colorLabelRe    = regexp.MustCompile(`(?i)\bCOLOU?R[ ]*[:\-][ ]*([A-Za-z]+)`)
	registeredRe    = regexp.MustCompile(`(?i)\bREGISTERED(?:[ ]+(?:TO|AT|ADDRESS))?[ ]*[:\-]?[ ]*(.+)$`)
	vehicleLabelRe  = regexp.MustCompile(`(?i)^[ ]*VEHICLE[ ]*(?:#?[ ]*\d+)?[ ]*:`)
	vinLineRe       = regexp.MustCompile(`(?i)^[ ]*VIN\b`)
	yearLeadRe      = regexp.MustCompile(`^[ ]*(?:[-*•][ ]*|\d{1,2}[.)][ ]+)?(?:19|20)\d{2}[ ]+[A-Za-z]`)
	modelStopTokens = map[string]bool{
		"VIN": true, "PLATE": true, "TAG": true, "LICENSE": true, "COLOR": true, "COLOUR": true,
		"YEAR": true, "STATE": true, "REGISTERED": true, "REG": true, "OWNER": true,
	}
)

// vehicleRecordStart opens a record on a "Vehicle:" line, on a VIN line once
// the current block already holds a VIN, and on a year-led line once the
// block already has a year or make.
func vehicleRecordStart(line string, current []string) bool {
	if vehicleLabelRe.MatchString(line) {
		return true
	}
	if vinLineRe.MatchString(line) || (vinRe.MatchString(strings.ToUpper(line)) && !fieldLabelRe.MatchString(line)) {
		return blockHasVIN(current)
	}
	if yearLeadRe.MatchString(line) {
		return anyLineMatches(current, vehicleYearRe) || anyLineMatches(current, vehicleMakeRe)
	}
	return false
}

func blockHasVIN(block []string) bool {
	for _, line := range block {
		if findVIN(line) != "" {
			return true
		}
	}
	return false
}

// findVIN returns a 17-character VIN containing at least one digit.
func findVIN(text string) string {
	for _, m := range vinRe.FindAllStringSubmatch(strings.ToUpper(text), -1) {
		if strings.ContainsAny(m[1], "0123456789") && strings.IndexFunc(m[1], isUpperLetter) >= 0 {
			return m[1]
		}
	}
	return ""
}

func isUpperLetter(r rune) bool { return r >= 'A' && r <= 'Z' }

func findPlate(text string) string {
	for _, m := range plateRe.FindAllStringSubmatch(text, -1) {
		p := strings.ToUpper(m[1])
		if strings.ContainsAny(p, "0123456789") && len(p) < 17 {
			return p
		}
	}
	return ""
}

// findYear returns the first plausible model year that is not part of a
// slash or dash date.
func findYear(line string) int {
	for _, idx := range vehicleYearRe.FindAllStringSubmatchIndex(line, -1) {
		start, end := idx[2], idx[3]
		if start > 0 && (line[start-1] == '/' || line[start-1] == '-') {
			continue
		}
		if end < len(line) && (line[end] == '/' || line[end] == '-') {
			continue
		}
		y, err := strconv.Atoi(line[start:end])
		if err == nil && y >= 1900 && y <= 2029 {
			return y
		}
	}
	return 0
}

// modelAfterMake reads up to three tokens after the make, stopping at a
// color, a field label, a delimiter or a year.
func modelAfterMake(rest string) string {
	if i := strings.IndexAny(rest, ",|(;"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, " - "); i >= 0 {
		rest = rest[:i]
	}
	var kept []string
	for _, tok := range strings.Fields(rest) {
		bare := strings.ToUpper(strings.Trim(tok, ".:"))
		if strings.HasSuffix(tok, ":") || modelStopTokens[bare] || vehicleColorRe.MatchString(bare) ||
			vehicleYearRe.MatchString(bare) || bare == "-" {
			break
		}
		kept = append(kept, tok)
		if len(kept) == 3 {
			break
		}
	}
	return strings.Join(kept, " ")
}

func parseVehicle(block []string) report.ParsedVehicle {
	var v report.ParsedVehicle
	joined := strings.Join(block, "\n")

	v.VIN = findVIN(joined)
	v.Plate = findPlate(joined)

	for _, line := range block {
		loc := vehicleMakeRe.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		key := strings.ToUpper(strings.Join(strings.Fields(line[loc[2]:loc[3]]), " "))
		v.Make = vehicleMakes[key]
		v.Model = modelAfterMake(line[loc[1]:])
		v.Year = findYear(line)
		break
	}
	if v.Year == 0 {
		for _, line := range block {
			if fieldLabelRe.MatchString(line) && !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(line)), "YEAR") {
				continue
			}
			if y := findYear(line); y != 0 {
				v.Year = y
				break
			}
		}
	}
	if m := labeledValue(block, modelLabelRe); m != "" && v.Model == "" {
		v.Model = modelAfterMake(m)
	}

	if m := colorLabelRe.FindStringSubmatch(joined); m != nil && vehicleColorRe.MatchString(m[1]) {
		v.Color = capitalize(m[1])
	} else if m := vehicleColorRe.FindStringSubmatch(joined); m != nil {
		v.Color = capitalize(m[1])
	}

	if m := labeledStateRe.FindStringSubmatch(joined); m != nil && usStates[strings.ToUpper(m[1])] {
		v.State = strings.ToUpper(m[1])
	} else {
		for _, m := range plateStateRe.FindAllStringSubmatch(joined, -1) {
			if usStates[m[1]] {
				v.State = m[1]
				break
			}
		}
	}

	if r := labeledValue(block, registeredRe); r != "" {
		v.RegisteredAddress = firstAddress(r)
	}
	if v.RegisteredAddress == "" {
		v.RegisteredAddress = firstAddress(joined)
	}
	return v
}

// vehicleDedupKey prefers the VIN, then state and plate, then year, make
// and model.
func vehicleDedupKey(v report.ParsedVehicle) string {
	switch {
	case v.VIN != "":
		return "VIN:" + v.VIN
	case v.Plate != "":
		return "PLATE:" + v.State + ":" + v.Plate
	default:
		return "YMM:" + strconv.Itoa(v.Year) + ":" + strings.ToUpper(v.Make) + ":" + strings.ToUpper(v.Model)
	}
}

// extractVehicles keeps a record when it has a VIN, a plate, or both year
// and make.
func extractVehicles(text string, limit int) []report.ParsedVehicle {
	out := make([]report.ParsedVehicle, 0)
	seen := make(map[string]bool)
	for _, block := range splitBlocks(text, vehicleRecordStart) {
		v := parseVehicle(block)
		if v.VIN == "" && v.Plate == "" && (v.Year == 0 || v.Make == "") {
			continue
		}
		key := vehicleDedupKey(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

//Personal.AI order the ending
