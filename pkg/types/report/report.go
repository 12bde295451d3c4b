// Package report defines the ParsedReport contract shared by the deterministic
// parser, the analysis orchestrator, the HTTP API, the ingest worker, and the
// Go SDK.  An AI-produced report uses exactly the same shapes; only
// ParseMethod differs.
package report

// ParseMethod identifies which path produced a report.
type ParseMethod string

const (
	// MethodDeterministic is the offline rule-based pipeline.
	MethodDeterministic ParseMethod = "deterministic"
	// MethodAI marks a report produced by an external model analyzer.
	MethodAI ParseMethod = "ai"
)

// PhoneType classifies a phone line.
type PhoneType string

const (
	PhoneMobile   PhoneType = "mobile"
	PhoneLandline PhoneType = "landline"
	PhoneVoIP     PhoneType = "voip"
	PhoneWork     PhoneType = "work"
	PhoneUnknown  PhoneType = "unknown"
)

// FlagType names a risk flag.
type FlagType string

const (
	FlagDeceased   FlagType = "deceased"
	FlagHighRisk   FlagType = "high_risk"
	FlagFraudAlert FlagType = "fraud_alert"
)

// Severity grades a flag.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Linked signal tags attached to ranked addresses.
const (
	SignalVehicle    = "vehicle"
	SignalEmployment = "employment"
	SignalPhone      = "phone"
)

// UnknownName is the fullName used when no subject name is found.
const UnknownName = "Unknown"

// Subject is the person the report is about.
type Subject struct {
	FullName          string   `json:"fullName"`
	DOB               string   `json:"dob,omitempty"`
	PartialSSN        string   `json:"partialSsn,omitempty"`
	PersonID          string   `json:"personId,omitempty"`
	DeceasedIndicator bool     `json:"deceasedIndicator"`
	Aliases           []string `json:"aliases,omitempty"`
}

// ParsedAddress is one address with its ranking provenance.
type ParsedAddress struct {
	Address       string   `json:"address"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	Zip           string   `json:"zip,omitempty"`
	FullAddress   string   `json:"fullAddress"`
	FromDate      string   `json:"fromDate,omitempty"`
	ToDate        string   `json:"toDate,omitempty"`
	Confidence    float64  `json:"confidence"`
	Reasons       []string `json:"reasons"`
	IsCurrent     bool     `json:"isCurrent,omitempty"`
	LinkedSignals []string `json:"linkedSignals,omitempty"`
}

// PhoneLocation is the coarse location implied by an area code.
type PhoneLocation struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// ParsedPhone is one phone number in display format "(NNN) NNN-NNNN".
type ParsedPhone struct {
	Number     string         `json:"number"`
	Type       PhoneType      `json:"type"`
	FirstSeen  string         `json:"firstSeen,omitempty"`
	LastSeen   string         `json:"lastSeen,omitempty"`
	Confidence float64        `json:"confidence"`
	IsActive   bool           `json:"isActive,omitempty"`
	Carrier    string         `json:"carrier,omitempty"`
	Location   *PhoneLocation `json:"location,omitempty"`
}

// AreaCode returns the three-digit area code of a formatted number, or "".
func (p ParsedPhone) AreaCode() string {
	if len(p.Number) >= 4 && p.Number[0] == '(' {
		return p.Number[1:4]
	}
	return ""
}

// ParsedRelative is a relative or associate of the subject.
type ParsedRelative struct {
	Name           string   `json:"name"`
	Relationship   string   `json:"relationship,omitempty"`
	Age            int      `json:"age,omitempty"`
	Phones         []string `json:"phones,omitempty"`
	CurrentAddress string   `json:"currentAddress,omitempty"`
	Confidence     float64  `json:"confidence"`
}

// ParsedVehicle is a registered vehicle.
type ParsedVehicle struct {
	Year              int    `json:"year,omitempty"`
	Make              string `json:"make,omitempty"`
	Model             string `json:"model,omitempty"`
	Color             string `json:"color,omitempty"`
	VIN               string `json:"vin,omitempty"`
	Plate             string `json:"plate,omitempty"`
	State             string `json:"state,omitempty"`
	RegisteredAddress string `json:"registeredAddress,omitempty"`
}

// ParsedEmployment is one employment record.
type ParsedEmployment struct {
	Employer  string `json:"employer"`
	Title     string `json:"title,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FromDate  string `json:"fromDate,omitempty"`
	ToDate    string `json:"toDate,omitempty"`
	IsCurrent bool   `json:"isCurrent,omitempty"`
}

// ReportFlag is a risk flag raised on the document.
type ReportFlag struct {
	Type     FlagType `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ParsedReport is the terminal output of a parse.
type ParsedReport struct {
	Subject         Subject            `json:"subject"`
	Addresses       []ParsedAddress    `json:"addresses"`
	Phones          []ParsedPhone      `json:"phones"`
	Relatives       []ParsedRelative   `json:"relatives"`
	Vehicles        []ParsedVehicle    `json:"vehicles"`
	Employment      []ParsedEmployment `json:"employment"`
	Flags           []ReportFlag       `json:"flags"`
	Recommendations []string           `json:"recommendations"`
	ParseMethod     ParseMethod        `json:"parseMethod"`
	ParseConfidence float64            `json:"parseConfidence"`
}

// HasFlag reports whether a flag of type t was raised.
func (r *ParsedReport) HasFlag(t FlagType) bool {
	if r == nil {
		return false
	}
	for _, f := range r.Flags {
		if f.Type == t {
			return true
		}
	}
	return false
}

// Result is the envelope returned by every parse entry point.
type Result struct {
	Success     bool          `json:"success"`
	Data        *ParsedReport `json:"data,omitempty"`
	ParseMethod ParseMethod   `json:"parseMethod"`
	Confidence  float64       `json:"confidence"`
	Error       string        `json:"error,omitempty"`
}

// Failure builds an unsuccessful Result.
func Failure(method ParseMethod, msg string) Result {
	return Result{Success: false, ParseMethod: method, Confidence: 0, Error: msg}
}

// Success wraps a report in a successful Result.
func Success(r *ParsedReport) Result {
	return Result{Success: true, Data: r, ParseMethod: r.ParseMethod, Confidence: r.ParseConfidence}
}

//Personal.AI order the ending
