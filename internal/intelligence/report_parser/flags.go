package report_parser

import (
	"regexp"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// Flag messages.
const (
	msgDeceased   = "Subject may be deceased - verify before proceeding"
	msgHighRisk   = "Active or outstanding warrant reported - use caution"
	msgFraudAlert = "Fraud alert on file - verify identity before acting"
)

var (
	deceasedTokenRe = regexp.MustCompile(`(?i)\bDECEASED\b[ ]*[:\-]?[ ]*([A-Za-z/]*)`)
	highRiskRe      = regexp.MustCompile(`(?i)\b(?:ACTIVE|OUTSTANDING|OPEN)[ ]+WARRANTS?\b`)
	fraudAlertRe    = regexp.MustCompile(`(?i)\bFRAUD[ ]+ALERT[ ]*[:\-]?[ ]*(?:ON[ ]+FILE|REPORTED|ACTIVE|YES)\b`)
)

// extractFlags raises document-level flags.  The deceased flag looks at the
// first deceasedWindow characters and, like the subject's indicator, needs
// the DECEASED token near a SUBJECT token.
func extractFlags(text string, deceasedWindow int) []report.ReportFlag {
	flags := make([]report.ReportFlag, 0)

	if detectDeceased(runePrefix(text, deceasedWindow)) {
		flags = append(flags, report.ReportFlag{Type: report.FlagDeceased, Message: msgDeceased, Severity: report.SeverityHigh})
	}
	if highRiskRe.MatchString(text) {
		flags = append(flags, report.ReportFlag{Type: report.FlagHighRisk, Message: msgHighRisk, Severity: report.SeverityHigh})
	}
	if fraudAlertRe.MatchString(text) {
		flags = append(flags, report.ReportFlag{Type: report.FlagFraudAlert, Message: msgFraudAlert, Severity: report.SeverityMedium})
	}
	return flags
}

//Personal.AI order the ending
