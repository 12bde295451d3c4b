package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// ----------------------------------------------------------------------------
// Generic writers
// ----------------------------------------------------------------------------

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(headers)
	t.SetAutoFormatHeaders(true)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// renderTable writes headers and rows as a bordered table.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	t := newTable(w, headers...)
	t.AppendBulk(rows)
	t.Render()
}

// ----------------------------------------------------------------------------
// Colour helpers
// ----------------------------------------------------------------------------

func colorizeConfidence(c float64) string {
	s := strconv.FormatFloat(c, 'f', 2, 64)
	switch {
	case c >= 0.7:
		return color.GreenString(s)
	case c >= 0.4:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

func colorizeSeverity(s report.Severity) string {
	switch s {
	case report.SeverityHigh:
		return color.RedString(strings.ToUpper(string(s)))
	case report.SeverityMedium:
		return color.YellowString(strings.ToUpper(string(s)))
	default:
		return color.CyanString(strings.ToUpper(string(s)))
	}
}

func colorizeStatus(ok bool) string {
	if ok {
		return color.GreenString("OK")
	}
	return color.RedString("FAILED")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func dateRange(from, to string) string {
	if from == "" && to == "" {
		return ""
	}
	return strings.TrimSpace(from + " - " + to)
}

// ----------------------------------------------------------------------------
// Report rendering
// ----------------------------------------------------------------------------

// reportView is the rendering input shared by local and remote parses.
type reportView struct {
	ReportID       string        `json:"reportId,omitempty"`
	Result         report.Result `json:"result"`
	DurationMS     int64         `json:"durationMs"`
	FallbackReason string        `json:"fallbackReason,omitempty"`
}

// renderReport writes v in format.  Text prints one line per item; table
// prints a table per section.
func renderReport(w io.Writer, v reportView, format string) error {
	if format == FormatJSON {
		return printJSON(w, v)
	}
	res := v.Result
	if !res.Success || res.Data == nil {
		fmt.Fprintf(w, "%s %s\n", colorizeStatus(false), res.Error)
		return nil
	}
	r := res.Data

	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", bold("Subject:"), r.Subject.FullName)
	if r.Subject.DOB != "" {
		fmt.Fprintf(w, "DOB: %s\n", r.Subject.DOB)
	}
	if r.Subject.PartialSSN != "" {
		fmt.Fprintf(w, "SSN: %s\n", r.Subject.PartialSSN)
	}
	if len(r.Subject.Aliases) > 0 {
		fmt.Fprintf(w, "AKA: %s\n", strings.Join(r.Subject.Aliases, "; "))
	}
	fmt.Fprintf(w, "Method: %s  Confidence: %s", res.ParseMethod, colorizeConfidence(res.Confidence))
	if v.FallbackReason != "" {
		fmt.Fprintf(w, "  (fallback: %s)", v.FallbackReason)
	}
	fmt.Fprintln(w)

	if format == FormatTable {
		renderReportTables(w, r)
		return nil
	}
	renderReportText(w, r)
	return nil
}

func section(w io.Writer, title string, n int) bool {
	if n == 0 {
		return false
	}
	fmt.Fprintf(w, "\n%s (%d)\n", color.New(color.Bold, color.Underline).Sprint(title), n)
	return true
}

func renderReportText(w io.Writer, r *report.ParsedReport) {
	if section(w, "Flags", len(r.Flags)) {
		for _, f := range r.Flags {
			fmt.Fprintf(w, "  [%s] %s\n", colorizeSeverity(f.Severity), f.Message)
		}
	}
	if section(w, "Addresses", len(r.Addresses)) {
		for i, a := range r.Addresses {
			fmt.Fprintf(w, "  %d. %s  %s", i+1, a.FullAddress, colorizeConfidence(a.Confidence))
			if a.IsCurrent {
				fmt.Fprint(w, color.GreenString("  current"))
			}
			fmt.Fprintln(w)
			for _, reason := range a.Reasons {
				fmt.Fprintf(w, "       - %s\n", reason)
			}
		}
	}
	if section(w, "Phones", len(r.Phones)) {
		for i, p := range r.Phones {
			fmt.Fprintf(w, "  %d. %s  %s  %s", i+1, p.Number, p.Type, colorizeConfidence(p.Confidence))
			if p.Location != nil {
				fmt.Fprintf(w, "  %s, %s", p.Location.City, p.Location.State)
			}
			fmt.Fprintln(w)
		}
	}
	if section(w, "Relatives", len(r.Relatives)) {
		for _, rel := range r.Relatives {
			fmt.Fprintf(w, "  %s", rel.Name)
			if rel.Relationship != "" {
				fmt.Fprintf(w, " (%s)", rel.Relationship)
			}
			if len(rel.Phones) > 0 {
				fmt.Fprintf(w, "  %s", strings.Join(rel.Phones, ", "))
			}
			fmt.Fprintln(w)
		}
	}
	if section(w, "Vehicles", len(r.Vehicles)) {
		for _, v := range r.Vehicles {
			fmt.Fprintf(w, "  %s\n", vehicleLabel(v))
		}
	}
	if section(w, "Employment", len(r.Employment)) {
		for _, e := range r.Employment {
			fmt.Fprintf(w, "  %s", e.Employer)
			if e.Title != "" {
				fmt.Fprintf(w, ", %s", e.Title)
			}
			fmt.Fprintln(w)
		}
	}
	if section(w, "Recommendations", len(r.Recommendations)) {
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "  * %s\n", rec)
		}
	}
}

func renderReportTables(w io.Writer, r *report.ParsedReport) {
	if section(w, "Flags", len(r.Flags)) {
		rows := make([][]string, 0, len(r.Flags))
		for _, f := range r.Flags {
			rows = append(rows, []string{string(f.Type), colorizeSeverity(f.Severity), f.Message})
		}
		renderTable(w, []string{"Type", "Severity", "Message"}, rows)
	}
	if section(w, "Addresses", len(r.Addresses)) {
		rows := make([][]string, 0, len(r.Addresses))
		for i, a := range r.Addresses {
			rows = append(rows, []string{
				strconv.Itoa(i + 1), a.FullAddress, dateRange(a.FromDate, a.ToDate),
				colorizeConfidence(a.Confidence), yesNo(a.IsCurrent), strings.Join(a.LinkedSignals, ","),
			})
		}
		renderTable(w, []string{"#", "Address", "Dates", "Confidence", "Current", "Signals"}, rows)
	}
	if section(w, "Phones", len(r.Phones)) {
		rows := make([][]string, 0, len(r.Phones))
		for i, p := range r.Phones {
			loc := ""
			if p.Location != nil {
				loc = p.Location.City + ", " + p.Location.State
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1), p.Number, string(p.Type), colorizeConfidence(p.Confidence),
				yesNo(p.IsActive), p.Carrier, loc,
			})
		}
		renderTable(w, []string{"#", "Number", "Type", "Confidence", "Active", "Carrier", "Location"}, rows)
	}
	if section(w, "Relatives", len(r.Relatives)) {
		rows := make([][]string, 0, len(r.Relatives))
		for _, rel := range r.Relatives {
			age := ""
			if rel.Age > 0 {
				age = strconv.Itoa(rel.Age)
			}
			rows = append(rows, []string{rel.Name, rel.Relationship, age, strings.Join(rel.Phones, ", ")})
		}
		renderTable(w, []string{"Name", "Relationship", "Age", "Phones"}, rows)
	}
	if section(w, "Vehicles", len(r.Vehicles)) {
		rows := make([][]string, 0, len(r.Vehicles))
		for _, v := range r.Vehicles {
			rows = append(rows, []string{vehicleLabel(v), v.VIN, v.Plate, v.State})
		}
		renderTable(w, []string{"Vehicle", "VIN", "Plate", "State"}, rows)
	}
	if section(w, "Employment", len(r.Employment)) {
		rows := make([][]string, 0, len(r.Employment))
		for _, e := range r.Employment {
			rows = append(rows, []string{e.Employer, e.Title, e.Phone, dateRange(e.FromDate, e.ToDate)})
		}
		renderTable(w, []string{"Employer", "Title", "Phone", "Dates"}, rows)
	}
	if section(w, "Recommendations", len(r.Recommendations)) {
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "  * %s\n", rec)
		}
	}
}

func vehicleLabel(v report.ParsedVehicle) string {
	parts := make([]string, 0, 4)
	if v.Year > 0 {
		parts = append(parts, strconv.Itoa(v.Year))
	}
	for _, s := range []string{v.Make, v.Model, v.Color} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

//Personal.AI order the ending
