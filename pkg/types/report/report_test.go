package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedPhone_AreaCode(t *testing.T) {
	assert.Equal(t, "214", ParsedPhone{Number: "(214) 555-1234"}.AreaCode())
	assert.Equal(t, "", ParsedPhone{Number: "555-1234"}.AreaCode())
	assert.Equal(t, "", ParsedPhone{}.AreaCode())
}

func TestParsedReport_HasFlag(t *testing.T) {
	r := &ParsedReport{Flags: []ReportFlag{{Type: FlagFraudAlert}}}
	assert.True(t, r.HasFlag(FlagFraudAlert))
	assert.False(t, r.HasFlag(FlagDeceased))

	var nilReport *ParsedReport
	assert.False(t, nilReport.HasFlag(FlagDeceased))
}

func TestResult_JSONFieldNames(t *testing.T) {
	r := Success(&ParsedReport{
		Subject:         Subject{FullName: UnknownName},
		Addresses:       []ParsedAddress{},
		ParseMethod:     MethodDeterministic,
		ParseConfidence: 0.4,
	})
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "deterministic", decoded["parseMethod"])
	assert.Equal(t, 0.4, decoded["confidence"])
	assert.NotContains(t, decoded, "error")

	data := decoded["data"].(map[string]interface{})
	assert.Contains(t, data, "parseConfidence")
	assert.Equal(t, []interface{}{}, data["addresses"])
	subject := data["subject"].(map[string]interface{})
	assert.Equal(t, "Unknown", subject["fullName"])
	assert.Equal(t, false, subject["deceasedIndicator"])
}

func TestFailure(t *testing.T) {
	r := Failure(MethodDeterministic, "No report text provided")
	assert.False(t, r.Success)
	assert.Nil(t, r.Data)
	assert.Zero(t, r.Confidence)
	assert.Equal(t, "No report text provided", r.Error)
}

//Personal.AI order the ending
