package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
	assert.Equal(t, "PARSE_001", ErrCodeReportTextMissing.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeValidation, 422},
		{ErrCodeReportTextMissing, 400},
		{ErrCodeReportTooLarge, 413},
		{ErrCodeModelTimeout, 504},
		{ErrCodeAreaCodeNotFound, 404},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), string(tt.code))
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "No report text provided", DefaultMessageForCode(ErrCodeReportTextMissing))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeReportTooLarge))
	assert.False(t, IsClientError(ErrCodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodeModelUnavailable))
	assert.False(t, IsServerError(ErrCodeBadRequest))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "PARSE", ModuleForCode(ErrCodeReportTooLarge))
	assert.Equal(t, "ANALYSIS", ModuleForCode(ErrCodeModelFailed))
	assert.Equal(t, "INGEST", ModuleForCode(ErrCodePublishFailed))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

var allCodes = []ErrorCode{
	ErrCodeInternal, ErrCodeBadRequest, ErrCodeUnauthorized, ErrCodeForbidden,
	ErrCodeNotFound, ErrCodeConflict, ErrCodeTooManyRequests, ErrCodeServiceUnavailable,
	ErrCodeTimeout, ErrCodeValidation, ErrCodeSerialization, ErrCodeExternalService,
	ErrCodeFeatureDisabled, ErrCodeNotImplemented,
	ErrCodeReportTextMissing, ErrCodeReportTooLarge, ErrCodeReportParseFailed,
	ErrCodeReportEncoding, ErrCodeAreaCodeNotFound, ErrCodeAreaCodeInvalid,
	ErrCodeModelUnavailable, ErrCodeModelFailed, ErrCodeModelTimeout,
	ErrCodeBatchEmpty, ErrCodeBatchTooLarge,
	ErrCodeInboxUnavailable, ErrCodeMessageInvalid, ErrCodePublishFailed, ErrCodeConsumerClosed,
}

func TestErrorCodeFormat_Convention(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for _, code := range allCodes {
		assert.Regexp(t, re, string(code))
	}
}

func TestErrorCodeMappings_Completeness(t *testing.T) {
	for _, code := range allCodes {
		_, hasStatus := ErrorCodeHTTPStatus[code]
		_, hasMessage := ErrorCodeMessage[code]
		assert.True(t, hasStatus, "missing status for %s", code)
		assert.True(t, hasMessage, "missing message for %s", code)
	}
}

//Personal.AI order the ending
