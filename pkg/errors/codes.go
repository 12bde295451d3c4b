package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are grouped by module prefix, e.g. "COMMON_001" or "PARSE_002".
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Short aliases used at call sites.
const (
	CodeUnknown        ErrorCode = ""
	CodeOK             ErrorCode = "OK"
	CodeInternal                 = ErrCodeInternal
	CodeInvalidParam             = ErrCodeBadRequest
	CodeUnauthorized             = ErrCodeUnauthorized
	CodeForbidden                = ErrCodeForbidden
	CodeNotFound                 = ErrCodeNotFound
	CodeConflict                 = ErrCodeConflict
	CodeRateLimit                = ErrCodeTooManyRequests
	CodeUnavailable              = ErrCodeServiceUnavailable
	CodeNotImplemented           = ErrCodeNotImplemented
)

// Parse Module Error Codes
const (
	ErrCodeReportTextMissing ErrorCode = "PARSE_001"
	ErrCodeReportTooLarge    ErrorCode = "PARSE_002"
	ErrCodeReportParseFailed ErrorCode = "PARSE_003"
	ErrCodeReportEncoding    ErrorCode = "PARSE_004"
	ErrCodeAreaCodeNotFound  ErrorCode = "PARSE_005"
	ErrCodeAreaCodeInvalid   ErrorCode = "PARSE_006"
)

// Analysis Module Error Codes
const (
	ErrCodeModelUnavailable ErrorCode = "ANALYSIS_001"
	ErrCodeModelFailed      ErrorCode = "ANALYSIS_002"
	ErrCodeModelTimeout     ErrorCode = "ANALYSIS_003"
	ErrCodeBatchEmpty       ErrorCode = "ANALYSIS_004"
	ErrCodeBatchTooLarge    ErrorCode = "ANALYSIS_005"
)

// Ingest Module Error Codes
const (
	ErrCodeInboxUnavailable ErrorCode = "INGEST_001"
	ErrCodeMessageInvalid   ErrorCode = "INGEST_002"
	ErrCodePublishFailed    ErrorCode = "INGEST_003"
	ErrCodeConsumerClosed   ErrorCode = "INGEST_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusForbidden,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeReportTextMissing: http.StatusBadRequest,
	ErrCodeReportTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeReportParseFailed: http.StatusUnprocessableEntity,
	ErrCodeReportEncoding:    http.StatusBadRequest,
	ErrCodeAreaCodeNotFound:  http.StatusNotFound,
	ErrCodeAreaCodeInvalid:   http.StatusBadRequest,

	ErrCodeModelUnavailable: http.StatusServiceUnavailable,
	ErrCodeModelFailed:      http.StatusBadGateway,
	ErrCodeModelTimeout:     http.StatusGatewayTimeout,
	ErrCodeBatchEmpty:       http.StatusBadRequest,
	ErrCodeBatchTooLarge:    http.StatusRequestEntityTooLarge,

	ErrCodeInboxUnavailable: http.StatusServiceUnavailable,
	ErrCodeMessageInvalid:   http.StatusBadRequest,
	ErrCodePublishFailed:    http.StatusInternalServerError,
	ErrCodeConsumerClosed:   http.StatusServiceUnavailable,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeReportTextMissing: "No report text provided",
	ErrCodeReportTooLarge:    "report text exceeds the configured size limit",
	ErrCodeReportParseFailed: "report could not be parsed",
	ErrCodeReportEncoding:    "report text is not valid UTF-8",
	ErrCodeAreaCodeNotFound:  "area code not in lookup table",
	ErrCodeAreaCodeInvalid:   "area code must be three digits",

	ErrCodeModelUnavailable: "model analyzer not configured",
	ErrCodeModelFailed:      "model analysis failed",
	ErrCodeModelTimeout:     "model analysis timed out",
	ErrCodeBatchEmpty:       "batch contains no reports",
	ErrCodeBatchTooLarge:    "batch exceeds the configured size limit",

	ErrCodeInboxUnavailable: "inbox directory unavailable",
	ErrCodeMessageInvalid:   "message payload invalid",
	ErrCodePublishFailed:    "publish failed",
	ErrCodeConsumerClosed:   "consumer closed",
}

// HTTPStatusForCode returns the HTTP status for code, 500 when unmapped.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for code.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether code maps to a 5xx status.
func IsServerError(code ErrorCode) bool {
	return HTTPStatusForCode(code) >= 500
}

// ModuleForCode returns the module prefix of code ("COMMON", "PARSE", ...).
func ModuleForCode(code ErrorCode) string {
	s := string(code)
	if idx := strings.LastIndex(s, "_"); idx > 0 {
		return s[:idx]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
