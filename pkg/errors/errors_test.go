// Package errors_test exercises the AppError type, its factories, and the
// error-chain helpers.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// New / Wrap
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"too large", errors.ErrCodeReportTooLarge, "report exceeds 2 MiB"},
		{"invalid param", errors.CodeInvalidParam, "area code must be numeric"},
		{"rate limit", errors.CodeRateLimit, "too many requests"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.NotEmpty(t, ae.Stack)
		})
	}
}

func TestNew_EmptyMessageUsesDefault(t *testing.T) {
	ae := errors.New(errors.ErrCodeReportTextMissing, "")
	assert.Equal(t, "No report text provided", ae.Message)
}

func TestNewf(t *testing.T) {
	ae := errors.Newf(errors.ErrCodeBatchTooLarge, "batch of %d exceeds %d", 200, 100)
	assert.Equal(t, "batch of 200 exceeds 100", ae.Message)
}

func TestError_Format(t *testing.T) {
	ae := errors.New(errors.ErrCodeReportTooLarge, "too big")
	assert.Equal(t, "[PARSE_002] too big", ae.Error())
	assert.Equal(t, "[PARSE_002] too big: size=3000000", ae.WithDetail("size=3000000").Error())
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	root := stderrors.New("connection refused")
	wrapped := errors.Wrap(root, errors.ErrCodeModelFailed, "model call failed")

	require.NotNil(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, root, wrapped.Unwrap())
}

func TestWrap_UnknownCodePreservesOriginal(t *testing.T) {
	inner := errors.New(errors.ErrCodeReportTooLarge, "too big")
	outer := errors.Wrap(inner, errors.CodeUnknown, "while analyzing")
	assert.Equal(t, errors.ErrCodeReportTooLarge, outer.Code)

	plain := errors.Wrap(fmt.Errorf("boom"), errors.CodeUnknown, "while analyzing")
	assert.Equal(t, errors.CodeInternal, plain.Code)
}

func TestWithDetail_DoesNotMutateReceiver(t *testing.T) {
	base := errors.NotFound("area code not found")
	detailed := base.WithDetail("code=999")
	assert.Empty(t, base.Detail)
	assert.Equal(t, "code=999", detailed.Detail)

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithDetail("x"))
	assert.Nil(t, nilErr.WithCause(fmt.Errorf("x")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_ThroughFmtWrap(t *testing.T) {
	ae := errors.New(errors.ErrCodeModelTimeout, "deadline exceeded")
	wrapped := fmt.Errorf("analyze: %w", ae)

	assert.True(t, errors.IsCode(wrapped, errors.ErrCodeModelTimeout))
	assert.False(t, errors.IsCode(wrapped, errors.ErrCodeModelFailed))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeModelFailed))
}

func TestIsCode_NestedAppErrors(t *testing.T) {
	inner := errors.New(errors.ErrCodeModelTimeout, "deadline")
	outer := errors.Wrap(inner, errors.ErrCodeModelFailed, "model failed")
	assert.True(t, errors.IsCode(outer, errors.ErrCodeModelFailed))
	assert.True(t, errors.IsCode(outer, errors.ErrCodeModelTimeout))
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"generic", errors.NotFound("not found"), true},
		{"area code", errors.New(errors.ErrCodeAreaCodeNotFound, ""), true},
		{"wrapped", fmt.Errorf("lookup: %w", errors.NotFound("x")), true},
		{"internal", errors.Internal("boom"), false},
		{"plain", stderrors.New("plain"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, errors.IsNotFound(tc.err))
		})
	}
}

func TestIsValidation(t *testing.T) {
	assert.True(t, errors.IsValidation(errors.InvalidParam("bad")))
	assert.True(t, errors.IsValidation(errors.New(errors.ErrCodeReportTextMissing, "")))
	assert.False(t, errors.IsValidation(errors.Internal("boom")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("x")))
	assert.Equal(t, errors.CodeRateLimit, errors.GetCode(errors.RateLimit("slow down")))
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(errors.Unavailable("down")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 413, errors.New(errors.ErrCodeReportTooLarge, "").HTTPStatus())
	assert.Equal(t, 404, errors.NotFound("x").HTTPStatus())
}

//Personal.AI order the ending
