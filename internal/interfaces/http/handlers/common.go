// Package handlers implements the HTTP endpoints of the report parsing API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	middleware.WriteJSON(w, statusCode, data)
}

// writeAppError maps err onto its HTTP status.  Server-side failures are
// logged; client errors are not.
func writeAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	if !errors.IsClientError(code) {
		logger.WithContext(r.Context()).WithError(err).Error("request failed",
			logging.String(logging.KeyErrorCode, code.String()),
			logging.String("path", r.URL.Path))
	}
	middleware.WriteError(w, r, err)
}

// decodeJSON decodes the request body into v.  A body cut off by the body
// limit becomes PARSE_002; anything else malformed becomes a 400.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if tooLarge(err) {
			return errors.New(errors.ErrCodeReportTooLarge, "request body too large")
		}
		if err == io.EOF {
			return errors.InvalidParam("request body is empty")
		}
		return errors.InvalidParam("malformed JSON body").WithCause(err)
	}
	return nil
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

//Personal.AI order the ending
