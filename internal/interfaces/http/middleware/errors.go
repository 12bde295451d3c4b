package middleware

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// WriteJSON writes data as JSON with status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError maps err onto its HTTP status and writes an ErrorResponse.
// Errors that are not *errors.AppError are reported as internal errors and
// their text is not echoed to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *errors.AppError
	if !errors.As(err, &ae) {
		ae = errors.Internal(errors.DefaultMessageForCode(errors.CodeInternal))
	}
	body := ErrorResponse{
		Code:    ae.Code.String(),
		Message: ae.Message,
		Detail:  ae.Detail,
	}
	if r != nil {
		body.RequestID = chimw.GetReqID(r.Context())
	}
	WriteJSON(w, ae.HTTPStatus(), body)
}

//Personal.AI order the ending
