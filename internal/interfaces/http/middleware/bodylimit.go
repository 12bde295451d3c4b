package middleware

import (
	"fmt"
	"net/http"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

// BodyLimit caps request bodies at maxBytes.  Requests announcing a larger
// Content-Length are refused with 413 up front; chunked bodies are cut off by
// http.MaxBytesReader and the handler's read fails with *http.MaxBytesError.
// A non-positive maxBytes disables the limit.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				WriteError(w, r, errors.New(errors.ErrCodeReportTooLarge, "request body too large").
					WithDetail(fmt.Sprintf("size=%d limit=%d", r.ContentLength, maxBytes)))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

//Personal.AI order the ending
