package handlers

import (
	"io"
	"mime"
	"net/http"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

// ParseRequest is the JSON body of POST /api/v1/reports/parse.  A missing or
// null text is accepted and answered with an unsuccessful result.
type ParseRequest struct {
	ReportID string  `json:"reportId,omitempty"`
	Text     *string `json:"text"`
	Mode     string  `json:"mode,omitempty"`
}

// BatchParseRequest is the body of POST /api/v1/reports/parse/batch.  Mode
// applies to every item that does not set its own.
type BatchParseRequest struct {
	Reports []ParseRequest `json:"reports"`
	Mode    string         `json:"mode,omitempty"`
}

// BatchParseResponse holds one response per submitted report, in order.
type BatchParseResponse struct {
	Results []*analysis.AnalyzeResponse `json:"results"`
}

// ReportHandler serves the parse endpoints.
type ReportHandler struct {
	svc    analysis.Service
	logger logging.Logger
}

func NewReportHandler(svc analysis.Service, logger logging.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger.Named("http.reports")}
}

// Parse handles POST /api/v1/reports/parse.
//
// application/json bodies carry a ParseRequest.  text/plain bodies are the
// report itself, with reportId and mode taken from the query string.
func (h *ReportHandler) Parse(w http.ResponseWriter, r *http.Request) {
	req, err := h.readParseRequest(r)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	resp, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ParseBatch handles POST /api/v1/reports/parse/batch.
func (h *ReportHandler) ParseBatch(w http.ResponseWriter, r *http.Request) {
	var body BatchParseRequest
	if err := decodeJSON(r, &body); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	reqs := make([]analysis.AnalyzeRequest, len(body.Reports))
	for i, item := range body.Reports {
		mode := item.Mode
		if mode == "" {
			mode = body.Mode
		}
		reqs[i] = analysis.AnalyzeRequest{
			ReportID: item.ReportID,
			Text:     item.Text,
			Mode:     analysis.Mode(mode),
			Source:   analysis.SourceHTTP,
		}
	}

	results, err := h.svc.AnalyzeBatch(r.Context(), reqs)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, BatchParseResponse{Results: results})
}

func (h *ReportHandler) readParseRequest(r *http.Request) (*analysis.AnalyzeRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			if tooLarge(err) {
				return nil, errors.New(errors.ErrCodeReportTooLarge, "request body too large")
			}
			return nil, errors.InvalidParam("unreadable request body").WithCause(err)
		}
		q := r.URL.Query()
		req := &analysis.AnalyzeRequest{
			ReportID: q.Get("reportId"),
			Mode:     analysis.Mode(q.Get("mode")),
			Source:   analysis.SourceHTTP,
		}
		if len(raw) > 0 {
			text := string(raw)
			req.Text = &text
		}
		return req, nil
	}

	var body ParseRequest
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}
	return &analysis.AnalyzeRequest{
		ReportID: body.ReportID,
		Text:     body.Text,
		Mode:     analysis.Mode(body.Mode),
		Source:   analysis.SourceHTTP,
	}, nil
}

//Personal.AI order the ending
