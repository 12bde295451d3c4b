package client

import (
	"context"
	"strings"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// Parse modes accepted by the server.
const (
	ModeAuto          = "auto"
	ModeDeterministic = "deterministic"
)

// ParseRequest is one report submitted for parsing.  A nil Text is rejected
// by the server with PARSE_001.
type ParseRequest struct {
	ReportID string  `json:"reportId,omitempty"`
	Text     *string `json:"text"`
	Mode     string  `json:"mode,omitempty"`
}

// ParseResponse carries the parse outcome of one report.  Result.Success is
// false when the report could not be parsed; that is not an error.
type ParseResponse struct {
	ReportID       string        `json:"reportId"`
	Result         report.Result `json:"result"`
	DurationMS     int64         `json:"durationMs"`
	FallbackReason string        `json:"fallbackReason,omitempty"`
}

// BatchParseRequest submits several reports at once.  Mode applies to items
// that leave theirs empty.
type BatchParseRequest struct {
	Reports []ParseRequest `json:"reports"`
	Mode    string         `json:"mode,omitempty"`
}

// BatchParseResponse holds one entry per submitted report, in order.
type BatchParseResponse struct {
	Results []*ParseResponse `json:"results"`
}

// ReportsClient wraps the /api/v1/reports endpoints.
type ReportsClient struct {
	client *Client
}

// Parse submits text with the server's default mode.
func (r *ReportsClient) Parse(ctx context.Context, text string) (*ParseResponse, error) {
	return r.ParseWithOptions(ctx, &ParseRequest{Text: &text})
}

// ParseWithOptions submits req as is.
func (r *ReportsClient) ParseWithOptions(ctx context.Context, req *ParseRequest) (*ParseResponse, error) {
	if req == nil {
		req = &ParseRequest{}
	}
	var out ParseResponse
	if err := r.client.post(ctx, "/api/v1/reports/parse", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ParseBatch submits every report in req.  Per-report failures come back
// inside the matching Result rather than as an error.
func (r *ReportsClient) ParseBatch(ctx context.Context, req *BatchParseRequest) (*BatchParseResponse, error) {
	if req == nil {
		req = &BatchParseRequest{}
	}
	req.Mode = strings.ToLower(strings.TrimSpace(req.Mode))
	var out BatchParseResponse
	if err := r.client.post(ctx, "/api/v1/reports/parse/batch", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
