package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// maxModelResponseBytes bounds how much of a model response is read.
const maxModelResponseBytes = 8 << 20

// HTTPModelAnalyzer calls an external analysis endpoint that accepts
// {"text": "..."} and answers with a Result-shaped JSON document.
type HTTPModelAnalyzer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPModelAnalyzer returns an analyzer for endpoint.  A nil client gets
// a default with the given timeout.
func NewHTTPModelAnalyzer(endpoint, apiKey string, client *http.Client, timeout time.Duration) *HTTPModelAnalyzer {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPModelAnalyzer{endpoint: endpoint, apiKey: apiKey, client: client}
}

type modelRequest struct {
	Text string `json:"text"`
}

// Analyze implements ModelAnalyzer.  The returned Result is always stamped
// with the "ai" parse method.
func (a *HTTPModelAnalyzer) Analyze(ctx context.Context, text string) (report.Result, error) {
	body, err := json.Marshal(modelRequest{Text: text})
	if err != nil {
		return report.Result{}, errors.Wrap(err, errors.ErrCodeSerialization, "encode model request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return report.Result{}, errors.Wrap(err, errors.ErrCodeModelUnavailable, "build model request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return report.Result{}, errors.Wrap(err, errors.ErrCodeModelFailed, "call model analyzer")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxModelResponseBytes))
	if err != nil {
		return report.Result{}, errors.Wrap(err, errors.ErrCodeModelFailed, "read model response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return report.Result{}, errors.New(errors.ErrCodeModelFailed, "model analyzer returned an error status").
			WithDetail(fmt.Sprintf("status=%d", resp.StatusCode))
	}

	var res report.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return report.Result{}, errors.Wrap(err, errors.ErrCodeModelFailed, "decode model response")
	}
	res.ParseMethod = report.MethodAI
	if res.Data != nil {
		res.Data.ParseMethod = report.MethodAI
		res.Confidence = res.Data.ParseConfidence
	}
	return res, nil
}

var _ ModelAnalyzer = (*HTTPModelAnalyzer)(nil)

//Personal.AI order the ending
