package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/internal/config"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/SkipTrace-Intelligence/internal/testutil"
)

const sampleReport = `Name: John Smith
DOB: 01/02/1980

ADDRESSES
1234 Main Street, Dallas, TX 75201

PHONES
(214) 555-0100 Mobile
`

type testAPI struct {
	handler   http.Handler
	collector prometheus.MetricsCollector
	logger    *testutil.MockLogger
}

func newTestAPI(t *testing.T, mutate func(*config.Config)) testAPI {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.RateLimit.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "api"}, logging.NewNopLogger())
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)
	logger := testutil.NewMockLogger()

	h, stop := NewAPIHandler(APIDeps{
		Config:    cfg,
		Service:   analysis.NewFromConfig(cfg, logger, metrics),
		Collector: collector,
		Metrics:   metrics,
		Logger:    logger,
		Version:   "test",
	})
	t.Cleanup(stop)
	return testAPI{handler: h, collector: collector, logger: logger}
}

func (a testAPI) do(t *testing.T, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.RemoteAddr = "192.0.2.10:4000"
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRouter_ParseJSON(t *testing.T) {
	api := newTestAPI(t, nil)
	text := sampleReport

	w := api.do(t, http.MethodPost, "/api/v1/reports/parse", "application/json",
		jsonBody(t, handlers.ParseRequest{ReportID: "r-1", Text: &text}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	resp := decode[analysis.AnalyzeResponse](t, w)
	assert.Equal(t, "r-1", resp.ReportID)
	require.True(t, resp.Result.Success)
	assert.Equal(t, "John Smith", resp.Result.Data.Subject.FullName)
	require.NotEmpty(t, resp.Result.Data.Phones)
	assert.Equal(t, "(214) 555-0100", resp.Result.Data.Phones[0].Number)
}

func TestRouter_ParsePlainText(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodPost, "/api/v1/reports/parse?reportId=plain-1&mode=deterministic",
		"text/plain; charset=utf-8", []byte(sampleReport))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[analysis.AnalyzeResponse](t, w)
	assert.Equal(t, "plain-1", resp.ReportID)
	assert.True(t, resp.Result.Success)
}

func TestRouter_ParseMissingText(t *testing.T) {
	api := newTestAPI(t, nil)

	for name, body := range map[string][]byte{
		"null text":   []byte(`{"text":null}`),
		"absent text": []byte(`{"reportId":"x"}`),
	} {
		t.Run(name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/api/v1/reports/parse", "application/json", body)
			require.Equal(t, http.StatusOK, w.Code)
			resp := decode[analysis.AnalyzeResponse](t, w)
			assert.False(t, resp.Result.Success)
			assert.Equal(t, "No report text provided", resp.Result.Error)
		})
	}
}

func TestRouter_ParseEmptyStringIsAnEmptyReport(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodPost, "/api/v1/reports/parse", "application/json", []byte(`{"text":""}`))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[analysis.AnalyzeResponse](t, w)
	assert.True(t, resp.Result.Success)
	assert.Empty(t, resp.Result.Data.Addresses)
}

func TestRouter_ParseErrors(t *testing.T) {
	api := newTestAPI(t, func(c *config.Config) {
		c.Server.MaxBodyBytes = 1024
		c.Parser.MaxInputBytes = 256
	})

	tests := []struct {
		name   string
		ctype  string
		body   []byte
		status int
		code   string
	}{
		{"malformed json", "application/json", []byte(`{"text":`), http.StatusBadRequest, "COMMON_002"},
		{"empty body", "application/json", nil, http.StatusBadRequest, "COMMON_002"},
		{"unknown mode", "application/json", []byte(`{"text":"Name: A B","mode":"magic"}`), http.StatusBadRequest, "COMMON_002"},
		{"over input limit", "text/plain", []byte(strings.Repeat("x", 300)), http.StatusRequestEntityTooLarge, "PARSE_002"},
		{"over body limit", "text/plain", []byte(strings.Repeat("x", 2048)), http.StatusRequestEntityTooLarge, "PARSE_002"},
		{"invalid utf8", "text/plain", []byte{'N', 0xff, 0xfe}, http.StatusBadRequest, "PARSE_004"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/api/v1/reports/parse", tt.ctype, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			body := decode[middleware.ErrorResponse](t, w)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestRouter_ParseBatch(t *testing.T) {
	api := newTestAPI(t, nil)
	a, b := sampleReport, "Name: Jane Roe\n"

	w := api.do(t, http.MethodPost, "/api/v1/reports/parse/batch", "application/json", jsonBody(t, handlers.BatchParseRequest{
		Mode: "deterministic",
		Reports: []handlers.ParseRequest{
			{ReportID: "a", Text: &a},
			{ReportID: "none"},
			{ReportID: "b", Text: &b},
		},
	}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[handlers.BatchParseResponse](t, w)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "a", resp.Results[0].ReportID)
	assert.True(t, resp.Results[0].Result.Success)
	assert.Equal(t, "none", resp.Results[1].ReportID)
	assert.False(t, resp.Results[1].Result.Success)
	assert.Equal(t, "b", resp.Results[2].ReportID)
}

func TestRouter_ParseBatchEmpty(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodPost, "/api/v1/reports/parse/batch", "application/json", []byte(`{"reports":[]}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ANALYSIS_004", decode[middleware.ErrorResponse](t, w).Code)
}

func TestRouter_AreaCode(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodGet, "/api/v1/geo/area-codes/214", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	loc := decode[handlers.AreaCodeResponse](t, w)
	assert.Equal(t, handlers.AreaCodeResponse{AreaCode: "214", City: "Dallas", State: "TX"}, loc)

	w = api.do(t, http.MethodGet, "/api/v1/geo/area-codes/21a", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PARSE_006", decode[middleware.ErrorResponse](t, w).Code)

	w = api.do(t, http.MethodGet, "/api/v1/geo/area-codes/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PARSE_005", decode[middleware.ErrorResponse](t, w).Code)
}

func TestRouter_Probes(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alive", decode[handlers.LivenessResponse](t, w).Status)

	w = api.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ready := decode[handlers.ReadinessResponse](t, w)
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, "healthy", ready.Components["parser"].Status)
}

func TestRouter_MetricsExposed(t *testing.T) {
	api := newTestAPI(t, nil)
	text := sampleReport
	api.do(t, http.MethodPost, "/api/v1/reports/parse", "application/json", jsonBody(t, handlers.ParseRequest{Text: &text}))

	w := api.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := w.Body.String()
	assert.Contains(t, out, `api_http_requests_total{method="POST",route="/api/v1/reports/parse",status_code="200"} 1`)
	assert.Contains(t, out, `api_reports_parsed_total{method="deterministic",outcome="success",source="http"} 1`)
}

func TestRouter_RateLimited(t *testing.T) {
	api := newTestAPI(t, func(c *config.Config) {
		c.RateLimit.Enabled = true
		c.RateLimit.RequestsPerSecond = 0.001
		c.RateLimit.Burst = 2
	})

	for i := 0; i < 2; i++ {
		w := api.do(t, http.MethodGet, "/api/v1/geo/area-codes/214", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := api.do(t, http.MethodGet, "/api/v1/geo/area-codes/214", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "COMMON_007", decode[middleware.ErrorResponse](t, w).Code)

	// Probes are never limited.
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/healthz", "", nil).Code)
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "COMMON_005", decode[middleware.ErrorResponse](t, w).Code)

	w = api.do(t, http.MethodGet, "/api/v1/reports/parse", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_CORS(t *testing.T) {
	api := newTestAPI(t, func(c *config.Config) {
		c.Server.CORSAllowedOrigins = []string{"https://console.example.com"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/reports/parse", nil)
	req.Header.Set("Origin", "https://console.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	api.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://console.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_NilHandlers(t *testing.T) {
	r := NewRouter(RouterConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

//Personal.AI order the ending
