package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SkipTrace-Intelligence/internal/config"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http/handlers"
)

func TestSideServerConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Metrics.Addr = "127.0.0.1:9191"
	sc, err := sideServerConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", sc.Host)
	assert.Equal(t, 9191, sc.Port)

	cfg.Metrics.Addr = ":9091"
	sc, err = sideServerConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, ":9091", sc.Addr())

	for _, bad := range []string{"9091", "host:port", ":70000"} {
		cfg.Metrics.Addr = bad
		_, err = sideServerConfig(cfg)
		assert.Error(t, err, bad)
	}
}

func TestSideServer_ServesProbes(t *testing.T) {
	cfg := config.NewDefaultConfig()
	down := handlers.CheckerFunc{CheckName: "down", Fn: func(context.Context) error { return assert.AnError }}

	srv, err := sideServer(cfg, nil, []handlers.HealthChecker{down}, logging.NewNopLogger())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/reports/parse", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_InboxMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r1.txt"), []byte("Name: Jane Doe\n"), 0o644))

	cfg := config.NewDefaultConfig()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Addr = "127.0.0.1:0"
	cfg.Ingest.Inbox.ProcessExisting = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, options{inboxDir: dir}, logging.NewNopLogger()) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "r1.json"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestRun_KafkaModeValidatesConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Ingest.Kafka.Brokers = nil
	err := run(context.Background(), cfg, options{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestWorkerMode(t *testing.T) {
	assert.Equal(t, "inbox", workerMode(options{inboxDir: "/tmp"}))
	assert.Equal(t, "kafka", workerMode(options{}))
}

//Personal.AI order the ending
