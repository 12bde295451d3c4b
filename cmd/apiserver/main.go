// Command apiserver runs the SkipTrace-Intelligence HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/SkipTrace-Intelligence/internal/config"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http"
)

// version is injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: SKIPTRACE_* environment only)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if *configPath != "" {
		watchConfig(*configPath, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting SkipTrace-Intelligence API server", logging.String("version", version))
	if err := httpapi.RunFromConfig(ctx, cfg, logger, version); err != nil {
		logger.WithError(err).Error("api server failed")
		os.Exit(1)
	}
	logger.Info("api server stopped")
}

// watchConfig logs configuration edits.  Listener, parser and rate-limit
// settings are read once at startup, so a change takes effect on restart.
func watchConfig(path string, logger logging.Logger) {
	err := config.Watch(path,
		func(c *config.Config) {
			logger.Warn("configuration file changed; restart to apply",
				logging.String("path", path),
				logging.String("log_level", c.Log.Level))
		},
		func(err error) {
			logger.WithError(err).Error("configuration reload rejected", logging.String("path", path))
		})
	if err != nil {
		logger.WithError(err).Warn("configuration watch disabled")
	}
}

//Personal.AI order the ending
