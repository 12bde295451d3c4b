// Command worker parses skip-trace reports off Kafka, or off an inbox
// directory with --inbox, and serves /healthz, /readyz and /metrics on the
// metrics side port.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/internal/application/ingest"
	"github.com/turtacn/SkipTrace-Intelligence/internal/config"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http"
	"github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

// version is injected via ldflags.
var version = "dev"

type options struct {
	configPath   string
	inboxDir     string
	createTopics bool
	metricsAddr  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to configuration file (default: SKIPTRACE_* environment only)")
	flag.StringVar(&opts.inboxDir, "inbox", "", "watch this directory instead of consuming Kafka")
	flag.BoolVar(&opts.createTopics, "create-topics", false, "create the worker's Kafka topics before consuming")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "probe and metrics listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.WithError(err).Error("worker failed")
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// ─────────────────────────────────────────────────────────────────────────────
// Wiring
// ─────────────────────────────────────────────────────────────────────────────

// runner is the ingest loop; it returns when ctx is done.
type runner func(ctx context.Context) error

func run(ctx context.Context, cfg *config.Config, opts options, logger logging.Logger) error {
	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.AppMetrics
	)
	if cfg.Metrics.Enabled {
		c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
		}, logger)
		if err != nil {
			return err
		}
		collector = c
		metrics = prometheus.NewAppMetrics(c)
	}

	svc := analysis.NewFromConfig(cfg, logger, metrics)
	checkers := []handlers.HealthChecker{handlers.ParserChecker(svc)}

	var (
		loop    runner
		cleanup func()
		err     error
	)
	if opts.inboxDir != "" {
		loop, err = inboxRunner(svc, cfg, opts.inboxDir, logger, metrics)
		cleanup = func() {}
	} else {
		var consumer *kafka.Consumer
		consumer, cleanup, err = kafkaConsumer(ctx, svc, cfg, opts.createTopics, logger, metrics)
		if err == nil {
			loop = consumer.Run
			checkers = append(checkers, consumerChecker(consumer))
		}
	}
	if err != nil {
		return err
	}
	defer cleanup()

	side, err := sideServer(cfg, collector, checkers, logger)
	if err != nil {
		return err
	}

	logger.Info("starting SkipTrace-Intelligence worker",
		logging.String("version", version),
		logging.String("mode", workerMode(opts)),
		logging.String("metrics_addr", side.Addr()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop(gctx) })
	g.Go(func() error { return side.Run(gctx) })
	return g.Wait()
}

func workerMode(opts options) string {
	if opts.inboxDir != "" {
		return "inbox"
	}
	return "kafka"
}

func inboxRunner(svc analysis.Service, cfg *config.Config, dir string, logger logging.Logger, m *prometheus.AppMetrics) (runner, error) {
	in := cfg.Ingest.Inbox
	w, err := ingest.NewWatcher(svc, ingest.InboxOptions{
		Dir:             dir,
		OutputDir:       in.OutputDir,
		Pattern:         in.Pattern,
		Concurrency:     in.Concurrency,
		ProcessExisting: in.ProcessExisting,
	}, logger, m)
	if err != nil {
		return nil, err
	}
	return w.Run, nil
}

// kafkaConsumer builds the producer, optionally the topics, and the consumer
// that parses submitted reports and publishes the results.  The returned
// cleanup closes both clients.
func kafkaConsumer(ctx context.Context, svc analysis.Service, cfg *config.Config, createTopics bool, logger logging.Logger, m *prometheus.AppMetrics) (*kafka.Consumer, func(), error) {
	if err := cfg.ValidateKafka(); err != nil {
		return nil, nil, err
	}
	k := cfg.Ingest.Kafka

	if createTopics {
		tm, err := kafka.NewTopicManager(k.Brokers, logger)
		if err != nil {
			return nil, nil, err
		}
		err = tm.EnsureTopics(ctx, kafka.WorkerTopics(k.SubmittedTopic, k.ParsedTopic, k.DeadLetterTopic))
		_ = tm.Close()
		if err != nil {
			return nil, nil, err
		}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: k.Brokers, Acks: "all"}, logger)
	if err != nil {
		return nil, nil, err
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:     k.Brokers,
		GroupID:     k.GroupID,
		Topic:       k.SubmittedTopic,
		StartOffset: k.StartOffset,
		Retry: kafka.RetryConfig{
			MaxRetries:      k.MaxRetries,
			RetryBackoff:    k.RetryBackoff,
			MaxRetryBackoff: k.MaxRetryBackoff,
			DeadLetterTopic: k.DeadLetterTopic,
		},
	}, ingest.NewReportHandler(svc, producer, k.ParsedTopic, logger), producer, logger, m)
	if err != nil {
		_ = producer.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := consumer.Close(); err != nil {
			logger.WithError(err).Warn("consumer close failed")
		}
		if err := producer.Close(); err != nil {
			logger.WithError(err).Warn("producer close failed")
		}
	}
	return consumer, cleanup, nil
}

func consumerChecker(c *kafka.Consumer) handlers.HealthChecker {
	return handlers.CheckerFunc{
		CheckName: "kafka_consumer",
		Fn: func(context.Context) error {
			if !c.Running() {
				return errors.Unavailable("kafka consumer not running")
			}
			return nil
		},
	}
}

// sideServer serves the probes and /metrics on cfg.Metrics.Addr.
func sideServer(cfg *config.Config, collector prometheus.MetricsCollector, checkers []handlers.HealthChecker, logger logging.Logger) (*httpapi.Server, error) {
	sc, err := sideServerConfig(cfg)
	if err != nil {
		return nil, err
	}
	h := httpapi.NewRouter(httpapi.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(version, checkers...),
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	})
	return httpapi.NewServer(sc, h, logger), nil
}

func sideServerConfig(cfg *config.Config) (config.ServerConfig, error) {
	host, portStr, err := net.SplitHostPort(cfg.Metrics.Addr)
	if err != nil {
		return config.ServerConfig{}, errors.Wrap(err, errors.ErrCodeValidation, "invalid metrics addr").WithDetail(cfg.Metrics.Addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return config.ServerConfig{}, errors.New(errors.ErrCodeValidation, "invalid metrics port").WithDetail(cfg.Metrics.Addr)
	}
	return config.ServerConfig{
		Host:            host,
		Port:            port,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, nil
}

//Personal.AI order the ending
