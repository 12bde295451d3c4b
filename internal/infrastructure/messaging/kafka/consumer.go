package kafka

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// metricsSource labels ingest metrics produced by the consumer.
const metricsSource = "kafka"

// fetchErrorBackoff is the pause after a failed fetch.
const fetchErrorBackoff = time.Second

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	DeadLetterTopic string
}

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	Topic       string
	StartOffset string // earliest | latest
	MinBytes    int
	MaxBytes    int
	MaxWait     time.Duration
	Retry       RetryConfig
}

// ConsumerMetrics holds consumer counters.
type ConsumerMetrics struct {
	MessagesConsumed     atomic.Int64
	MessagesProcessed    atomic.Int64
	MessagesFailed       atomic.Int64
	MessagesRetried      atomic.Int64
	MessagesDeadLettered atomic.Int64
	Lag                  atomic.Int64
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads one topic with a consumer group, hands every message to a
// Handler, retries failures with exponential backoff, parks exhausted
// messages on the dead-letter topic and commits the offset once handling is
// finished either way.
type Consumer struct {
	reader     ReaderInterface
	config     ConsumerConfig
	handler    Handler
	deadLetter Publisher
	logger     logging.Logger
	appMetrics *prometheus.AppMetrics
	metrics    *ConsumerMetrics

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewConsumer creates a Consumer over a kafka.Reader.  deadLetter may be nil,
// in which case exhausted messages are logged and dropped.
func NewConsumer(cfg ConsumerConfig, handler Handler, deadLetter Publisher, logger logging.Logger, m *prometheus.AppMetrics) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, errors.New(errors.ErrCodeValidation, "handler required")
	}
	cfg = applyConsumerDefaults(cfg)

	readerCfg := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: kafka.FirstOffset,
		Dialer:      &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true},
	}
	if cfg.StartOffset == "latest" {
		readerCfg.StartOffset = kafka.LastOffset
	}
	return newConsumer(kafka.NewReader(readerCfg), cfg, handler, deadLetter, logger, m), nil
}

func newConsumer(r ReaderInterface, cfg ConsumerConfig, h Handler, dl Publisher, logger logging.Logger, m *prometheus.AppMetrics) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Consumer{
		reader:     r,
		config:     applyConsumerDefaults(cfg),
		handler:    h,
		deadLetter: dl,
		logger:     logger.Named("kafka.consumer").With(logging.String("topic", cfg.Topic)),
		appMetrics: m,
		metrics:    &ConsumerMetrics{},
	}
}

func applyConsumerDefaults(cfg ConsumerConfig) ConsumerConfig {
	if cfg.StartOffset == "" {
		cfg.StartOffset = "earliest"
	}
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10 * 1024 * 1024
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = 500 * time.Millisecond
	}
	if cfg.Retry.RetryBackoff == 0 {
		cfg.Retry.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.Retry.MaxRetryBackoff == 0 {
		cfg.Retry.MaxRetryBackoff = 10 * time.Second
	}
	return cfg
}

// Start runs the consume loop in the background until Close.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consumeLoop(ctx)
	}()
	c.logger.Info("kafka consumer started", logging.String("group", c.config.GroupID))
	return nil
}

// Run consumes in the calling goroutine until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)
	c.consumeLoop(ctx)
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("fetch failed", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(fetchErrorBackoff):
			}
			continue
		}

		c.metrics.MessagesConsumed.Add(1)
		if m.HighWaterMark > 0 {
			c.metrics.Lag.Store(m.HighWaterMark - m.Offset - 1)
		}

		c.handle(ctx, fromKafkaMessage(m))

		if ctx.Err() != nil {
			// Shutdown interrupted handling; leave the offset for redelivery.
			return
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit failed", logging.Int64("offset", m.Offset), logging.Err(err))
		}
	}
}

// handle runs the handler with retries and dead-lettering.
func (c *Consumer) handle(ctx context.Context, msg *Message) {
	if c.appMetrics != nil {
		g := c.appMetrics.IngestInFlight.WithLabelValues(metricsSource)
		g.Inc()
		defer g.Dec()
	}

	attempts, err := c.processWithRetry(ctx, msg)
	if err == nil {
		c.metrics.MessagesProcessed.Add(1)
		prometheus.RecordIngest(c.appMetrics, metricsSource, prometheus.OutcomeSuccess)
		return
	}
	if ctx.Err() != nil {
		return
	}

	c.metrics.MessagesFailed.Add(1)
	c.logger.WithError(err).Error("message processing failed",
		logging.Int64("offset", msg.Offset),
		logging.Int("attempts", attempts))

	if c.deadLetter == nil || c.config.Retry.DeadLetterTopic == "" {
		prometheus.RecordIngest(c.appMetrics, metricsSource, prometheus.OutcomeFailure)
		return
	}
	if dlErr := c.deadLetter.Publish(ctx, c.deadLetterMessage(msg, err, attempts)); dlErr != nil {
		c.logger.WithError(dlErr).Error("dead-letter publish failed", logging.Int64("offset", msg.Offset))
		prometheus.RecordIngest(c.appMetrics, metricsSource, prometheus.OutcomeFailure)
		return
	}
	c.metrics.MessagesDeadLettered.Add(1)
	prometheus.RecordIngest(c.appMetrics, metricsSource, prometheus.OutcomeDeadLettered)
}

func (c *Consumer) processWithRetry(ctx context.Context, msg *Message) (int, error) {
	err := c.handler(ctx, msg)
	attempts := 1
	if err == nil || errors.IsCode(err, errors.ErrCodeMessageInvalid) {
		return attempts, err
	}

	backoff := c.config.Retry.RetryBackoff
	for i := 0; i < c.config.Retry.MaxRetries; i++ {
		c.metrics.MessagesRetried.Add(1)
		c.logger.Warn("retrying message",
			logging.Int64("offset", msg.Offset),
			logging.Int("attempt", attempts+1),
			logging.Duration("backoff", backoff),
			logging.Err(err))

		select {
		case <-ctx.Done():
			return attempts, ctx.Err()
		case <-time.After(backoff):
		}

		err = c.handler(ctx, msg)
		attempts++
		if err == nil || errors.IsCode(err, errors.ErrCodeMessageInvalid) {
			return attempts, err
		}

		backoff *= 2
		if backoff > c.config.Retry.MaxRetryBackoff {
			backoff = c.config.Retry.MaxRetryBackoff
		}
	}
	return attempts, err
}

func (c *Consumer) deadLetterMessage(msg *Message, cause error, attempts int) *ProducerMessage {
	headers := make(map[string]string, len(msg.Headers)+4)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[HeaderOriginalTopic] = msg.Topic
	headers[HeaderErrorMessage] = cause.Error()
	headers[HeaderAttempts] = strconv.Itoa(attempts)
	if code := errors.GetCode(cause); code != errors.CodeUnknown {
		headers[HeaderErrorCode] = code.String()
	}
	return &ProducerMessage{
		Topic:   c.config.Retry.DeadLetterTopic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
}

// Snapshot returns a copy of the consumer counters.
func (c *Consumer) Snapshot() (consumed, processed, failed, retried, deadLettered int64) {
	m := c.metrics
	return m.MessagesConsumed.Load(), m.MessagesProcessed.Load(), m.MessagesFailed.Load(),
		m.MessagesRetried.Load(), m.MessagesDeadLettered.Load()
}

// Running reports whether the consume loop is active.
func (c *Consumer) Running() bool { return c.running.Load() }

// Close stops the loop started by Start and closes the reader.
func (c *Consumer) Close() error {
	if c.cancel != nil && c.running.CompareAndSwap(true, false) {
		c.cancel()
		c.wg.Wait()
	}
	err := c.reader.Close()
	c.logger.Info("kafka consumer closed",
		logging.Int64("consumed", c.metrics.MessagesConsumed.Load()))
	return err
}

func fromKafkaMessage(m kafka.Message) *Message {
	msg := &Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Time,
		Headers:   make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

// ValidateConsumerConfig validates configuration.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "group id required")
	}
	if cfg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	if cfg.StartOffset != "" && cfg.StartOffset != "earliest" && cfg.StartOffset != "latest" {
		return errors.New(errors.ErrCodeValidation, "start offset must be earliest or latest")
	}
	if cfg.Retry.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "MaxRetries must be >= 0")
	}
	return nil
}

//Personal.AI order the ending
