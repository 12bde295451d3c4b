package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

// Topic Constants
const (
	TopicReportsSubmitted  = "skiptrace.reports.submitted"
	TopicReportsParsed     = "skiptrace.reports.parsed"
	TopicReportsDeadLetter = "skiptrace.reports.dlq"
)

// Header keys stamped on produced messages.
const (
	HeaderReportID      = "report_id"
	HeaderOriginalTopic = "original_topic"
	HeaderErrorMessage  = "error_message"
	HeaderErrorCode     = "error_code"
	HeaderAttempts      = "attempts"
	HeaderContentType   = "content_type"
)

// ─────────────────────────────────────────────────────────────────────────────
// Messages
// ─────────────────────────────────────────────────────────────────────────────

// Message is one consumed record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// ProducerMessage is one record to publish.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes one consumed message.  Returning an error whose code is
// INGEST_002 marks the message as unprocessable: it skips the retry loop and
// goes straight to the dead-letter topic.
type Handler func(ctx context.Context, msg *Message) error

// Publisher is the write side the consumer and the report handler depend on.
// *Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// SubmittedReport is the value of a message on the submitted topic.
type SubmittedReport struct {
	ReportID string  `json:"reportId"`
	Text     *string `json:"text"`
	Mode     string  `json:"mode,omitempty"`
}

// DecodeSubmittedReport parses a submitted-topic message.  The message key is
// used as the report ID when the payload carries none.
func DecodeSubmittedReport(msg *Message) (*SubmittedReport, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeMessageInvalid, "empty message value")
	}
	var sr SubmittedReport
	if err := json.Unmarshal(msg.Value, &sr); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMessageInvalid, "decode submitted report")
	}
	if sr.ReportID == "" && len(msg.Key) > 0 {
		sr.ReportID = string(msg.Key)
	}
	return &sr, nil
}

// NewJSONMessage marshals v onto topic with key as the partition key.
func NewJSONMessage(topic, key string, v interface{}) (*ProducerMessage, error) {
	val, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal message")
	}
	headers := map[string]string{HeaderContentType: "application/json"}
	if key != "" {
		headers[HeaderReportID] = key
	}
	return &ProducerMessage{
		Topic:     topic,
		Key:       []byte(key),
		Value:     val,
		Headers:   headers,
		Timestamp: time.Now().UTC(),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Topic management
// ─────────────────────────────────────────────────────────────────────────────

// TopicConfig describes a topic to create.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
	CleanupPolicy     string
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates the worker's topics.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

// NewTopicManager dials the first broker.
func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to dial kafka")
	}
	return &TopicManager{conn: conn, logger: logger}, nil
}

// CreateTopic creates cfg, treating "already exists" as success.
func (m *TopicManager) CreateTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}
	if cfg.NumPartitions <= 0 {
		return errors.New(errors.ErrCodeValidation, "NumPartitions must be > 0")
	}
	if cfg.ReplicationFactor <= 0 {
		return errors.New(errors.ErrCodeValidation, "ReplicationFactor must be > 0")
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{ConfigName: "retention.ms", ConfigValue: fmt.Sprintf("%d", cfg.RetentionMs)})
	}
	if cfg.CleanupPolicy != "" {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{ConfigName: "cleanup.policy", ConfigValue: cfg.CleanupPolicy})
	}

	if err := m.conn.CreateTopics(kCfg); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil
		}
		if exists, _ := m.TopicExists(ctx, cfg.Name); exists {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "create topic "+cfg.Name)
	}
	m.logger.Info("topic created", logging.String("topic", cfg.Name))
	return nil
}

// TopicExists reports whether name has at least one partition.
func (m *TopicManager) TopicExists(_ context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

// EnsureTopics creates every topic in topics.
func (m *TopicManager) EnsureTopics(ctx context.Context, topics []TopicConfig) error {
	for _, topic := range topics {
		if err := m.CreateTopic(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// WorkerTopics returns the topic set the report-ingest worker needs.  Empty
// names fall back to the package defaults; an empty dead-letter name omits
// that topic.
func WorkerTopics(submitted, parsed, deadLetter string) []TopicConfig {
	const day = int64(24 * 3600 * 1000)
	if submitted == "" {
		submitted = TopicReportsSubmitted
	}
	if parsed == "" {
		parsed = TopicReportsParsed
	}
	topics := []TopicConfig{
		{Name: submitted, NumPartitions: 6, ReplicationFactor: 1, RetentionMs: 7 * day},
		{Name: parsed, NumPartitions: 6, ReplicationFactor: 1, RetentionMs: 7 * day},
	}
	if deadLetter != "" {
		topics = append(topics, TopicConfig{Name: deadLetter, NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 30 * day})
	}
	return topics
}

//Personal.AI order the ending
