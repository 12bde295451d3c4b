package kafka

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

type mockKafkaConn struct {
	createFunc func(topics ...kafka.TopicConfig) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		return m.createFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func newTestTopicManager(conn ConnInterface) *TopicManager {
	return &TopicManager{conn: conn, logger: logging.NewNopLogger()}
}

func TestWorkerTopics(t *testing.T) {
	topics := WorkerTopics("", "", TopicReportsDeadLetter)
	require.Len(t, topics, 3)
	assert.Equal(t, TopicReportsSubmitted, topics[0].Name)
	assert.Equal(t, TopicReportsParsed, topics[1].Name)
	assert.Equal(t, TopicReportsDeadLetter, topics[2].Name)

	assert.Len(t, WorkerTopics("in", "out", ""), 2)
}

func TestCreateTopic(t *testing.T) {
	var got []kafka.TopicConfig
	m := newTestTopicManager(&mockKafkaConn{createFunc: func(topics ...kafka.TopicConfig) error {
		got = append(got, topics...)
		return nil
	}})
	err := m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 2, ReplicationFactor: 1, RetentionMs: 1000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t", got[0].Topic)
	assert.Equal(t, "retention.ms", got[0].ConfigEntries[0].ConfigName)
	assert.Equal(t, "1000", got[0].ConfigEntries[0].ConfigValue)
}

func TestCreateTopic_Validation(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{})
	ctx := context.Background()
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1}))
}

func TestCreateTopic_AlreadyExists(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{
		createFunc: func(...kafka.TopicConfig) error { return stderrors.New("[36] Topic Already Exists") },
	})
	assert.NoError(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))

	m = newTestTopicManager(&mockKafkaConn{
		createFunc: func(...kafka.TopicConfig) error { return stderrors.New("timeout") },
		readFunc:   func(...string) ([]kafka.Partition, error) { return []kafka.Partition{{Topic: "t"}}, nil },
	})
	assert.NoError(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))
}

func TestEnsureTopics_StopsOnError(t *testing.T) {
	calls := 0
	m := newTestTopicManager(&mockKafkaConn{createFunc: func(...kafka.TopicConfig) error {
		calls++
		return stderrors.New("denied")
	}})
	err := m.EnsureTopics(context.Background(), WorkerTopics("", "", ""))
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
	assert.Equal(t, 1, calls)
}

func TestDecodeSubmittedReport(t *testing.T) {
	sr, err := DecodeSubmittedReport(&Message{Value: []byte(`{"reportId":"r1","text":"Name: Jane Doe"}`)})
	require.NoError(t, err)
	assert.Equal(t, "r1", sr.ReportID)
	require.NotNil(t, sr.Text)
	assert.Equal(t, "Name: Jane Doe", *sr.Text)

	sr, err = DecodeSubmittedReport(&Message{Key: []byte("k1"), Value: []byte(`{"text":null}`)})
	require.NoError(t, err)
	assert.Equal(t, "k1", sr.ReportID)
	assert.Nil(t, sr.Text)

	_, err = DecodeSubmittedReport(&Message{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessageInvalid))
	_, err = DecodeSubmittedReport(&Message{Value: []byte("{")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessageInvalid))
}

func TestNewJSONMessage(t *testing.T) {
	msg, err := NewJSONMessage(TopicReportsParsed, "r1", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(msg.Value))
	assert.Equal(t, "r1", msg.Headers[HeaderReportID])
	assert.Equal(t, "application/json", msg.Headers[HeaderContentType])

	_, err = NewJSONMessage("t", "", make(chan int))
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))
}

//Personal.AI order the ending
