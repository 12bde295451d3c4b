package ingest

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

type mockService struct {
	analyzeFn func(ctx context.Context, req *analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error)
}

func (m *mockService) Analyze(ctx context.Context, req *analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error) {
	return m.analyzeFn(ctx, req)
}

func (m *mockService) AnalyzeBatch(context.Context, []analysis.AnalyzeRequest) ([]*analysis.AnalyzeResponse, error) {
	return nil, errors.New(errors.CodeNotImplemented, "")
}

func (m *mockService) LookupAreaCode(string) (report.PhoneLocation, error) {
	return report.PhoneLocation{}, errors.New(errors.CodeNotImplemented, "")
}

type recordingPublisher struct {
	msgs []*kafka.ProducerMessage
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, msg *kafka.ProducerMessage) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func TestReportHandler_PublishesResult(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewReportHandler(newTestService(), pub, "", nil)

	err := h(context.Background(), &kafka.Message{
		Topic: kafka.TopicReportsSubmitted,
		Value: []byte(`{"reportId":"r-7","text":"Name: John Smith\n"}`),
	})
	require.NoError(t, err)
	require.Len(t, pub.msgs, 1)

	msg := pub.msgs[0]
	assert.Equal(t, kafka.TopicReportsParsed, msg.Topic)
	assert.Equal(t, "r-7", string(msg.Key))

	var resp analysis.AnalyzeResponse
	require.NoError(t, json.Unmarshal(msg.Value, &resp))
	assert.Equal(t, "r-7", resp.ReportID)
	assert.Equal(t, "John Smith", resp.Result.Data.Subject.FullName)
	assert.Equal(t, report.MethodDeterministic, resp.Result.ParseMethod)
}

func TestReportHandler_DerivesStableID(t *testing.T) {
	var ids []string
	svc := &mockService{analyzeFn: func(_ context.Context, req *analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error) {
		ids = append(ids, req.ReportID)
		assert.Equal(t, analysis.SourceKafka, req.Source)
		return &analysis.AnalyzeResponse{ReportID: req.ReportID}, nil
	}}
	h := NewReportHandler(svc, &recordingPublisher{}, "out", nil)
	msg := &kafka.Message{Topic: "in", Partition: 2, Offset: 40, Value: []byte(`{"text":"x"}`)}

	require.NoError(t, h(context.Background(), msg))
	require.NoError(t, h(context.Background(), msg))
	assert.Equal(t, []string{"in-2-40", "in-2-40"}, ids)
}

func TestReportHandler_NullTextIsStillPublished(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewReportHandler(newTestService(), pub, "", nil)
	require.NoError(t, h(context.Background(), &kafka.Message{Value: []byte(`{"reportId":"r","text":null}`)}))

	var resp analysis.AnalyzeResponse
	require.NoError(t, json.Unmarshal(pub.msgs[0].Value, &resp))
	assert.False(t, resp.Result.Success)
	assert.Equal(t, "No report text provided", resp.Result.Error)
}

func TestReportHandler_InvalidInputIsPermanent(t *testing.T) {
	h := NewReportHandler(newTestService(), &recordingPublisher{}, "", nil)

	err := h(context.Background(), &kafka.Message{Value: []byte("not json")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessageInvalid))

	err = h(context.Background(), &kafka.Message{Value: []byte(`{"text":"x","mode":"psychic"}`)})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessageInvalid))

	tooLarge := &mockService{analyzeFn: func(context.Context, *analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error) {
		return nil, errors.New(errors.ErrCodeReportTooLarge, "")
	}}
	err = NewReportHandler(tooLarge, &recordingPublisher{}, "", nil)(context.Background(), &kafka.Message{Value: []byte(`{"text":"x"}`)})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessageInvalid))
}

func TestReportHandler_TransientErrorsPassThrough(t *testing.T) {
	pub := &recordingPublisher{err: errors.New(errors.ErrCodePublishFailed, "")}
	h := NewReportHandler(newTestService(), pub, "", nil)
	err := h(context.Background(), &kafka.Message{Value: []byte(`{"text":"Name: A B\n"}`)})
	assert.True(t, errors.IsCode(err, errors.ErrCodePublishFailed))
	assert.False(t, errors.IsCode(err, errors.ErrCodeMessageInvalid))

	svc := &mockService{analyzeFn: func(context.Context, *analysis.AnalyzeRequest) (*analysis.AnalyzeResponse, error) {
		return nil, stderrors.New("deadline")
	}}
	err = NewReportHandler(svc, &recordingPublisher{}, "", nil)(context.Background(), &kafka.Message{Value: []byte(`{"text":"x"}`)})
	assert.EqualError(t, err, "deadline")
}

//Personal.AI order the ending
