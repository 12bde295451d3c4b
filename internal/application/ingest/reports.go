package ingest

import (
	"context"
	"fmt"

	"github.com/turtacn/SkipTrace-Intelligence/internal/application/analysis"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SkipTrace-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

// NewReportHandler returns the Kafka handler for the submitted-report topic.
// Each message is parsed and its AnalyzeResponse published to parsedTopic
// keyed by report ID.  Rejected input (bad JSON, oversize, bad encoding) is
// flagged INGEST_002 so the consumer dead-letters it without retrying.
func NewReportHandler(svc analysis.Service, pub kafka.Publisher, parsedTopic string, logger logging.Logger) kafka.Handler {
	if parsedTopic == "" {
		parsedTopic = kafka.TopicReportsParsed
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	log := logger.Named("report_handler")

	return func(ctx context.Context, msg *kafka.Message) error {
		sr, err := kafka.DecodeSubmittedReport(msg)
		if err != nil {
			return err
		}
		if sr.ReportID == "" {
			// Stable across redeliveries of the same record.
			sr.ReportID = fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset)
		}

		resp, err := svc.Analyze(ctx, &analysis.AnalyzeRequest{
			ReportID: sr.ReportID,
			Text:     sr.Text,
			Mode:     analysis.Mode(sr.Mode),
			Source:   analysis.SourceKafka,
		})
		if err != nil {
			if errors.IsValidation(err) || errors.IsCode(err, errors.ErrCodeReportTooLarge) {
				return errors.Wrap(err, errors.ErrCodeMessageInvalid, "report rejected")
			}
			return err
		}

		out, err := kafka.NewJSONMessage(parsedTopic, resp.ReportID, resp)
		if err != nil {
			return err
		}
		if err := pub.Publish(ctx, out); err != nil {
			return err
		}
		log.Debug("parsed report published",
			logging.String(logging.KeyReportID, resp.ReportID),
			logging.Float64(logging.KeyConfidence, resp.Result.Confidence))
		return nil
	}
}

//Personal.AI order the ending
