package workerproc

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/telemetry"
)

// HandleSQSEvent processes a Lambda SQS batch. Records that fail processing
// are reported as batch item failures so only they are redelivered; records
// that can never be processed are dropped.
func HandleSQSEvent(ctx context.Context, p Processor, event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		if !handleRecord(ctx, p, record) {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

// FailAll marks every record for redelivery.
func FailAll(event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
	for _, record := range event.Records {
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func handleRecord(ctx context.Context, p Processor, record events.SQSMessage) (ok bool) {
	fields := map[string]any{"message_id": record.MessageId}
	defer func() {
		if rec := recover(); rec != nil {
			fields["panic"] = rec
			telemetry.Error("worker.analysis.panic", fields)
			metrics.IncWorkerJob(OutcomeRetry)
			ok = false
		}
	}()

	msg, meta, err := ParseMessage(record.Body)
	if err != nil {
		fields["body_len"] = meta.BodyLen
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.unprocessable", fields)
		if Unrecoverable(err) {
			metrics.IncWorkerJob(OutcomeDropped)
			return true
		}
		metrics.IncWorkerJob(OutcomeRetry)
		return false
	}

	fields["analysis_id"] = msg.AnalysisID
	if msg.RequestID != "" {
		fields["request_id"] = msg.RequestID
	}
	if err := HandleMessage(ctx, p, msg); err != nil {
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.retry", fields)
		metrics.IncWorkerJob(OutcomeRetry)
		return false
	}
	metrics.IncWorkerJob(OutcomeCompleted)
	return true
}
