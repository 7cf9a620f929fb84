package workerproc

import (
	"context"
	"errors"
	"sync"
	"time"

	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/telemetry"
)

// Job outcomes reported to completeness_worker_jobs_total.
const (
	OutcomeCompleted = "completed"
	OutcomeRetry     = "retry"
	OutcomeDropped   = "dropped"
)

const (
	defaultMaxMessages    = 10
	defaultWaitSeconds    = 20
	defaultReceiveBackoff = 2 * time.Second
)

// Runner long-polls a queue and hands messages to a Processor.
type Runner struct {
	Consumer        queue.Consumer
	Processor       Processor
	Concurrency     int
	MaxMessages     int32
	WaitSeconds     int32
	ShutdownTimeout time.Duration
	ReceiveBackoff  time.Duration
}

// Run polls until ctx is cancelled, then waits up to ShutdownTimeout for
// in-flight messages.
func (r *Runner) Run(ctx context.Context) error {
	if r.Consumer == nil || r.Processor == nil {
		return errors.New("worker runner not configured")
	}
	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	// In-flight work outlives the poll loop so it can finish during shutdown.
	jobCtx := context.WithoutCancel(ctx)

	telemetry.Info("worker.started", map[string]any{"concurrency": concurrency})

poll:
	for ctx.Err() == nil {
		deliveries, err := r.Consumer.Receive(ctx, r.maxMessages(), r.waitSeconds())
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err.Error()})
			if !sleep(ctx, r.backoff()) {
				break poll
			}
			continue
		}

		for _, d := range deliveries {
			select {
			case <-ctx.Done():
				break poll
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(d queue.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				r.handle(jobCtx, d)
			}(d)
		}
	}

	telemetry.Info("worker.draining", map[string]any{"timeout_ms": r.ShutdownTimeout.Milliseconds()})
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	if r.ShutdownTimeout <= 0 {
		<-done
		return nil
	}
	select {
	case <-done:
	case <-time.After(r.ShutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", nil)
	}
	return nil
}

func (r *Runner) handle(ctx context.Context, d queue.Delivery) {
	defer func() {
		if rec := recover(); rec != nil {
			fields := deliveryFields(d, "", "")
			fields["panic"] = rec
			telemetry.Error("worker.analysis.panic", fields)
			metrics.IncWorkerJob(OutcomeRetry)
		}
	}()

	msg, meta, err := ParseMessage(d.Body)
	if err != nil {
		fields := deliveryFields(d, msg.AnalysisID, msg.RequestID)
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.unprocessable", fields)
		if Unrecoverable(err) && r.delete(ctx, d, msg.AnalysisID, msg.RequestID) {
			metrics.IncWorkerJob(OutcomeDropped)
		}
		return
	}

	telemetry.Info("worker.analysis.received", deliveryFields(d, msg.AnalysisID, msg.RequestID))

	if err := HandleMessage(ctx, r.Processor, msg); err != nil {
		fields := deliveryFields(d, msg.AnalysisID, msg.RequestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.retry", fields)
		metrics.IncWorkerJob(OutcomeRetry)
		return
	}

	if r.delete(ctx, d, msg.AnalysisID, msg.RequestID) {
		telemetry.Info("worker.analysis.done", deliveryFields(d, msg.AnalysisID, msg.RequestID))
		metrics.IncWorkerJob(OutcomeCompleted)
	}
}

func (r *Runner) delete(ctx context.Context, d queue.Delivery, analysisID, requestID string) bool {
	if d.ReceiptHandle == "" {
		fields := deliveryFields(d, analysisID, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.analysis.delete_failed", fields)
		return false
	}
	if err := r.Consumer.Delete(ctx, d.ReceiptHandle); err != nil {
		fields := deliveryFields(d, analysisID, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.delete_failed", fields)
		return false
	}
	return true
}

func (r *Runner) maxMessages() int32 {
	if r.MaxMessages <= 0 || r.MaxMessages > defaultMaxMessages {
		return defaultMaxMessages
	}
	return r.MaxMessages
}

func (r *Runner) waitSeconds() int32 {
	if r.WaitSeconds <= 0 {
		return defaultWaitSeconds
	}
	return r.WaitSeconds
}

func (r *Runner) backoff() time.Duration {
	if r.ReceiveBackoff <= 0 {
		return defaultReceiveBackoff
	}
	return r.ReceiveBackoff
}

func deliveryFields(d queue.Delivery, analysisID, requestID string) map[string]any {
	fields := map[string]any{
		"analysis_id":    analysisID,
		"sqs_message_id": d.MessageID,
		"receive_count":  d.ReceiveCount,
	}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	return fields
}

// sleep waits for d and reports false when ctx ends first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
