package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"recruit-backend/internal/completeness"
	"recruit-backend/internal/notify"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/storage/object"
	"recruit-backend/internal/shared/telemetry"
)

const payloadObjectName = "payload.json"

// Service contains business logic for analyses.
type Service struct {
	Repo      Repo
	Cache     Cache
	Store     object.ObjectStore
	Queue     queue.Client
	Publisher notify.Publisher

	Now   func() time.Time
	NewID func() string
}

// Analyze runs the engine on req and persists the completed analysis.
func (s *Service) Analyze(ctx context.Context, userID string, req AnalyzeRequest) (Analysis, error) {
	started := s.now()
	result, err := completeness.AnalyzeRaw(req.Raw())
	if err != nil {
		s.logInvalidType(ctx, userID, req.Type, err)
		return Analysis{}, err
	}
	finished := s.now()
	score := result.OverallScore

	analysis := Analysis{
		ID:             s.newID(),
		UserID:         userID,
		DocumentID:     req.DocumentID,
		DocumentType:   string(result.DocumentType),
		CatalogVersion: result.CatalogVersion,
		Status:         StatusCompleted,
		OverallScore:   &score,
		Result:         &result,
		CreatedAt:      started,
		UpdatedAt:      finished,
		CompletedAt:    &finished,
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, fmt.Errorf("create analysis: %w", err)
	}
	s.cacheSet(ctx, analysis)
	s.recordCompleted(analysis, finished.Sub(started))
	telemetry.Info("analysis.completed", s.fields(ctx, analysis, map[string]any{
		"overall_score": score,
		"missing_count": result.MissingCount(),
		"mode":          "sync",
	}))
	s.publish(ctx, analysis)
	return analysis, nil
}

// Enqueue stores the payload and queues the analysis for the worker.
func (s *Service) Enqueue(ctx context.Context, userID string, req AnalyzeRequest) (Analysis, error) {
	docType, err := completeness.ParseDocumentType(req.Type)
	if err != nil {
		s.logInvalidType(ctx, userID, req.Type, err)
		return Analysis{}, err
	}
	if s.Queue == nil || s.Store == nil {
		return Analysis{}, ErrQueueUnavailable
	}

	payload, err := json.Marshal(req.Raw())
	if err != nil {
		return Analysis{}, fmt.Errorf("encode payload: %w", err)
	}
	key, _, err := s.Store.Save(ctx, userID, payloadObjectName, "application/json", bytes.NewReader(payload))
	if err != nil {
		return Analysis{}, fmt.Errorf("store payload: %w", err)
	}

	now := s.now()
	analysis := Analysis{
		ID:           s.newID(),
		UserID:       userID,
		DocumentID:   req.DocumentID,
		DocumentType: string(docType),
		Status:       StatusQueued,
		PayloadKey:   key,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, fmt.Errorf("create analysis: %w", err)
	}

	msg := queue.NewMessage(analysis.ID, analysis.DocumentType, requestIDFromContext(ctx), now)
	if err := s.Queue.Send(ctx, msg); err != nil {
		telemetry.Error("analysis.enqueue_failed", s.fields(ctx, analysis, map[string]any{"error": err.Error()}))
		if updateErr := s.Repo.UpdateStatus(ctx, analysis.ID, StatusUpdate{Status: StatusFailed, ErrorMessage: "queue unavailable"}); updateErr != nil {
			telemetry.Error("analysis.status_update_failed", s.fields(ctx, analysis, map[string]any{"error": updateErr.Error()}))
		}
		metrics.IncAnalysis(analysis.DocumentType, metrics.StatusFailed)
		return Analysis{}, fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}

	metrics.IncAnalysis(analysis.DocumentType, metrics.StatusQueued)
	telemetry.Info("analysis.queued", s.fields(ctx, analysis, nil))
	return analysis, nil
}

// Get returns the caller's analysis. Analyses owned by someone else are
// reported as not found.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, ErrNotFound
	}
	cached, ok, err := s.cache().Get(ctx, analysisID)
	if err != nil {
		telemetry.Warn("cache.get_failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"analysis_id": analysisID,
			"error":       err.Error(),
		})
	}
	if ok {
		if cached.UserID != userID {
			return Analysis{}, ErrNotFound
		}
		return cached, nil
	}

	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if analysis.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	s.cacheSet(ctx, analysis)
	return analysis, nil
}

// List returns the caller's analyses, newest first.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Analysis, error) {
	if filter.DocumentType != "" {
		docType, err := completeness.ParseDocumentType(filter.DocumentType)
		if err != nil {
			return nil, err
		}
		filter.DocumentType = string(docType)
	}
	return s.Repo.ListByUser(ctx, userID, filter.normalized())
}

// Export renders the caller's completed analysis as a workbook.
func (s *Service) Export(ctx context.Context, userID, analysisID string) (Analysis, []byte, error) {
	analysis, err := s.Get(ctx, userID, analysisID)
	if err != nil {
		return Analysis{}, nil, err
	}
	if analysis.Status != StatusCompleted || analysis.Result == nil {
		return analysis, nil, ErrNotReady
	}
	data, err := BuildWorkbook(analysis)
	if err != nil {
		return analysis, nil, fmt.Errorf("build workbook: %w", err)
	}
	return analysis, data, nil
}

// ProcessAnalysis runs a queued analysis. It returns an error only when the
// work should be retried; permanent failures are recorded on the analysis.
func (s *Service) ProcessAnalysis(ctx context.Context, analysisID string) error {
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			telemetry.Warn("worker.analysis.missing", map[string]any{
				"request_id":  requestIDFromContext(ctx),
				"analysis_id": analysisID,
			})
			return nil
		}
		return fmt.Errorf("load analysis: %w", err)
	}
	if analysis.IsTerminal() {
		telemetry.Info("worker.analysis.skipped", s.fields(ctx, analysis, nil))
		return nil
	}

	if err := s.Repo.UpdateStatus(ctx, analysis.ID, StatusUpdate{Status: StatusProcessing}); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	telemetry.Info("analysis.status", s.fields(ctx, analysis, map[string]any{
		"status_transition": analysis.Status + "->" + StatusProcessing,
	}))

	started := s.now()
	raw, err := s.loadPayload(ctx, analysis.PayloadKey)
	if err != nil {
		var perr *payloadError
		if errors.As(err, &perr) {
			return s.fail(ctx, analysis, perr.message, err)
		}
		return err
	}

	result, err := completeness.AnalyzeRaw(raw)
	if err != nil {
		if errors.Is(err, completeness.ErrInvalidDocumentType) {
			return s.fail(ctx, analysis, "invalid document type", err)
		}
		return s.fail(ctx, analysis, "analysis failed", err)
	}

	if err := s.Repo.UpdateStatus(ctx, analysis.ID, StatusUpdate{Status: StatusCompleted, Result: &result}); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	finished := s.now()
	score := result.OverallScore
	analysis.Status = StatusCompleted
	analysis.Result = &result
	analysis.OverallScore = &score
	analysis.CatalogVersion = result.CatalogVersion
	analysis.CompletedAt = &finished

	s.cacheDelete(ctx, analysis.ID)
	s.recordCompleted(analysis, finished.Sub(started))
	telemetry.Info("analysis.completed", s.fields(ctx, analysis, map[string]any{
		"overall_score": score,
		"missing_count": result.MissingCount(),
		"mode":          "async",
		"duration_ms":   finished.Sub(started).Milliseconds(),
	}))
	s.publish(ctx, analysis)
	return nil
}

type payloadError struct {
	message string
	err     error
}

func (e *payloadError) Error() string { return e.message + ": " + e.err.Error() }
func (e *payloadError) Unwrap() error { return e.err }

func (s *Service) loadPayload(ctx context.Context, key string) (completeness.RawDocument, error) {
	if s.Store == nil {
		return completeness.RawDocument{}, errors.New("object store not configured")
	}
	if key == "" {
		return completeness.RawDocument{}, &payloadError{message: "payload missing", err: object.ErrNotFound}
	}
	body, err := s.Store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return completeness.RawDocument{}, &payloadError{message: "payload missing", err: err}
		}
		return completeness.RawDocument{}, fmt.Errorf("open payload: %w", err)
	}
	defer body.Close()

	var raw completeness.RawDocument
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return completeness.RawDocument{}, &payloadError{message: "payload is not valid JSON", err: err}
	}
	return raw, nil
}

// fail records a permanent failure. The returned error is non-nil only when
// the failure itself could not be stored.
func (s *Service) fail(ctx context.Context, analysis Analysis, message string, cause error) error {
	if err := s.Repo.UpdateStatus(ctx, analysis.ID, StatusUpdate{Status: StatusFailed, ErrorMessage: message}); err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	analysis.Status = StatusFailed
	analysis.ErrorMessage = message

	s.cacheDelete(ctx, analysis.ID)
	metrics.IncAnalysis(analysis.DocumentType, metrics.StatusFailed)
	telemetry.Warn("worker.analysis.failed", s.fields(ctx, analysis, map[string]any{
		"reason": message,
		"error":  cause.Error(),
	}))
	s.publish(ctx, analysis)
	return nil
}

func (s *Service) recordCompleted(a Analysis, elapsed time.Duration) {
	metrics.IncAnalysis(a.DocumentType, metrics.StatusCompleted)
	metrics.ObserveAnalysisDuration(a.DocumentType, elapsed)
	if a.Result == nil {
		return
	}
	metrics.ObserveScore(a.DocumentType, a.Result.OverallScore)
	metrics.AddMissingFields(a.DocumentType, string(completeness.ImportanceCritical), len(a.Result.Critical))
	metrics.AddMissingFields(a.DocumentType, string(completeness.ImportanceRecommended), len(a.Result.Recommended))
	metrics.AddMissingFields(a.DocumentType, string(completeness.ImportanceOptional), len(a.Result.Optional))
}

// logInvalidType reports a tag outside cv/jd. It points at the extraction
// integration rather than at the user.
func (s *Service) logInvalidType(ctx context.Context, userID, tag string, err error) {
	metrics.IncAnalysis("", metrics.StatusFailed)
	telemetry.Error("analysis.invalid_document_type", map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"user_id":       userID,
		"document_type": tag,
		"error":         err.Error(),
	})
}

func (s *Service) publish(ctx context.Context, a Analysis) {
	if s.Publisher == nil {
		return
	}
	evt := notify.Event{
		Type:         notify.EventAnalysisCompleted,
		AnalysisID:   a.ID,
		UserID:       a.UserID,
		DocumentType: a.DocumentType,
		Status:       a.Status,
		OverallScore: a.OverallScore,
		OccurredAt:   s.now(),
	}
	if a.Status == StatusFailed {
		evt.Type = notify.EventAnalysisFailed
	}
	if err := s.Publisher.Publish(ctx, evt); err != nil {
		telemetry.Warn("analysis.publish_failed", s.fields(ctx, a, map[string]any{"error": err.Error()}))
	}
}

func (s *Service) cacheSet(ctx context.Context, a Analysis) {
	if err := s.cache().Set(ctx, a); err != nil {
		telemetry.Warn("cache.set_failed", s.fields(ctx, a, map[string]any{"error": err.Error()}))
	}
}

func (s *Service) cacheDelete(ctx context.Context, analysisID string) {
	if err := s.cache().Delete(ctx, analysisID); err != nil {
		telemetry.Warn("cache.delete_failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"analysis_id": analysisID,
			"error":       err.Error(),
		})
	}
}

func (s *Service) cache() Cache {
	if s.Cache == nil {
		return NopCache{}
	}
	return s.Cache
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) fields(ctx context.Context, a Analysis, extra map[string]any) map[string]any {
	fields := map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"analysis_id":   a.ID,
		"user_id":       a.UserID,
		"document_type": a.DocumentType,
		"status":        a.Status,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}
