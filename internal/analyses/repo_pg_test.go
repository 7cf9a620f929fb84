package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"recruit-backend/internal/completeness"
)

var selectColumns = []string{
	"id", "user_id", "document_id", "document_type", "catalog_version", "status",
	"overall_score", "payload_key", "result", "error_message", "created_at", "updated_at", "completed_at",
}

const (
	pgID        = "6f1c7c1e-1111-4f00-9c55-0000000000a1"
	pgMissingID = "6f1c7c1e-1111-4f00-9c55-0000000000ff"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateQueued(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	analysis := Analysis{
		ID:           "6f1c7c1e-1111-4f00-9c55-000000000001",
		UserID:       "guest:g1",
		DocumentID:   "doc-1",
		DocumentType: "cv",
		Status:       StatusQueued,
		PayloadKey:   "abc/payload.json",
		CreatedAt:    created,
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			analysis.ID,
			analysis.UserID,
			analysis.DocumentID,
			analysis.DocumentType,
			"",
			StatusQueued,
			nil, // overall_score
			analysis.PayloadKey,
			nil, // result
			"",
			created,
			nil, // completed_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesResult(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	result, err := completeness.AnalyzeRaw(completeness.RawDocument{Type: "jd", Data: map[string]any{"jobTitle": "Engineer"}})
	if err != nil {
		t.Fatalf("AnalyzeRaw: %v", err)
	}
	payload, _ := json.Marshal(result)

	mock.ExpectQuery(regexp.QuoteMeta("FROM analyses WHERE id = $1")).
		WithArgs(pgID).
		WillReturnRows(sqlmock.NewRows(selectColumns).AddRow(
			pgID, "u1", "", "jd", "jd.v1", StatusCompleted,
			int64(result.OverallScore), "", payload, "", created, created, created,
		))

	got, err := repo.GetByID(context.Background(), pgID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Result == nil || got.Result.OverallScore != result.OverallScore {
		t.Fatalf("expected decoded result, got %+v", got.Result)
	}
	if got.OverallScore == nil || *got.OverallScore != result.OverallScore {
		t.Fatalf("expected overall score %d, got %v", result.OverallScore, got.OverallScore)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(created) {
		t.Fatalf("expected completed_at, got %v", got.CompletedAt)
	}
	if len(got.Result.PriorityActions) != len(result.PriorityActions) {
		t.Fatalf("priority actions lost in round trip")
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM analyses").WithArgs(pgMissingID).WillReturnRows(sqlmock.NewRows(selectColumns))

	if _, err := repo.GetByID(context.Background(), pgMissingID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoMalformedIDIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	if _, err := repo.GetByID(context.Background(), "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
	err := repo.UpdateStatus(context.Background(), "abc", StatusUpdate{Status: StatusFailed, ErrorMessage: "payload missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateStatus: expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query expected: %v", err)
	}
}

func TestPGRepoUpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	result := &completeness.MissingDataAnalysis{CatalogVersion: "cv.v1", OverallScore: 65}

	mock.ExpectExec("UPDATE analyses").
		WithArgs(StatusCompleted, sqlmock.AnyArg(), 65, "cv.v1", "", pgID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE analyses").
		WithArgs(StatusFailed, nil, nil, "", "invalid document type", pgMissingID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(context.Background(), pgID, StatusUpdate{Status: StatusCompleted, Result: result}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	err := repo.UpdateStatus(context.Background(), pgMissingID, StatusUpdate{Status: StatusFailed, ErrorMessage: "invalid document type"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserAppliesFilter(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("ORDER BY created_at DESC").
		WithArgs("u1", "cv", maxListLimit, 5).
		WillReturnRows(sqlmock.NewRows(selectColumns).
			AddRow("a2", "u1", "", "cv", "", StatusQueued, nil, "k2", nil, "", created, created, nil).
			AddRow("a1", "u1", "", "cv", "", StatusFailed, nil, "k1", nil, "payload missing", created, created, created))

	got, err := repo.ListByUser(context.Background(), "u1", ListFilter{DocumentType: "cv", Limit: 500, Offset: 5})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a2" || got[1].ErrorMessage != "payload missing" {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if got[0].OverallScore != nil || got[0].Result != nil {
		t.Fatalf("expected empty score and result for queued row")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
