package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"recruit-backend/internal/completeness"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, user_id, document_id, document_type, catalog_version, status,
       overall_score, payload_key, result, error_message, created_at, updated_at, completed_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
	id, user_id, document_id, document_type, catalog_version, status,
	overall_score, payload_key, result, error_message, created_at, updated_at, completed_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11, $12)`

	result, err := marshalResult(analysis.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.DocumentID,
		analysis.DocumentType,
		analysis.CatalogVersion,
		analysis.Status,
		analysis.OverallScore,
		analysis.PayloadKey,
		result,
		analysis.ErrorMessage,
		analysis.CreatedAt,
		analysis.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if !validID(analysisID) {
		return Analysis{}, ErrNotFound
	}
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1 LIMIT 1`
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return a, nil
}

// UpdateStatus applies a status transition. The score and catalog version
// follow the result; completed_at is stamped once on the first terminal status.
func (r *PGRepo) UpdateStatus(ctx context.Context, analysisID string, update StatusUpdate) error {
	const query = `
UPDATE analyses
SET status = $1,
    result = COALESCE($2::jsonb, result),
    overall_score = COALESCE($3::integer, overall_score),
    catalog_version = COALESCE(NULLIF($4::text, ''), catalog_version),
    error_message = COALESCE(NULLIF($5::text, ''), error_message),
    completed_at = CASE
        WHEN ($1 = 'completed' OR $1 = 'failed') AND completed_at IS NULL THEN now()
        ELSE completed_at
    END,
    updated_at = now()
WHERE id = $6::uuid`

	if !validID(analysisID) {
		return ErrNotFound
	}
	result, err := marshalResult(update.Result)
	if err != nil {
		return err
	}
	var score any
	var catalogVersion string
	if update.Result != nil {
		score = update.Result.OverallScore
		catalogVersion = update.Result.CatalogVersion
	}

	res, err := r.DB.ExecContext(ctx, query, update.Status, result, score, catalogVersion, update.ErrorMessage, analysisID)
	if err != nil {
		return fmt.Errorf("update analysis status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser lists analyses for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Analysis, error) {
	filter = filter.normalized()
	query := `SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id = $1 AND ($2 = '' OR document_type = $2)
ORDER BY created_at DESC, id DESC
LIMIT $3 OFFSET $4`

	rows, err := r.DB.QueryContext(ctx, query, userID, filter.DocumentType, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// validID reports whether id can match the uuid primary key. Anything else
// would fail the cast in Postgres rather than miss.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var score sql.NullInt64
	var result []byte
	var completedAt sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.DocumentID,
		&a.DocumentType,
		&a.CatalogVersion,
		&a.Status,
		&score,
		&a.PayloadKey,
		&result,
		&a.ErrorMessage,
		&a.CreatedAt,
		&a.UpdatedAt,
		&completedAt,
	); err != nil {
		return Analysis{}, err
	}
	if score.Valid {
		v := int(score.Int64)
		a.OverallScore = &v
	}
	if len(result) > 0 {
		var decoded completeness.MissingDataAnalysis
		if err := json.Unmarshal(result, &decoded); err != nil {
			return Analysis{}, fmt.Errorf("decode result for %s: %w", a.ID, err)
		}
		a.Result = &decoded
	}
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	return a, nil
}

func marshalResult(result *completeness.MissingDataAnalysis) (any, error) {
	if result == nil {
		return nil, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return data, nil
}

var _ Repo = (*PGRepo)(nil)
