package analyses

import (
	"time"

	"recruit-backend/internal/completeness"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis is one completeness analysis of a submitted document.
type Analysis struct {
	ID             string                            `json:"id"`
	UserID         string                            `json:"userId"`
	DocumentID     string                            `json:"documentId,omitempty"`
	DocumentType   string                            `json:"documentType"`
	CatalogVersion string                            `json:"catalogVersion,omitempty"`
	Status         string                            `json:"status"`
	OverallScore   *int                              `json:"overallScore,omitempty"`
	PayloadKey     string                            `json:"-"`
	Result         *completeness.MissingDataAnalysis `json:"result,omitempty"`
	ErrorMessage   string                            `json:"errorMessage,omitempty"`
	CreatedAt      time.Time                         `json:"createdAt"`
	UpdatedAt      time.Time                         `json:"updatedAt"`
	CompletedAt    *time.Time                        `json:"completedAt,omitempty"`
}

// IsTerminal reports whether the analysis will not change anymore.
func (a Analysis) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusFailed
}

// StatusUpdate moves an analysis to a new status. Result is set on completion
// and ErrorMessage on failure.
type StatusUpdate struct {
	Status       string
	Result       *completeness.MissingDataAnalysis
	ErrorMessage string
}

// ListFilter narrows a history listing.
type ListFilter struct {
	DocumentType string
	Limit        int
	Offset       int
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
