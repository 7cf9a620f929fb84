package analyses

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrQueueUnavailable = errors.New("job queue unavailable")
	ErrNotReady         = errors.New("analysis not completed")
)

// ValidationError lists why a request body was rejected.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "invalid request"
	}
	return "invalid request: " + strings.Join(e.Details, "; ")
}
