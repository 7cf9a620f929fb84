package completeness

import "errors"

// ErrInvalidDocumentType is returned when a document tag is neither cv nor jd.
var ErrInvalidDocumentType = errors.New("invalid document type")
