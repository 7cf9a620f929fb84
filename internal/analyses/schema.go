package analyses

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"recruit-backend/internal/completeness"
)

//go:embed schemas/analyze_request.json
var analyzeRequestSchema []byte

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

// AnalyzeRequest is the body of POST /analyses.
type AnalyzeRequest struct {
	DocumentID string         `json:"documentId,omitempty"`
	Type       string         `json:"type"`
	Data       map[string]any `json:"data"`
}

// Raw returns the payload in the form the engine consumes.
func (r AnalyzeRequest) Raw() completeness.RawDocument {
	return completeness.RawDocument{Type: r.Type, Data: r.Data}
}

func requestSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(analyzeRequestSchema))
	})
	return compiledSchema, schemaErr
}

// DecodeRequest validates body against the request schema and decodes it.
// The document tag is checked later by the engine.
func DecodeRequest(body []byte) (AnalyzeRequest, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return AnalyzeRequest{}, &ValidationError{Details: []string{"request body is required"}}
	}
	if !json.Valid(body) {
		return AnalyzeRequest{}, &ValidationError{Details: []string{"request body must be valid JSON"}}
	}

	schema, err := requestSchema()
	if err != nil {
		return AnalyzeRequest{}, fmt.Errorf("load request schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return AnalyzeRequest{}, fmt.Errorf("validate request: %w", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return AnalyzeRequest{}, &ValidationError{Details: details}
	}

	var req AnalyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return AnalyzeRequest{}, &ValidationError{Details: []string{err.Error()}}
	}
	return req, nil
}
