package analyses

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"documentId":"doc-1","type":"cv","data":{"personalInfo":{"name":"Ada"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "doc-1", req.DocumentID)
	assert.Equal(t, "cv", req.Type)
	assert.Equal(t, map[string]any{"name": "Ada"}, req.Data["personalInfo"])

	raw := req.Raw()
	assert.Equal(t, "cv", raw.Type)
}

func TestDecodeRequestAcceptsNullDataAndUnknownTag(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"type":"resume","data":null}`))
	require.NoError(t, err)
	assert.Equal(t, "resume", req.Type)
	assert.Nil(t, req.Data)
}

func TestDecodeRequestRejectsMalformedBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "empty", body: "  "},
		{name: "not json", body: `{"type":`},
		{name: "type not string", body: `{"type":7,"data":{}}`},
		{name: "data array", body: `{"type":"cv","data":[1,2]}`},
		{name: "document id number", body: `{"type":"jd","documentId":12,"data":{}}`},
		{name: "not an object", body: `["cv"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(tc.body))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.NotEmpty(t, verr.Details)
		})
	}
}
