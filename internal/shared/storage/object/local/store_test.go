package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-backend/internal/shared/storage/object"
	"recruit-backend/internal/shared/util"
)

func TestSaveAndOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, err := store.Save(ctx, "guest:abc", "payload.json", "application/json", strings.NewReader(`{"type":"cv"}`))
	require.NoError(t, err)
	assert.EqualValues(t, 13, size)
	assert.True(t, strings.HasPrefix(key, util.HashUserKey("guest:abc")+"/"))
	assert.True(t, strings.HasSuffix(key, "_payload.json"))

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"cv"}`, string(body))
}

func TestOpenErrors(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	_, err := store.Open(ctx, "missing/key.json")
	assert.True(t, errors.Is(err, object.ErrNotFound))

	_, err = store.Open(ctx, "../outside.json")
	assert.Error(t, err)

	_, _, err = store.Save(ctx, "u", "../x", "application/json", strings.NewReader("{}"))
	assert.True(t, errors.Is(err, util.ErrInvalidName))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = store.Open(cancelled, "any")
	assert.True(t, errors.Is(err, context.Canceled))
}
