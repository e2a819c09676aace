package blob

import (
	"context"
	"testing"

	"github.com/lumilearn/lumilearn-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectURL(t *testing.T) {
	t.Run("virtual hosted url", func(t *testing.T) {
		bucket, key, ok := ParseObjectURL("https://study-media.s3.eu-west-1.amazonaws.com/uploads/photo-123.png")
		require.True(t, ok)
		assert.Equal(t, "study-media", bucket)
		assert.Equal(t, "uploads/photo-123.png", key)
	})

	t.Run("nested key", func(t *testing.T) {
		_, key, ok := ParseObjectURL("https://b.s3.us-east-1.amazonaws.com/a/b/c.jpg")
		require.True(t, ok)
		assert.Equal(t, "a/b/c.jpg", key)
	})

	t.Run("local path is not a storage url", func(t *testing.T) {
		_, _, ok := ParseObjectURL("/tmp/uploads/photo.png")
		assert.False(t, ok)
	})

	t.Run("foreign host is rejected", func(t *testing.T) {
		_, _, ok := ParseObjectURL("https://example.com/photo.png")
		assert.False(t, ok)
	})

	t.Run("missing key is rejected", func(t *testing.T) {
		_, _, ok := ParseObjectURL("https://b.s3.us-east-1.amazonaws.com/")
		assert.False(t, ok)
	})
}

func TestS3StoreUnconfigured(t *testing.T) {
	store, err := NewS3Store(context.Background(), config.BlobConfig{})
	require.NoError(t, err)

	assert.False(t, store.IsAvailable())

	deleted, err := store.DeleteByURL(context.Background(), "https://b.s3.us-east-1.amazonaws.com/k")
	assert.NoError(t, err)
	assert.False(t, deleted)
}
