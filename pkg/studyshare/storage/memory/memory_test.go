package memory

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyshare/platform/pkg/studyshare"
)

func TestUploadDownload(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Upload(ctx, bytes.NewReader([]byte("hello")), studyshare.UploadParams{
		ObjectKey: "greeting.pdf",
		MimeType:  "application/pdf",
	})
	require.NoError(t, err)

	rc, err := store.Download(ctx, "greeting.pdf")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestDownloadMissingKey(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.Download(ctx, "nope")
	assert.Error(t, err)
}

func TestGetPreviewURL(t *testing.T) {
	ctx := context.Background()
	store := New()

	t.Run("ContainsKeyAndExpiry", func(t *testing.T) {
		url, err := store.GetPreviewURL(ctx, "abc.pdf", 5*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "abc.pdf")
		assert.Contains(t, url, "expires=")
	})

	t.Run("FreshURLPerCall", func(t *testing.T) {
		first, err := store.GetPreviewURL(ctx, "abc.pdf", 5*time.Minute)
		require.NoError(t, err)
		second, err := store.GetPreviewURL(ctx, "abc.pdf", 5*time.Minute)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("DoesNotRequireObjectToExist", func(t *testing.T) {
		url, err := store.GetPreviewURL(ctx, "never-uploaded.pdf", time.Minute)
		require.NoError(t, err)
		assert.NotEmpty(t, url)
	})
}

func TestListKeys(t *testing.T) {
	ctx := context.Background()
	store := New()

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	for _, key := range []string{"b.pdf", "a.pdf", "c.png"} {
		err := store.Upload(ctx, bytes.NewReader([]byte("x")), studyshare.UploadParams{ObjectKey: key})
		require.NoError(t, err)
	}

	keys, err = store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.png"}, keys)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Upload(ctx, bytes.NewReader([]byte("x")), studyshare.UploadParams{ObjectKey: "a.pdf"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "a.pdf"))

	_, err = store.Download(ctx, "a.pdf")
	assert.Error(t, err)

	assert.Error(t, store.Delete(ctx, "a.pdf"))
}

func TestBaseURL(t *testing.T) {
	store := New()
	assert.Equal(t, DefaultBaseURL, store.BaseURL())
}
