package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studyshare/platform/pkg/studyshare"
)

// DefaultBaseURL addresses objects in the in-memory backend. The host is
// not routable; it only has to parse like a real bucket host so locator
// round-trips behave as in production.
const DefaultBaseURL = "https://memory.blob.invalid"

// Backend is an in-memory implementation of the studyshare.BlobStore
// interface, used in tests and local development.
type Backend struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	mimeTypes map[string]string
	baseURL   string
}

// New creates a new in-memory storage backend
func New() studyshare.BlobStore {
	return &Backend{
		objects:   make(map[string][]byte),
		mimeTypes: make(map[string]string),
		baseURL:   DefaultBaseURL,
	}
}

// Upload writes the reader's bytes under params.ObjectKey, overwriting any
// existing object
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params studyshare.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[params.ObjectKey] = data
	b.mimeTypes[params.ObjectKey] = params.MimeType
	return nil
}

// Download returns the bytes stored under objectKey
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// GetPreviewURL returns a fake time-boxed URL for objectKey. Like a real
// presigner it does not check that the object exists, and every call
// embeds a fresh token.
func (b *Backend) GetPreviewURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}
	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?expires=%d&token=%s", b.baseURL, objectKey, expires, uuid.NewString()), nil
}

// ListKeys returns all stored object keys, sorted
func (b *Backend) ListKeys(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes the object stored under objectKey
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return errors.New("object not found")
	}

	delete(b.objects, objectKey)
	delete(b.mimeTypes, objectKey)
	return nil
}

// BaseURL returns the backend's object address prefix
func (b *Backend) BaseURL() string {
	return b.baseURL
}
