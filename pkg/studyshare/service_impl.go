package studyshare

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPreviewTTL bounds preview URL validity when no TTL is configured.
const DefaultPreviewTTL = 15 * time.Minute

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	previewTTL time.Duration
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the resource metadata repository
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithPreviewTTL sets the validity window for preview URLs
func WithPreviewTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.previewTTL = ttl
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		previewTTL: DefaultPreviewTTL,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.previewTTL <= 0 {
		return nil, fmt.Errorf("preview TTL must be positive")
	}

	return s, nil
}

// acceptedContentType reports whether the declared media type may be
// ingested: PDF documents and any image format.
func acceptedContentType(contentType string) bool {
	if contentType == "application/pdf" {
		return true
	}
	return strings.HasPrefix(contentType, "image/")
}

// newObjectKey derives a collision-free storage key: a random 128-bit
// token plus the original file extension. The random token is the sole
// protection against the blob store's overwrite-on-same-key behavior.
func newObjectKey(fileName string) string {
	return uuid.New().String() + path.Ext(fileName)
}

func (s *service) IngestResource(ctx context.Context, req IngestResourceRequest) (*Resource, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len(req.Description) > MaxDescriptionLength {
		return nil, &ValidationError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)}
	}
	if strings.TrimSpace(req.Tags) == "" {
		return nil, &ValidationError{Field: "tags", Reason: "must not be empty"}
	}
	if !acceptedContentType(req.ContentType) {
		return nil, &ValidationError{Field: "content_type", Reason: fmt.Sprintf("%q is not an accepted media type (PDF or image required)", req.ContentType)}
	}

	key := newObjectKey(req.FileName)

	// The locator is fully determined before any write; reject an
	// overlong one here so a bad file extension cannot orphan a blob.
	locator := BuildLocator(s.blobStore.BaseURL(), key)
	if len(locator) > MaxLocatorLength {
		return nil, &ValidationError{Field: "file_name", Reason: fmt.Sprintf("derived storage locator exceeds %d characters", MaxLocatorLength)}
	}

	// Blob first, metadata second. A failure here leaves both stores
	// untouched; a failure after this point leaves an orphaned blob but
	// never a dangling Resource.
	if err := s.blobStore.Upload(ctx, req.Content, UploadParams{ObjectKey: key, MimeType: req.ContentType}); err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: err}
	}

	resource := &Resource{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		UploadedAt:  time.Now().UTC(),
		Locator:     locator,
	}

	if err := s.repository.CreateResource(ctx, resource); err != nil {
		return nil, &PersistenceError{Op: "create resource", ObjectKey: key, Err: err}
	}

	return resource, nil
}

func (s *service) GetResource(ctx context.Context, id uuid.UUID) (*Resource, error) {
	return s.repository.GetResource(ctx, id)
}

func (s *service) ListResources(ctx context.Context) ([]*Resource, error) {
	return s.repository.ListResources(ctx)
}

func (s *service) GetPreviewURL(ctx context.Context, id uuid.UUID) (string, error) {
	resource, err := s.repository.GetResource(ctx, id)
	if err != nil {
		return "", err
	}

	key, err := KeyFromLocator(s.blobStore.BaseURL(), resource.Locator)
	if err != nil {
		return "", err
	}

	url, err := s.blobStore.GetPreviewURL(ctx, key, s.previewTTL)
	if err != nil {
		return "", &StorageError{Key: key, Op: "presign", Err: err}
	}

	return url, nil
}

func (s *service) FindOrphanedBlobs(ctx context.Context) ([]string, error) {
	keys, err := s.blobStore.ListKeys(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	resources, err := s.repository.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	referenced := make(map[string]struct{}, len(resources))
	for _, resource := range resources {
		key, err := KeyFromLocator(s.blobStore.BaseURL(), resource.Locator)
		if err != nil {
			// A malformed locator is a data-integrity problem, not an
			// orphaned blob; skip it rather than flag its object.
			continue
		}
		referenced[key] = struct{}{}
	}

	var orphans []string
	for _, key := range keys {
		if _, ok := referenced[key]; !ok {
			orphans = append(orphans, key)
		}
	}
	sort.Strings(orphans)

	return orphans, nil
}
