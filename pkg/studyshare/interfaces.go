package studyshare

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore defines the interface for object storage backends. Writes
// overwrite on key collision; key uniqueness is the caller's concern.
type BlobStore interface {
	// Upload writes the reader's bytes under params.ObjectKey
	Upload(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download returns the bytes stored under objectKey
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// GetPreviewURL returns a URL granting read access to objectKey for the
	// ttl window. It does not verify the object exists.
	GetPreviewURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error)

	// ListKeys returns every object key currently stored
	ListKeys(ctx context.Context) ([]string, error)

	// Delete removes the object stored under objectKey
	Delete(ctx context.Context, objectKey string) error

	// BaseURL returns the public base URL objects are addressed under,
	// without a trailing slash
	BaseURL() string
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
}

// Repository defines the interface for resource metadata persistence
type Repository interface {
	CreateResource(ctx context.Context, resource *Resource) error
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)
	ListResources(ctx context.Context) ([]*Resource, error)
}

// IdentityRepository defines the interface for user and role persistence.
// CreateUser returns ErrUsernameTaken on a duplicate username, and
// GetOrCreateRole must be idempotent under concurrent callers.
type IdentityRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetOrCreateRole(ctx context.Context, name string) (*Role, error)
}

// PasswordHasher wraps a one-way adaptive hash for password storage.
// Verify returns an error only for malformed digests; a wrong password is
// (false, nil).
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}
