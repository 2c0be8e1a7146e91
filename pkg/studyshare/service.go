package studyshare

import (
	"context"

	"github.com/google/uuid"
)

// Service is the resource ingestion and delivery pipeline.
type Service interface {
	// IngestResource validates the upload, writes the bytes to the blob
	// store under a collision-free key, then persists the metadata record.
	IngestResource(ctx context.Context, req IngestResourceRequest) (*Resource, error)

	// GetResource returns the metadata record for id
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)

	// ListResources returns all resources, newest first
	ListResources(ctx context.Context) ([]*Resource, error)

	// GetPreviewURL resolves a resource to a freshly time-boxed read URL
	GetPreviewURL(ctx context.Context, id uuid.UUID) (string, error)

	// FindOrphanedBlobs reports object keys no resource record references.
	// It is a report only; nothing is deleted.
	FindOrphanedBlobs(ctx context.Context) ([]string, error)
}

// IdentityService registers and looks up user accounts.
type IdentityService interface {
	// Register validates the request, hashes the password, attaches the
	// default role and persists the new user.
	Register(ctx context.Context, req RegisterUserRequest) (*User, error)

	// Authenticate returns the principal for username. Password
	// verification is the caller's responsibility via PasswordHasher.
	Authenticate(ctx context.Context, username string) (*Principal, error)
}
