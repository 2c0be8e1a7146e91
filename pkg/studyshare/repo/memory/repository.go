package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/studyshare/platform/pkg/studyshare"
)

// Repository implements studyshare.Repository and
// studyshare.IdentityRepository using in-memory storage.
type Repository struct {
	mu          sync.RWMutex
	resources   map[uuid.UUID]*studyshare.Resource
	users       map[uuid.UUID]*studyshare.User
	usersByName map[string]uuid.UUID
	roles       map[string]*studyshare.Role
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		resources:   make(map[uuid.UUID]*studyshare.Resource),
		users:       make(map[uuid.UUID]*studyshare.User),
		usersByName: make(map[string]uuid.UUID),
		roles:       make(map[string]*studyshare.Role),
	}
}

// Resource operations

func (r *Repository) CreateResource(ctx context.Context, resource *studyshare.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	resourceCopy := *resource
	r.resources[resource.ID] = &resourceCopy

	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*studyshare.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resource, exists := r.resources[id]
	if !exists {
		return nil, studyshare.ErrResourceNotFound
	}

	resourceCopy := *resource
	return &resourceCopy, nil
}

func (r *Repository) ListResources(ctx context.Context) ([]*studyshare.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*studyshare.Resource, 0, len(r.resources))
	for _, resource := range r.resources {
		resourceCopy := *resource
		result = append(result, &resourceCopy)
	}

	// Sort by upload time descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})

	return result, nil
}

// Identity operations

func (r *Repository) CreateUser(ctx context.Context, user *studyshare.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usersByName[user.Username]; exists {
		return studyshare.ErrUsernameTaken
	}

	userCopy := *user
	userCopy.Roles = append([]studyshare.Role(nil), user.Roles...)
	r.users[user.ID] = &userCopy
	r.usersByName[user.Username] = user.ID

	return nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*studyshare.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.usersByName[username]
	if !exists {
		return nil, studyshare.ErrUserNotFound
	}

	user := r.users[id]
	userCopy := *user
	userCopy.Roles = append([]studyshare.Role(nil), user.Roles...)
	return &userCopy, nil
}

// GetOrCreateRole returns the role named name, creating it on first
// reference. The write lock makes create-if-absent atomic, so concurrent
// callers always converge on a single row.
func (r *Repository) GetOrCreateRole(ctx context.Context, name string) (*studyshare.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if role, exists := r.roles[name]; exists {
		roleCopy := *role
		return &roleCopy, nil
	}

	role := &studyshare.Role{ID: uuid.New(), Name: name}
	r.roles[name] = role

	roleCopy := *role
	return &roleCopy, nil
}
