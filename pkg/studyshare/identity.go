package studyshare

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// identityService implements the IdentityService interface
type identityService struct {
	identities IdentityRepository
	hasher     PasswordHasher
}

// NewIdentityService creates an IdentityService over the given identity
// repository and password hasher.
func NewIdentityService(identities IdentityRepository, hasher PasswordHasher) (IdentityService, error) {
	if identities == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	return &identityService{identities: identities, hasher: hasher}, nil
}

func (s *identityService) Register(ctx context.Context, req RegisterUserRequest) (*User, error) {
	if strings.TrimSpace(req.Username) == "" || utf8.RuneCountInString(req.Username) < MinUsernameLength {
		return nil, &ValidationError{Field: "username", Reason: fmt.Sprintf("must be at least %d characters long", MinUsernameLength)}
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return nil, &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters long", MinPasswordLength)}
	}
	if len(req.Password) > MaxPasswordLength {
		return nil, &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at most %d bytes long", MaxPasswordLength)}
	}

	_, err := s.identities.GetUserByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role, err := s.identities.GetOrCreateRole(ctx, RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default role: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: digest,
		Roles:        []Role{*role},
		CreatedAt:    time.Now().UTC(),
	}

	// The repository enforces username uniqueness; a concurrent duplicate
	// surfaces here as ErrUsernameTaken despite the lookup above.
	if err := s.identities.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *identityService) Authenticate(ctx context.Context, username string) (*Principal, error) {
	user, err := s.identities.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return &Principal{
		UserID:       user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Roles:        user.RoleNames(),
	}, nil
}
