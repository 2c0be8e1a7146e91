package studyshare

import (
	"time"

	"github.com/google/uuid"
)

// RoleUser is the default role attached to every registered user.
const RoleUser = "USER"

// Field limits enforced at ingestion and registration time.
// MaxPasswordLength is bcrypt's input limit; longer passwords would be
// rejected by the hasher itself.
const (
	MinUsernameLength    = 3
	MinPasswordLength    = 8
	MaxPasswordLength    = 72
	MaxDescriptionLength = 500
	MaxLocatorLength     = 512
)

// User is a registered account. PasswordHash is the bcrypt digest of the
// password; the plaintext is never stored.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// Role is a named grant. Roles are created lazily on first reference and
// never deleted.
type Role struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Principal is the identity-and-role bundle returned by authentication.
// The caller's auth layer verifies the submitted password against
// PasswordHash using a PasswordHasher.
type Principal struct {
	UserID       uuid.UUID
	Username     string
	PasswordHash string
	Roles        []string
}

// Resource is the metadata record for one uploaded file. Locator is the
// durable reference to the backing object (https://<bucket-host>/<key>);
// the record is only ever persisted after the object exists.
type Resource struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        string    `json:"tags"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Locator     string    `json:"locator"`
}

// RoleNames returns the names of the user's roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
