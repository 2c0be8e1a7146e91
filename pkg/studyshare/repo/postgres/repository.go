package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyshare/platform/pkg/studyshare"
)

// DBTX is an interface that allows us to use either a database connection
// or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements studyshare.Repository and
// studyshare.IdentityRepository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// handlePostgresError translates driver errors into domain errors
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "username") {
				return studyshare.ErrUsernameTaken
			}
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Resource operations

func (r *Repository) CreateResource(ctx context.Context, resource *studyshare.Resource) error {
	query := `
		INSERT INTO resources (id, title, description, tags, uploaded_at, locator)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		resource.ID, resource.Title, resource.Description,
		resource.Tags, resource.UploadedAt, resource.Locator)

	if err != nil {
		return r.handlePostgresError("create resource", err)
	}

	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*studyshare.Resource, error) {
	query := `
		SELECT id, title, description, tags, uploaded_at, locator
		FROM resources WHERE id = $1`

	var resource studyshare.Resource
	err := r.db.QueryRow(ctx, query, id).Scan(
		&resource.ID, &resource.Title, &resource.Description,
		&resource.Tags, &resource.UploadedAt, &resource.Locator)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, studyshare.ErrResourceNotFound
		}
		return nil, r.handlePostgresError("get resource", err)
	}

	return &resource, nil
}

func (r *Repository) ListResources(ctx context.Context) ([]*studyshare.Resource, error) {
	query := `
		SELECT id, title, description, tags, uploaded_at, locator
		FROM resources ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list resources", err)
	}
	defer rows.Close()

	var resources []*studyshare.Resource
	for rows.Next() {
		var resource studyshare.Resource
		if err := rows.Scan(
			&resource.ID, &resource.Title, &resource.Description,
			&resource.Tags, &resource.UploadedAt, &resource.Locator); err != nil {
			return nil, err
		}
		resources = append(resources, &resource)
	}

	return resources, rows.Err()
}

// Identity operations

// txStarter is satisfied by *pgxpool.Pool and pgx.Tx, letting CreateUser
// run its inserts atomically when the handle supports transactions.
type txStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CreateUser inserts the user row and its role links. With a
// transaction-capable handle the inserts commit together, so a failed
// role link never leaves a role-less user holding the username.
func (r *Repository) CreateUser(ctx context.Context, user *studyshare.User) error {
	starter, ok := r.db.(txStarter)
	if !ok {
		return r.createUser(ctx, r.db, user)
	}

	tx, err := starter.Begin(ctx)
	if err != nil {
		return r.handlePostgresError("begin create user", err)
	}
	defer tx.Rollback(ctx)

	if err := r.createUser(ctx, tx, user); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return r.handlePostgresError("commit create user", err)
	}

	return nil
}

func (r *Repository) createUser(ctx context.Context, db DBTX, user *studyshare.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := db.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt)

	if err != nil {
		return r.handlePostgresError("create user", err)
	}

	for _, role := range user.Roles {
		linkQuery := `
			INSERT INTO user_roles (user_id, role_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := db.Exec(ctx, linkQuery, user.ID, role.ID); err != nil {
			return r.handlePostgresError("attach role", err)
		}
	}

	return nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*studyshare.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users WHERE username = $1`

	var user studyshare.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, studyshare.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user", err)
	}

	roleQuery := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name`

	rows, err := r.db.Query(ctx, roleQuery, user.ID)
	if err != nil {
		return nil, r.handlePostgresError("get user roles", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role studyshare.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		user.Roles = append(user.Roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetOrCreateRole inserts the role if absent, then reads it back. The
// ON CONFLICT clause makes concurrent first references converge on one
// row.
func (r *Repository) GetOrCreateRole(ctx context.Context, name string) (*studyshare.Role, error) {
	insertQuery := `
		INSERT INTO roles (id, name)
		VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`

	if _, err := r.db.Exec(ctx, insertQuery, uuid.New(), name); err != nil {
		return nil, r.handlePostgresError("create role", err)
	}

	var role studyshare.Role
	err := r.db.QueryRow(ctx, `SELECT id, name FROM roles WHERE name = $1`, name).Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, r.handlePostgresError("get role", err)
	}

	return &role, nil
}
