// Package config assembles the platform's services from environment
// configuration.
package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/studyshare/platform/pkg/studyshare"
	"github.com/studyshare/platform/pkg/studyshare/migrations"
	"github.com/studyshare/platform/pkg/studyshare/password"
	memoryrepo "github.com/studyshare/platform/pkg/studyshare/repo/memory"
	postgresrepo "github.com/studyshare/platform/pkg/studyshare/repo/postgres"
	memorystorage "github.com/studyshare/platform/pkg/studyshare/storage/memory"
	s3storage "github.com/studyshare/platform/pkg/studyshare/storage/s3"
)

// ServerConfig represents server configuration for the platform service.
// An empty DatabaseURL selects the in-memory repository; an empty S3
// bucket selects the in-memory blob store.
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	JWTSecret         string `env:"JWT_SECRET" env-default:"dev-secret"`
	PreviewTTLSeconds int    `env:"PREVIEW_TTL_SECONDS" env-default:"900"`

	S3 S3Config
}

// S3Config configures the S3 blob store backend
type S3Config struct {
	Bucket          string `env:"AWS_S3_BUCKET" env-default:""`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`

	CreateBucketIfNotExist bool `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads configuration from the process environment
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.PreviewTTLSeconds <= 0 {
		return errors.New("preview TTL must be positive")
	}
	if c.DatabaseURL != "" &&
		!strings.HasPrefix(c.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("unsupported DATABASE_URL format (leave empty for in-memory, or use postgresql://...)")
	}
	return nil
}

// PreviewTTL returns the configured preview URL validity window
func (c *ServerConfig) PreviewTTL() time.Duration {
	return time.Duration(c.PreviewTTLSeconds) * time.Second
}

// BuildServices creates the resource and identity services from the
// configuration. For Postgres it runs pending migrations first.
func (c *ServerConfig) BuildServices(ctx context.Context) (studyshare.Service, studyshare.IdentityService, error) {
	repo, identityRepo, err := c.buildRepositories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repositories: %w", err)
	}

	store, err := c.buildBlobStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	svc, err := studyshare.New(
		studyshare.WithRepository(repo),
		studyshare.WithBlobStore(store),
		studyshare.WithPreviewTTL(c.PreviewTTL()),
	)
	if err != nil {
		return nil, nil, err
	}

	identitySvc, err := studyshare.NewIdentityService(identityRepo, password.NewHasher())
	if err != nil {
		return nil, nil, err
	}

	return svc, identitySvc, nil
}

func (c *ServerConfig) buildRepositories(ctx context.Context) (studyshare.Repository, studyshare.IdentityRepository, error) {
	if c.DatabaseURL == "" {
		repo := memoryrepo.New()
		return repo, repo, nil
	}

	if err := RunMigrations(ctx, c.DatabaseURL); err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(ctx, c.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, nil, fmt.Errorf("database ping failed: %w", err)
	}

	repo := postgresrepo.NewWithPool(pool)
	return repo, repo, nil
}

func (c *ServerConfig) buildBlobStore() (studyshare.BlobStore, error) {
	if c.S3.Bucket == "" {
		return memorystorage.New(), nil
	}

	return s3storage.New(s3storage.Config{
		Region:                 c.S3.Region,
		Bucket:                 c.S3.Bucket,
		AccessKeyID:            c.S3.AccessKeyID,
		SecretAccessKey:        c.S3.SecretAccessKey,
		Endpoint:               c.S3.Endpoint,
		UsePathStyle:           c.S3.UsePathStyle,
		CreateBucketIfNotExist: c.S3.CreateBucketIfNotExist,
	})
}

// RunMigrations applies the embedded goose migrations to the database.
func RunMigrations(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
