package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.S3.Bucket)
	assert.Equal(t, 15*time.Minute, cfg.PreviewTTL())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PREVIEW_TTL_SECONDS", "60")
	t.Setenv("AWS_S3_BUCKET", "study-bucket")
	t.Setenv("AWS_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("AWS_S3_USE_PATH_STYLE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, time.Minute, cfg.PreviewTTL())
	assert.Equal(t, "study-bucket", cfg.S3.Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	assert.True(t, cfg.S3.UsePathStyle)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ServerConfig)
		expectError bool
	}{
		{
			name:        "defaults are valid",
			mutate:      func(c *ServerConfig) {},
			expectError: false,
		},
		{
			name:        "empty port",
			mutate:      func(c *ServerConfig) { c.Port = "" },
			expectError: true,
		},
		{
			name:        "non-positive preview TTL",
			mutate:      func(c *ServerConfig) { c.PreviewTTLSeconds = 0 },
			expectError: true,
		},
		{
			name:        "postgres URL accepted",
			mutate:      func(c *ServerConfig) { c.DatabaseURL = "postgres://localhost:5432/studyshare" },
			expectError: false,
		},
		{
			name:        "postgresql URL accepted",
			mutate:      func(c *ServerConfig) { c.DatabaseURL = "postgresql://localhost:5432/studyshare" },
			expectError: false,
		},
		{
			name:        "unsupported database URL",
			mutate:      func(c *ServerConfig) { c.DatabaseURL = "mysql://localhost:3306/studyshare" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ServerConfig{Port: "8080", PreviewTTLSeconds: 900}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildServicesInMemory(t *testing.T) {
	cfg := &ServerConfig{Port: "8080", PreviewTTLSeconds: 900}

	svc, identitySvc, err := cfg.BuildServices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, svc)
	assert.NotNil(t, identitySvc)
}
