package configs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// setRequiredStorageEnv fills in the variables without which LoadConfig always fails.
func setRequiredStorageEnv(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "peerchat-attachments")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "minioadmin")
	t.Setenv("S3_SECRET_ACCESS_KEY", "minioadmin")
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	req := require.New(t)

	setRequiredStorageEnv(t)
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PUSH_ENDPOINT", "")
	t.Setenv("PUSH_SERVER_KEY", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig()
	req.NoError(err)

	req.Equal("development", cfg.Environment)
	req.Equal(8080, cfg.Port)
	req.Empty(cfg.AllowedOrigins)
	req.NotEmpty(cfg.JWTSecret)
	req.Equal("https://fcm.googleapis.com/fcm/send", cfg.PushEndpoint)
	req.Empty(cfg.PushServerKey)
	req.NotEmpty(cfg.DatabaseDSN)
}

func TestLoadConfigParsesAllowedOrigins(t *testing.T) {
	req := require.New(t)

	setRequiredStorageEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com ,")

	cfg, err := LoadConfig()
	req.NoError(err)
	req.Equal([]string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigRejectsInvalidPort(t *testing.T) {
	req := require.New(t)

	setRequiredStorageEnv(t)

	t.Setenv("PORT", "not-a-number")
	_, err := LoadConfig()
	req.Error(err)

	t.Setenv("PORT", "80")
	_, err = LoadConfig()
	req.Error(err)
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	req := require.New(t)

	setRequiredStorageEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://chat:secret@db:5432/peerchat")

	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig()
	req.ErrorContains(err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "production-secret")
	t.Setenv("DATABASE_URL", "")
	_, err = LoadConfig()
	req.ErrorContains(err, "DATABASE_URL")
}

func TestLoadConfigRequiresStorageSettings(t *testing.T) {
	req := require.New(t)

	setRequiredStorageEnv(t)
	t.Setenv("S3_BUCKET_NAME", "")

	_, err := LoadConfig()
	req.ErrorContains(err, "S3_BUCKET_NAME")
}
