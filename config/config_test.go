package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv removes every variable the config reads.
func clearEnv() {
	os.Unsetenv("AZURE_OPENAI_ENDPOINT")
	os.Unsetenv("AZURE_OPENAI_API_KEY")
	os.Unsetenv("AZURE_OPENAI_DEPLOYMENT_NAME")
	os.Unsetenv("AZURE_OPENAI_API_VERSION")
	os.Unsetenv("SORA_OUTPUT_DIR")
	os.Unsetenv("S3_BUCKET")
	os.Unsetenv("S3_REGION")
	os.Unsetenv("AWS_ACCESS_KEY_ID")
	os.Unsetenv("AWS_SECRET_ACCESS_KEY")
	os.Unsetenv("LOG_FORMAT")
	os.Unsetenv("LOG_LEVEL")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "preview", cfg.APIVersion)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Endpoint)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv()
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_KEY", "secret-key")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "sora-deployment")
	t.Setenv("AZURE_OPENAI_API_VERSION", "2025-04-01-preview")
	t.Setenv("SORA_OUTPUT_DIR", "/var/videos")
	t.Setenv("S3_BUCKET", "my-bucket")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.openai.azure.com", cfg.Endpoint)
	assert.Equal(t, "secret-key", cfg.APIKey)
	assert.Equal(t, "sora-deployment", cfg.DeploymentName)
	assert.Equal(t, "2025-04-01-preview", cfg.APIVersion)
	assert.Equal(t, "/var/videos", cfg.OutputDir)
	assert.True(t, cfg.S3Enabled())
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv()

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"AZURE_OPENAI_ENDPOINT=https://dotenv.openai.azure.com\n"+
			"AZURE_OPENAI_DEPLOYMENT_NAME=dotenv-deployment\n",
	), 0600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// A real environment variable wins over the .env file.
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "env-deployment")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://dotenv.openai.azure.com", cfg.Endpoint)
	assert.Equal(t, "env-deployment", cfg.DeploymentName)
}

func TestValidate(t *testing.T) {
	t.Run("missing endpoint", func(t *testing.T) {
		cfg := &Config{APIKey: "key", DeploymentName: "sora"}
		assert.ErrorIs(t, cfg.Validate(), ErrEndpointRequired)
	})

	t.Run("missing API key", func(t *testing.T) {
		cfg := &Config{Endpoint: "https://example.openai.azure.com", DeploymentName: "sora"}
		assert.ErrorIs(t, cfg.Validate(), ErrAPIKeyRequired)
	})

	t.Run("missing deployment name", func(t *testing.T) {
		cfg := &Config{Endpoint: "https://example.openai.azure.com", APIKey: "key"}
		assert.ErrorIs(t, cfg.Validate(), ErrDeploymentRequired)
	})

	t.Run("complete config is valid", func(t *testing.T) {
		cfg := &Config{
			Endpoint:       "https://example.openai.azure.com",
			APIKey:         "key",
			DeploymentName: "sora",
		}
		assert.NoError(t, cfg.Validate())
	})
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := &Config{
		Endpoint:           "https://example.openai.azure.com",
		APIKey:             "super-secret",
		DeploymentName:     "sora",
		AWSAccessKeyID:     "AKIA123",
		AWSSecretAccessKey: "aws-secret",
	}

	s := cfg.String()
	assert.NotContains(t, s, "super-secret")
	assert.NotContains(t, s, "AKIA123")
	assert.NotContains(t, s, "aws-secret")
	assert.Contains(t, s, "sora")
}

func TestNewLogger(t *testing.T) {
	t.Run("text format by default", func(t *testing.T) {
		cfg := &Config{LogFormat: "text", LogLevel: "info"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("debug level enables debug logs", func(t *testing.T) {
		cfg := &Config{LogFormat: "json", LogLevel: "debug"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		cfg := &Config{LogLevel: "shout"}
		logger := cfg.NewLogger()
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestDebugLoggingOffByDefault(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})
	logger := slog.New(handler)
	logger.Debug("payload", slog.String("api_key", "secret"))

	assert.Empty(t, buf.String())
}
