// Package config provides configuration loading from environment
// variables and optional .env files.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrEndpointRequired is returned when AZURE_OPENAI_ENDPOINT is not set.
	ErrEndpointRequired = errors.New("config: AZURE_OPENAI_ENDPOINT is required")
	// ErrAPIKeyRequired is returned when AZURE_OPENAI_API_KEY is not set.
	ErrAPIKeyRequired = errors.New("config: AZURE_OPENAI_API_KEY is required")
	// ErrDeploymentRequired is returned when AZURE_OPENAI_DEPLOYMENT_NAME is not set.
	ErrDeploymentRequired = errors.New("config: AZURE_OPENAI_DEPLOYMENT_NAME is required")
)

// Config holds all configuration for the Sora client and its sinks.
// Values loaded here are defaults; explicit client options take
// precedence over the environment.
type Config struct {
	// Azure OpenAI settings
	Endpoint       string `env:"AZURE_OPENAI_ENDPOINT" json:"endpoint"`
	APIKey         string `env:"AZURE_OPENAI_API_KEY" json:"-"` // Masked in JSON
	DeploymentName string `env:"AZURE_OPENAI_DEPLOYMENT_NAME" json:"deployment_name"`
	APIVersion     string `env:"AZURE_OPENAI_API_VERSION, default=preview" json:"api_version"`

	// Download settings
	OutputDir string `env:"SORA_OUTPUT_DIR" json:"output_dir,omitempty"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from a .env file (if present) and the
// environment. Missing Azure settings are not an error here; the client
// rejects incomplete configuration at construction, after explicit
// options have had their chance to fill the gaps.
func Load() (*Config, error) {
	// Values already present in the environment win over the .env file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that all settings required to reach the service are
// present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrEndpointRequired
	}
	if c.APIKey == "" {
		return ErrAPIKeyRequired
	}
	if c.DeploymentName == "" {
		return ErrDeploymentRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive
// values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Endpoint: %s, DeploymentName: %s, APIVersion: %s, OutputDir: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Endpoint,
		c.DeploymentName,
		c.APIVersion,
		c.OutputDir,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
