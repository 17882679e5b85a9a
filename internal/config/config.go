// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

const (
	AuthModeAPIGateway = "apigw"
	AuthModeBearer     = "bearer"
	AuthModeNone       = "none"

	StorageS3    = "s3"
	StorageMinio = "minio"
)

// Config holds the settings shared by the Lambda and the dev server. A route
// group is enabled when its tables or bucket are configured, which lets one
// binary back each of the four BFF functions.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Caption route
	TableName          string `env:"TABLE_NAME"`
	CaptionPartitionID string `env:"CAPTION_PARTITION_ID" envDefault:"1"`
	ContentBaseURL     string `env:"CONTENT_BASE_URL"`

	// Prompt routes
	PromptTableName string `env:"PROMPT_TABLE_NAME"`
	UtilTableName   string `env:"UTIL_TABLE_NAME"`
	DefaultPromptID string `env:"DEFAULT_PROMPT_ID" envDefault:"default"`
	PromptSeedPath  string `env:"PROMPT_SEED_PATH"`

	// Camera route
	BucketName    string `env:"BUCKET_NAME"`
	MaxImageBytes int    `env:"MAX_IMAGE_BYTES" envDefault:"5242880"`

	AuthMode string `env:"AUTH_MODE" envDefault:"apigw"`

	Server ServerConfig
}

// ServerConfig is only read by the dev server.
type ServerConfig struct {
	ListenAddr     string `env:"LISTEN_ADDR" envDefault:":8080"`
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"s3"`
	Minio          MinioConfig
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	Region    string `env:"MINIO_REGION" envDefault:"us-east-1"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses the given variables instead of the process environment
// when environment is non-nil.
func LoadFrom(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.AuthMode = strings.ToLower(strings.TrimSpace(c.AuthMode))
	c.Server.StorageBackend = strings.ToLower(strings.TrimSpace(c.Server.StorageBackend))
	c.TableName = strings.TrimSpace(c.TableName)
	c.PromptTableName = strings.TrimSpace(c.PromptTableName)
	c.UtilTableName = strings.TrimSpace(c.UtilTableName)
	c.BucketName = strings.TrimSpace(c.BucketName)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.LogFormat)
	}

	switch c.AuthMode {
	case AuthModeAPIGateway, AuthModeBearer, AuthModeNone:
	default:
		return fmt.Errorf("invalid auth mode: %s (must be apigw, bearer, or none)", c.AuthMode)
	}
	switch c.Server.StorageBackend {
	case StorageS3, StorageMinio:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be s3 or minio)", c.Server.StorageBackend)
	}

	if (c.PromptTableName == "") != (c.UtilTableName == "") {
		return errors.New("PROMPT_TABLE_NAME and UTIL_TABLE_NAME must be set together")
	}
	if c.TableName != "" && strings.TrimSpace(c.CaptionPartitionID) == "" {
		return errors.New("CAPTION_PARTITION_ID must not be empty")
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive: %d", c.MaxImageBytes)
	}
	if !c.CaptionEnabled() && !c.PromptsEnabled() && !c.CameraEnabled() {
		return errors.New("no route enabled: set TABLE_NAME, PROMPT_TABLE_NAME/UTIL_TABLE_NAME, or BUCKET_NAME")
	}
	return nil
}

func (c *Config) CaptionEnabled() bool { return c.TableName != "" }

func (c *Config) PromptsEnabled() bool { return c.PromptTableName != "" && c.UtilTableName != "" }

func (c *Config) CameraEnabled() bool { return c.BucketName != "" }
