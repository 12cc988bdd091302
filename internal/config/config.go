package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	// Remote store
	DatabaseType   string `yaml:"database_type"`
	DatabaseURL    string `yaml:"database_url"`
	DatabasePath   string `yaml:"db_path"`
	MigrationsPath string `yaml:"migrations_path"`
	CreatedAtOrder string `yaml:"created_at_order"`

	// Local store
	LocalBackend  string `yaml:"local_backend"`
	LocalPath     string `yaml:"local_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`

	// Media
	MediaBackend       string `yaml:"media_backend"`
	MediaBucket        string `yaml:"media_bucket"`
	MediaPublicBaseURL string `yaml:"media_public_base_url"`
	MediaDir           string `yaml:"media_dir"`
	AWSRegion          string `yaml:"aws_region"`
	S3Endpoint         string `yaml:"s3_endpoint"`
	GCSCredentialsFile string `yaml:"gcs_credentials_file"`

	// Identity
	JWTSecret       string        `yaml:"jwt_secret"`
	SessionDuration time.Duration `yaml:"session_duration"`
	SESFromEmail    string        `yaml:"ses_from_email"`
	SESFromName     string        `yaml:"ses_from_name"`
	AppBaseURL      string        `yaml:"app_base_url"`
	PublishAdmins   []string      `yaml:"publish_admins"`

	LogMode string `yaml:"log_mode"`
	Debug   bool   `yaml:"debug"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		DatabaseType:    "sqlite",
		DatabasePath:    "./readinggame.db",
		CreatedAtOrder:  "asc",
		LocalBackend:    "sqlite",
		LocalPath:       "./localstore.db",
		RedisAddr:       "localhost:6379",
		RedisPrefix:     "readinggame:",
		MediaBackend:    "disk",
		MediaBucket:     "game-images",
		MediaDir:        "./media",
		AWSRegion:       "us-east-1",
		SessionDuration: 24 * time.Hour,
		SESFromName:     "Reading Game",
		AppBaseURL:      "http://localhost:8080",
		LogMode:         "dev",
	}
}

// Load reads configuration from an optional .env file, an optional YAML file named by
// CONFIG_FILE and environment variables, in that order of increasing precedence.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.DatabaseType = getEnv("DATABASE_TYPE", c.DatabaseType)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DatabasePath = getEnv("DB_PATH", c.DatabasePath)
	c.MigrationsPath = getEnv("MIGRATIONS_PATH", c.MigrationsPath)
	c.CreatedAtOrder = getEnv("CREATED_AT_ORDER", c.CreatedAtOrder)

	c.LocalBackend = getEnv("LOCAL_BACKEND", c.LocalBackend)
	c.LocalPath = getEnv("LOCAL_PATH", c.LocalPath)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisPrefix = getEnv("REDIS_PREFIX", c.RedisPrefix)

	c.MediaBackend = getEnv("MEDIA_BACKEND", c.MediaBackend)
	c.MediaBucket = getEnv("MEDIA_BUCKET", c.MediaBucket)
	c.MediaPublicBaseURL = getEnv("MEDIA_PUBLIC_BASE_URL", c.MediaPublicBaseURL)
	c.MediaDir = getEnv("MEDIA_DIR", c.MediaDir)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.S3Endpoint = getEnv("S3_ENDPOINT", c.S3Endpoint)
	c.GCSCredentialsFile = getEnv("GCS_CREDENTIALS_FILE", c.GCSCredentialsFile)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.SESFromEmail = getEnv("SES_FROM_EMAIL", c.SESFromEmail)
	c.SESFromName = getEnv("SES_FROM_NAME", c.SESFromName)
	c.AppBaseURL = getEnv("APP_BASE_URL", c.AppBaseURL)
	c.LogMode = getEnv("LOG_MODE", c.LogMode)
	if v := os.Getenv("PUBLISH_ADMINS"); v != "" {
		c.PublishAdmins = splitList(v)
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.RedisDB = n
	}
	if v := os.Getenv("SESSION_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_DURATION %q: %w", v, err)
		}
		c.SessionDuration = d
	}
	if v := os.Getenv("DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG %q: %w", v, err)
		}
		c.Debug = b
	}
	return nil
}

// Validate rejects values the rest of the program cannot interpret
func (c *Config) Validate() error {
	switch strings.ToLower(c.CreatedAtOrder) {
	case "asc", "desc":
	default:
		return fmt.Errorf("invalid CREATED_AT_ORDER %q: want asc or desc", c.CreatedAtOrder)
	}
	switch strings.ToLower(c.LocalBackend) {
	case "memory", "sqlite", "redis", "none":
	default:
		return fmt.Errorf("invalid LOCAL_BACKEND %q", c.LocalBackend)
	}
	switch strings.ToLower(c.MediaBackend) {
	case "disk", "s3", "gcs":
	default:
		return fmt.Errorf("invalid MEDIA_BACKEND %q", c.MediaBackend)
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("session duration must be positive")
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma separated value, dropping blank entries
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
