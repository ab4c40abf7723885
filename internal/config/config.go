// Package config provides configuration loading and validation for the portfolio builder.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/portfolio-builder/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "portfolio.yaml"

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// LLM providers
const (
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

// Config is the application configuration. File values are applied over defaults and
// environment variables are applied over the file.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	LLM     LLMConfig      `yaml:"llm"`
	Store   StoreConfig    `yaml:"store"`
	Redis   RedisConfig    `yaml:"redis"`
	MinIO   MinIOConfig    `yaml:"minio"`
	Logging logging.Config `yaml:"logging"`
	Session SessionConfig  `yaml:"session"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// LLMConfig selects and configures the model backend
type LLMConfig struct {
	Provider       string            `yaml:"provider"` // gemini or local
	APIKey         string            `yaml:"api_key"`
	Models         map[string]string `yaml:"models"` // tier -> model name
	LocalBaseURL   string            `yaml:"local_base_url"`
	LocalModel     string            `yaml:"local_model"`
	RequestTimeout time.Duration     `yaml:"request_timeout"`
}

// StoreConfig selects the portfolio and account store
type StoreConfig struct {
	Driver      string `yaml:"driver"` // postgres or memory
	DatabaseURL string `yaml:"database_url"`
	Seed        bool   `yaml:"seed"` // seed demo candidates into the memory store
}

// RedisConfig configures the upload lock backend. An empty address selects the
// in-process locker.
type RedisConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

// MinIOConfig configures resume file storage. An empty endpoint selects in-memory storage.
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Location        string `yaml:"location"`
	UseSSL          bool   `yaml:"use_ssl"`
}

// SessionConfig tunes the upload flow
type SessionConfig struct {
	UploadTimeout     time.Duration `yaml:"upload_timeout"`
	RequireEmailMatch bool          `yaml:"require_email_match"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
			MaxUploadBytes: 10 << 20,
		},
		LLM: LLMConfig{
			Provider:       ProviderGemini,
			LocalBaseURL:   "http://localhost:11434/v1/",
			LocalModel:     "llama3.2:3b",
			RequestTimeout: 2 * time.Minute,
		},
		Store: StoreConfig{
			Driver: StoreDriverPostgres,
		},
		Redis: RedisConfig{
			LockTTL: 3 * time.Minute,
		},
		MinIO: MinIOConfig{
			Bucket: "resumes",
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
		Session: SessionConfig{
			UploadTimeout: 90 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and the environment.
// An empty path reads DefaultConfigFile when it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	// The lock must outlive the upload it guards.
	if cfg.Redis.LockTTL < cfg.Session.UploadTimeout {
		cfg.Redis.LockTTL = cfg.Session.UploadTimeout + 30*time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	c.Server.Port = envInt("PORT", c.Server.Port)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.LLM.Provider = envString("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.APIKey = envString("GEMINI_API_KEY", c.LLM.APIKey)
	c.LLM.LocalBaseURL = envString("LOCAL_LLM_URL", c.LLM.LocalBaseURL)
	c.LLM.LocalModel = envString("LOCAL_LLM_MODEL", c.LLM.LocalModel)

	c.Store.Driver = envString("STORE", c.Store.Driver)
	c.Store.DatabaseURL = envString("DATABASE_URL", c.Store.DatabaseURL)

	c.Redis.Address = envString("REDIS_ADDR", c.Redis.Address)
	c.Redis.Password = envString("REDIS_PASSWORD", c.Redis.Password)

	c.MinIO.Endpoint = envString("MINIO_ENDPOINT", c.MinIO.Endpoint)
	c.MinIO.AccessKeyID = envString("MINIO_ACCESS_KEY", c.MinIO.AccessKeyID)
	c.MinIO.SecretAccessKey = envString("MINIO_SECRET_KEY", c.MinIO.SecretAccessKey)
	c.MinIO.Bucket = envString("MINIO_BUCKET", c.MinIO.Bucket)

	c.Logging.Level = envString("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = envString("LOG_FORMAT", c.Logging.Format)

	c.Session.UploadTimeout = envDuration("UPLOAD_TIMEOUT", c.Session.UploadTimeout)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("config error: 'server.max_upload_bytes' must be positive")
	}

	switch c.LLM.Provider {
	case ProviderGemini:
	case ProviderLocal:
		if c.LLM.LocalBaseURL == "" {
			return fmt.Errorf("config error: 'llm.local_base_url' is required for the local provider")
		}
	default:
		return fmt.Errorf("config error: unknown llm provider %q", c.LLM.Provider)
	}

	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		// database_url is checked when the store is opened so that CLI commands
		// which never touch the database can still load the config.
	default:
		return fmt.Errorf("config error: unknown store driver %q", c.Store.Driver)
	}

	if c.Session.UploadTimeout <= 0 {
		return fmt.Errorf("config error: 'session.upload_timeout' must be positive")
	}
	return nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
