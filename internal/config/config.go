// Package config loads service settings from DIRECTORY_* environment variables,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the full service configuration.
type Config struct {
	Env      string
	Addr     string
	LogLevel slog.Level
	DB       DBConfig
	Paging   PagingConfig
	Storage  StorageConfig
	Mail     MailConfig
	HTTP     HTTPConfig
}

// DBConfig selects the relational store.
type DBConfig struct {
	Driver      string
	DSN         string
	SlowQueryMs int
}

// PagingConfig bounds page sizes.
type PagingConfig struct {
	DefaultSize int
	MaxSize     int
}

// StorageConfig selects the object store.
type StorageConfig struct {
	Kind          string // local | s3
	Dir           string
	PublicBaseURL string
	S3Region      string
	S3Endpoint    string
	S3Prefix      string
}

// MailConfig configures committee notifications.
type MailConfig struct {
	ResendKey string
	From      string
	NotifyTo  []string
}

// HTTPConfig configures the HTTP surface.
type HTTPConfig struct {
	CSRFKey       string
	RateLimit     int // requests per minute per IP; 0 disables
	SlowRequestMs int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// Load reads an optional .env file, then the environment.
// POST: Returns a validated Config or an error naming the bad setting
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			// existing variables win over the file
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the environment without validating it.
func FromEnv() *Config {
	addr := LoadDefaultString("DIRECTORY_ADDR", ":8080")
	storageKind := LoadDefaultString("DIRECTORY_STORAGE", "local")
	publicBase := os.Getenv("DIRECTORY_PUBLIC_BASE_URL")
	if publicBase == "" && storageKind == "local" {
		publicBase = "http://localhost" + addr + "/files"
	}
	return &Config{
		Env:      LoadDefaultString("DIRECTORY_ENV", EnvDevelopment),
		Addr:     addr,
		LogLevel: parseLevel(LoadDefaultString("DIRECTORY_LOG_LEVEL", "info")),
		DB: DBConfig{
			Driver:      LoadDefaultString("DIRECTORY_DB_DRIVER", "sqlite"),
			DSN:         LoadDefaultString("DIRECTORY_DB_DSN", "directory.db"),
			SlowQueryMs: LoadDefaultInt("DIRECTORY_SLOW_QUERY_MS", 50),
		},
		Paging: PagingConfig{
			DefaultSize: LoadDefaultInt("DIRECTORY_PAGE_SIZE", 20),
			MaxSize:     LoadDefaultInt("DIRECTORY_MAX_PAGE_SIZE", 100),
		},
		Storage: StorageConfig{
			Kind:          storageKind,
			Dir:           LoadDefaultString("DIRECTORY_STORAGE_DIR", "data/objects"),
			PublicBaseURL: publicBase, // empty for s3 selects the bucket URL
			S3Region:      LoadDefaultString("DIRECTORY_S3_REGION", "ap-south-1"),
			S3Endpoint:    os.Getenv("DIRECTORY_S3_ENDPOINT"),
			S3Prefix:      os.Getenv("DIRECTORY_S3_BUCKET_PREFIX"),
		},
		Mail: MailConfig{
			ResendKey: os.Getenv("DIRECTORY_RESEND_KEY"),
			From:      LoadDefaultString("DIRECTORY_MAIL_FROM", "Community Directory <noreply@example.org>"),
			NotifyTo:  LoadList("DIRECTORY_NOTIFY_TO"),
		},
		HTTP: HTTPConfig{
			CSRFKey:       os.Getenv("DIRECTORY_CSRF_KEY"),
			RateLimit:     LoadDefaultInt("DIRECTORY_RATE_LIMIT", 120),
			SlowRequestMs: LoadDefaultInt("DIRECTORY_SLOW_REQUEST_MS", 200),
			ReadTimeout:   15 * time.Second,
			WriteTimeout:  60 * time.Second,
		},
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DIRECTORY_DB_DRIVER must be sqlite or postgres, got %q", c.DB.Driver))
	}
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("DIRECTORY_DB_DSN is required"))
	}
	if c.Paging.DefaultSize <= 0 || c.Paging.MaxSize < c.Paging.DefaultSize {
		errs = append(errs, fmt.Errorf("page sizes invalid: default %d, max %d", c.Paging.DefaultSize, c.Paging.MaxSize))
	}
	switch c.Storage.Kind {
	case "local", "s3":
	default:
		errs = append(errs, fmt.Errorf("DIRECTORY_STORAGE must be local or s3, got %q", c.Storage.Kind))
	}
	if c.IsProduction() && len(c.HTTP.CSRFKey) != 32 {
		errs = append(errs, errors.New("DIRECTORY_CSRF_KEY must be 32 bytes in production"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// LoadDefaultInt returns the integer value of name, or defaultValue when unset or malformed.
func LoadDefaultInt(name string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return defaultValue
	}
	return value
}

// LoadDefaultString returns the value of name, or defaultValue when unset.
func LoadDefaultString(name string, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadList splits a comma-separated variable, dropping blanks.
func LoadList(name string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
