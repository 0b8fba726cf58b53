// Package config provides application configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/clarus/internal/chat"
	"github.com/JaimeStill/clarus/internal/documents"
	"github.com/JaimeStill/clarus/internal/guided"
	"github.com/JaimeStill/clarus/pkg/database"
	"github.com/JaimeStill/clarus/pkg/logging"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvServiceEnv specifies the environment name for configuration overlays.
	EnvServiceEnv = "SERVICE_ENV"

	// EnvServiceShutdownTimeout overrides the service shutdown timeout.
	EnvServiceShutdownTimeout = "SERVICE_SHUTDOWN_TIMEOUT"

	// EnvServiceVersion overrides the version reported in the OpenAPI document.
	EnvServiceVersion = "SERVICE_VERSION"

	// EnvServiceDomain overrides the public server URL advertised in the OpenAPI document.
	EnvServiceDomain = "SERVICE_DOMAIN"
)

var databaseEnv = &database.Env{
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
	SSLMode:         "DATABASE_SSL_MODE",
}

var loggingEnv = &logging.Env{
	Level:     "LOGGING_LEVEL",
	Format:    "LOGGING_FORMAT",
	AddSource: "LOGGING_ADD_SOURCE",
}

var guidedEnv = &guided.Env{
	Store:         "GUIDED_STORE",
	CatalogFile:   "GUIDED_CATALOG_FILE",
	StrictAnswers: "GUIDED_STRICT_ANSWERS",
	SessionTTL:    "GUIDED_SESSION_TTL",
	KeyPrefix:     "GUIDED_KEY_PREFIX",
}

var chatEnv = &chat.Env{
	APIKey:          "OPENROUTER_API_KEY",
	BaseURL:         "OPENROUTER_BASE_URL",
	Model:           "OPENROUTER_MODEL",
	Referer:         "OPENROUTER_HTTP_REFERER",
	AppName:         "OPENROUTER_APP_NAME",
	Temperature:     "OPENROUTER_TEMPERATURE",
	MaxTokens:       "OPENROUTER_MAX_TOKENS",
	Timeout:         "OPENROUTER_TIMEOUT",
	DefaultTimezone: "CHAT_DEFAULT_TIMEZONE",
}

var documentsEnv = &documents.Env{
	MaxUploadSize: "DOCUMENTS_MAX_UPLOAD_SIZE",
}

// Config represents the root service configuration.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Redis           RedisConfig      `toml:"redis"`
	Logging         logging.Config   `toml:"logging"`
	API             APIConfig        `toml:"api"`
	Guided          guided.Config    `toml:"guided"`
	Chat            chat.Config      `toml:"chat"`
	Documents       documents.Config `toml:"documents"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
	Domain          string           `toml:"domain"`
}

// ShutdownTimeoutDuration parses and returns the shutdown timeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// UsesPostgres reports whether any configured store lives in PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.Guided.Store == guided.BackendPostgres
}

// UsesRedis reports whether any configured store lives in Redis.
func (c *Config) UsesRedis() bool {
	return c.Guided.Store == guided.BackendRedis
}

// Load reads and parses the configuration file at path and applies the
// SERVICE_ENV overlay found next to it, if any.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
// The database section is only required when a PostgreSQL store is selected.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Guided.Finalize(guidedEnv); err != nil {
		return fmt.Errorf("guided: %w", err)
	}
	if c.UsesPostgres() {
		if err := c.FinalizeDatabase(); err != nil {
			return err
		}
	}
	if err := c.Redis.Finalize(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.Chat.Finalize(chatEnv); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if c.Chat.Referer == "" {
		c.Chat.Referer = c.API.ClientOrigin()
	}
	if err := c.Documents.Finalize(documentsEnv); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	return nil
}

// FinalizeDatabase finalizes the database section on its own, for commands
// that talk to PostgreSQL regardless of the selected store.
func (c *Config) FinalizeDatabase() error {
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.Domain != "" {
		c.Domain = overlay.Domain
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Redis.Merge(&overlay.Redis)
	c.Logging.Merge(&overlay.Logging)
	c.API.Merge(&overlay.API)
	c.Guided.Merge(&overlay.Guided)
	c.Chat.Merge(&overlay.Chat)
	c.Documents.Merge(&overlay.Documents)
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvServiceShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvServiceVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvServiceDomain); v != "" {
		c.Domain = v
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvServiceEnv)
	if env == "" {
		return ""
	}
	path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// FinalizeLogging finalizes the logging section on its own, for commands
// that do not need the full service configuration.
func (c *Config) FinalizeLogging() error {
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
