package guided

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config selects the session store and engine behavior.
type Config struct {
	Store         string `toml:"store"`
	CatalogFile   string `toml:"catalog_file"`
	StrictAnswers bool   `toml:"strict_answers"`
	SessionTTL    string `toml:"session_ttl"`
	KeyPrefix     string `toml:"key_prefix"`
}

// Env maps environment variable names for the guided configuration.
type Env struct {
	Store         string
	CatalogFile   string
	StrictAnswers string
	SessionTTL    string
	KeyPrefix     string
}

// SessionTTLDuration returns the Redis session TTL; zero disables expiry.
func (c *Config) SessionTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SessionTTL)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.Store != "" {
		c.Store = overlay.Store
	}
	if overlay.CatalogFile != "" {
		c.CatalogFile = overlay.CatalogFile
	}
	if overlay.StrictAnswers {
		c.StrictAnswers = true
	}
	if overlay.SessionTTL != "" {
		c.SessionTTL = overlay.SessionTTL
	}
	if overlay.KeyPrefix != "" {
		c.KeyPrefix = overlay.KeyPrefix
	}
}

func (c *Config) loadDefaults() {
	if c.Store == "" {
		c.Store = BackendMemory
	}
	if c.SessionTTL == "" {
		c.SessionTTL = "0s"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "clarus"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.Store); env.Store != "" && v != "" {
		c.Store = v
	}
	if v := os.Getenv(env.CatalogFile); env.CatalogFile != "" && v != "" {
		c.CatalogFile = v
	}
	if v := os.Getenv(env.StrictAnswers); env.StrictAnswers != "" && v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			c.StrictAnswers = strict
		}
	}
	if v := os.Getenv(env.SessionTTL); env.SessionTTL != "" && v != "" {
		c.SessionTTL = v
	}
	if v := os.Getenv(env.KeyPrefix); env.KeyPrefix != "" && v != "" {
		c.KeyPrefix = v
	}
}

func (c *Config) validate() error {
	switch c.Store {
	case BackendMemory, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("invalid store %q (must be memory, postgres, or redis)", c.Store)
	}
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return fmt.Errorf("invalid session_ttl: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("session_ttl must not be negative")
	}
	return nil
}
