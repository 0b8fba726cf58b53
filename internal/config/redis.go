package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// RedisConfig contains connection settings for the Redis-backed stores.
type RedisConfig struct {
	Addr        string `toml:"addr"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	DialTimeout string `toml:"dial_timeout"`
}

func (c *RedisConfig) DialTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.DialTimeout)
	return d
}

func (c *RedisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *RedisConfig) Merge(overlay *RedisConfig) {
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.DialTimeout != "" {
		c.DialTimeout = overlay.DialTimeout
	}
}

func (c *RedisConfig) loadDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
}

func (c *RedisConfig) loadEnv() {
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.DB = db
		}
	}
	if v := os.Getenv("REDIS_DIAL_TIMEOUT"); v != "" {
		c.DialTimeout = v
	}
}

func (c *RedisConfig) validate() error {
	if c.DB < 0 {
		return fmt.Errorf("db must not be negative")
	}
	d, err := time.ParseDuration(c.DialTimeout)
	if err != nil {
		return fmt.Errorf("invalid dial_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("dial_timeout must be positive")
	}
	return nil
}
