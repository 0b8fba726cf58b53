package logging

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Env names the environment variables that override Config fields.
type Env struct {
	Level     string
	Format    string
	AddSource string
}

// Config is the [logging] section.
type Config struct {
	Level     Level  `toml:"level"`
	Format    Format `toml:"format"`
	AddSource bool   `toml:"add_source"`
}

// Finalize fills defaults, applies env overrides, and validates. Level and
// format values are matched case-insensitively and "warning" reads as warn.
func (c *Config) Finalize(env *Env) error {
	if err := c.loadEnv(env); err != nil {
		return err
	}
	c.normalize()
	return errors.Join(c.Level.Validate(), c.Format.Validate())
}

// Merge applies the overlay's set fields. AddSource can only be switched on.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	c.AddSource = c.AddSource || overlay.AddSource
}

func (c *Config) normalize() {
	level := Level(strings.ToLower(strings.TrimSpace(string(c.Level))))
	switch level {
	case "":
		level = LevelInfo
	case "warning":
		level = LevelWarn
	}
	c.Level = level

	format := Format(strings.ToLower(strings.TrimSpace(string(c.Format))))
	if format == "" {
		format = FormatText
	}
	c.Format = format
}

func (c *Config) loadEnv(env *Env) error {
	if env == nil {
		return nil
	}
	if v := getenv(env.Level); v != "" {
		c.Level = Level(v)
	}
	if v := getenv(env.Format); v != "" {
		c.Format = Format(v)
	}
	if v := getenv(env.AddSource); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.AddSource, err)
		}
		c.AddSource = on
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
