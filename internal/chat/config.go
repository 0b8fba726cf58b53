package chat

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL      = "https://openrouter.ai/api/v1"
	DefaultModel        = "openai/gpt-4o-mini"
	DefaultAppName      = "Clarus"
	DefaultTimezone     = "Europe/Stockholm"
	DefaultSystemPrompt = "You are Clarus, a helpful Swedish legal assistant. Be clear, concise, and avoid legal advice."
)

// Config holds the upstream chat-completion settings.
type Config struct {
	APIKey          string  `toml:"api_key"`
	BaseURL         string  `toml:"base_url"`
	Model           string  `toml:"model"`
	Referer         string  `toml:"referer"`
	AppName         string  `toml:"app_name"`
	SystemPrompt    string  `toml:"system_prompt"`
	Temperature     float64 `toml:"temperature"`
	MaxTokens       int     `toml:"max_tokens"`
	Timeout         string  `toml:"timeout"`
	DefaultTimezone string  `toml:"default_timezone"`
	TranscriptLimit int     `toml:"transcript_limit"`
}

// Env maps environment variable names for the chat configuration.
type Env struct {
	APIKey          string
	BaseURL         string
	Model           string
	Referer         string
	AppName         string
	Temperature     string
	MaxTokens       string
	Timeout         string
	DefaultTimezone string
}

// TimeoutDuration returns the per-call upstream deadline.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Configured reports whether an API key is available.
func (c *Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
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
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Referer != "" {
		c.Referer = overlay.Referer
	}
	if overlay.AppName != "" {
		c.AppName = overlay.AppName
	}
	if overlay.SystemPrompt != "" {
		c.SystemPrompt = overlay.SystemPrompt
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.DefaultTimezone != "" {
		c.DefaultTimezone = overlay.DefaultTimezone
	}
	if overlay.TranscriptLimit != 0 {
		c.TranscriptLimit = overlay.TranscriptLimit
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.AppName == "" {
		c.AppName = DefaultAppName
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.Temperature == 0 {
		c.Temperature = 0.3
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 600
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = DefaultTimezone
	}
	if c.TranscriptLimit == 0 {
		c.TranscriptLimit = 50
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.APIKey); env.APIKey != "" && v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(env.BaseURL); env.BaseURL != "" && v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(env.Model); env.Model != "" && v != "" {
		c.Model = v
	}
	if v := os.Getenv(env.Referer); env.Referer != "" && v != "" {
		c.Referer = v
	}
	if v := os.Getenv(env.AppName); env.AppName != "" && v != "" {
		c.AppName = v
	}
	if v := os.Getenv(env.Temperature); env.Temperature != "" && v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = t
		}
	}
	if v := os.Getenv(env.MaxTokens); env.MaxTokens != "" && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv(env.Timeout); env.Timeout != "" && v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(env.DefaultTimezone); env.DefaultTimezone != "" && v != "" {
		c.DefaultTimezone = v
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative")
	}
	if c.TranscriptLimit < 0 {
		return fmt.Errorf("transcript_limit must not be negative")
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid default_timezone: %w", err)
	}
	return nil
}
