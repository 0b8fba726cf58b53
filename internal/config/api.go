package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/clarus/pkg/middleware"
	"github.com/JaimeStill/clarus/pkg/openapi"
)

// DefaultClientOrigin is the browser client allowed when no origin is configured.
const DefaultClientOrigin = "http://localhost:5173"

var corsEnv = &middleware.CORSEnv{
	Enabled:          "API_CORS_ENABLED",
	Origins:          "API_CORS_ORIGINS",
	OriginsFallback:  "CLIENT_ORIGIN",
	AllowedMethods:   "API_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "API_CORS_ALLOWED_HEADERS",
	AllowCredentials: "API_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "API_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:        "API_OPENAPI_TITLE",
	Description:  "API_OPENAPI_DESCRIPTION",
	ContactName:  "API_OPENAPI_CONTACT_NAME",
	ContactEmail: "API_OPENAPI_CONTACT_EMAIL",
	License:      "API_OPENAPI_LICENSE",
}

type APIConfig struct {
	BasePath string                `toml:"base_path"`
	CORS     middleware.CORSConfig `toml:"cors"`
	OpenAPI  openapi.Config        `toml:"openapi"`
}

// ClientOrigin returns the first allowed CORS origin.
func (c *APIConfig) ClientOrigin() string {
	if len(c.CORS.Origins) == 0 {
		return ""
	}
	return c.CORS.Origins[0]
}

func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{DefaultClientOrigin}
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || c.BasePath == "/" {
		return fmt.Errorf("invalid base_path %q", c.BasePath)
	}
	if strings.HasSuffix(c.BasePath, "/") || strings.Count(c.BasePath, "/") > 1 {
		return fmt.Errorf("base_path must be a single segment: %q", c.BasePath)
	}
	return nil
}
