// Package api assembles the domain systems behind a single HTTP module that
// serves the REST and streaming endpoints plus the OpenAPI document.
package api

import (
	"net/http"

	"github.com/JaimeStill/clarus/internal/config"
	"github.com/JaimeStill/clarus/internal/infrastructure"
	"github.com/JaimeStill/clarus/pkg/middleware"
	"github.com/JaimeStill/clarus/pkg/module"
	"github.com/JaimeStill/clarus/pkg/openapi"
)

// NewModule builds the API module mounted at cfg.API.BasePath.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.Info = cfg.API.OpenAPI.Info(cfg.Version)
	spec.AddServer(cfg.Domain)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
