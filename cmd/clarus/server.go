package main

import (
	"time"

	"github.com/JaimeStill/clarus/internal/api"
	"github.com/JaimeStill/clarus/internal/config"
	"github.com/JaimeStill/clarus/internal/infrastructure"
	"github.com/JaimeStill/clarus/internal/migrations"
	"github.com/JaimeStill/clarus/internal/server"
	"github.com/JaimeStill/clarus/pkg/module"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra *infrastructure.Infrastructure
	http  server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	router, err := buildRouter(cfg, infra)
	if err != nil {
		return nil, err
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"store", cfg.Guided.Store,
		"chat_configured", cfg.Chat.Configured(),
	)

	return &Server{
		infra: infra,
		http:  server.New(&cfg.Server, router, cfg.ShutdownTimeoutDuration(), infra.Logger),
	}, nil
}

// Migrate applies pending schema migrations when a PostgreSQL store is in use.
func (s *Server) Migrate(cfg *config.Config) error {
	if !cfg.UsesPostgres() {
		s.infra.Logger.Warn("migrate skipped: no postgres store configured", "store", cfg.Guided.Store)
		return nil
	}
	return migrations.Up(cfg.Database.Dsn(), s.infra.Logger)
}

// Start begins all subsystems and returns when they are listening.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}

func buildRouter(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Router, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	router := newRouter(infra)
	router.Mount(apiModule)
	return router, nil
}
