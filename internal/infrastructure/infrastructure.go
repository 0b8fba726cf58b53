// Package infrastructure provides core service initialization for application startup.
// It assembles the shared systems (logging, metrics, and the optional database
// and Redis connections) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/clarus/internal/config"
	"github.com/JaimeStill/clarus/internal/metrics"
	"github.com/JaimeStill/clarus/pkg/database"
	"github.com/JaimeStill/clarus/pkg/lifecycle"
	"github.com/JaimeStill/clarus/pkg/logging"
)

// Infrastructure holds the core systems required by all domain modules.
// Database and Redis are nil unless the configured store needs them.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Redis     redis.UniversalClient
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics

	redisTimeout time.Duration
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := logging.New(&cfg.Logging)
	return NewWithLogger(cfg, logger)
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	reg := metrics.NewRegistry()

	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Registry:  reg,
		Metrics:   metrics.New(reg),
	}

	if cfg.UsesPostgres() {
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	}

	if cfg.UsesRedis() {
		infra.Redis = redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeoutDuration(),
		})
		infra.redisTimeout = cfg.Redis.DialTimeoutDuration()
	}

	return infra, nil
}

// Start initializes all infrastructure systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Redis != nil {
		if err := i.startRedis(); err != nil {
			return fmt.Errorf("redis start failed: %w", err)
		}
	}
	return nil
}

func (i *Infrastructure) startRedis() error {
	logger := i.Logger.With("system", "redis")

	ctx, cancel := context.WithTimeout(i.Lifecycle.Context(), i.redisTimeout)
	defer cancel()

	if err := i.Redis.Ping(ctx).Err(); err != nil {
		return err
	}
	logger.Info("redis connected")

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		if err := i.Redis.Close(); err != nil {
			logger.Error("redis close failed", "error", err)
			return
		}
		logger.Info("redis connection closed")
	})
	return nil
}
