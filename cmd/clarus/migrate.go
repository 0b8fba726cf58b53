package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/clarus/internal/config"
	"github.com/JaimeStill/clarus/internal/migrations"
	"github.com/JaimeStill/clarus/pkg/logging"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseConfig(*configPath)
			if err != nil {
				return err
			}
			return migrations.Up(cfg.Database.Dsn(), logging.New(&cfg.Logging))
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseConfig(*configPath)
			if err != nil {
				return err
			}
			return migrations.Down(cfg.Database.Dsn(), steps, logging.New(&cfg.Logging))
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func loadDatabaseConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.FinalizeLogging(); err != nil {
		return nil, err
	}
	if err := cfg.FinalizeDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}
