package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/clarus/internal/config"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "clarus",
		Short: "Guided workflows and chat assistant for Swedish work-permit questions",
		Long: `Clarus serves the guided workflow API, the streaming chat relay,
and document analysis over HTTP.

Configuration is read from config.toml, overlaid by config.<SERVICE_ENV>.toml,
and finally by environment variables.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.BaseConfigFile, "path to the configuration file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newWorkflowsCmd(&configPath))

	return root
}
