package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/clarus/internal/catalog"
	"github.com/JaimeStill/clarus/internal/config"
)

func newWorkflowsCmd(configPath *string) *cobra.Command {
	var catalogFile string

	cmd := &cobra.Command{
		Use:   "workflows",
		Short: "Inspect the guided workflow catalog",
	}
	cmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "catalog YAML file (defaults to guided.catalog_file, then the built-in catalog)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List available workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog(*configPath, catalogFile)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tSTEPS")
			for _, s := range cat.List() {
				wf, err := cat.Workflow(s.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\n", s.ID, s.Title, len(wf.Steps))
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a workflow and its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog(*configPath, catalogFile)
			if err != nil {
				return err
			}

			wf, err := cat.Workflow(args[0])
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(wf); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

// openCatalog resolves the catalog from the flag, then the config file, then
// the built-in default. A missing config file is not an error here.
func openCatalog(configPath, catalogFile string) (*catalog.Catalog, error) {
	if catalogFile == "" {
		catalogFile = os.Getenv("GUIDED_CATALOG_FILE")
	}
	if catalogFile == "" {
		cfg, err := config.Load(configPath)
		switch {
		case err == nil:
			catalogFile = cfg.Guided.CatalogFile
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	if catalogFile == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(catalogFile)
}
