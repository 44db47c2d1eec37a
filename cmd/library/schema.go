package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-views-go/internal/wiring"
)

func newSchemaCommand(a *app) *cobra.Command {
	schema := &cobra.Command{
		Use:         "schema",
		Short:       "Manage the database schema",
		Annotations: map[string]string{annotationNoLibrary: "true"},
	}

	schema.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the view tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := wiring.Migrate(cmd.Context(), a.cfg); err != nil {
				return err
			}

			a.logger.Info("schema migrated", "adapter", a.cfg.AdapterType, "dialect", a.cfg.Dialect())
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")

			return err
		},
	})

	return schema
}
