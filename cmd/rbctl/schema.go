package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the relational schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Create missing tables (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			// app.New runs EnsureSchema
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "schema installed (prefix %q, driver %s)\n", a.Cfg.TablePrefix, a.Dialect)
			return nil
		},
	})
	return cmd
}
