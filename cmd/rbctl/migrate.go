package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run or inspect the legacy data migration",
	}
	cmd.AddCommand(newMigrateRunCmd(), newMigrateStatusCmd())
	return cmd
}

func newMigrateRunCmd() *cobra.Command {
	var fromVersion string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Migrate legacy option data if the install predates 2.0.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			migrated := a.Migrator.MaybeRun(cmd.Context(), fromVersion)
			if rep, ok := a.Migrator.LastReport(); ok {
				return printJSON(cmd, rep)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "nothing to do (migrated=%t)\n", migrated)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromVersion, "from-version", "", "Previous install version (default: stored rb_version)")
	return cmd
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the migration flag, versions and target row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.Migrator.Status(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, st)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
