// Command rbctl is the operator CLI: it installs the schema, runs or
// inspects the legacy migration and hashes admin passwords.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-booking/internal/app"
	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/logging"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rbctl",
		Short:         "Restaurant booking operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSchemaCmd(), newMigrateCmd(), newHashPasswordCmd())
	return root
}

// openApp loads configuration and wires the application.
func openApp(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	log := logging.NewWriter(os.Stderr, cfg.Env, cfg.LogLevel)
	return app.New(ctx, cfg, log)
}
