package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/member-portal-api/pkg/config"
	"github.com/noah-isme/member-portal-api/pkg/database"
	"github.com/noah-isme/member-portal-api/pkg/logger"
)

var gooseCommands = []struct {
	name  string
	short string
}{
	{"up", "Apply all pending migrations"},
	{"up-by-one", "Apply the next pending migration"},
	{"down", "Roll back the latest migration"},
	{"redo", "Roll back and re-apply the latest migration"},
	{"reset", "Roll back every migration"},
	{"status", "Print the status of every migration"},
	{"version", "Print the current schema version"},
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the member portal database schema",
		SilenceUsage: true,
	}

	for _, gc := range gooseCommands {
		rootCmd.AddCommand(gooseCommand(gc.name, gc.short))
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "up-to VERSION",
		Short: "Apply migrations up to and including VERSION",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoose(cmd.Context(), "up-to", args...)
		},
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func gooseCommand(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoose(cmd.Context(), name)
		},
	}
}

func runGoose(ctx context.Context, command string, args ...string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	logr.Info("running migrations", zap.String("command", command), zap.String("database", cfg.Database.Name))
	return database.Migrate(ctx, db.DB, command, args...)
}
