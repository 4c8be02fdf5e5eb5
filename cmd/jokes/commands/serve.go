package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marshallshelly/jokes-api/internal/handler"
	"github.com/marshallshelly/jokes-api/internal/repository"
	"github.com/marshallshelly/jokes-api/internal/server"
	"github.com/marshallshelly/pebble-orm/pkg/builder"
	"github.com/spf13/cobra"
)

var (
	// Serve flags
	port         int
	migrateFirst bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the jokes HTTP server.

Examples:
  jokes serve                          # Listen on the configured port (3000)
  jokes serve --port 8080 --migrate    # Apply pending migrations, then listen on 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&migrateFirst, "migrate", false, "Apply pending migrations before serving")
}

func runServe(cmd *cobra.Command) error {
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateFirst || cfg.Database.MigrateOnStart {
		migrator, err := newMigrator(db)
		if err != nil {
			return err
		}
		applied, err := migrator.Up(ctx, 0)
		if err != nil {
			return fmt.Errorf("startup migrations: %w", err)
		}
		logger.Info("startup migrations complete", "applied", len(applied))
	}

	repos := repository.New(builder.New(db))
	app := server.New(cfg.Server, handler.Stores{
		Categories: repos.Categories,
		Audiences:  repos.Audiences,
		Jokes:      repos.Jokes,
		Admin:      repos.Admin,
		DB:         db.Pool(),
	}, logger)

	return server.Run(ctx, app, cfg.Server, logger)
}
