package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/marshallshelly/jokes-api/internal/config"
	"github.com/marshallshelly/jokes-api/internal/database"
	"github.com/marshallshelly/jokes-api/internal/logging"
	"github.com/marshallshelly/pebble-orm/pkg/runtime"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile       string
	dbURL         string
	migrationsDir string
	verbose       bool
	jsonOutput    bool

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jokes",
	Short: "Jokes API - categories, audiences and jokes over PostgreSQL",
	Long: `Jokes API serves a small CRUD API for joke categories, audiences and jokes.

Commands:
  serve    - Start the HTTP server
  migrate  - Apply or roll back schema migrations
  reset    - Delete every category, audience and joke

Configuration is read from jokes.yaml (or --config), JOKES_* environment
variables and an optional .env file.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./jokes.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations-dir", "", "Read migrations from this directory instead of the embedded set")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func loadConfig() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dbURL != "" {
		loaded.Database.URL = dbURL
	}

	level := loaded.Log.Level
	if verbose {
		level = "debug"
	}
	l, err := logging.New(os.Stderr, level, loaded.Log.Format)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = l
	return nil
}

// openDB validates the configuration and connects. Callers close the
// returned DB.
func openDB(ctx context.Context) (*runtime.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return database.Connect(ctx, cfg.Database)
}

// newMigrator loads the embedded migrations, or those in --migrations-dir.
func newMigrator(db *runtime.DB) (*database.Migrator, error) {
	migs, err := database.LoadMigrations(migrationsDir)
	if err != nil {
		return nil, err
	}
	return database.NewMigrator(db.Pool(), migs, logger), nil
}
