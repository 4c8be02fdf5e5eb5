package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/marshallshelly/jokes-api/cmd/jokes/output"
	"github.com/marshallshelly/jokes-api/cmd/jokes/tui"
	"github.com/marshallshelly/jokes-api/internal/database"
	"github.com/marshallshelly/pebble-orm/pkg/migration"
	"github.com/spf13/cobra"
)

var (
	// Migrate flags
	dryRun      bool
	all         bool
	steps       int
	target      string
	interactive bool
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply or roll back the jokes schema migrations.

Subcommands:
  up      - Apply pending migrations
  down    - Rollback migrations
  status  - Show migration status`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Apply pending migrations to update the database schema.

Examples:
  jokes migrate up --all              # Apply all pending migrations
  jokes migrate up --steps 1          # Apply next migration
  jokes migrate up --dry-run --all    # Preview migrations without applying`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), runMigrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback migrations",
	Long: `Rollback applied migrations to revert database schema changes.

Examples:
  jokes migrate down --steps 1        # Rollback last migration
  jokes migrate down --target VERSION # Rollback to specific version
  jokes migrate down --dry-run        # Preview rollback without executing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), runMigrateDown)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Show the status of all migrations (pending, applied, failed).

Examples:
  jokes migrate status                # Show migration status
  jokes migrate status --json         # Output in JSON format`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), runMigrateStatus)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)

	// Flags for migrate up
	migrateUpCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run in interactive mode with TUI")
	migrateUpCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview migrations without applying")
	migrateUpCmd.Flags().BoolVar(&all, "all", false, "Apply all pending migrations")
	migrateUpCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to apply")

	// Flags for migrate down
	migrateDownCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run in interactive mode with TUI")
	migrateDownCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview rollback without executing")
	migrateDownCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to rollback")
	migrateDownCmd.Flags().StringVar(&target, "target", "", "Rollback to specific version")
}

func withMigrator(ctx context.Context, run func(context.Context, *database.Migrator) error) error {
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator, err := newMigrator(db)
	if err != nil {
		return err
	}

	return run(ctx, migrator)
}

func runMigrateUp(ctx context.Context, migrator *database.Migrator) error {
	if interactive {
		return tui.RunMigrateUI(ctx, tui.ActionUp, migrator)
	}

	if !all && steps <= 0 {
		return fmt.Errorf("must specify --all or --steps")
	}
	n := steps
	if all {
		n = 0
	}

	pending, err := migrator.Pending(ctx, n)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		output.Info("No pending migrations")
		return nil
	}

	if dryRun {
		output.Section("DRY RUN - Preview")
		output.Info("The following migrations would be applied:")
		for _, mig := range pending {
			output.Migration(migration.StatusPending, mig)
		}
		return nil
	}

	output.Section("Applying Migrations")
	applied, err := migrator.Up(ctx, n)
	for _, mig := range applied {
		output.Success("Applied %s - %s", mig.Version, mig.Name)
	}
	if err != nil {
		output.Error("%v", err)
		return err
	}

	output.Muted("")
	output.Success("Successfully applied %d migration(s)", len(applied))
	return nil
}

func runMigrateDown(ctx context.Context, migrator *database.Migrator) error {
	if interactive {
		return tui.RunMigrateUI(ctx, tui.ActionDown, migrator)
	}

	if target != "" {
		if dryRun {
			output.Info("DRY RUN - Would rollback to version %s", target)
			return nil
		}

		output.Section("Rolling Back to Target Version")
		if err := migrator.DownTo(ctx, target); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Rolled back to version %s", target)
		return nil
	}

	toRollback, err := migrator.Applied(ctx, steps)
	if err != nil {
		return err
	}
	if len(toRollback) == 0 {
		output.Info("No migrations to rollback")
		return nil
	}

	if dryRun {
		output.Section("DRY RUN - Preview")
		output.Info("The following migrations would be rolled back:")
		for _, mig := range toRollback {
			output.Migration(migration.StatusApplied, mig)
		}
		return nil
	}

	output.Section("Rolling Back Migrations")
	rolledBack, err := migrator.Down(ctx, steps)
	for _, mig := range rolledBack {
		output.Success("Rolled back %s - %s", mig.Version, mig.Name)
	}
	if err != nil {
		output.Error("%v", err)
		return err
	}

	output.Muted("")
	output.Success("Successfully rolled back %d migration(s)", len(rolledBack))
	return nil
}

func runMigrateStatus(ctx context.Context, migrator *database.Migrator) error {
	status, err := migrator.Status(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(status)
	}

	if len(status) == 0 {
		output.Warning("No migrations found")
		return nil
	}

	printStatus(status)
	return nil
}

func printStatus(status []migration.MigrationRecord) {
	w := tabwriter.NewWriter(output.Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
	_, _ = fmt.Fprintln(w, "-------\t----\t------\t----------")

	var pending, applied, failed int
	for _, record := range status {
		appliedAt := "N/A"
		if record.AppliedAt != nil {
			appliedAt = record.AppliedAt.Format("2006-01-02 15:04:05")
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n",
			record.Version,
			record.Name,
			output.StatusIcon(record.Status),
			record.Status,
			appliedAt,
		)

		switch record.Status {
		case migration.StatusPending:
			pending++
		case migration.StatusApplied:
			applied++
		case migration.StatusFailed:
			failed++
		}
	}
	_ = w.Flush()

	summary := fmt.Sprintf("\nSummary: %d applied, %d pending", applied, pending)
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	_, _ = fmt.Fprintln(output.Writer, summary)
}
