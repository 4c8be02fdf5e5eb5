package commands

import (
	"errors"

	"github.com/marshallshelly/jokes-api/cmd/jokes/output"
	"github.com/marshallshelly/jokes-api/cmd/jokes/tui"
	"github.com/marshallshelly/jokes-api/internal/repository"
	"github.com/marshallshelly/pebble-orm/pkg/builder"
	"github.com/spf13/cobra"
)

var errResetNotConfirmed = errors.New("refusing to reset without --yes or --interactive")

var (
	// Reset flags
	assumeYes        bool
	resetInteractive bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every joke, audience and category",
	Long: `Delete every joke, audience and category in one transaction and report
how many rows of each were removed.

Examples:
  jokes reset --yes                   # Reset without prompting
  jokes reset -i                      # Confirm in a dialog first
  jokes reset --yes --json            # Print the result as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReset(cmd)
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	resetCmd.Flags().BoolVarP(&resetInteractive, "interactive", "i", false, "Confirm in an interactive dialog")
}

func runReset(cmd *cobra.Command) error {
	if !assumeYes && !resetInteractive {
		return errResetNotConfirmed
	}

	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	admin := repository.New(builder.New(db)).Admin

	if resetInteractive && !assumeYes {
		return tui.RunResetUI(ctx, admin)
	}

	result, err := admin.Reset(ctx)
	if err != nil {
		output.Error("Error resetting database: %v", err)
		return err
	}

	if jsonOutput {
		return output.JSON(result)
	}
	output.ResetSummary(result)
	return nil
}
