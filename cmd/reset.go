package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/pytutor/internal/gamification"
)

var resetCmd = &cobra.Command{
	Use:   "reset <user>",
	Short: "Delete a learner's progress and test results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		userID := args[0]

		cat, err := rt.catalog()
		if err != nil {
			return fmt.Errorf("load content: %w", err)
		}
		ledger := gamification.NewLedger(rt.store.ProgressRepo(), cat)
		if err := ledger.Reset(ctx, userID); err != nil {
			return fmt.Errorf("delete progress: %w", err)
		}
		if err := rt.store.TestResultRepo().DeleteTestResults(ctx, userID); err != nil {
			return fmt.Errorf("delete test results: %w", err)
		}

		log.Info().Str("user", userID).Msg("Learner reset")
		fmt.Fprintf(cmd.OutOrStdout(), "Reset progress for %s.\n", userID)
		return nil
	},
}
