package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [user]",
	Short: "Show learner statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		repo := rt.store.ProgressRepo()

		userIDs := args
		if len(userIDs) == 0 {
			userIDs, err = repo.ListUserIDs(ctx)
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}
		}
		if len(userIDs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No learners yet.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %5s  %7s  %6s  %7s  %9s  %6s\n",
			"User", "Level", "XP", "Streak", "Lesson", "Completed", "Shares")
		fmt.Fprintln(out, strings.Repeat("─", 72))

		for _, id := range userIDs {
			p, err := repo.Load(ctx, id)
			if err != nil {
				return fmt.Errorf("load progress for %s: %w", id, err)
			}
			if p == nil {
				fmt.Fprintf(out, "%-20s  (no progress)\n", truncate(id, 20))
				continue
			}
			fmt.Fprintf(out, "%-20s  %5d  %7d  %6d  %7d  %9d  %6d\n",
				truncate(id, 20), p.Level, p.XP, p.StreakDays, p.CurrentLesson, len(p.CompletedLessons), p.ShareCount)
		}
		return nil
	},
}
