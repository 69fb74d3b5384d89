package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pytutor/internal/content"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect and validate course content",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a catalog file (the built-in catalog when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, src, err := loadCatalog(args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d diagnostic questions, %d lessons, %d achievements.\n",
			src, cat.DiagnosticPoolSize(), cat.LessonCount(), len(cat.Achievements()))
		return nil
	},
}

var contentLessonsCmd = &cobra.Command{
	Use:   "lessons [file]",
	Short: "List lessons in course order",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, err := loadCatalog(args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-4s  %-40s  %s\n", "ID", "Topic", "Questions")
		fmt.Fprintln(out, strings.Repeat("─", 58))
		for _, id := range cat.LessonIDs() {
			l, err := cat.Lesson(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-4d  %-40s  %d\n", l.ID, truncate(l.Topic, 40), len(l.Questions))
		}
		return nil
	},
}

var contentShowCmd = &cobra.Command{
	Use:   "show <lesson-id> [file]",
	Short: "Print a lesson with its practice questions and answers",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid lesson id %q: %w", args[0], err)
		}
		cat, _, err := loadCatalog(args[1:])
		if err != nil {
			return err
		}
		l, err := cat.Lesson(id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(out, "Lesson %d: %s\n%s\n\n%s\n", l.ID, l.Topic, sep, l.Theory)
		if l.CodeExample != "" {
			fmt.Fprintf(out, "\n%s\n", l.CodeExample)
		}
		for i, q := range l.Questions {
			fmt.Fprintf(out, "\n%s\nQ%d [%s] %s\n", sep, i+1, q.Category, q.Text)
			for j, opt := range q.Options {
				mark := " "
				if q.IsCorrect(j) {
					mark = "*"
				}
				fmt.Fprintf(out, " %s %d. %s\n", mark, j+1, opt)
			}
		}
		return nil
	},
}

// loadCatalog loads the catalog named by args[0], or the built-in one.
func loadCatalog(args []string) (*content.Catalog, string, error) {
	if len(args) > 0 && args[0] != "" {
		cat, err := content.LoadFile(args[0])
		return cat, args[0], err
	}
	cat, err := content.Default()
	return cat, "built-in catalog", err
}

func init() {
	contentCmd.AddCommand(contentValidateCmd)
	contentCmd.AddCommand(contentLessonsCmd)
	contentCmd.AddCommand(contentShowCmd)
}
