package progression

import (
	"fmt"
	"strings"

	"github.com/abhisek/pytutor/internal/gamification"
)

func testIntroText(n int) string {
	return fmt.Sprintf("Let's find out where you stand. The test has %d questions covering Python basics.\n\nReady? Confirm to begin.", n)
}

func questionText(q *QuestionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question %d of %d:\n\n%s\n", q.Index+1, q.Total, q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "\n%d. %s", i+1, opt)
	}
	return b.String()
}

func testResultText(res *TestResult) string {
	var b strings.Builder
	b.WriteString("Test finished! Your results:\n\n")
	for i, s := range res.Scores {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %.1f%%", s.Category.DisplayName(), s.Percent)
	}

	if len(res.WeakAreas) > 0 {
		names := make([]string, len(res.WeakAreas))
		for i, c := range res.WeakAreas {
			names[i] = c.DisplayName()
		}
		fmt.Fprintf(&b, "\n\nYour weak areas: %s", strings.Join(names, ", "))
	} else {
		b.WriteString("\n\nNo weak areas found. Great job!")
	}

	b.WriteString("\n\nYour personal 7-day study plan:\n\n")
	b.WriteString(res.Plan.String())
	b.WriteString("\n\nUse /lesson to start your first lesson.")
	return b.String()
}

func lessonText(l *LessonView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lesson %d: %s\n\n%s", l.ID, l.Topic, l.Theory)
	if l.CodeExample != "" {
		fmt.Fprintf(&b, "\n\nExample:\n\n%s", l.CodeExample)
	}
	fmt.Fprintf(&b, "\n\n+%d XP for studying the theory. When you're ready, start the practice (%d questions).", l.XPAwarded, l.Questions)
	return b.String()
}

func waitText(w *Wait) string {
	if w.Hours < 1 {
		return "You've already completed today's lesson. The next one unlocks in less than an hour."
	}
	unit := "hours"
	if w.Hours == 1 {
		unit = "hour"
	}
	return fmt.Sprintf("You've already completed today's lesson. The next one unlocks in %d %s.", w.Hours, unit)
}

func courseCompleteText() string {
	return "Congratulations! You have completed every lesson in the course."
}

func feedbackText(fb *Feedback) string {
	if fb.Correct {
		return fmt.Sprintf("Correct! +%d XP", fb.XPAwarded)
	}
	return fmt.Sprintf("Not quite. The correct answer is: %s", fb.CorrectOption)
}

func lessonResultText(res *LessonResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lesson %d complete!\n\nYour score: %d of %d (%.1f%%)\n\n",
		res.LessonID, res.Correct, res.Total, res.ScorePercent)
	if res.FirstCompletion {
		fmt.Fprintf(&b, "+%d XP for finishing the lesson. ", CompletionXP)
	}
	fmt.Fprintf(&b, "You are now level %d with %d XP.\n\nThe next lesson unlocks in 24 hours.", res.Level, res.XP)
	return b.String()
}

func shareText(s *ShareView) string {
	text := s.Caption
	if s.Unlocked {
		text += "\n\nAchievement unlocked: you shared your progress 3 times!"
	}
	return text
}

func progressText(p *ProgressView) string {
	if !p.Started {
		return "You have no progress yet. Start learning with /test!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your progress:\n\nLevel: %d\nXP: %d", p.Level, p.XP)
	if p.NextLevelXP > 0 {
		fmt.Fprintf(&b, " (next level at %d)", p.NextLevelXP)
	} else {
		fmt.Fprintf(&b, " (level %d is the highest)", gamification.MaxLevel)
	}
	fmt.Fprintf(&b, "\nDays in a row: %d", p.StreakDays)

	b.WriteString("\n\nAchievements:\n")
	if len(p.Achievements) == 0 {
		b.WriteString("None yet")
	}
	for i, a := range p.Achievements {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %s", a.Name, a.Description)
	}

	b.WriteString("\n\nCompleted lessons:\n")
	if len(p.CompletedLessons) == 0 {
		b.WriteString("None yet")
	}
	for i, l := range p.CompletedLessons {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- Lesson %d: %s", l.ID, l.Topic)
	}

	if len(p.Plan) > 0 {
		b.WriteString("\n\nStudy plan:\n")
		b.WriteString(p.Plan.String())
	}
	return b.String()
}
