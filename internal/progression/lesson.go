package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/gamification"
	"github.com/abhisek/pytutor/internal/session"
)

// LessonCooldown is the time between starting a lesson and unlocking the
// next one once it is completed.
const LessonCooldown = 24 * time.Hour

// startLesson picks the lesson to show from the user's progress and shows
// its theory.
func (e *Engine) startLesson(ctx context.Context, userID string) (*Outcome, error) {
	var (
		out    *Outcome
		lesson content.Lesson
	)
	events, err := e.ledger.Update(ctx, userID, func(tx *gamification.Tx) error {
		p := tx.Progress()
		now := tx.Now()
		lessonID := p.CurrentLesson

		switch {
		case lessonID == 0:
			lessonID = 1
			tx.SetCurrentLesson(lessonID, now)
		case p.HasCompleted(lessonID):
			elapsed := now.Sub(p.LastLessonAt)
			if elapsed < LessonCooldown {
				w := waitFor(LessonCooldown - elapsed)
				out = &Outcome{Kind: OutcomeWait, Text: waitText(w), Wait: w}
				return nil
			}
			if lessonID+1 > e.catalog.LessonCount() {
				out = &Outcome{Kind: OutcomeCourseComplete, Text: courseCompleteText()}
				return nil
			}
			lessonID++
			tx.SetCurrentLesson(lessonID, now)
		}

		var err error
		lesson, err = e.catalog.Lesson(lessonID)
		if err != nil {
			log.Error().Err(err).Str("user", userID).Int("lesson", lessonID).Msg("Lesson missing from catalog")
			return err
		}
		_, err = tx.AwardXP(gamification.Award{Amount: TheoryXP, Reason: fmt.Sprintf("theory:%d", lessonID)})
		return err
	})
	if err != nil {
		return nil, err
	}
	if out != nil {
		out.Events = events
		return out, nil
	}

	p := session.NewPractice(userID, lesson.ID, len(lesson.Questions), e.ledger.Now())
	if err := e.sessions.PutPractice(ctx, p); err != nil {
		return nil, fmt.Errorf("save lesson session: %w", err)
	}
	log.Debug().Str("user", userID).Int("lesson", lesson.ID).Str("session", p.ID).Msg("Lesson theory shown")

	view := &LessonView{
		ID:          lesson.ID,
		Topic:       lesson.Topic,
		Theory:      lesson.Theory,
		CodeExample: lesson.CodeExample,
		Questions:   len(lesson.Questions),
		XPAwarded:   TheoryXP,
	}
	return &Outcome{Kind: OutcomeLesson, Text: lessonText(view), Lesson: view, Events: events}, nil
}

// startPractice begins the practice questions of the lesson being viewed,
// or of a.LessonID when given.
func (e *Engine) startPractice(ctx context.Context, userID string, a Action) (*Outcome, error) {
	var p *session.Practice
	if a.LessonID > 0 {
		lesson, err := e.catalog.Lesson(a.LessonID)
		if err != nil {
			log.Error().Err(err).Str("user", userID).Int("lesson", a.LessonID).Msg("Lesson missing from catalog")
			return nil, err
		}
		p = session.NewPractice(userID, lesson.ID, len(lesson.Questions), e.ledger.Now())
	} else {
		var err error
		if p, err = e.loadPractice(ctx, userID); err != nil {
			return nil, err
		}
	}

	if p.Phase != session.LessonAnsweringPractice {
		if err := p.Begin(); err != nil {
			return nil, err
		}
	}
	if p.Phase == session.LessonCompleted {
		return e.completeLesson(ctx, p)
	}
	if err := e.sessions.PutPractice(ctx, p); err != nil {
		return nil, fmt.Errorf("save lesson session: %w", err)
	}
	return e.practiceQuestion(p)
}

func (e *Engine) submitPracticeAnswer(ctx context.Context, userID string, a Action) (*Outcome, error) {
	p, err := e.loadPractice(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Phase != session.LessonAnsweringPractice {
		return nil, fmt.Errorf("practice: %w", ErrNoActiveSession)
	}
	if err := checkIndex(a, p.Cursor); err != nil {
		return nil, err
	}

	q, err := e.practiceQuestionAt(p)
	if err != nil {
		return nil, err
	}
	if !q.ValidIndex(a.Option) {
		return nil, fmt.Errorf("%w: option %d of %d", ErrInvalidAnswerIndex, a.Option, len(q.Options))
	}

	correct := q.IsCorrect(a.Option)
	fb := &Feedback{Correct: correct, CorrectOption: q.CorrectOption()}
	var events []gamification.Event
	if correct {
		events, err = e.ledger.Update(ctx, userID, func(tx *gamification.Tx) error {
			_, err := tx.AwardXP(gamification.Award{
				Amount: CorrectXP,
				Reason: fmt.Sprintf("correct:%d:%d", p.LessonID, p.Cursor),
				Key:    fmt.Sprintf("lesson:%s:q%d", p.ID, p.Cursor),
			})
			return err
		})
		if err != nil {
			return nil, err
		}
		fb.XPAwarded = CorrectXP
	}

	if err := p.RecordAnswer(correct); err != nil {
		return nil, err
	}

	var out *Outcome
	if p.Phase == session.LessonCompleted {
		out, err = e.completeLesson(ctx, p)
	} else {
		if err = e.sessions.PutPractice(ctx, p); err != nil {
			return nil, fmt.Errorf("save lesson session: %w", err)
		}
		out, err = e.practiceQuestion(p)
	}
	if err != nil {
		return nil, err
	}

	out.Feedback = fb
	out.Events = append(events, out.Events...)
	out.Text = feedbackText(fb) + "\n\n" + out.Text
	if !correct {
		out.explain = &explainRequest{question: q, selected: a.Option}
	}
	return out, nil
}

// completeLesson records the lesson as completed the first time and ends
// the practice session.
func (e *Engine) completeLesson(ctx context.Context, p *session.Practice) (*Outcome, error) {
	res := &LessonResult{
		LessonID:     p.LessonID,
		Correct:      p.Correct,
		Total:        p.Total,
		ScorePercent: p.ScorePercent(),
	}
	events, err := e.ledger.Update(ctx, p.UserID, func(tx *gamification.Tx) error {
		if tx.CompleteLesson(p.LessonID) {
			res.FirstCompletion = true
			_, err := tx.AwardXP(gamification.Award{
				Amount: CompletionXP,
				Reason: fmt.Sprintf("lesson:%d", p.LessonID),
				Key:    fmt.Sprintf("lesson:%s:complete", p.ID),
			})
			if err != nil {
				return err
			}
		}
		prog := tx.Progress()
		res.Level = prog.Level
		res.XP = prog.XP
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := e.sessions.DeletePractice(ctx, p.UserID); err != nil {
		return nil, fmt.Errorf("clear lesson session: %w", err)
	}

	log.Info().Str("user", p.UserID).Int("lesson", p.LessonID).Int("correct", p.Correct).Int("total", p.Total).Bool("first", res.FirstCompletion).Msg("Lesson completed")
	return &Outcome{Kind: OutcomeLessonResult, Text: lessonResultText(res), LessonResult: res, Events: events}, nil
}

func (e *Engine) practiceQuestion(p *session.Practice) (*Outcome, error) {
	q, err := e.practiceQuestionAt(p)
	if err != nil {
		return nil, err
	}
	view := questionView(q, p.Cursor, p.Total, ActionSubmitPracticeAnswer)
	return &Outcome{Kind: OutcomeQuestion, Text: questionText(view), Question: view}, nil
}

func (e *Engine) practiceQuestionAt(p *session.Practice) (content.Question, error) {
	lesson, err := e.catalog.Lesson(p.LessonID)
	if err != nil {
		log.Error().Err(err).Str("user", p.UserID).Int("lesson", p.LessonID).Msg("Lesson missing from catalog")
		return content.Question{}, err
	}
	if p.Cursor >= len(lesson.Questions) {
		return content.Question{}, fmt.Errorf("lesson %d question %d: %w", p.LessonID, p.Cursor, content.ErrNotFound)
	}
	return lesson.Questions[p.Cursor], nil
}

func (e *Engine) loadPractice(ctx context.Context, userID string) (*session.Practice, error) {
	p, err := e.sessions.GetPractice(ctx, userID)
	if errors.Is(err, session.ErrNoSession) {
		return nil, fmt.Errorf("practice: %w", ErrNoActiveSession)
	}
	if err != nil {
		return nil, fmt.Errorf("load lesson session: %w", err)
	}
	return p, nil
}

func waitFor(remaining time.Duration) *Wait {
	return &Wait{Remaining: remaining, Hours: int(remaining.Hours())}
}
