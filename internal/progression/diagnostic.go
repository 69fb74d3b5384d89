package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/session"
	"github.com/abhisek/pytutor/internal/store"
)

// startTest draws a fresh test, replacing any test in progress.
func (e *Engine) startTest(ctx context.Context, userID string) (*Outcome, error) {
	questions := e.sample(e.testQuestions)
	ids := make([]int, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	d := session.NewDiagnostic(userID, ids, e.ledger.Now())
	if err := e.sessions.PutDiagnostic(ctx, d); err != nil {
		return nil, fmt.Errorf("save test session: %w", err)
	}
	log.Debug().Str("user", userID).Str("session", d.ID).Int("questions", len(ids)).Msg("Test started")

	return &Outcome{Kind: OutcomeTestIntro, Text: testIntroText(len(ids))}, nil
}

func (e *Engine) confirmStartTest(ctx context.Context, userID string) (*Outcome, error) {
	d, err := e.loadDiagnostic(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A repeated confirmation shows the pending question again.
	if d.Phase != session.DiagnosticAnsweringQuestions {
		if err := d.Begin(); err != nil {
			return nil, err
		}
	}
	if d.Phase == session.DiagnosticFinished {
		return e.finishTest(ctx, d)
	}

	if err := e.sessions.PutDiagnostic(ctx, d); err != nil {
		return nil, fmt.Errorf("save test session: %w", err)
	}
	return e.testQuestion(d)
}

func (e *Engine) submitTestAnswer(ctx context.Context, userID string, a Action) (*Outcome, error) {
	d, err := e.loadDiagnostic(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(a, d.Cursor); err != nil {
		return nil, err
	}

	id, ok := d.CurrentQuestionID()
	if !ok {
		return nil, fmt.Errorf("answer test question: %w", ErrNoActiveSession)
	}
	q, err := e.catalog.DiagnosticQuestion(id)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Int("question", id).Msg("Test question missing from catalog")
		return nil, err
	}
	if !q.ValidIndex(a.Option) {
		return nil, fmt.Errorf("%w: option %d of %d", ErrInvalidAnswerIndex, a.Option, len(q.Options))
	}

	correct, err := d.RecordAnswer(q, a.Option)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("user", userID).Int("question", q.ID).Bool("correct", correct).Int("cursor", d.Cursor).Msg("Test answer recorded")

	if d.Phase == session.DiagnosticFinished {
		return e.finishTest(ctx, d)
	}
	if err := e.sessions.PutDiagnostic(ctx, d); err != nil {
		return nil, fmt.Errorf("save test session: %w", err)
	}
	return e.testQuestion(d)
}

// finishTest scores the test, builds the plan, stores the result and ends
// the session.
func (e *Engine) finishTest(ctx context.Context, d *session.Diagnostic) (*Outcome, error) {
	pct := d.Percentages()
	weak := WeakAreas(pct)
	p := e.plans.Generate(weak)

	res := &TestResult{
		Correct:   d.CorrectCount(),
		Total:     d.Total(),
		WeakAreas: weak,
		Plan:      p,
	}
	for _, cat := range content.AllCategories() {
		v, ok := pct[cat]
		res.Scores = append(res.Scores, CategoryScore{Category: cat, Percent: v, Attempted: ok})
	}

	if e.results != nil {
		if err := e.results.SaveTestResult(ctx, testResultData(d, res, e.ledger.Now())); err != nil {
			return nil, fmt.Errorf("save test result: %w", err)
		}
	}
	if err := e.sessions.DeleteDiagnostic(ctx, d.UserID); err != nil {
		return nil, fmt.Errorf("clear test session: %w", err)
	}

	log.Info().Str("user", d.UserID).Str("session", d.ID).Int("correct", res.Correct).Int("total", res.Total).Int("weak", len(weak)).Msg("Test finished")
	return &Outcome{Kind: OutcomeTestResult, Text: testResultText(res), TestResult: res}, nil
}

func (e *Engine) testQuestion(d *session.Diagnostic) (*Outcome, error) {
	id, _ := d.CurrentQuestionID()
	q, err := e.catalog.DiagnosticQuestion(id)
	if err != nil {
		log.Error().Err(err).Str("user", d.UserID).Int("question", id).Msg("Test question missing from catalog")
		return nil, err
	}
	view := questionView(q, d.Cursor, d.Total(), ActionSubmitTestAnswer)
	return &Outcome{Kind: OutcomeQuestion, Text: questionText(view), Question: view}, nil
}

func (e *Engine) loadDiagnostic(ctx context.Context, userID string) (*session.Diagnostic, error) {
	d, err := e.sessions.GetDiagnostic(ctx, userID)
	if errors.Is(err, session.ErrNoSession) {
		return nil, fmt.Errorf("test: %w", ErrNoActiveSession)
	}
	if err != nil {
		return nil, fmt.Errorf("load test session: %w", err)
	}
	return d, nil
}

func testResultData(d *session.Diagnostic, res *TestResult, at time.Time) store.TestResultData {
	data := store.TestResultData{
		UserID:    d.UserID,
		SessionID: d.ID,
		Correct:   res.Correct,
		Total:     res.Total,
		Scores:    make(map[string]float64, len(res.Scores)),
		Timestamp: at,
	}
	for _, s := range res.Scores {
		data.Scores[string(s.Category)] = s.Percent
	}
	for _, c := range res.WeakAreas {
		data.WeakAreas = append(data.WeakAreas, string(c))
	}
	for _, day := range res.Plan {
		data.Plan = append(data.Plan, store.PlanEntry{Day: day.Day, LessonID: day.LessonID, Topic: day.Topic})
	}
	return data
}
