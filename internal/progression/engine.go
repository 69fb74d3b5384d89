// Package progression drives a user through the diagnostic test and the
// lesson sequence, turning user actions into session transitions and
// gamification awards.
package progression

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/gamification"
	"github.com/abhisek/pytutor/internal/plan"
	"github.com/abhisek/pytutor/internal/session"
	"github.com/abhisek/pytutor/internal/share"
	"github.com/abhisek/pytutor/internal/store"
	"github.com/abhisek/pytutor/internal/userlock"
)

// XP rewards for lesson activity.
const (
	TheoryXP     = 10
	CorrectXP    = 20
	CompletionXP = 50
)

// DefaultTestQuestions is the number of questions drawn for a test.
const DefaultTestQuestions = 10

// ShareRenderer produces a shareable artifact from a progress snapshot.
type ShareRenderer interface {
	Render(ctx context.Context, s share.Snapshot) (share.Artifact, error)
}

// Explainer explains why a selected option is wrong.
type Explainer interface {
	Explain(ctx context.Context, q content.Question, selected int) (string, error)
}

// Engine is the progression service. It is safe for concurrent use; actions
// for one user are applied one at a time.
type Engine struct {
	catalog  *content.Catalog
	plans    *plan.Generator
	ledger   *gamification.Ledger
	sessions session.Store
	results  store.TestResultRepo

	sharer    ShareRenderer
	explainer Explainer

	locks *userlock.Map

	rngMu         sync.Mutex
	rng           *rand.Rand
	testQuestions int
}

// Option configures an Engine.
type Option func(*Engine)

// WithTestQuestionCount sets how many questions a test draws.
func WithTestQuestionCount(n int) Option {
	return func(e *Engine) { e.testQuestions = n }
}

// WithRand sets the source used to draw test questions.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithTestResults persists finished tests to repo.
func WithTestResults(repo store.TestResultRepo) Option {
	return func(e *Engine) { e.results = repo }
}

// WithShareRenderer sets the renderer used for request_share.
func WithShareRenderer(r ShareRenderer) Option {
	return func(e *Engine) { e.sharer = r }
}

// WithExplainer adds explanations to wrong practice answers.
func WithExplainer(x Explainer) Option {
	return func(e *Engine) { e.explainer = x }
}

// NewEngine wires an engine from its collaborators.
func NewEngine(catalog *content.Catalog, ledger *gamification.Ledger, sessions session.Store, opts ...Option) *Engine {
	e := &Engine{
		catalog:       catalog,
		plans:         plan.NewGenerator(catalog),
		ledger:        ledger,
		sessions:      sessions,
		sharer:        share.CardRenderer{},
		locks:         userlock.New(),
		testQuestions: DefaultTestQuestions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dispatch applies one action for the user and returns what to show them.
func (e *Engine) Dispatch(ctx context.Context, userID string, a Action) (*Outcome, error) {
	out, err := e.dispatchLocked(ctx, userID, a)
	if err != nil {
		return nil, err
	}

	if out.explain != nil && e.explainer != nil {
		text, err := e.explainer.Explain(ctx, out.explain.question, out.explain.selected)
		if err != nil {
			log.Warn().Err(err).Str("user", userID).Int("question", out.explain.question.ID).Msg("Explanation unavailable")
		} else if out.Feedback != nil {
			out.Feedback.Explanation = text
			out.Text += "\n\n" + text
		}
	}
	out.explain = nil
	return out, nil
}

// dispatchLocked runs dispatch under the user's lock. The explainer runs
// after the lock is released.
func (e *Engine) dispatchLocked(ctx context.Context, userID string, a Action) (*Outcome, error) {
	unlock := e.locks.Lock(userID)
	defer unlock()
	return e.dispatch(ctx, userID, a)
}

func (e *Engine) dispatch(ctx context.Context, userID string, a Action) (*Outcome, error) {
	log.Debug().Str("user", userID).Str("action", string(a.Kind)).Msg("Dispatching action")

	switch a.Kind {
	case ActionStartTest:
		return e.startTest(ctx, userID)
	case ActionConfirmStartTest:
		return e.confirmStartTest(ctx, userID)
	case ActionSubmitTestAnswer:
		return e.submitTestAnswer(ctx, userID, a)
	case ActionStartLesson:
		return e.startLesson(ctx, userID)
	case ActionStartPractice:
		return e.startPractice(ctx, userID, a)
	case ActionSubmitPracticeAnswer:
		return e.submitPracticeAnswer(ctx, userID, a)
	case ActionRequestShare:
		return e.requestShare(ctx, userID)
	case ActionViewProgress:
		return e.viewProgress(ctx, userID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
}

// Catalog returns the content the engine serves.
func (e *Engine) Catalog() *content.Catalog {
	return e.catalog
}

func (e *Engine) sample(n int) []content.Question {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.catalog.DiagnosticQuestions(n, e.rng)
}

func questionView(q content.Question, index, total int, answerWith ActionKind) *QuestionView {
	return &QuestionView{
		Index:      index,
		Total:      total,
		Text:       q.Text,
		Options:    append([]string(nil), q.Options...),
		AnswerWith: answerWith,
	}
}

// checkIndex rejects answers aimed at a question other than the current one.
func checkIndex(a Action, cursor int) error {
	if a.QuestionIndex != nil && *a.QuestionIndex != cursor {
		return fmt.Errorf("%w: got %d, awaiting %d", ErrStaleAnswer, *a.QuestionIndex, cursor)
	}
	return nil
}
