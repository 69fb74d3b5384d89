package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pytutor/internal/progression"
)

func TestInterpret_Commands(t *testing.T) {
	tests := []struct {
		line string
		want progression.ActionKind
	}{
		{"/test", progression.ActionStartTest},
		{"  /lesson ", progression.ActionStartLesson},
		{"/progress", progression.ActionViewProgress},
		{"/share", progression.ActionRequestShare},
		{"Go", progression.ActionConfirmStartTest},
		{"ready", progression.ActionConfirmStartTest},
		{"practice", progression.ActionStartPractice},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var in Interpreter
			r := in.Interpret(tt.line)
			require.NotNil(t, r.Action)
			assert.Equal(t, tt.want, r.Action.Kind)
			assert.Empty(t, r.Text)
		})
	}
}

func TestInterpret_LocalText(t *testing.T) {
	var in Interpreter

	assert.Equal(t, WelcomeText, in.Interpret("/start").Text)
	assert.Equal(t, HelpText, in.Interpret("/help").Text)
	assert.Equal(t, Reply{}, in.Interpret("   "))
	assert.Equal(t, progression.UserMessage(progression.ErrUnknownAction), in.Interpret("hello").Text)
	assert.Equal(t, progression.UserMessage(progression.ErrNoActiveSession), in.Interpret("2").Text)
}

func TestInterpret_AnswersPendingQuestion(t *testing.T) {
	var in Interpreter
	in.Observe(&progression.Outcome{
		Kind: progression.OutcomeQuestion,
		Question: &progression.QuestionView{
			Index:      3,
			Total:      5,
			Options:    []string{"a", "b", "c", "d"},
			AnswerWith: progression.ActionSubmitPracticeAnswer,
		},
	})

	r := in.Interpret("2")
	require.NotNil(t, r.Action)
	assert.Equal(t, progression.ActionSubmitPracticeAnswer, r.Action.Kind)
	assert.Equal(t, 1, r.Action.Option)
	require.NotNil(t, r.Action.QuestionIndex)
	assert.Equal(t, 3, *r.Action.QuestionIndex)

	assert.Equal(t, progression.UserMessage(progression.ErrInvalidAnswerIndex), in.Interpret("5").Text)
	assert.Equal(t, progression.UserMessage(progression.ErrInvalidAnswerIndex), in.Interpret("0").Text)
}

func TestObserve(t *testing.T) {
	var in Interpreter
	q := &progression.QuestionView{Options: []string{"a", "b"}, AnswerWith: progression.ActionSubmitTestAnswer}
	in.Observe(&progression.Outcome{Kind: progression.OutcomeQuestion, Question: q})

	in.Observe(&progression.Outcome{Kind: progression.OutcomeProgress})
	assert.Same(t, q, in.Pending(), "progress view keeps the awaited question")

	in.Observe(nil)
	assert.Same(t, q, in.Pending())

	in.Observe(&progression.Outcome{Kind: progression.OutcomeTestResult})
	assert.Nil(t, in.Pending())
}
