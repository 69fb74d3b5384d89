// Package console turns chat lines typed by a learner into engine actions.
package console

import (
	"strconv"
	"strings"

	"github.com/abhisek/pytutor/internal/progression"
)

// WelcomeText greets a new learner.
const WelcomeText = "Hi! I'll help you learn Python through play. " +
	"Take a quick 10-question test to get started!\n\n" +
	"Type /test to begin."

// HelpText lists the chat commands.
const HelpText = "PyTutor is your personal Python learning assistant.\n\n" +
	"Commands:\n" +
	"/start - Say hello\n" +
	"/test - Take the diagnostic test\n" +
	"/lesson - Start or continue a lesson\n" +
	"/progress - See your progress\n" +
	"/share - Share your progress\n" +
	"/help - Show this message\n\n" +
	"How it works:\n" +
	"1. Take the test to find your weak areas\n" +
	"2. Get a personal study plan\n" +
	"3. Do a lesson a day and earn XP\n" +
	"4. Share your achievements with friends\n\n" +
	"Answer questions by typing the option number. " +
	"Type go to start a test and practice to start a lesson's questions."

// Reply is the interpretation of one input line. Exactly one of Text and
// Action is set for non-empty input.
type Reply struct {
	Text   string
	Action *progression.Action
}

// Interpreter maps input lines to actions. It remembers the question that
// is awaiting an answer so option numbers go to the right flow and carry
// the question index.
type Interpreter struct {
	pending *progression.QuestionView
}

// Pending returns the question awaiting an answer, or nil.
func (in *Interpreter) Pending() *progression.QuestionView {
	return in.pending
}

// Interpret maps one line of input.
func (in *Interpreter) Interpret(line string) Reply {
	word := strings.ToLower(strings.TrimSpace(line))
	if word == "" {
		return Reply{}
	}

	switch word {
	case "/start":
		return Reply{Text: WelcomeText}
	case "/help":
		return Reply{Text: HelpText}
	case "/test":
		return act(progression.Action{Kind: progression.ActionStartTest})
	case "/lesson":
		return act(progression.Action{Kind: progression.ActionStartLesson})
	case "/progress":
		return act(progression.Action{Kind: progression.ActionViewProgress})
	case "/share":
		return act(progression.Action{Kind: progression.ActionRequestShare})
	case "go", "start", "ready", "/go":
		return act(progression.Action{Kind: progression.ActionConfirmStartTest})
	case "practice", "/practice":
		return act(progression.Action{Kind: progression.ActionStartPractice})
	}

	n, err := strconv.Atoi(word)
	if err != nil {
		return Reply{Text: progression.UserMessage(progression.ErrUnknownAction)}
	}
	if in.pending == nil {
		return Reply{Text: progression.UserMessage(progression.ErrNoActiveSession)}
	}
	if n < 1 || n > len(in.pending.Options) {
		return Reply{Text: progression.UserMessage(progression.ErrInvalidAnswerIndex)}
	}

	index := in.pending.Index
	return act(progression.Action{
		Kind:          in.pending.AnswerWith,
		Option:        n - 1,
		QuestionIndex: &index,
	})
}

// Observe updates the awaited question from an engine outcome. Share and
// progress views leave it unchanged.
func (in *Interpreter) Observe(out *progression.Outcome) {
	if out == nil {
		return
	}
	switch out.Kind {
	case progression.OutcomeShare, progression.OutcomeProgress:
		return
	}
	in.pending = out.Question
}

func act(a progression.Action) Reply {
	return Reply{Action: &a}
}
