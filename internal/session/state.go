// Package session holds the short-lived working state of diagnostic tests
// and lesson sessions, one of each per user.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNoSession is returned by a Store when the user has no session of
	// the requested kind.
	ErrNoSession = errors.New("no session")

	// ErrInvalidTransition is returned when an operation is not allowed in
	// the session's current phase.
	ErrInvalidTransition = errors.New("invalid session transition")
)

// DiagnosticPhase is the phase of a diagnostic test.
type DiagnosticPhase int

const (
	DiagnosticNotStarted         DiagnosticPhase = iota // No test in progress
	DiagnosticAwaitingStart                             // Questions drawn, waiting for the user to begin
	DiagnosticAnsweringQuestions                        // Questions being answered
	DiagnosticFinished                                  // All questions answered
)

func (p DiagnosticPhase) String() string {
	switch p {
	case DiagnosticNotStarted:
		return "not_started"
	case DiagnosticAwaitingStart:
		return "awaiting_start"
	case DiagnosticAnsweringQuestions:
		return "answering_questions"
	case DiagnosticFinished:
		return "finished"
	default:
		return fmt.Sprintf("DiagnosticPhase(%d)", int(p))
	}
}

// LessonPhase is the phase of a lesson session.
type LessonPhase int

const (
	LessonIdle              LessonPhase = iota // No lesson in progress
	LessonViewingTheory                        // Theory shown, practice not started
	LessonAnsweringPractice                    // Practice questions being answered
	LessonCompleted                            // All practice questions answered
)

func (p LessonPhase) String() string {
	switch p {
	case LessonIdle:
		return "idle"
	case LessonViewingTheory:
		return "viewing_theory"
	case LessonAnsweringPractice:
		return "answering_practice"
	case LessonCompleted:
		return "completed"
	default:
		return fmt.Sprintf("LessonPhase(%d)", int(p))
	}
}

// Answer is one recorded diagnostic answer.
type Answer struct {
	QuestionID int  `json:"question_id"`
	Selected   int  `json:"selected"`
	Correct    bool `json:"correct"`
}

// CategoryTally counts diagnostic answers for one category.
type CategoryTally struct {
	Correct   int `json:"correct"`
	Attempted int `json:"attempted"`
}

// Percent returns Correct/Attempted as a percentage, 0 when nothing was attempted.
func (t CategoryTally) Percent() float64 {
	if t.Attempted == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Attempted) * 100
}

func newID() string {
	return uuid.NewString()
}

func transitionErr(op string, phase fmt.Stringer) error {
	return fmt.Errorf("%w: %s in phase %s", ErrInvalidTransition, op, phase)
}
