package progression

import (
	"errors"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/session"
	"github.com/abhisek/pytutor/internal/store"
)

var (
	// ErrNoActiveSession is returned for answers with no matching session.
	ErrNoActiveSession = errors.New("no active session")

	// ErrInvalidAnswerIndex is returned when the selected option does not
	// exist. The session does not advance.
	ErrInvalidAnswerIndex = errors.New("answer index out of range")

	// ErrStaleAnswer is returned when an answer names a question other than
	// the one awaiting an answer.
	ErrStaleAnswer = errors.New("question already answered")

	// ErrUnknownAction is returned for unrecognised action kinds.
	ErrUnknownAction = errors.New("unknown action")

	// ErrNoProgress is returned when sharing before any progress exists.
	ErrNoProgress = errors.New("no progress recorded")
)

// UserMessage turns an engine error into a short instruction for the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoActiveSession):
		return "There is nothing to answer right now. Start again with /test or /lesson."
	case errors.Is(err, ErrInvalidAnswerIndex):
		return "Please pick one of the listed options."
	case errors.Is(err, ErrStaleAnswer):
		return "That question was already answered."
	case errors.Is(err, ErrNoProgress):
		return "Nothing to share yet. Start learning with /test or /lesson first."
	case errors.Is(err, session.ErrInvalidTransition):
		return "That isn't available right now. Start again with /test or /lesson."
	case errors.Is(err, content.ErrNotFound):
		return "That lesson is unavailable. Please try again later."
	case errors.Is(err, ErrUnknownAction):
		return "Sorry, I didn't understand that. Type /help to see what I can do."
	case errors.Is(err, store.ErrPersistence):
		return "Your progress could not be saved. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
