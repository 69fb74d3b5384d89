package llm

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a provider failure for the retry policy.
type Kind int

const (
	// Unavailable covers network failures and 5xx answers.
	Unavailable Kind = iota
	// RateLimited is a 429.
	RateLimited
	// Rejected is any other 4xx: a bad key, an unknown model, a bad request.
	Rejected
	// InvalidOutput means the answer was empty or failed the schema.
	InvalidOutput
	// Truncated means the answer hit MaxTokens.
	Truncated
)

func (k Kind) String() string {
	switch k {
	case Unavailable:
		return "unavailable"
	case RateLimited:
		return "rate limited"
	case Rejected:
		return "rejected"
	case InvalidOutput:
		return "invalid output"
	case Truncated:
		return "truncated"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every Provider for failures of the model call itself.
type Error struct {
	Kind Kind
	// RetryAfter is the wait the API asked for, if any.
	RetryAfter time.Duration
	// Output is the rejected answer for InvalidOutput and Truncated.
	Output string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err. ok is false when err is not an *Error.
func KindOf(err error) (kind Kind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// fromStatus classifies an SDK error by the HTTP status it carried. Status 0
// means the request never got an answer.
func fromStatus(status int, err error) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: RateLimited, Err: err}
	case status >= 400 && status < 500:
		return &Error{Kind: Rejected, Err: err}
	default:
		return &Error{Kind: Unavailable, Err: err}
	}
}
