package chat

import "github.com/abhisek/pytutor/internal/progression"

// outcomeMsg carries the engine's answer to a dispatched action.
type outcomeMsg struct {
	Outcome  *progression.Outcome
	Err      error
	Progress *progression.ProgressView
}

// statusMsg refreshes the header after startup.
type statusMsg struct {
	Progress *progression.ProgressView
}
