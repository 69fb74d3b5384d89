// Package llm talks to hosted language models. Every request the tutor makes
// is a single prompt whose answer must be a JSON object matching a schema;
// providers use their native structured-output mode and the answer is
// validated again before it is returned.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Provider generates schema-constrained answers.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model the provider sends requests to.
	ModelID() string
}

// Request is one single-turn prompt.
type Request struct {
	System string
	Prompt string

	// Schema is required. The answer is rejected unless it validates.
	Schema *Schema

	MaxTokens int
	// Temperature of 0 leaves the provider default.
	Temperature float64
}

// Schema describes the JSON object a model must answer with.
type Schema struct {
	// Name is kebab-case, e.g. "answer-explanation". It doubles as the
	// cache key for the compiled schema.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a validated answer.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	// Model is the model that served the request as reported by the API.
	Model string
}

// Usage counts the tokens billed for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Decode unmarshals the answer into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Content, v)
}

var errNoSchema = errors.New("llm: request has no schema")

func (r Request) check() error {
	if r.Schema == nil {
		return errNoSchema
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return errors.New("llm: empty prompt")
	}
	return nil
}

// finish turns a provider's raw answer into a Response. Truncated answers
// and answers that fail the schema are rejected.
func finish(req Request, text, model string, usage Usage, truncated bool) (*Response, error) {
	text = strings.TrimSpace(text)
	if truncated {
		return nil, &Error{Kind: Truncated, Output: text}
	}
	if text == "" {
		return nil, &Error{Kind: InvalidOutput, Err: errors.New("empty answer")}
	}
	if err := req.Schema.validate([]byte(text)); err != nil {
		return nil, &Error{Kind: InvalidOutput, Output: text, Err: err}
	}
	return &Response{Content: json.RawMessage(text), Usage: usage, Model: model}, nil
}
