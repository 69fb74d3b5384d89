// Package tutor asks an LLM to explain wrong practice answers.
package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/llm"
)

// Config controls explanation requests.
type Config struct {
	MaxTokens   int
	Temperature float64
	// Timeout bounds one explanation. Zero means no limit beyond the
	// caller's context.
	Timeout time.Duration
}

// DefaultConfig returns settings for short, focused explanations.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.3,
		Timeout:     8 * time.Second,
	}
}

// ExplanationSchema is the structured output requested from the model.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Why a chosen answer to a Python quiz question is wrong",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Two or three sentences explaining the mistake and the correct idea",
			},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a patient Python tutor. A learner picked a wrong option in a multiple-choice practice question.
Explain in two or three short sentences why their choice is wrong and why the correct option is right.
Do not repeat the question. Do not use markdown headings. Address the learner directly.`

// Explainer produces explanations through an llm.Provider.
type Explainer struct {
	provider llm.Provider
	cfg      Config
}

// NewExplainer creates an Explainer.
func NewExplainer(provider llm.Provider, cfg Config) *Explainer {
	return &Explainer{provider: provider, cfg: cfg}
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
}

// Explain returns a short explanation of why selected is not the answer to q.
func (e *Explainer) Explain(ctx context.Context, q content.Question, selected int) (string, error) {
	if !q.ValidIndex(selected) {
		return "", fmt.Errorf("explain question %d: option %d out of range", q.ID, selected)
	}
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeExplanation)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(q, selected),
		Schema:      ExplanationSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("explanation: %w", err)
	}

	var out explanationOutput
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("parse explanation response: %w", err)
	}
	text := strings.TrimSpace(out.Explanation)
	if text == "" {
		return "", fmt.Errorf("explanation: empty response")
	}
	return text, nil
}

func buildPrompt(q content.Question, selected int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintf(&b, "\nLearner chose: %s\n", q.Options[selected])
	fmt.Fprintf(&b, "Correct answer: %s\n", q.CorrectOption())
	return b.String()
}
