package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/llm"
)

var question = content.Question{
	ID:           101,
	Category:     content.CategoryFunctions,
	Text:         "Which keyword defines a function?",
	Options:      []string{"func", "def", "function", "lambda"},
	CorrectIndex: 1,
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReply{
		Output: `{"explanation": "  Python uses def to define functions; func is Go.  "}`,
	})
	x := NewExplainer(mock, DefaultConfig())

	got, err := x.Explain(context.Background(), question, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Python uses def to define functions; func is Go." {
		t.Errorf("Explain() = %q", got)
	}

	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	req := reqs[0]
	if req.Schema != ExplanationSchema {
		t.Error("expected the explanation schema")
	}
	msg := req.Prompt
	for _, want := range []string{"Which keyword defines a function?", "Learner chose: func", "Correct answer: def"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestExplainErrors(t *testing.T) {
	tests := []struct {
		name     string
		reply    llm.MockReply
		selected int
	}{
		{"provider error", llm.MockReply{Err: &llm.Error{Kind: llm.Unavailable, Err: errors.New("down")}}, 0},
		{"malformed json", llm.MockReply{Output: `not json`}, 0},
		{"missing field", llm.MockReply{Output: `{"reason": "x"}`}, 0},
		{"empty explanation", llm.MockReply{Output: `{"explanation": " "}`}, 0},
		{"option out of range", llm.MockReply{Output: `{"explanation": "x"}`}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewExplainer(llm.NewMockProvider(tt.reply), DefaultConfig())
			if _, err := x.Explain(context.Background(), question, tt.selected); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestExplainOffline(t *testing.T) {
	x := NewExplainer(llm.NewOfflineProvider(), DefaultConfig())
	got, err := x.Explain(context.Background(), question, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "offline") {
		t.Errorf("Explain() = %q, want the offline notice", got)
	}
}

func TestExplainTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 10 * time.Millisecond
	x := NewExplainer(slowProvider{}, cfg)

	_, err := x.Explain(context.Background(), question, 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
