package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	return p
}

func anthropicMessage(text, stopReason string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stopReason,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func anthropicFailure(status int, errType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": errType, "message": "failed"},
		})
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(goodAnswer, "end_turn"))
	}

	p := newTestAnthropicProvider(t, handler)
	resp, err := p.Generate(context.Background(), explainRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != goodAnswer {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.OutputTokens != 30 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	if resp.Model != "claude-haiku-4-5-20251001" {
		t.Fatalf("Model = %q", resp.Model)
	}

	if body["model"] != "claude-haiku-4-5-20251001" {
		t.Errorf("request model = %v", body["model"])
	}
	if _, ok := body["output_config"]; !ok {
		t.Errorf("request has no output_config: %v", body)
	}
	if _, ok := body["system"]; !ok {
		t.Errorf("request has no system prompt: %v", body)
	}
}

func TestAnthropicProvider_MaxTokens(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"explanation":"Pyth`, "max_tokens"))
	}

	p := newTestAnthropicProvider(t, handler)
	if _, err := p.Generate(context.Background(), explainRequest()); !isKind(err, Truncated) {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestAnthropicProvider_InvalidAnswer(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"reason":"x"}`, "end_turn"))
	}

	p := newTestAnthropicProvider(t, handler)
	if _, err := p.Generate(context.Background(), explainRequest()); !isKind(err, InvalidOutput) {
		t.Fatalf("expected invalid output, got %v", err)
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    Kind
	}{
		{"rate limit", anthropicFailure(http.StatusTooManyRequests, "rate_limit_error"), RateLimited},
		{"server error", anthropicFailure(http.StatusInternalServerError, "api_error"), Unavailable},
		{"bad key", anthropicFailure(http.StatusUnauthorized, "authentication_error"), Rejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, tt.handler)
			_, err := p.Generate(context.Background(), explainRequest())
			if !isKind(err, tt.want) {
				t.Fatalf("expected %s, got %T (%v)", tt.want, err, err)
			}
		})
	}
}

func TestAnthropicProvider_RequiresSchema(t *testing.T) {
	called := false
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	req := explainRequest()
	req.Schema = nil
	if _, err := p.Generate(context.Background(), req); !errors.Is(err, errNoSchema) {
		t.Fatalf("expected errNoSchema, got %v", err)
	}
	if called {
		t.Fatal("request without schema reached the API")
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"claude-sonnet", "claude-sonnet-4-5-20250929"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-opus-4-1-20250805", "claude-opus-4-1-20250805"},
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, anthropicModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
