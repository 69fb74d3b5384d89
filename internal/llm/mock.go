package llm

import (
	"context"
	"sync"
)

// offlineExplanation is what the "mock" provider answers when nothing else
// is scripted.
const offlineExplanation = `{"explanation":"Explanations are offline right now. Compare your choice with the correct option above and try the question again later."}`

// MockReply is one scripted answer. Output goes through the same schema
// check as a real provider's answer.
type MockReply struct {
	Output string
	Usage  Usage
	Err    error
}

// MockProvider serves scripted replies in order and records the requests it
// receives. Once the script runs out it uses the fallback reply, or fails as
// Unavailable when there is none.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockReply
	fallback *MockReply
	requests []Request
}

// NewMockProvider creates a MockProvider with the given script.
func NewMockProvider(script ...MockReply) *MockProvider {
	return &MockProvider{script: script}
}

// NewOfflineProvider answers every request with a fixed notice that
// explanations are unavailable.
func NewOfflineProvider() *MockProvider {
	return NewMockProvider().WithFallback(MockReply{Output: offlineExplanation})
}

// WithFallback sets the reply used after the script runs out.
func (m *MockProvider) WithFallback(r MockReply) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &r
	return m
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	if err := req.check(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	var reply MockReply
	switch {
	case len(m.script) > 0:
		reply = m.script[0]
		m.script = m.script[1:]
	case m.fallback != nil:
		reply = *m.fallback
	default:
		m.mu.Unlock()
		return nil, &Error{Kind: Unavailable}
	}
	m.mu.Unlock()

	if reply.Err != nil {
		return nil, reply.Err
	}
	return finish(req, reply.Output, "mock", reply.Usage, false)
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// Requests returns a copy of the requests received so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}
