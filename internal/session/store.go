package session

import (
	"context"
	"sync"
)

// Store keeps at most one diagnostic and one lesson session per user.
// Implementations return copies: mutating a returned session has no effect
// until it is Put back.
type Store interface {
	GetDiagnostic(ctx context.Context, userID string) (*Diagnostic, error)
	PutDiagnostic(ctx context.Context, d *Diagnostic) error
	DeleteDiagnostic(ctx context.Context, userID string) error

	GetPractice(ctx context.Context, userID string) (*Practice, error)
	PutPractice(ctx context.Context, p *Practice) error
	DeletePractice(ctx context.Context, userID string) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu          sync.RWMutex
	diagnostics map[string]*Diagnostic
	practices   map[string]*Practice
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		diagnostics: make(map[string]*Diagnostic),
		practices:   make(map[string]*Practice),
	}
}

func (m *MemoryStore) GetDiagnostic(_ context.Context, userID string) (*Diagnostic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.diagnostics[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return d.Clone(), nil
}

func (m *MemoryStore) PutDiagnostic(_ context.Context, d *Diagnostic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diagnostics[d.UserID] = d.Clone()
	return nil
}

func (m *MemoryStore) DeleteDiagnostic(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.diagnostics, userID)
	return nil
}

func (m *MemoryStore) GetPractice(_ context.Context, userID string) (*Practice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.practices[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return p.Clone(), nil
}

func (m *MemoryStore) PutPractice(_ context.Context, p *Practice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.practices[p.UserID] = p.Clone()
	return nil
}

func (m *MemoryStore) DeletePractice(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.practices, userID)
	return nil
}
