package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pytutor/internal/progression"
	"github.com/abhisek/pytutor/internal/screens/chat"
)

type nopEngine struct{}

func (nopEngine) Dispatch(context.Context, string, progression.Action) (*progression.Outcome, error) {
	return &progression.Outcome{}, nil
}

func (nopEngine) Progress(context.Context, string) (*progression.ProgressView, error) {
	return &progression.ProgressView{Level: 3, XP: 420}, nil
}

func TestWelcomeHandsOverToChat(t *testing.T) {
	m := newAppModel(nopEngine{}, "u1")

	updated, cmd := m.Update(tea.KeyPressMsg{Code: ' '})
	m = updated.(AppModel)
	if cmd == nil {
		t.Fatal("expected a replace command")
	}
	updated, _ = m.Update(cmd())
	m = updated.(AppModel)

	if _, ok := m.router.Active().(*chat.ChatScreen); !ok {
		t.Fatalf("expected chat screen, got %T", m.router.Active())
	}
	if m.router.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", m.router.Depth())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(nopEngine{}, "u1")
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}
