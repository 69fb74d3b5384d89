package layout

import (
	"strings"
	"testing"
)

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Chat", Status{Level: 3, XP: 420, StreakDays: 2}, 100)
	for _, want := range []string{"PyTutor", "Chat", "Lv 3", "420 XP", "2 day"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q:\n%s", want, h)
		}
	}

	if strings.Contains(RenderHeader("", Status{}, 100), "XP") {
		t.Error("status should be hidden before progress loads")
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("expected too small below min width")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("expected min size to fit")
	}
}
