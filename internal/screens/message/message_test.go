package message

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/hejvi/hejvi/internal/router"
)

func TestMessageScreen_Title(t *testing.T) {
	m := New("HejVi", "hello")
	if m.Title() != "HejVi" {
		t.Errorf("Title = %q, want HejVi", m.Title())
	}
}

func TestMessageScreen_ErrorText(t *testing.T) {
	m := NewError("HejVi", errors.New("collection not found"))
	if !strings.Contains(m.View(60, 10), "collection not found") {
		t.Error("error text not rendered")
	}
}

func TestMessageScreen_AnyKeyPops(t *testing.T) {
	m := New("HejVi", "hello")
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected a key press to pop the screen")
	}
}

func TestMessageScreen_IgnoresOtherMessages(t *testing.T) {
	m := New("HejVi", "hello")
	if _, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24}); cmd != nil {
		t.Error("expected no command for a resize")
	}
}
