package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/hejvi/hejvi/internal/feed"
)

func testStats() feed.Stats {
	return feed.Stats{Items: 6, Watched: 5, Answered: 4, Correct: 3, PlaybackErrors: 1}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New("Fractions", testStats())
	if s.Title() != "Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New("Fractions", testStats())
	view := s.View(80, 24)
	for _, want := range []string{"Fractions", "Watched: 5/6", "Answered: 4", "Correct: 3", "75%", "1 video(s)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_NoAnswers(t *testing.T) {
	s := New("", feed.Stats{Items: 2, Watched: 2})
	if s.Accuracy() != 0 {
		t.Errorf("Accuracy = %v, want 0", s.Accuracy())
	}
	if strings.Contains(s.View(80, 24), "challenges right") {
		t.Error("accuracy shown without answers")
	}
}

func TestSummaryScreen_EnterQuits(t *testing.T) {
	s := New("", testStats())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected Enter to quit")
	}
}

func TestSummaryScreen_WatchAgain(t *testing.T) {
	s := New("", testStats())
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected a command on R")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New("", testStats())
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}
