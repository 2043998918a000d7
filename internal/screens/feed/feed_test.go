package feed

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hejvi/hejvi/internal/content"
	engine "github.com/hejvi/hejvi/internal/feed"
	"github.com/hejvi/hejvi/internal/media"
	"github.com/hejvi/hejvi/internal/player"
	"github.com/hejvi/hejvi/internal/router"
	"github.com/hejvi/hejvi/internal/ui/layout"
)

// nopScheduler drops timers; tests drive the feed by hand.
type nopScheduler struct{}

func (nopScheduler) After(time.Duration, tea.Msg) tea.Cmd { return nil }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testScreen(t *testing.T, start int) (*FeedScreen, *content.MockClient) {
	t.Helper()
	client := content.NewMockClient()
	client.AddCollection("col",
		json.RawMessage(`{"id": 1, "hash_id": "el-1", "type": 1, "title": "Intro", "url_element": "https://cdn.test/1.mp4", "duration": 20}`),
		json.RawMessage(`{"id": 2, "hash_id": "el-2", "type": 3, "question": "Is the sky blue?", "correct_answer": "yes", "success_response_hash": "ok"}`),
		json.RawMessage(`{"id": 3, "hash_id": "el-3", "type": 3, "question": "Capital of France?", "correct_answer": "Paris"}`),
	)
	norm, err := media.NewNormalizer("https://api.hejvi.se/api", "media.hejvi.se", "/api/media")
	if err != nil {
		t.Fatalf("normalizer: %v", err)
	}
	sess := engine.NewSession(client, player.Factory(nil))
	sess.Scheduler = nopScheduler{}
	sess.Normalizer = norm

	s := New(Options{
		Session: sess,
		Loader:  engine.Loader{Client: client, Normalizer: norm},
		Request: engine.LoadRequest{CollectionHash: "col"},
		Start:   start,
	})
	return s, client
}

// loaded returns a screen with its playlist loaded.
func loaded(t *testing.T, start int) *FeedScreen {
	t.Helper()
	s, _ := testScreen(t, start)
	s.Update(s.load()())
	if s.feed == nil {
		t.Fatal("playlist not loaded")
	}
	return s
}

func TestFeedScreen_Loading(t *testing.T) {
	s, _ := testScreen(t, 0)
	if s.Init() == nil {
		t.Fatal("expected Init to load the playlist")
	}
	if s.Title() != "Loading" {
		t.Errorf("Title = %q, want Loading", s.Title())
	}
	if !strings.Contains(s.View(80, 20), "Loading playlist") {
		t.Error("expected loading message")
	}
	if len(s.KeyHints()) != 1 {
		t.Errorf("KeyHints = %v, want quit only", s.KeyHints())
	}
}

func TestFeedScreen_LoadStartsFirstItem(t *testing.T) {
	s := loaded(t, 0)
	if s.feed.Active() != 0 {
		t.Errorf("active = %d, want 0", s.feed.Active())
	}
	if !s.feed.Playback(0).Live {
		t.Error("first video not live")
	}
	if s.Status() != "1/3" {
		t.Errorf("Status = %q, want 1/3", s.Status())
	}
}

func TestFeedScreen_StartIndex(t *testing.T) {
	s := loaded(t, 2)
	if s.feed.Active() != 2 {
		t.Errorf("active = %d, want 2", s.feed.Active())
	}
}

func TestFeedScreen_LoadError(t *testing.T) {
	s, client := testScreen(t, 0)
	client.FailCall(content.OpCollectionByHash, "col", errors.New("boom"))

	_, cmd := s.Update(s.load()())
	if cmd == nil {
		t.Fatal("expected a command on load error")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected the screen to be replaced by an error notice")
	}
}

func TestFeedScreen_NavigateKeys(t *testing.T) {
	s := loaded(t, 0)

	s.Update(specialKey(tea.KeyDown))
	if s.feed.Active() != 1 {
		t.Fatalf("active after down = %d, want 1", s.feed.Active())
	}
	s.Update(keyPress('k'))
	if s.feed.Active() != 0 {
		t.Errorf("active after k = %d, want 0", s.feed.Active())
	}
}

func TestFeedScreen_BooleanAnswerOpensOverlay(t *testing.T) {
	s := loaded(t, 1)
	if !s.awaitingBoolean() {
		t.Fatal("expected boolean challenge to await an answer")
	}
	if !strings.Contains(s.View(80, 24), "Is the sky blue?") {
		t.Error("question not rendered")
	}

	s.Update(keyPress('y'))
	a := s.feed.Attempt(1)
	if a == nil || a.Branch != engine.BranchSuccess {
		t.Fatalf("attempt = %+v, want success branch", a)
	}
	if _, open := s.feed.Overlay(); !open {
		t.Fatal("overlay not open")
	}
	if !strings.Contains(s.View(80, 24), "Finding your response video") {
		t.Error("overlay should show resolving state")
	}

	// Navigation is blocked while the overlay is up.
	s.Update(specialKey(tea.KeyDown))
	if s.feed.Active() != 1 {
		t.Errorf("active = %d, navigation should be blocked", s.feed.Active())
	}
}

func TestFeedScreen_ContinueWhileResolving(t *testing.T) {
	s := loaded(t, 1)
	s.Update(keyPress('y'))

	if hints := s.KeyHints(); len(hints) != 2 || hints[0].Description != "Continue" {
		t.Errorf("KeyHints = %v, want Continue and Mute", hints)
	}
	if !strings.Contains(s.View(80, 24), "Continue") {
		t.Error("Continue not offered while resolving")
	}

	s.Update(keyPress('c'))
	if _, open := s.feed.Overlay(); open {
		t.Fatal("overlay still open after c")
	}
	if s.feed.Active() != 2 {
		t.Errorf("active = %d, want the next challenge", s.feed.Active())
	}
}

func TestFeedScreen_HintKey(t *testing.T) {
	s := loaded(t, 1)
	s.Update(keyPress('?'))
	correct, ok := s.feed.HintFor(1)
	if !ok || !correct {
		t.Errorf("HintFor = (%v, %v), want (true, true)", correct, ok)
	}
	if s.feed.Attempt(1) != nil {
		t.Error("hint recorded an answer")
	}
}

func TestFeedScreen_FreeTextAnswer(t *testing.T) {
	s := loaded(t, 2)
	if !s.typing() {
		t.Fatal("expected the answer input to be active")
	}

	// Letters go to the input, not to the feed's key bindings.
	s.Update(keyPress('m'))
	if s.feed.Muted() {
		t.Error("typing m toggled mute")
	}

	s.input.Model.SetValue("  paris ")
	s.Update(specialKey(tea.KeyEnter))

	a := s.feed.Attempt(2)
	if a == nil || a.Branch != engine.BranchSuccess {
		t.Fatalf("attempt = %+v, want success", a)
	}
	if s.typing() {
		t.Error("input still active after answering")
	}
}

func TestFeedScreen_EmptyAnswerIgnored(t *testing.T) {
	s := loaded(t, 2)
	s.Update(specialKey(tea.KeyEnter))
	if s.feed.Attempt(2) != nil {
		t.Error("empty answer was submitted")
	}
}

func TestFeedScreen_MuteKey(t *testing.T) {
	s := loaded(t, 0)
	s.Update(keyPress('m'))
	if !s.feed.Muted() {
		t.Error("m did not mute")
	}
	if !strings.Contains(s.Status(), "muted") {
		t.Errorf("Status = %q, want muted marker", s.Status())
	}
}

func TestFeedScreen_DigitSeeks(t *testing.T) {
	s := loaded(t, 0)
	s.Update(keyPress('5'))
	if got := s.feed.Playback(0).Position; got != 10*time.Second {
		t.Errorf("position = %v, want 10s", got)
	}
}

func TestFeedScreen_QuitPops(t *testing.T) {
	s := loaded(t, 0)
	_, cmd := s.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("expected a command on q")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected q to pop the screen")
	}
}

func TestFeedScreen_ClickSeekBar(t *testing.T) {
	s := loaded(t, 0)
	s.View(80, 20)

	// The bar leaves room for a 15-column time label on the right.
	barRow := layout.ContentTop() + 20 - 2
	barEnd := barMargin + (80 - 2*barMargin - 15) - 1
	s.Update(tea.MouseClickMsg{X: barEnd, Y: barRow, Button: tea.MouseLeft})

	pb := s.feed.Playback(0)
	if pb.Position != pb.Duration {
		t.Errorf("position = %v, want end of video %v", pb.Position, pb.Duration)
	}
	if s.press != nil {
		t.Error("seek click also started a drag")
	}
}

func TestFeedScreen_BackSwipe(t *testing.T) {
	s := loaded(t, 0)
	s.View(80, 20)

	s.Update(tea.MouseClickMsg{X: 10, Y: 8, Button: tea.MouseLeft})
	_, cmd := s.Update(tea.MouseReleaseMsg{X: 40, Y: 9, Button: tea.MouseLeft})
	if cmd == nil {
		t.Fatal("expected a command from the swipe")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected a back swipe to pop the screen")
	}
}

func TestFeedScreen_WheelScrolls(t *testing.T) {
	s := loaded(t, 0)
	s.Update(tea.MouseWheelMsg{X: 10, Y: 10, Button: tea.MouseWheelDown})
	if s.feed.Offset() <= 0 {
		t.Errorf("offset = %v, want scrolled forward", s.feed.Offset())
	}
	if s.press != nil {
		t.Error("wheel started a drag")
	}
}

func TestFeedScreen_PlaylistEndedShowsSummary(t *testing.T) {
	s := loaded(t, 0)
	_, cmd := s.Update(engine.PlaylistEndedMsg{Stats: engine.Stats{Items: 3}})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Error("expected the summary to be pushed")
	}
}

func TestFeedScreen_CloseReleasesMedia(t *testing.T) {
	s := loaded(t, 0)
	s.Close()
	if s.feed.Playback(0).Live {
		t.Error("media still live after Close")
	}
}
