// Package feed is the full-screen video feed: one item per section, with
// challenges answered inline and reaction videos in an overlay.
package feed

import (
	"context"
	"fmt"
	"strconv"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	engine "github.com/hejvi/hejvi/internal/feed"
	"github.com/hejvi/hejvi/internal/player"
	"github.com/hejvi/hejvi/internal/router"
	"github.com/hejvi/hejvi/internal/screen"
	"github.com/hejvi/hejvi/internal/screens/message"
	"github.com/hejvi/hejvi/internal/screens/summary"
	"github.com/hejvi/hejvi/internal/ui/components"
	"github.com/hejvi/hejvi/internal/ui/layout"
	"github.com/hejvi/hejvi/internal/ui/theme"
)

// Options configures a FeedScreen.
type Options struct {
	Session *engine.Session
	Loader  engine.Loader
	Request engine.LoadRequest

	// Start is the first item to show. Negative resumes the stored
	// position of the collection.
	Start int

	// Autoplay is unlocked on the first key or click.
	Autoplay *player.Autoplay
}

// playlistReadyMsg carries a loaded playlist and the index to start at.
type playlistReadyMsg struct {
	engine.PlaylistLoadedMsg
	start int
}

// FeedScreen implements screen.Screen for the video feed.
type FeedScreen struct {
	opts Options
	keys keyMap

	feed    *engine.Feed
	spinner spinner.Model

	// input is the free-text answer box, bound to item inputFor.
	input    components.TextInput
	inputFor int

	// width and height are the content size of the last render, used to
	// map mouse positions.
	width  int
	height int
	press  *press
}

var _ screen.Screen = (*FeedScreen)(nil)
var _ screen.KeyHintProvider = (*FeedScreen)(nil)
var _ screen.StatusProvider = (*FeedScreen)(nil)
var _ screen.Closer = (*FeedScreen)(nil)

// New creates a FeedScreen. The playlist is loaded by Init.
func New(opts Options) *FeedScreen {
	return &FeedScreen{
		opts:     opts,
		keys:     defaultKeyMap(),
		inputFor: -1,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.Countdown),
		),
	}
}

func (s *FeedScreen) Init() tea.Cmd {
	return tea.Batch(s.load(), spinnerTickCmd(s.spinner))
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

// load fetches the playlist and works out the start index off the update
// loop.
func (s *FeedScreen) load() tea.Cmd {
	fetch := engine.LoadCmd(s.opts.Loader, s.opts.Request)
	sess, start, hash := s.opts.Session, s.opts.Start, s.opts.Request.CollectionHash
	return func() tea.Msg {
		msg, _ := fetch().(engine.PlaylistLoadedMsg)
		if msg.Err == nil && start < 0 {
			start = sess.StartIndex(context.Background(), hash)
		}
		return playlistReadyMsg{PlaylistLoadedMsg: msg, start: max(start, 0)}
	}
}

func (s *FeedScreen) Title() string {
	if s.feed == nil {
		return "Loading"
	}
	if t := s.feed.Playlist().Title; t != "" {
		return t
	}
	return "Feed"
}

// Status shows the playlist position and the mute flag.
func (s *FeedScreen) Status() string {
	if s.feed == nil {
		return ""
	}
	st := fmt.Sprintf("%d/%d", s.feed.Active()+1, s.feed.Playlist().Len())
	if s.feed.Muted() {
		st += "  muted"
	}
	return st
}

func (s *FeedScreen) KeyHints() []layout.KeyHint {
	k := s.keys
	if s.feed == nil {
		return hints(k.Quit)
	}
	if ov, ok := s.feed.Overlay(); ok {
		if ov.Controls {
			return hints(k.Replay, k.Continue, k.Mute)
		}
		if ov.Skippable {
			return hints(k.Continue, k.Mute)
		}
		return hints(k.PlayPause, k.Mute)
	}
	if _, ok := s.feed.Countdown(); ok {
		return []layout.KeyHint{hint(k.Replay), {Key: "Enter", Description: "Next"}}
	}
	if s.typing() {
		return []layout.KeyHint{hint(k.Submit), {Key: "↑↓", Description: "Scroll"}}
	}
	if s.awaitingBoolean() {
		return hints(k.Yes, k.No, k.Hint, k.Prev, k.Next)
	}
	return hints(k.Prev, k.Next, k.PlayPause, k.Mute, k.Back, k.Forward, k.Quit)
}

// Close releases the feed's media elements.
func (s *FeedScreen) Close() {
	if s.feed != nil {
		s.feed.Close()
	}
}

func (s *FeedScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case playlistReadyMsg:
		return s.handleLoaded(msg)

	case engine.PlaylistEndedMsg:
		title := s.Title()
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: summary.New(title, msg.Stats)}
		}

	case summary.WatchAgainMsg:
		if s.feed == nil {
			return s, nil
		}
		return s, s.after(s.feed.JumpTo(0))

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)

	case tea.MouseClickMsg:
		return s.handleClick(msg)

	case tea.MouseReleaseMsg:
		return s.handleRelease(msg)

	case tea.MouseWheelMsg:
		return s.handleWheel(msg)
	}

	if s.feed == nil {
		return s, nil
	}
	cmd := s.feed.Update(msg)
	if s.inputFor >= 0 {
		var icmd tea.Cmd
		s.input, icmd = s.input.Update(msg)
		cmd = tea.Batch(cmd, icmd)
	}
	return s, s.after(cmd)
}

func (s *FeedScreen) handleLoaded(msg playlistReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.opts.Session.Logger.Error("load playlist", "err", msg.Err)
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: message.NewError("HejVi", msg.Err)}
		}
	}
	s.feed = engine.New(s.opts.Session, msg.Playlist)
	s.opts.Session.Logger.Info("playlist loaded",
		"items", msg.Playlist.Len(), "challenges", msg.Playlist.Challenges(), "start", msg.start)
	return s, s.after(s.feed.Start(msg.start))
}

// after batches cmd with whatever the new feed state needs from the
// screen, such as a fresh answer input.
func (s *FeedScreen) after(cmd tea.Cmd) tea.Cmd {
	return tea.Batch(cmd, s.syncInput())
}

// syncInput binds the free-text input to the active challenge while it
// waits for an answer, and drops it otherwise.
func (s *FeedScreen) syncInput() tea.Cmd {
	if !s.awaitingText() {
		s.inputFor = -1
		return nil
	}
	i := s.feed.Active()
	if s.inputFor == i {
		return nil
	}
	s.inputFor = i
	s.input = components.NewTextInput("Type your answer...", 60)
	return s.input.Init()
}

// awaiting reports whether the active item is a challenge of mode that
// can be answered now.
func (s *FeedScreen) awaiting(mode engine.AnswerMode) bool {
	if s.feed == nil {
		return false
	}
	if _, open := s.feed.Overlay(); open {
		return false
	}
	i := s.feed.Active()
	it := s.feed.Playlist().At(i)
	if it == nil || !it.IsChallenge() || it.AnswerMode != mode {
		return false
	}
	a := s.feed.Attempt(i)
	return a == nil || a.Status == engine.StatusUnanswered
}

func (s *FeedScreen) awaitingBoolean() bool { return s.awaiting(engine.AnswerBoolean) }
func (s *FeedScreen) awaitingText() bool    { return s.awaiting(engine.AnswerFreeText) }

// typing reports whether keys go to the answer input.
func (s *FeedScreen) typing() bool {
	return s.inputFor >= 0 && s.feed != nil && s.inputFor == s.feed.Active() && s.awaitingText()
}

func (s *FeedScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	k := s.keys
	if s.feed == nil {
		if key.Matches(msg, k.Quit) {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}
	s.opts.Autoplay.Unlock()

	if ov, ok := s.feed.Overlay(); ok {
		return s, s.after(s.overlayKey(msg, ov))
	}

	if s.typing() {
		switch msg.String() {
		case "enter":
			if s.input.Value() == "" {
				return s, nil
			}
			s.input.Submit(engine.EvaluateText(s.feed.Playlist().At(s.inputFor).CorrectAnswer, s.input.Value()) == engine.BranchSuccess)
			return s, s.after(s.feed.AnswerText(s.input.Value()))
		case "up":
			return s, s.after(s.feed.Prev())
		case "down":
			return s, s.after(s.feed.Next())
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if key.Matches(msg, k.Quit) {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if _, ok := s.feed.Countdown(); ok {
		switch {
		case key.Matches(msg, k.Replay):
			return s, s.after(s.feed.CountdownReplay())
		case key.Matches(msg, k.Submit):
			return s, s.after(s.feed.CountdownNext())
		}
	}

	if s.awaitingBoolean() {
		switch {
		case key.Matches(msg, k.Yes):
			return s, s.after(s.feed.AnswerBoolean(true))
		case key.Matches(msg, k.No):
			return s, s.after(s.feed.AnswerBoolean(false))
		case key.Matches(msg, k.Hint):
			return s, s.feed.ShowHint()
		}
	}

	switch {
	case key.Matches(msg, k.Prev):
		return s, s.after(s.feed.Prev())
	case key.Matches(msg, k.Next):
		return s, s.after(s.feed.Next())
	case key.Matches(msg, k.PlayPause):
		return s, s.feed.TogglePlay()
	case key.Matches(msg, k.Mute):
		return s, s.feed.ToggleMute()
	case key.Matches(msg, k.Back):
		return s, s.feed.Skip(-1)
	case key.Matches(msg, k.Forward):
		return s, s.feed.Skip(1)
	}

	// Digits seek to tenths of the video.
	if d, err := strconv.Atoi(msg.String()); err == nil && d >= 0 && d <= 9 {
		s.feed.SeekFraction(float64(d) / 10)
	}
	return s, nil
}

func (s *FeedScreen) overlayKey(msg tea.KeyPressMsg, ov engine.OverlayState) tea.Cmd {
	k := s.keys
	switch {
	case key.Matches(msg, k.Mute):
		return s.feed.ToggleMute()
	case key.Matches(msg, k.PlayPause):
		return s.feed.OverlayTogglePlay()
	case key.Matches(msg, k.Back):
		return s.feed.Skip(-1)
	case key.Matches(msg, k.Forward):
		return s.feed.Skip(1)
	}
	switch {
	case key.Matches(msg, k.Replay) && ov.Controls:
		return s.feed.OverlayReplay()
	case key.Matches(msg, k.Continue) && (ov.Controls || ov.Skippable):
		return s.feed.OverlayContinue()
	}
	return nil
}
