// Package feed is the short-form video feed engine: a snapping playlist
// scroller, the playback controller for the live item, the challenge
// evaluator with its response video resolver, the overlay player and the
// advance navigator.
//
// The engine is driven from a Bubble Tea update loop. All blocking work
// (API lookups, decoder attaches, timers) runs as tea.Cmds whose results
// come back through Update.
package feed

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hejvi/hejvi/internal/media"
	"github.com/hejvi/hejvi/internal/store"
)

// Stats summarises a viewing session.
type Stats struct {
	Items          int
	Watched        int
	Answered       int
	Correct        int
	PlaybackErrors int
}

// mediaSlot is one media element with its decoder. gen identifies the
// element instance; it changes whenever the element is replaced or
// released so late events can be recognised.
type mediaSlot struct {
	elem    MediaElement
	decoder media.Decoder
	gen     int
	loaded  bool
	ended   bool
	err     error
}

// release pauses and detaches the element and destroys its decoder.
func (s *mediaSlot) release() {
	if s.elem != nil {
		s.elem.Pause()
		s.elem.Detach()
		s.elem = nil
	}
	if s.decoder != nil {
		s.decoder.Destroy()
		s.decoder = nil
	}
	s.loaded = false
}

type overlayState struct {
	mediaSlot
	index int
	// cancel stops the resolution started for this overlay.
	cancel context.CancelFunc
}

type countdownState struct {
	index     int
	remaining int
	returnTo  int
	token     int
}

type flash struct {
	index int
	dir   int
	token int
	on    bool
}

// Feed is one viewing session over a playlist.
type Feed struct {
	sess     *Session
	playlist *Playlist
	scroller *Scroller

	items    []mediaSlot
	live     int // index owning the live element, -1 for none
	attempts map[int]*Attempt
	overlay  *overlayState

	countdown *countdownState
	// returnTo is the challenge to go back to after the next natural end,
	// or -1.
	returnTo int

	taps TapClassifier
	skip flash
	hint flash

	visCandidate int
	visToken     int
	tokens       int
	gen          int
	framing      bool
	ticking      bool

	ended bool
	stats Stats
}

// New returns a feed over pl. Call Start to activate the first item.
func New(sess *Session, pl *Playlist) *Feed {
	return &Feed{
		sess:         sess,
		playlist:     pl,
		scroller:     NewScroller(pl.Len(), sess.Timing.VisibilityThreshold),
		items:        make([]mediaSlot, pl.Len()),
		live:         -1,
		attempts:     make(map[int]*Attempt),
		returnTo:     -1,
		taps:         TapClassifier{Window: sess.Timing.DoubleTapWindow, Radius: sess.Timing.DoubleTapRadius},
		visCandidate: -1,
		stats:        Stats{Items: pl.Len()},
	}
}

// Start scrolls to index without animation and activates it.
func (f *Feed) Start(index int) tea.Cmd {
	if f.playlist.Len() == 0 {
		return nil
	}
	i := f.scroller.SnapTo(index)
	return f.activate(i)
}

// Update handles the feed's own messages. Other messages are ignored.
func (f *Feed) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case scrollFrameMsg:
		return f.handleFrame()
	case visibilityMsg:
		return f.handleVisibility(msg)
	case playbackTickMsg:
		return f.handleTick()
	case MediaEventMsg:
		return f.handleMediaEvent(msg)
	case streamAttachedMsg:
		return f.handleStreamAttached(msg)
	case resolvedMsg:
		return f.handleResolved(msg)
	case countdownTickMsg:
		return f.handleCountdownTick(msg)
	case singleTapMsg:
		if f.taps.Expire(msg.token) {
			return f.TogglePlay()
		}
	case skipIndicatorDoneMsg:
		if msg.token == f.skip.token {
			f.skip.on = false
		}
	case hintDoneMsg:
		if msg.token == f.hint.token {
			f.hint.on = false
		}
	case persistedMsg:
		if msg.err != nil {
			f.sess.Logger.Warn("persist failed", "what", msg.what, "err", msg.err)
		}
	}
	return nil
}

// Close releases every media element and decoder.
func (f *Feed) Close() {
	f.closeOverlay()
	for i := range f.items {
		f.items[i].release()
	}
	f.live = -1
	f.countdown = nil
}

// Playlist returns the playlist.
func (f *Feed) Playlist() *Playlist { return f.playlist }

// Active returns the active index.
func (f *Feed) Active() int { return f.scroller.Active() }

// Offset returns the scroll offset in sections.
func (f *Feed) Offset() float64 { return f.scroller.Offset() }

// Navigating reports whether a programmatic jump is in progress.
func (f *Feed) Navigating() bool { return f.scroller.Navigating() }

// Animating reports whether the scroll region is still moving.
func (f *Feed) Animating() bool { return f.scroller.Animating() }

// Ended reports whether the session advanced past the last item.
func (f *Feed) Ended() bool { return f.ended }

// Muted returns the session mute flag.
func (f *Feed) Muted() bool { return f.sess.Muted() }

// Stats returns the session counters.
func (f *Feed) Stats() Stats { return f.stats }

// Attempt returns the attempt state of challenge i, or nil.
func (f *Feed) Attempt(i int) *Attempt { return f.attempts[i] }

// PlaybackState is a snapshot of one item's media for rendering.
type PlaybackState struct {
	Live     bool
	Loaded   bool
	Paused   bool
	Ended    bool
	Muted    bool
	Position time.Duration
	Duration time.Duration
	Err      error
}

func (s *mediaSlot) state() PlaybackState {
	st := PlaybackState{Loaded: s.loaded, Ended: s.ended, Err: s.err, Paused: true}
	if s.elem != nil {
		st.Live = true
		st.Paused = s.elem.Paused()
		st.Muted = s.elem.Muted()
		st.Position = s.elem.Position()
		st.Duration = s.elem.Duration()
	}
	return st
}

// Playback returns the playback state of item i.
func (f *Feed) Playback(i int) PlaybackState {
	if i < 0 || i >= len(f.items) {
		return PlaybackState{}
	}
	return f.items[i].state()
}

// Countdown returns the seconds left on the end-of-video countdown.
func (f *Feed) Countdown() (int, bool) {
	if f.countdown == nil {
		return 0, false
	}
	return f.countdown.remaining, true
}

// ReturningToChallenge reports whether the next natural end goes back to
// a challenge.
func (f *Feed) ReturningToChallenge() (int, bool) {
	return f.returnTo, f.returnTo >= 0
}

// SkipIndicator returns the direction of a visible skip indicator.
func (f *Feed) SkipIndicator() (int, bool) {
	return f.skip.dir, f.skip.on
}

// HintFor reports whether the hint is showing on item i, and which control
// is correct.
func (f *Feed) HintFor(i int) (correct bool, ok bool) {
	if !f.hint.on || f.hint.index != i {
		return false, false
	}
	it := f.playlist.At(i)
	if it == nil {
		return false, false
	}
	return NormalizeBool(it.CorrectAnswer)
}

func (f *Feed) nextToken() int {
	f.tokens++
	return f.tokens
}

func (f *Feed) nextGen() int {
	f.gen++
	return f.gen
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (f *Feed) itemHash(i int) string {
	if it := f.playlist.At(i); it != nil {
		return it.Key
	}
	return ""
}

func (f *Feed) savePosition(i int) tea.Cmd {
	positions, hash := f.sess.Positions, f.playlist.CollectionHash
	if positions == nil || hash == "" {
		return nil
	}
	return func() tea.Msg {
		return persistedMsg{what: "position", err: positions.SavePosition(context.Background(), hash, i)}
	}
}

func (f *Feed) recordPlayback(i int, action string, pos time.Duration, err error) tea.Cmd {
	events := f.sess.Events
	if events == nil {
		return nil
	}
	data := store.PlaybackEventData{
		SessionID:      f.sess.ID,
		CollectionHash: f.playlist.CollectionHash,
		ItemHash:       f.itemHash(i),
		Action:         action,
		PositionMs:     pos.Milliseconds(),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	return func() tea.Msg {
		return persistedMsg{what: "playback event", err: events.AppendPlaybackEvent(context.Background(), data)}
	}
}

func (f *Feed) recordAnswer(i int, a *Attempt) tea.Cmd {
	events := f.sess.Events
	it := f.playlist.At(i)
	if events == nil || it == nil {
		return nil
	}
	data := store.AnswerEventData{
		SessionID:      f.sess.ID,
		CollectionHash: f.playlist.CollectionHash,
		ItemHash:       it.Key,
		AnswerMode:     it.AnswerMode.String(),
		LearnerAnswer:  a.Answer,
		Correct:        a.Branch == BranchSuccess,
		ResolvedURL:    a.OverlayURL,
	}
	return func() tea.Msg {
		return persistedMsg{what: "answer event", err: events.AppendAnswerEvent(context.Background(), data)}
	}
}
