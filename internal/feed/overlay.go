package feed

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/hejvi/hejvi/internal/media"
)

// OverlayState is a snapshot of the reaction video overlay for rendering.
type OverlayState struct {
	Index  int
	Branch Branch
	Status AttemptStatus

	URL       string
	Thumbnail string
	Kind      media.Kind
	Playback  PlaybackState

	// NotFound is set when resolution exhausted every fallback.
	NotFound bool
	// Err is the resolution or playback failure, if any.
	Err error
	// Controls is true when Replay/Continue must be offered.
	Controls bool
	// Skippable is true when Continue may be used to leave the overlay
	// early, which is the case while resolution is still running.
	Skippable bool
}

// Overlay returns the overlay state, or false when no overlay is open.
func (f *Feed) Overlay() (OverlayState, bool) {
	ov := f.overlay
	if ov == nil {
		return OverlayState{}, false
	}
	a := f.attempts[ov.index]
	st := OverlayState{Index: ov.index, Playback: ov.state()}
	if a == nil {
		return st, true
	}
	st.Branch, st.Status = a.Branch, a.Status
	st.URL, st.Thumbnail, st.Kind = a.OverlayURL, a.OverlayThumbnail, a.OverlayKind
	st.Err = a.Err
	if ov.err != nil {
		st.Err = ov.err
	}
	var nf *NotFoundError
	st.NotFound = errors.As(a.Err, &nf)
	st.Skippable = a.Status == StatusResolving
	if a.Status != StatusResolving {
		st.Controls = a.OverlayURL == "" || ov.err != nil || (a.Status == StatusFailure && ov.ended)
	}
	return st, true
}

// AnswerBoolean answers the active boolean challenge with the control
// mapped to value.
func (f *Feed) AnswerBoolean(value bool) tea.Cmd {
	i := f.Active()
	it := f.playlist.At(i)
	if it == nil || !it.IsChallenge() || it.AnswerMode != AnswerBoolean || f.overlay != nil {
		return nil
	}
	return f.decide(i, EvaluateBoolean(it.CorrectAnswer, value), BoolLabel(value))
}

// AnswerText answers the active free-text challenge.
func (f *Feed) AnswerText(text string) tea.Cmd {
	i := f.Active()
	it := f.playlist.At(i)
	if it == nil || !it.IsChallenge() || it.AnswerMode != AnswerFreeText || f.overlay != nil {
		return nil
	}
	return f.decide(i, EvaluateText(it.CorrectAnswer, text), text)
}

// ShowHint highlights the correct control of the active boolean challenge
// for a moment. It is not an answer.
func (f *Feed) ShowHint() tea.Cmd {
	i := f.Active()
	it := f.playlist.At(i)
	if it == nil || !it.IsChallenge() || it.AnswerMode != AnswerBoolean || f.overlay != nil {
		return nil
	}
	if _, ok := NormalizeBool(it.CorrectAnswer); !ok {
		return nil
	}
	f.hint = flash{index: i, token: f.nextToken(), on: true}
	return f.sess.Scheduler.After(f.sess.Timing.HintDuration, hintDoneMsg{token: f.hint.token})
}

// decide moves challenge i to resolving and starts resolving the reaction
// video for branch b. A failure branch without any target goes straight to
// failure with no media.
func (f *Feed) decide(i int, b Branch, answer string) tea.Cmd {
	it := f.playlist.At(i)
	a := &Attempt{Status: StatusResolving, Branch: b, Answer: answer, token: f.nextToken()}
	f.attempts[i] = a
	f.stats.Answered++
	if b == BranchSuccess {
		f.stats.Correct++
	}
	f.countdown = nil
	f.hint.on = false
	if f.live >= 0 && f.items[f.live].elem != nil {
		f.items[f.live].elem.Pause()
	}
	f.openOverlay(i)
	f.sess.Logger.Info("challenge answered", "index", i, "hash", it.Key, "branch", b.String())

	if b == BranchFailure && it.FailureTarget.Kind == TargetNone {
		a.Status = StatusFailure
		return f.recordAnswer(i, a)
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.overlay.cancel = cancel
	resolver := f.sess.Resolver()
	pl, item, token := f.playlist, *it, a.token
	return func() tea.Msg {
		res, err := resolver.Resolve(ctx, pl, item, b)
		return resolvedMsg{index: i, token: token, res: res, err: err}
	}
}

func (f *Feed) handleResolved(msg resolvedMsg) tea.Cmd {
	a := f.attempts[msg.index]
	if a == nil || a.token != msg.token {
		return nil
	}
	if a.Branch == BranchSuccess {
		a.Status = StatusSuccess
	} else {
		a.Status = StatusFailure
	}
	if msg.err != nil {
		a.Err = msg.err
		return f.recordAnswer(msg.index, a)
	}
	a.OverlayURL, a.OverlayThumbnail, a.OverlayKind = msg.res.URL, msg.res.Thumbnail, msg.res.Kind
	record := f.recordAnswer(msg.index, a)
	if f.overlay == nil || f.overlay.index != msg.index {
		return record
	}
	return tea.Batch(record, f.loadOverlay())
}

func (f *Feed) openOverlay(i int) {
	f.closeOverlay()
	f.overlay = &overlayState{index: i}
	f.overlay.gen = f.nextGen()
}

func (f *Feed) loadOverlay() tea.Cmd {
	ov := f.overlay
	a := f.attempts[ov.index]
	ov.elem = f.sess.NewElement()
	ov.elem.SetMuted(f.sess.Muted())
	return f.loadSlot(TargetOverlay, ov.index, &ov.mediaSlot, Source{URL: a.OverlayURL, Kind: a.OverlayKind})
}

// closeOverlay cancels a resolution in flight, detaches the overlay
// element and destroys its decoder.
func (f *Feed) closeOverlay() {
	if f.overlay == nil {
		return
	}
	if f.overlay.cancel != nil {
		f.overlay.cancel()
	}
	f.overlay.release()
	f.overlay = nil
}

func (f *Feed) onOverlayEnded() tea.Cmd {
	ov := f.overlay
	a := f.attempts[ov.index]
	if a == nil || a.Status != StatusSuccess {
		// Failure keeps the overlay up with Replay/Continue.
		return nil
	}
	i := ov.index
	f.closeOverlay()
	return f.Advance(i)
}

// OverlayReplay closes the overlay, resets the challenge and replays the
// supporting video before it. The next natural end returns to the
// challenge.
func (f *Feed) OverlayReplay() tea.Cmd {
	if f.overlay == nil {
		return nil
	}
	i := f.overlay.index
	f.closeOverlay()
	delete(f.attempts, i)
	target := ReplayTarget(f.playlist, i)
	if target != i {
		f.returnTo = i
	}
	f.sess.Logger.Debug("replay", "challenge", i, "target", target)
	return f.restart(target)
}

// OverlayContinue closes the overlay, resets the challenge and advances
// without replaying anything.
func (f *Feed) OverlayContinue() tea.Cmd {
	if f.overlay == nil {
		return nil
	}
	i := f.overlay.index
	f.closeOverlay()
	delete(f.attempts, i)
	return f.Advance(i)
}

// OverlayTogglePlay pauses or resumes the overlay video.
func (f *Feed) OverlayTogglePlay() tea.Cmd {
	if f.overlay == nil {
		return nil
	}
	return f.TogglePlay()
}
