package feed

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hejvi/hejvi/internal/media"
	"github.com/hejvi/hejvi/internal/store"
)

// errNoDecoder is reported when a stream needs a decoder and none is
// configured.
var errNoDecoder = errors.New("no streaming decoder available")

// JumpTo scrolls smoothly to item i and makes it active immediately.
func (f *Feed) JumpTo(i int) tea.Cmd {
	if !f.scroller.JumpTo(i) {
		return nil
	}
	return tea.Batch(f.activate(i), f.ensureFrames())
}

// Next moves to the following item.
func (f *Feed) Next() tea.Cmd {
	if f.overlay != nil {
		return nil
	}
	return f.JumpTo(f.Active() + 1)
}

// Prev moves to the previous item.
func (f *Feed) Prev() tea.Cmd {
	if f.overlay != nil {
		return nil
	}
	return f.JumpTo(f.Active() - 1)
}

// ScrollBy is a free user scroll of delta sections; the region snaps to
// the nearest section and the visibility observer picks the active item.
func (f *Feed) ScrollBy(delta float64) tea.Cmd {
	if f.overlay != nil {
		return nil
	}
	f.scroller.ScrollBy(delta)
	return tea.Batch(f.observe(), f.ensureFrames())
}

// Advance moves on from item from: to the next unanswered challenge if
// there is one ahead, otherwise to from+1. Past the last item the session
// ends and the active item stays put.
func (f *Feed) Advance(from int) tea.Cmd {
	target, ok := NextIndex(f.playlist, f.attempts, from)
	if !ok {
		f.ended = true
		f.sess.Logger.Info("playlist ended", "from", from)
		return emit(PlaylistEndedMsg{Stats: f.stats})
	}
	if f.scroller.Navigating() && f.scroller.NavTarget() == target {
		return nil
	}
	f.sess.Logger.Debug("advance", "from", from, "to", target)
	return f.JumpTo(target)
}

func (f *Feed) ensureFrames() tea.Cmd {
	if f.framing || !f.scroller.Animating() {
		return nil
	}
	f.framing = true
	return f.sess.Scheduler.After(f.sess.Timing.FrameInterval, scrollFrameMsg{})
}

func (f *Feed) handleFrame() tea.Cmd {
	f.framing = false
	f.scroller.Step()
	return tea.Batch(f.observe(), f.ensureFrames())
}

// observe reports visibility changes. A newly visible section only becomes
// active after it stays visible for the debounce interval.
func (f *Feed) observe() tea.Cmd {
	if f.scroller.ClampToBottom() {
		f.visCandidate = -1
		return f.activate(f.scroller.Active())
	}
	idx, ok := f.scroller.Visible()
	if !ok || idx == f.scroller.Active() {
		f.visCandidate = -1
		return nil
	}
	if idx == f.visCandidate {
		return nil
	}
	f.visCandidate = idx
	f.visToken++
	return f.sess.Scheduler.After(f.sess.Timing.VisibilityDebounce, visibilityMsg{index: idx, token: f.visToken})
}

func (f *Feed) handleVisibility(msg visibilityMsg) tea.Cmd {
	if msg.token != f.visToken {
		return nil
	}
	f.visCandidate = -1
	if !f.scroller.Observe(msg.index) {
		return nil
	}
	return f.activate(msg.index)
}

// activate makes item i the only live item. The previous item is paused
// and released before anything else happens.
func (f *Feed) activate(i int) tea.Cmd {
	if f.live == i {
		return nil
	}
	if f.live >= 0 {
		f.deactivate(f.live)
	}
	f.live = i
	f.hint.on = false
	f.sess.Logger.Debug("activate", "index", i, "hash", f.itemHash(i))
	return tea.Batch(f.savePosition(i), f.startItem(i))
}

func (f *Feed) deactivate(i int) {
	s := &f.items[i]
	s.release()
	s.gen = f.nextGen()
	if f.countdown != nil && f.countdown.index == i {
		f.countdown = nil
	}
}

func (f *Feed) startItem(i int) tea.Cmd {
	it := f.playlist.At(i)
	s := &f.items[i]
	s.gen = f.nextGen()
	s.err, s.ended, s.loaded = nil, false, false
	if it.MediaURL == "" {
		return nil
	}
	s.elem = f.sess.NewElement()
	s.elem.SetMuted(f.sess.Muted())
	return f.loadSlot(TargetMain, i, s, Source{URL: it.MediaURL, Kind: media.KindOf(it.MediaURL), Duration: it.Duration})
}

// loadSlot loads src into the slot's element, going through a decoder
// first when the element cannot play the stream natively.
func (f *Feed) loadSlot(t Target, index int, s *mediaSlot, src Source) tea.Cmd {
	if src.Kind == media.Streaming && !s.elem.SupportsNative(media.Streaming) {
		return f.attachStream(t, index, s, src.URL)
	}
	if err := s.elem.Load(src); err != nil {
		return f.fail(t, index, s, err)
	}
	if err := s.elem.Play(); err != nil {
		// Autoplay refused; the item waits paused for the user.
		f.sess.Logger.Debug("autoplay rejected", "index", index, "err", err)
	}
	return f.ensureTicking()
}

func (f *Feed) attachStream(t Target, index int, s *mediaSlot, url string) tea.Cmd {
	if f.sess.Decoders == nil {
		return f.fail(t, index, s, errNoDecoder)
	}
	d := f.sess.Decoders.Load()
	s.decoder = d
	gen := s.gen
	return func() tea.Msg {
		info, err := d.Attach(context.Background(), url)
		return streamAttachedMsg{target: t, index: index, gen: gen, info: info, err: err}
	}
}

func (f *Feed) handleStreamAttached(msg streamAttachedMsg) tea.Cmd {
	s := f.slot(msg.target, msg.index, msg.gen)
	if s == nil || s.elem == nil {
		return nil
	}
	if msg.err != nil {
		return f.fail(msg.target, msg.index, s, msg.err)
	}
	src := Source{URL: msg.info.URL, Kind: media.Streaming, Duration: msg.info.Duration}
	if err := s.elem.Load(src); err != nil {
		return f.fail(msg.target, msg.index, s, err)
	}
	if err := s.elem.Play(); err != nil {
		f.sess.Logger.Debug("autoplay rejected", "index", msg.index, "err", err)
	}
	return f.ensureTicking()
}

// fail records a playback error on the slot. The rest of the playlist is
// unaffected.
func (f *Feed) fail(t Target, index int, s *mediaSlot, err error) tea.Cmd {
	s.err = err
	if s.elem != nil {
		s.elem.Pause()
	}
	f.stats.PlaybackErrors++
	f.sess.Logger.Error("playback failed", "index", index, "overlay", t == TargetOverlay, "err", err)
	if t == TargetOverlay {
		return nil
	}
	return f.recordPlayback(index, store.PlaybackFailed, 0, err)
}

// slot returns the media slot an event belongs to, or nil when the event
// is stale.
func (f *Feed) slot(t Target, index, gen int) *mediaSlot {
	switch t {
	case TargetMain:
		if index != f.live || index < 0 || index >= len(f.items) || f.items[index].gen != gen {
			return nil
		}
		return &f.items[index]
	case TargetOverlay:
		if f.overlay == nil || f.overlay.gen != gen {
			return nil
		}
		return &f.overlay.mediaSlot
	}
	return nil
}

// front returns the slot user playback controls act on: the overlay when
// open, otherwise the live item.
func (f *Feed) front() *mediaSlot {
	if f.overlay != nil {
		return &f.overlay.mediaSlot
	}
	if f.live >= 0 {
		return &f.items[f.live]
	}
	return nil
}

func (f *Feed) ensureTicking() tea.Cmd {
	if f.ticking {
		return nil
	}
	f.ticking = true
	return f.sess.Scheduler.After(f.sess.Timing.PlaybackTick, playbackTickMsg{})
}

// handleTick advances the live elements and delivers their events as
// messages, in order. Ticking stops once nothing is playing; the events
// queued up to that point are still delivered.
func (f *Feed) handleTick() tea.Cmd {
	dt := f.sess.Timing.PlaybackTick
	var events []tea.Cmd
	alive := false

	collect := func(t Target, index int, s *mediaSlot) {
		if s.elem == nil {
			return
		}
		ended := s.ended
		for _, ev := range s.elem.Advance(dt) {
			events = append(events, emit(MediaEventMsg{Target: t, Index: index, Gen: s.gen, Event: ev}))
			ended = ended || ev.Type == EventPlaybackEnded
		}
		if !ended && !s.elem.Paused() {
			alive = true
		}
	}
	if f.live >= 0 {
		collect(TargetMain, f.live, &f.items[f.live])
	}
	if f.overlay != nil {
		collect(TargetOverlay, f.overlay.index, &f.overlay.mediaSlot)
	}

	if !alive {
		f.ticking = false
		return tea.Sequence(events...)
	}
	return tea.Batch(tea.Sequence(events...), f.sess.Scheduler.After(dt, playbackTickMsg{}))
}

func (f *Feed) handleMediaEvent(msg MediaEventMsg) tea.Cmd {
	s := f.slot(msg.Target, msg.Index, msg.Gen)
	if s == nil {
		f.sess.Logger.Debug("stale media event", "index", msg.Index, "event", msg.Event.Type.String())
		return nil
	}
	switch msg.Event.Type {
	case EventLoaded:
		s.loaded = true
	case EventPlaybackStarted:
		s.ended = false
	case EventPlaybackEnded:
		s.ended = true
		if msg.Target == TargetOverlay {
			return f.onOverlayEnded()
		}
		return f.onEnded(msg.Index, msg.Event.Position)
	case EventPlaybackFailed:
		return f.fail(msg.Target, msg.Index, s, msg.Event.Err)
	}
	return nil
}

// onEnded handles the natural end of the live item.
func (f *Feed) onEnded(i int, pos time.Duration) tea.Cmd {
	f.stats.Watched++
	record := f.recordPlayback(i, store.PlaybackCompleted, pos, nil)
	it := f.playlist.At(i)

	switch {
	case f.overlay != nil:
		return record
	case it.IsChallenge() && !f.attempts[i].Done():
		// The question stays up until it is answered.
		return record
	case f.returnTo >= 0:
		return tea.Batch(record, f.startCountdown(i, f.returnTo))
	case !it.TimerOnEnd:
		return tea.Batch(record, f.Advance(i))
	default:
		return tea.Batch(record, f.startCountdown(i, -1))
	}
}

func (f *Feed) startCountdown(i, returnTo int) tea.Cmd {
	f.countdown = &countdownState{
		index:     i,
		remaining: f.sess.Timing.CountdownSeconds,
		returnTo:  returnTo,
		token:     f.nextToken(),
	}
	return f.sess.Scheduler.After(f.sess.Timing.CountdownTick, countdownTickMsg{token: f.countdown.token})
}

func (f *Feed) handleCountdownTick(msg countdownTickMsg) tea.Cmd {
	cd := f.countdown
	if cd == nil || cd.token != msg.token {
		return nil
	}
	cd.remaining--
	if cd.remaining <= 0 {
		return f.finishCountdown()
	}
	return f.sess.Scheduler.After(f.sess.Timing.CountdownTick, countdownTickMsg{token: cd.token})
}

func (f *Feed) finishCountdown() tea.Cmd {
	cd := f.countdown
	f.countdown = nil
	if cd.returnTo >= 0 {
		f.returnTo = -1
		return f.JumpTo(cd.returnTo)
	}
	return f.Advance(cd.index)
}

// CountdownNext skips the rest of the countdown.
func (f *Feed) CountdownNext() tea.Cmd {
	if f.countdown == nil {
		return nil
	}
	return f.finishCountdown()
}

// CountdownReplay cancels the countdown and plays the item again.
func (f *Feed) CountdownReplay() tea.Cmd {
	if f.countdown == nil {
		return nil
	}
	i := f.countdown.index
	f.countdown = nil
	return f.restart(i)
}

// restart plays live item i from the beginning.
func (f *Feed) restart(i int) tea.Cmd {
	if i != f.live {
		return f.JumpTo(i)
	}
	s := &f.items[i]
	if s.elem == nil {
		return f.startItem(i)
	}
	s.ended = false
	s.elem.Seek(0)
	if err := s.elem.Play(); err != nil {
		f.sess.Logger.Debug("replay rejected", "index", i, "err", err)
	}
	return f.ensureTicking()
}

// TogglePlay pauses or resumes the front element.
func (f *Feed) TogglePlay() tea.Cmd {
	s := f.front()
	if s == nil || s.elem == nil {
		return nil
	}
	if !s.elem.Paused() {
		s.elem.Pause()
		return nil
	}
	if s.ended {
		if f.overlay == nil {
			f.countdown = nil
		}
		s.ended = false
		s.elem.Seek(0)
	}
	if err := s.elem.Play(); err != nil {
		f.sess.Logger.Debug("play rejected", "err", err)
	}
	return f.ensureTicking()
}

// ToggleMute flips the session mute flag, applies it to the live elements
// and persists it. Unmuting a paused element also resumes it.
func (f *Feed) ToggleMute() tea.Cmd {
	muted := !f.sess.Muted()
	persist := f.sess.SetMuted(muted)
	if f.live >= 0 && f.items[f.live].elem != nil {
		f.items[f.live].elem.SetMuted(muted)
	}
	if f.overlay != nil && f.overlay.elem != nil {
		f.overlay.elem.SetMuted(muted)
	}
	var resume tea.Cmd
	if s := f.front(); !muted && s != nil && s.elem != nil && s.elem.Paused() && !s.ended {
		if err := s.elem.Play(); err == nil {
			resume = f.ensureTicking()
		}
	}
	return tea.Batch(persist, resume)
}

// Skip seeks the front element by one skip step in direction dir (-1 or
// +1) and shows the skip indicator.
func (f *Feed) Skip(dir int) tea.Cmd {
	s := f.front()
	if s == nil || s.elem == nil {
		return nil
	}
	pos := s.elem.Position() + time.Duration(dir)*f.sess.Timing.SkipStep
	s.elem.Seek(clampDuration(pos, 0, s.elem.Duration()))
	f.skip = flash{index: f.live, dir: dir, token: f.nextToken(), on: true}
	// A paused element still reports the new position on the next tick.
	return tea.Batch(
		f.sess.Scheduler.After(f.sess.Timing.SkipIndicator, skipIndicatorDoneMsg{token: f.skip.token}),
		f.ensureTicking(),
	)
}

// SeekFraction seeks the live item to frac of its duration.
func (f *Feed) SeekFraction(frac float64) {
	if f.live < 0 {
		return
	}
	seekFraction(&f.items[f.live], frac)
}

// OverlaySeekFraction seeks the overlay video to frac of its duration.
func (f *Feed) OverlaySeekFraction(frac float64) {
	if f.overlay == nil {
		return
	}
	seekFraction(&f.overlay.mediaSlot, frac)
}

func seekFraction(s *mediaSlot, frac float64) {
	if s.elem == nil {
		return
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	s.elem.Seek(time.Duration(frac * float64(s.elem.Duration())))
}

// Tap handles a tap at (x, y) on a surface width wide. A double tap skips
// back on the left half and forward on the right half; a single tap
// toggles playback once the double-tap window has passed.
func (f *Feed) Tap(x, y, width int) tea.Cmd {
	res, token := f.taps.Tap(f.sess.Now(), x, y)
	if res == TapDouble {
		if x < width/2 {
			return f.Skip(-1)
		}
		return f.Skip(1)
	}
	return f.sess.Scheduler.After(f.sess.Timing.DoubleTapWindow, singleTapMsg{token: token})
}

// Swipe reports whether a drag of (dx, dy) should navigate back.
func (f *Feed) Swipe(dx, dy int) bool {
	return IsBackSwipe(dx, dy, f.sess.Timing.SwipeBackThreshold)
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if hi > 0 && d > hi {
		return hi
	}
	return d
}
