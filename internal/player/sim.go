// Package player provides the media element the terminal client plays
// with. SimElement keeps a playback clock instead of decoding frames, and
// reports the same events a real element would.
package player

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/hejvi/hejvi/internal/feed"
	"github.com/hejvi/hejvi/internal/media"
)

// DefaultDuration is used when a source does not declare its length.
const DefaultDuration = 15 * time.Second

var (
	// ErrAutoplayRejected is returned by Play when the autoplay policy
	// refuses to start unmuted playback.
	ErrAutoplayRejected = errors.New("autoplay rejected: unmuted playback needs a user gesture")

	// ErrNotLoaded is returned by Play before Load.
	ErrNotLoaded = errors.New("no source loaded")
)

// Autoplay is the autoplay policy shared by every element of a session.
// Until Unlock is called, unmuted playback is refused when RequireGesture
// is set. The zero value allows everything.
type Autoplay struct {
	RequireGesture bool
	unlocked       bool
}

// Unlock records a user gesture. It is idempotent.
func (a *Autoplay) Unlock() {
	if a != nil {
		a.unlocked = true
	}
}

func (a *Autoplay) allows(muted bool) bool {
	return a == nil || !a.RequireGesture || a.unlocked || muted
}

// SimElement is a clock-driven feed.MediaElement.
type SimElement struct {
	// Policy may be shared between elements; nil allows all playback.
	Policy *Autoplay

	// DefaultDuration overrides the package default for sources without
	// a known duration.
	DefaultDuration time.Duration

	src    feed.Source
	loaded bool
	paused bool
	ended  bool
	muted  bool
	pos    time.Duration
	dur    time.Duration

	pending []feed.MediaEvent
}

// NewSimElement returns an element governed by policy.
func NewSimElement(policy *Autoplay) *SimElement {
	return &SimElement{Policy: policy, paused: true}
}

// Factory returns a constructor suitable for feed.Session.NewElement.
func Factory(policy *Autoplay) func() feed.MediaElement {
	return func() feed.MediaElement { return NewSimElement(policy) }
}

// Load implements feed.MediaElement.
func (e *SimElement) Load(src feed.Source) error {
	if err := checkSource(src.URL); err != nil {
		return err
	}
	dur := src.Duration
	if dur <= 0 {
		dur = e.DefaultDuration
	}
	if dur <= 0 {
		dur = DefaultDuration
	}
	e.src = src
	e.loaded = true
	e.paused = true
	e.ended = false
	e.pos = 0
	e.dur = dur
	e.pending = append(e.pending[:0], feed.MediaEvent{Type: feed.EventLoaded, Duration: dur})
	return nil
}

func checkSource(raw string) error {
	if raw == "" {
		return errors.New("empty source")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("bad source %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https", "file":
		return nil
	default:
		return fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}
}

// Play implements feed.MediaElement. Playing an ended element restarts it.
func (e *SimElement) Play() error {
	if !e.loaded {
		return ErrNotLoaded
	}
	if !e.Policy.allows(e.muted) {
		return ErrAutoplayRejected
	}
	if e.ended {
		e.ended = false
		e.pos = 0
	}
	if e.paused {
		e.paused = false
		e.queue(feed.EventPlaybackStarted)
	}
	return nil
}

// Pause implements feed.MediaElement.
func (e *SimElement) Pause() {
	if e.loaded && !e.paused {
		e.paused = true
		e.queue(feed.EventPlaybackPaused)
	}
}

// Paused implements feed.MediaElement.
func (e *SimElement) Paused() bool { return e.paused }

// Ended reports whether playback reached the end.
func (e *SimElement) Ended() bool { return e.ended }

// Seek implements feed.MediaElement. The position is clamped to the
// source duration.
func (e *SimElement) Seek(pos time.Duration) {
	if !e.loaded {
		return
	}
	e.pos = max(0, min(pos, e.dur))
	if e.pos < e.dur {
		e.ended = false
	}
	e.queue(feed.EventTimeUpdate)
}

// Position implements feed.MediaElement.
func (e *SimElement) Position() time.Duration { return e.pos }

// Duration implements feed.MediaElement.
func (e *SimElement) Duration() time.Duration { return e.dur }

// SetMuted implements feed.MediaElement.
func (e *SimElement) SetMuted(m bool) { e.muted = m }

// Muted implements feed.MediaElement.
func (e *SimElement) Muted() bool { return e.muted }

// SupportsNative implements feed.MediaElement. Segmented streams need a
// decoder.
func (e *SimElement) SupportsNative(k media.Kind) bool { return k == media.Progressive }

// Source returns the loaded source.
func (e *SimElement) Source() feed.Source { return e.src }

// Advance implements feed.MediaElement.
func (e *SimElement) Advance(dt time.Duration) []feed.MediaEvent {
	if e.loaded && !e.paused && !e.ended && dt > 0 {
		e.pos += dt
		if e.pos >= e.dur {
			e.pos = e.dur
			e.ended = true
			e.paused = true
			e.queue(feed.EventTimeUpdate)
			e.queue(feed.EventPlaybackEnded)
		} else {
			e.queue(feed.EventTimeUpdate)
		}
	}
	out := e.pending
	e.pending = nil
	return out
}

// Detach implements feed.MediaElement.
func (e *SimElement) Detach() {
	e.loaded = false
	e.paused = true
	e.ended = false
	e.pos = 0
	e.pending = nil
}

func (e *SimElement) queue(t feed.MediaEventType) {
	e.pending = append(e.pending, feed.MediaEvent{Type: t, Position: e.pos, Duration: e.dur})
}
