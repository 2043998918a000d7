package feed

import (
	"fmt"
	"time"

	"github.com/hejvi/hejvi/internal/media"
)

// Source is what a media element plays.
type Source struct {
	URL      string
	Kind     media.Kind
	Duration time.Duration // known duration, zero if the element must find out
}

// MediaEventType names the events a media element reports.
type MediaEventType int

const (
	EventLoaded MediaEventType = iota
	EventPlaybackStarted
	EventPlaybackPaused
	EventPlaybackEnded
	EventTimeUpdate
	EventPlaybackFailed
)

func (t MediaEventType) String() string {
	switch t {
	case EventLoaded:
		return "loaded"
	case EventPlaybackStarted:
		return "playbackStarted"
	case EventPlaybackPaused:
		return "playbackPaused"
	case EventPlaybackEnded:
		return "playbackEnded"
	case EventTimeUpdate:
		return "timeUpdate"
	case EventPlaybackFailed:
		return "playbackFailed"
	default:
		return fmt.Sprintf("MediaEventType(%d)", int(t))
	}
}

// MediaEvent is one report from a media element.
type MediaEvent struct {
	Type     MediaEventType
	Position time.Duration
	Duration time.Duration
	Err      error // set for EventPlaybackFailed
}

// MediaElement is a single playable surface. The feed owns one per live
// item plus one for the overlay, and never shares an element between them.
type MediaElement interface {
	// Load points the element at src. Playback does not start.
	Load(src Source) error
	// Play starts or resumes playback. An error means the element refused
	// to start (for example an autoplay rejection) and stays paused.
	Play() error
	Pause()
	Paused() bool
	Seek(pos time.Duration)
	Position() time.Duration
	Duration() time.Duration
	SetMuted(muted bool)
	Muted() bool
	// SupportsNative reports whether the element can play kind without a
	// decoder.
	SupportsNative(kind media.Kind) bool
	// Advance moves the element's clock forward by dt and returns the
	// events that happened meanwhile.
	Advance(dt time.Duration) []MediaEvent
	// Detach stops playback and releases the source.
	Detach()
}
