package feed

import (
	"github.com/hejvi/hejvi/internal/media"
)

// PlaylistLoadedMsg carries the result of LoadCmd.
type PlaylistLoadedMsg struct {
	Playlist *Playlist
	Request  LoadRequest
	Err      error
}

// PlaylistEndedMsg is emitted when advancing past the last item.
type PlaylistEndedMsg struct {
	Stats Stats
}

// Target says which element a media message belongs to.
type Target int

const (
	TargetMain Target = iota
	TargetOverlay
)

// MediaEventMsg delivers a media element event. Index and Gen identify the
// element instance that produced it; events for an element that has since
// been replaced are dropped.
type MediaEventMsg struct {
	Target Target
	Index  int
	Gen    int
	Event  MediaEvent
}

// streamAttachedMsg reports a decoder attach.
type streamAttachedMsg struct {
	target Target
	index  int
	gen    int
	info   media.StreamInfo
	err    error
}

// resolvedMsg reports a finished response video resolution.
type resolvedMsg struct {
	index int
	token int
	res   Resolution
	err   error
}

type scrollFrameMsg struct{}

type visibilityMsg struct {
	index int
	token int
}

type playbackTickMsg struct{}

type countdownTickMsg struct {
	token int
}

type singleTapMsg struct {
	token int
}

type skipIndicatorDoneMsg struct {
	token int
}

type hintDoneMsg struct {
	token int
}

// persistedMsg reports a background write. Failures are logged only.
type persistedMsg struct {
	what string
	err  error
}
