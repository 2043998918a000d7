package player

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejvi/hejvi/internal/feed"
	"github.com/hejvi/hejvi/internal/media"
)

func types(evs []feed.MediaEvent) []feed.MediaEventType {
	out := make([]feed.MediaEventType, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type
	}
	return out
}

func TestSimElementPlaysToEnd(t *testing.T) {
	e := NewSimElement(nil)
	require.NoError(t, e.Load(feed.Source{URL: "https://cdn.test/a.mp4", Duration: time.Second}))
	require.NoError(t, e.Play())

	evs := e.Advance(600 * time.Millisecond)
	assert.Equal(t, []feed.MediaEventType{feed.EventLoaded, feed.EventPlaybackStarted, feed.EventTimeUpdate}, types(evs))
	assert.Equal(t, 600*time.Millisecond, e.Position())

	evs = e.Advance(600 * time.Millisecond)
	assert.Equal(t, []feed.MediaEventType{feed.EventTimeUpdate, feed.EventPlaybackEnded}, types(evs))
	assert.Equal(t, time.Second, evs[1].Position)
	assert.True(t, e.Ended())
	assert.True(t, e.Paused())

	assert.Empty(t, e.Advance(time.Second), "ended element stays quiet")
}

func TestSimElementPlayAfterEndRestarts(t *testing.T) {
	e := NewSimElement(nil)
	require.NoError(t, e.Load(feed.Source{URL: "https://cdn.test/a.mp4", Duration: time.Second}))
	require.NoError(t, e.Play())
	e.Advance(2 * time.Second)

	require.NoError(t, e.Play())
	assert.False(t, e.Ended())
	assert.Equal(t, time.Duration(0), e.Position())
	assert.Equal(t, []feed.MediaEventType{feed.EventPlaybackStarted}, types(e.Advance(0)))
}

func TestSimElementPauseStopsClock(t *testing.T) {
	e := NewSimElement(nil)
	require.NoError(t, e.Load(feed.Source{URL: "https://cdn.test/a.mp4"}))
	assert.Equal(t, DefaultDuration, e.Duration())
	require.NoError(t, e.Play())
	e.Advance(time.Second)

	e.Pause()
	e.Pause()
	assert.Equal(t, []feed.MediaEventType{feed.EventPlaybackPaused}, types(e.Advance(time.Second)))
	assert.Equal(t, time.Second, e.Position())
}

func TestSimElementSeekClamps(t *testing.T) {
	e := NewSimElement(nil)
	e.Seek(time.Second)
	assert.Equal(t, time.Duration(0), e.Position(), "seek before load is ignored")

	require.NoError(t, e.Load(feed.Source{URL: "https://cdn.test/a.mp4", Duration: 5 * time.Second}))
	e.Seek(time.Minute)
	assert.Equal(t, 5*time.Second, e.Position())
	e.Seek(-time.Second)
	assert.Equal(t, time.Duration(0), e.Position())
}

func TestSimElementAutoplayPolicy(t *testing.T) {
	policy := &Autoplay{RequireGesture: true}
	e := NewSimElement(policy)
	require.NoError(t, e.Load(feed.Source{URL: "https://cdn.test/a.mp4"}))

	assert.True(t, errors.Is(e.Play(), ErrAutoplayRejected))
	assert.True(t, e.Paused())

	e.SetMuted(true)
	assert.NoError(t, e.Play(), "muted autoplay is allowed")

	other := NewSimElement(policy)
	require.NoError(t, other.Load(feed.Source{URL: "https://cdn.test/b.mp4"}))
	policy.Unlock()
	assert.NoError(t, other.Play(), "gesture unlocks every element")
}

func TestSimElementRejectsBadSources(t *testing.T) {
	e := NewSimElement(nil)
	assert.Error(t, e.Load(feed.Source{}))
	assert.Error(t, e.Load(feed.Source{URL: "ftp://cdn.test/a.mp4"}))
	assert.ErrorIs(t, e.Play(), ErrNotLoaded)
}

func TestSimElementDetach(t *testing.T) {
	e := NewSimElement(nil)
	require.NoError(t, e.Load(feed.Source{URL: "https://cdn.test/a.mp4"}))
	require.NoError(t, e.Play())
	e.Detach()

	assert.True(t, e.Paused())
	assert.Empty(t, e.Advance(time.Second))
	assert.ErrorIs(t, e.Play(), ErrNotLoaded)
}

func TestSimElementNativeSupport(t *testing.T) {
	e := NewSimElement(nil)
	assert.True(t, e.SupportsNative(media.Progressive))
	assert.False(t, e.SupportsNative(media.Streaming))

	var _ feed.MediaElement = e
	assert.NotNil(t, Factory(nil)())
}
