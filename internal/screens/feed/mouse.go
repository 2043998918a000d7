package feed

import (
	tea "charm.land/bubbletea/v2"

	"github.com/hejvi/hejvi/internal/router"
	"github.com/hejvi/hejvi/internal/screen"
	"github.com/hejvi/hejvi/internal/ui/layout"
)

// Nominal cell size in pixels. Tap radii are configured in pixels.
const (
	cellWidth  = 8
	cellHeight = 16
)

// wheelStep is how far one wheel notch scrolls, in sections. It is just
// over the visibility threshold so one notch changes item.
const wheelStep = 0.65

// press is where the left button went down.
type press struct {
	x, y int
}

func contentPos(m tea.Mouse) (int, int) {
	return m.X, m.Y - layout.ContentTop()
}

func (s *FeedScreen) handleClick(msg tea.MouseClickMsg) (screen.Screen, tea.Cmd) {
	m := msg.Mouse()
	if s.feed == nil || m.Button != tea.MouseLeft {
		return s, nil
	}
	s.opts.Autoplay.Unlock()

	x, y := contentPos(m)
	if frac, ok := s.seekAt(x, y); ok {
		if _, open := s.feed.Overlay(); open {
			s.feed.OverlaySeekFraction(frac)
		} else {
			s.feed.SeekFraction(frac)
		}
		return s, nil
	}
	s.press = &press{x: x, y: y}
	return s, nil
}

func (s *FeedScreen) handleRelease(msg tea.MouseReleaseMsg) (screen.Screen, tea.Cmd) {
	p := s.press
	s.press = nil
	if s.feed == nil || p == nil {
		return s, nil
	}
	x, y := contentPos(msg.Mouse())
	dx, dy := x-p.x, y-p.y

	switch {
	case s.feed.Swipe(dx, dy):
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case abs(dx) <= 1 && abs(dy) <= 1:
		return s, s.feed.Tap(p.x*cellWidth, p.y*cellHeight, s.width*cellWidth)
	case abs(dy) > abs(dx) && s.height > 0:
		// Dragging up moves forward, like a touch feed.
		return s, s.after(s.feed.ScrollBy(float64(-dy) / float64(s.height)))
	}
	return s, nil
}

func (s *FeedScreen) handleWheel(msg tea.MouseWheelMsg) (screen.Screen, tea.Cmd) {
	if s.feed == nil {
		return s, nil
	}
	var delta float64
	switch msg.Mouse().Button {
	case tea.MouseWheelUp:
		delta = -wheelStep
	case tea.MouseWheelDown:
		delta = wheelStep
	default:
		return s, nil
	}
	return s, s.after(s.feed.ScrollBy(delta))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
