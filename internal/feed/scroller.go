package feed

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// settleEpsilon is how close to its target the scroll offset must be, in
// sections, before the animation stops.
const settleEpsilon = 0.002

// Scroller models a vertically snapping region with one section per item.
// Offsets are measured in sections: section i spans [i, i+1).
type Scroller struct {
	count     int
	threshold float64

	offset   float64
	velocity float64
	target   float64
	spring   harmonica.Spring

	active    int
	animating bool
	// navigating is set by JumpTo and cleared once the jump's target
	// section is settled in view. Visibility reports are ignored meanwhile.
	navigating bool
	navTarget  int
}

// NewScroller returns a scroller over count sections.
func NewScroller(count int, threshold float64) *Scroller {
	return &Scroller{
		count:     count,
		threshold: threshold,
		spring:    harmonica.NewSpring(harmonica.FPS(60), 10.0, 1.0),
	}
}

// Len returns the number of sections.
func (s *Scroller) Len() int { return s.count }

// Active returns the active section.
func (s *Scroller) Active() int { return s.active }

// Offset returns the current scroll offset in sections.
func (s *Scroller) Offset() float64 { return s.offset }

// Animating reports whether a scroll animation is running.
func (s *Scroller) Animating() bool { return s.animating }

// Navigating reports whether a programmatic jump is in progress.
func (s *Scroller) Navigating() bool { return s.navigating }

// NavTarget returns the section the current jump is heading to.
func (s *Scroller) NavTarget() int { return s.navTarget }

func (s *Scroller) maxOffset() float64 {
	if s.count == 0 {
		return 0
	}
	return float64(s.count - 1)
}

func (s *Scroller) clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= s.count {
		return s.count - 1
	}
	return i
}

// SnapTo moves to section i without animation and makes it active.
func (s *Scroller) SnapTo(i int) int {
	if s.count == 0 {
		return 0
	}
	i = s.clampIndex(i)
	s.offset, s.target, s.velocity = float64(i), float64(i), 0
	s.active = i
	s.animating = false
	s.navigating = false
	return i
}

// JumpTo starts a smooth scroll to section i and makes it active at once.
// It returns false when i is out of range.
func (s *Scroller) JumpTo(i int) bool {
	if i < 0 || i >= s.count {
		return false
	}
	s.active = i
	s.target = float64(i)
	s.navigating = true
	s.navTarget = i
	s.animating = math.Abs(s.offset-s.target) > settleEpsilon
	if !s.animating {
		s.offset = s.target
		s.navigating = false
	}
	return true
}

// ScrollBy is a user scroll of delta sections. It cancels any jump in
// progress and snaps to the nearest section.
func (s *Scroller) ScrollBy(delta float64) {
	if s.count == 0 {
		return
	}
	s.navigating = false
	s.offset = math.Max(0, math.Min(s.maxOffset(), s.offset+delta))
	s.target = math.Round(s.offset)
	s.animating = true
}

// Step advances the scroll animation by one frame and reports whether it
// is still running.
func (s *Scroller) Step() bool {
	if !s.animating {
		return false
	}
	s.offset, s.velocity = s.spring.Update(s.offset, s.velocity, s.target)
	s.offset = math.Max(0, math.Min(s.maxOffset(), s.offset))
	if math.Abs(s.offset-s.target) < settleEpsilon && math.Abs(s.velocity) < settleEpsilon*10 {
		s.offset, s.velocity = s.target, 0
		s.animating = false
	}
	if s.navigating && !s.animating && s.Ratio(s.navTarget) > s.threshold {
		s.navigating = false
	}
	return s.animating
}

// Ratio returns the visible fraction of section i.
func (s *Scroller) Ratio(i int) float64 {
	lo := math.Max(float64(i), s.offset)
	hi := math.Min(float64(i+1), s.offset+1)
	return math.Max(0, hi-lo)
}

// Visible returns the section whose visible ratio exceeds the threshold.
func (s *Scroller) Visible() (int, bool) {
	if s.count == 0 {
		return 0, false
	}
	i := s.clampIndex(int(math.Floor(s.offset)))
	for _, c := range []int{i, i + 1} {
		if c < s.count && s.Ratio(c) > s.threshold {
			return c, true
		}
	}
	return 0, false
}

// AtBottom reports whether the region is scrolled to its end.
func (s *Scroller) AtBottom() bool {
	return s.count > 0 && s.offset >= s.maxOffset()-settleEpsilon
}

// Observe applies a debounced visibility report for section i. Reports
// during a jump are ignored. It returns true when the active section
// changed.
func (s *Scroller) Observe(i int) bool {
	if s.navigating || i < 0 || i >= s.count {
		return false
	}
	if v, ok := s.Visible(); !ok || v != i {
		return false
	}
	if s.active == i {
		return false
	}
	s.active = i
	return true
}

// ClampToBottom makes the last section active when the region is at its
// end. It returns true when the active section changed.
func (s *Scroller) ClampToBottom() bool {
	if s.navigating || !s.AtBottom() || s.active == s.count-1 {
		return false
	}
	s.active = s.count - 1
	return true
}
