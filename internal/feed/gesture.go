package feed

import "time"

// TapResult classifies a tap.
type TapResult int

const (
	// TapPending means the tap may still become a double tap; it is a
	// single tap if nothing follows within the window.
	TapPending TapResult = iota
	TapDouble
)

type tapRecord struct {
	at   time.Time
	x, y int
	ok   bool
}

// TapClassifier tells single taps from double taps.
type TapClassifier struct {
	Window time.Duration
	Radius int

	last  tapRecord
	token int
}

// Tap registers a tap at (x, y). For TapPending, the returned token must
// be passed to Expire after the window to confirm the single tap.
func (c *TapClassifier) Tap(at time.Time, x, y int) (TapResult, int) {
	c.token++
	if c.last.ok && at.Sub(c.last.at) <= c.Window &&
		abs(x-c.last.x) <= c.Radius && abs(y-c.last.y) <= c.Radius {
		c.last = tapRecord{}
		return TapDouble, c.token
	}
	c.last = tapRecord{at: at, x: x, y: y, ok: true}
	return TapPending, c.token
}

// Expire reports whether the pending tap identified by token is a single
// tap, i.e. no later tap superseded it.
func (c *TapClassifier) Expire(token int) bool {
	if token != c.token || !c.last.ok {
		return false
	}
	c.last = tapRecord{}
	return true
}

// IsBackSwipe reports whether a drag of (dx, dy) is a rightward swipe long
// enough to mean "go back". Vertical movement wins ties.
func IsBackSwipe(dx, dy, threshold int) bool {
	return dx > threshold && abs(dx) > abs(dy)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
