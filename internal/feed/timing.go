package feed

import "time"

// Timing holds the feed's interaction thresholds.
type Timing struct {
	// VisibilityThreshold is the intersection ratio a section must exceed
	// to become active.
	VisibilityThreshold float64
	// VisibilityDebounce is how long a section must stay visible.
	VisibilityDebounce time.Duration

	DoubleTapWindow time.Duration
	DoubleTapRadius int

	SkipStep      time.Duration
	SkipIndicator time.Duration

	// CountdownSeconds is the end-of-video countdown length, ticked once
	// per CountdownTick.
	CountdownSeconds int
	CountdownTick    time.Duration

	HintDuration time.Duration

	// SwipeBackThreshold is the rightward travel, in cells, that counts as
	// a back swipe.
	SwipeBackThreshold int

	FrameInterval time.Duration
	PlaybackTick  time.Duration
}

// DefaultTiming returns the production thresholds.
func DefaultTiming() Timing {
	return Timing{
		VisibilityThreshold: 0.6,
		VisibilityDebounce:  100 * time.Millisecond,
		DoubleTapWindow:     300 * time.Millisecond,
		DoubleTapRadius:     50,
		SkipStep:            10 * time.Second,
		SkipIndicator:       time.Second,
		CountdownSeconds:    3,
		CountdownTick:       time.Second,
		HintDuration:        1600 * time.Millisecond,
		SwipeBackThreshold:  12,
		FrameInterval:       time.Second / 60,
		PlaybackTick:        250 * time.Millisecond,
	}
}
