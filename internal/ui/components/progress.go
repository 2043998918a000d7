package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/hejvi/hejvi/internal/ui/theme"
)

// timeLabelWidth is the width of "  m:ss / m:ss" after the bar.
const timeLabelWidth = 15

// SeekBar displays playback progress and maps clicks back to positions.
type SeekBar struct {
	Position time.Duration
	Duration time.Duration
	Width    int
}

// NewSeekBar creates a seek bar width cells wide, time label included.
func NewSeekBar(pos, dur time.Duration, width int) SeekBar {
	return SeekBar{Position: pos, Duration: dur, Width: width}
}

func (p SeekBar) barWidth() int {
	w := p.Width - timeLabelWidth
	if w < 4 {
		w = 4
	}
	return w
}

// Percent returns the played fraction.
func (p SeekBar) Percent() float64 {
	if p.Duration <= 0 {
		return 0
	}
	f := float64(p.Position) / float64(p.Duration)
	return max(0, min(1, f))
}

// Fraction maps a click at column x, relative to the bar's left edge, to
// a fraction of the duration. ok is false outside the bar.
func (p SeekBar) Fraction(x int) (float64, bool) {
	w := p.barWidth()
	if x < 0 || x >= w {
		return 0, false
	}
	if w == 1 {
		return 0, true
	}
	return float64(x) / float64(w-1), true
}

// View renders the seek bar.
func (p SeekBar) View() string {
	barWidth := p.barWidth()

	filled := int(float64(barWidth) * p.Percent())
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	filledStr := theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	emptyStr := theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	label := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %s / %s", Clock(p.Position), Clock(p.Duration)))

	return filledStr + emptyStr + label
}

// Clock formats d as m:ss.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
