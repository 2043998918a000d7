package components

import (
	"strings"
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{9 * time.Second, "0:09"},
		{75 * time.Second, "1:15"},
		{10*time.Minute + 1500*time.Millisecond, "10:01"},
		{-time.Second, "0:00"},
	}
	for _, tt := range tests {
		if got := Clock(tt.d); got != tt.want {
			t.Errorf("Clock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestSeekBar_Percent(t *testing.T) {
	if got := NewSeekBar(5*time.Second, 20*time.Second, 40).Percent(); got != 0.25 {
		t.Errorf("Percent = %v, want 0.25", got)
	}
	if got := NewSeekBar(5*time.Second, 0, 40).Percent(); got != 0 {
		t.Errorf("Percent with no duration = %v, want 0", got)
	}
	if got := NewSeekBar(30*time.Second, 20*time.Second, 40).Percent(); got != 1 {
		t.Errorf("Percent past the end = %v, want 1", got)
	}
}

func TestSeekBar_Fraction(t *testing.T) {
	// 40 columns minus the time label leaves a 25-column bar.
	bar := NewSeekBar(0, 0, 40)

	tests := []struct {
		x      int
		want   float64
		wantOK bool
	}{
		{0, 0, true},
		{12, 0.5, true},
		{24, 1, true},
		{25, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := bar.Fraction(tt.x)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Fraction(%d) = (%v, %v), want (%v, %v)", tt.x, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSeekBar_MinimumWidth(t *testing.T) {
	bar := NewSeekBar(0, 0, 3)
	if _, ok := bar.Fraction(3); !ok {
		t.Error("narrow bar should keep a minimum clickable width")
	}
}

func TestSeekBar_ViewShowsTimes(t *testing.T) {
	v := NewSeekBar(75*time.Second, 2*time.Minute, 40).View()
	if !strings.Contains(v, "1:15 / 2:00") {
		t.Errorf("View missing time label: %q", v)
	}
}
