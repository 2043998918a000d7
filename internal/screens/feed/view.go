package feed

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	engine "github.com/hejvi/hejvi/internal/feed"
	"github.com/hejvi/hejvi/internal/ui/components"
	"github.com/hejvi/hejvi/internal/ui/theme"
)

// Section rows, counted from the bottom: a blank row, the seek bar and the
// status line. Everything above belongs to the title and the video card.
const (
	barMargin  = 2
	footerRows = 3
)

func (s *FeedScreen) View(width, height int) string {
	s.width, s.height = width, height

	if s.feed == nil {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.TextDim).
			Render(s.spinner.View() + " Loading playlist...")
	}
	if ov, ok := s.feed.Overlay(); ok {
		return s.renderOverlay(ov, width, height)
	}
	return s.renderScroll(width, height)
}

// renderScroll renders the viewport over the section strip at the current
// scroll offset. At most two sections are ever visible.
func (s *FeedScreen) renderScroll(width, height int) string {
	off := s.feed.Offset()
	base := int(math.Floor(off))
	lines := strings.Split(s.renderSection(base, width, height), "\n")

	if frac := off - float64(base); frac > 0.001 && base+1 < s.feed.Playlist().Len() {
		lines = fit(lines, height)
		lines = append(lines, strings.Split(s.renderSection(base+1, width, height), "\n")...)
		start := min(int(math.Round(frac*float64(height))), len(lines))
		lines = lines[start:]
	}
	return strings.Join(fit(lines, height), "\n")
}

// renderSection renders item i as one full-height section.
func (s *FeedScreen) renderSection(i, width, height int) string {
	pl := s.feed.Playlist()
	it := pl.At(i)
	if it == nil {
		return ""
	}
	pb := s.feed.Playback(i)

	title := theme.Title.Width(width).Render(fmt.Sprintf("%d/%d  %s", i+1, pl.Len(), itemTitle(it)))

	var inner string
	if it.IsChallenge() {
		inner = s.renderChallenge(i, it, pb, width-6)
	} else {
		inner = s.renderVideo(i, it, pb)
	}
	cardHeight := max(height-footerRows-3, 1)
	card := theme.Screen.Width(width - 2).Height(cardHeight).Render(inner)

	top := fit(strings.Split(title+"\n"+card, "\n"), height-footerRows)
	status := s.statusLine(i, pb)
	bar := ""
	if it.MediaURL != "" && pb.Live {
		bar = seekBarRow(pb, width)
	}
	return strings.Join(append(top, status, bar, ""), "\n")
}

func itemTitle(it *engine.Item) string {
	switch {
	case it.Title != "":
		return it.Title
	case it.IsChallenge():
		return "Challenge"
	default:
		return "Video"
	}
}

func (s *FeedScreen) renderVideo(i int, it *engine.Item, pb engine.PlaybackState) string {
	var b strings.Builder
	b.WriteString(s.playbackGlyph(pb))
	b.WriteString("\n\n")

	if dir, ok := s.feed.SkipIndicator(); ok && i == s.feed.Active() {
		label := "« 10s"
		if dir > 0 {
			label = "10s »"
		}
		b.WriteString(theme.SkipIndicator.Render(label))
		b.WriteString("\n\n")
	}

	if rem, ok := s.feed.Countdown(); ok && i == s.feed.Active() {
		text := fmt.Sprintf("Next in %d", rem)
		if _, back := s.feed.ReturningToChallenge(); back {
			text = fmt.Sprintf("Back to the challenge in %d", rem)
		}
		b.WriteString(theme.Countdown.Render(text))
		b.WriteString("\n\n")
		b.WriteString(components.ButtonRow(0,
			components.NewButton("r", "Replay", false),
			components.NewButton("enter", "Next", true)))
		b.WriteString("\n")
	}

	if src := firstNonEmpty(it.ThumbnailURL, it.MediaURL); src != "" {
		b.WriteString(theme.Hint.Render(src))
	}
	return b.String()
}

func (s *FeedScreen) renderChallenge(i int, it *engine.Item, pb engine.PlaybackState, width int) string {
	var b strings.Builder
	if it.MediaURL != "" {
		b.WriteString(s.playbackGlyph(pb))
		b.WriteString("\n\n")
	}

	q := it.Question
	if q == "" {
		q = "?"
	}
	b.WriteString(theme.Question.Width(width).Render(q))
	b.WriteString("\n\n")

	a := s.feed.Attempt(i)
	waiting := a == nil || a.Status == engine.StatusUnanswered

	switch it.AnswerMode {
	case engine.AnswerBoolean:
		correct, hinted := s.feed.HintFor(i)
		yes := components.NewButton("y", engine.BoolLabel(true), waiting)
		no := components.NewButton("n", engine.BoolLabel(false), waiting)
		yes.Hinted = hinted && correct
		no.Hinted = hinted && !correct
		b.WriteString(components.ButtonRow(0, yes, no))
	case engine.AnswerFreeText:
		if s.inputFor == i {
			b.WriteString("Answer: " + s.input.View())
		} else if a != nil && a.Answer != "" {
			b.WriteString(theme.Hint.Render("You answered: " + a.Answer))
		}
	}

	if a != nil {
		b.WriteString("\n\n")
		switch a.Status {
		case engine.StatusResolving:
			b.WriteString(s.spinner.View() + " Checking...")
		case engine.StatusSuccess:
			b.WriteString(theme.Correct.Render("Correct!"))
		case engine.StatusFailure:
			b.WriteString(theme.Incorrect.Render("Not quite"))
		}
	}
	return b.String()
}

func (s *FeedScreen) playbackGlyph(pb engine.PlaybackState) string {
	switch {
	case pb.Err != nil:
		return theme.Marker.Render("⚠ Playback failed: " + pb.Err.Error())
	case !pb.Live:
		return theme.Hint.Render("▷")
	case !pb.Loaded:
		return s.spinner.View() + " Loading..."
	case pb.Ended:
		return theme.Body.Render("↺ Finished")
	case pb.Paused:
		return theme.Body.Render("▶ Paused. Space or tap to play")
	default:
		return theme.Correct.Render("❚❚ Playing")
	}
}

func (s *FeedScreen) statusLine(i int, pb engine.PlaybackState) string {
	var parts []string
	if pb.Live && pb.Muted {
		parts = append(parts, "muted")
	}
	if target, ok := s.feed.ReturningToChallenge(); ok && i == s.feed.Active() {
		parts = append(parts, fmt.Sprintf("returns to challenge %d", target+1))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Repeat(" ", barMargin) + theme.Hint.Render(strings.Join(parts, "  ·  "))
}

func seekBarRow(pb engine.PlaybackState, width int) string {
	bar := components.NewSeekBar(pb.Position, pb.Duration, width-2*barMargin)
	return strings.Repeat(" ", barMargin) + bar.View()
}

// renderOverlay renders the reaction video full-bleed above the feed.
func (s *FeedScreen) renderOverlay(ov engine.OverlayState, width, height int) string {
	var head string
	switch {
	case ov.Status == engine.StatusResolving:
		head = theme.Title.Render("Let's see...")
	case ov.Branch == engine.BranchSuccess:
		head = theme.Correct.Render("Correct!")
	default:
		head = theme.Incorrect.Render("Not quite")
	}

	var b strings.Builder
	switch {
	case ov.Status == engine.StatusResolving:
		b.WriteString(s.spinner.View() + " Finding your response video...")
	case ov.NotFound:
		b.WriteString(theme.Marker.Render("Response video not found"))
	case ov.Err != nil:
		b.WriteString(theme.Marker.Render("⚠ " + ov.Err.Error()))
	case ov.URL != "":
		b.WriteString(s.playbackGlyph(ov.Playback))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(firstNonEmpty(ov.Thumbnail, ov.URL)))
	default:
		b.WriteString(theme.Hint.Render("No response video for this answer"))
	}
	if ov.Controls {
		b.WriteString("\n\n")
		b.WriteString(components.ButtonRow(0,
			components.NewButton("r", "Replay", false),
			components.NewButton("c", "Continue", true)))
	}
	if ov.Skippable {
		b.WriteString("\n\n")
		b.WriteString(components.ButtonRow(0, components.NewButton("c", "Continue", false)))
	}

	boxWidth := max(width-2, 1)
	box := theme.Overlay.
		Width(boxWidth).
		Height(max(height-footerRows-3, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.String())
	top := fit(strings.Split(lipgloss.PlaceHorizontal(width, lipgloss.Center, head)+"\n"+box, "\n"), height-footerRows)

	status := ""
	if ov.Playback.Muted {
		status = strings.Repeat(" ", barMargin) + theme.Hint.Render("muted")
	}
	bar := ""
	if ov.URL != "" && ov.Playback.Live {
		bar = seekBarRow(ov.Playback, width)
	}
	return strings.Join(append(top, status, bar, ""), "\n")
}

// seekAt maps a click at content position (x, y) to a seek fraction when
// it lands on the visible seek bar.
func (s *FeedScreen) seekAt(x, y int) (float64, bool) {
	if s.feed.Animating() || y != s.height-footerRows+1 {
		return 0, false
	}
	if ov, ok := s.feed.Overlay(); ok {
		if ov.URL == "" || !ov.Playback.Live {
			return 0, false
		}
	} else {
		i := s.feed.Active()
		it := s.feed.Playlist().At(i)
		if it == nil || it.MediaURL == "" || !s.feed.Playback(i).Live {
			return 0, false
		}
	}
	bar := components.NewSeekBar(0, 0, s.width-2*barMargin)
	return bar.Fraction(x - barMargin)
}

// fit pads or truncates lines to exactly n rows.
func fit(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) >= n {
		return lines[:n]
	}
	out := make([]string, n)
	copy(out, lines)
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
