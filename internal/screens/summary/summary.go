package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hejvi/hejvi/internal/feed"
	"github.com/hejvi/hejvi/internal/router"
	"github.com/hejvi/hejvi/internal/screen"
	"github.com/hejvi/hejvi/internal/ui/layout"
	"github.com/hejvi/hejvi/internal/ui/theme"
)

// WatchAgainMsg asks the feed below the summary to start over.
type WatchAgainMsg struct{}

// SummaryScreen displays the end-of-playlist summary.
type SummaryScreen struct {
	title string
	stats feed.Stats
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen for the playlist called title.
func New(title string, stats feed.Stats) *SummaryScreen {
	return &SummaryScreen{title: title, stats: stats}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "R", Description: "Watch again"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "q":
			return s, tea.Quit
		case "r":
			return s, tea.Sequence(
				func() tea.Msg { return router.PopScreenMsg{} },
				func() tea.Msg { return WatchAgainMsg{} },
			)
		}
	}
	return s, nil
}

// Accuracy returns the share of answered challenges that were correct.
func (s *SummaryScreen) Accuracy() float64 {
	if s.stats.Answered == 0 {
		return 0
	}
	return float64(s.stats.Correct) / float64(s.stats.Answered)
}

func (s *SummaryScreen) View(width, height int) string {
	st := s.stats
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	// Title.
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "That's the end!"))
	b.WriteString("\n")
	if s.title != "" {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), s.title))
	}
	b.WriteString("\n\n")

	// Stats line.
	statsLine := fmt.Sprintf("Watched: %d/%d        Answered: %d        Correct: %d",
		st.Watched, st.Items, st.Answered, st.Correct)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine))
	b.WriteString("\n\n")

	if st.Answered > 0 {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success).Bold(true),
			fmt.Sprintf("%.0f%% of challenges right", s.Accuracy()*100)))
		b.WriteString("\n")
	}

	if st.PlaybackErrors > 0 {
		b.WriteString("\n")
		b.WriteString(center(theme.Marker,
			fmt.Sprintf("%d video(s) could not be played", st.PlaybackErrors)))
		b.WriteString("\n")
	}

	return b.String()
}
