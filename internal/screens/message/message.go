// Package message shows a one-off notice, such as a playlist that failed
// to load.
package message

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hejvi/hejvi/internal/router"
	"github.com/hejvi/hejvi/internal/screen"
	"github.com/hejvi/hejvi/internal/ui/layout"
	"github.com/hejvi/hejvi/internal/ui/theme"
)

// MessageScreen is a full-screen notice. Any key leaves it.
type MessageScreen struct {
	title string
	text  string
	isErr bool
}

var _ screen.Screen = (*MessageScreen)(nil)
var _ screen.KeyHintProvider = (*MessageScreen)(nil)

// New creates a notice screen.
func New(title, text string) *MessageScreen {
	return &MessageScreen{title: title, text: text}
}

// NewError creates a notice screen styled as an error.
func NewError(title string, err error) *MessageScreen {
	return &MessageScreen{title: title, text: err.Error(), isErr: true}
}

func (m *MessageScreen) Init() tea.Cmd {
	return nil
}

func (m *MessageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		return m, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return m, nil
}

func (m *MessageScreen) View(width, height int) string {
	fg := theme.Text
	if m.isErr {
		fg = theme.Error
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(fg).
		Render(m.text)
}

func (m *MessageScreen) Title() string {
	return m.title
}

func (m *MessageScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "any key", Description: "Close"}}
}
