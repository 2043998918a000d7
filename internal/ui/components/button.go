package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/hejvi/hejvi/internal/ui/theme"
)

// Button is a labelled control bound to a key.
type Button struct {
	Key    string
	Label  string
	Active bool
	// Hinted highlights the button while a hint is showing.
	Hinted bool
}

// NewButton creates a new button.
func NewButton(key, label string, active bool) Button {
	return Button{
		Key:    key,
		Label:  label,
		Active: active,
	}
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label = "[" + b.Key + "] " + b.Label
	}
	switch {
	case b.Hinted:
		return theme.ButtonHint.Render(label)
	case b.Active:
		return theme.ButtonActive.Render(label)
	default:
		return theme.ButtonInactive.Render(label)
	}
}

// ButtonRow renders buttons side by side, centered in width.
func ButtonRow(width int, buttons ...Button) string {
	views := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		if i > 0 {
			views = append(views, strings.Repeat(" ", 3))
		}
		views = append(views, b.View())
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, views...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
}
