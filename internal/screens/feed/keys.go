package feed

import (
	"charm.land/bubbles/v2/key"

	"github.com/hejvi/hejvi/internal/ui/layout"
)

type keyMap struct {
	Prev      key.Binding
	Next      key.Binding
	PlayPause key.Binding
	Mute      key.Binding
	Back      key.Binding
	Forward   key.Binding
	Yes       key.Binding
	No        key.Binding
	Hint      key.Binding
	Submit    key.Binding
	Replay    key.Binding
	Continue  key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "Prev")),
		Next:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "Next")),
		PlayPause: key.NewBinding(key.WithKeys("space"), key.WithHelp("Space", "Play/Pause")),
		Mute:      key.NewBinding(key.WithKeys("m"), key.WithHelp("M", "Mute")),
		Back:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-10s")),
		Forward:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+10s")),
		Yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("Y", "Yes")),
		No:        key.NewBinding(key.WithKeys("n"), key.WithHelp("N", "No")),
		Hint:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Hint")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Submit")),
		Replay:    key.NewBinding(key.WithKeys("r"), key.WithHelp("R", "Replay")),
		Continue:  key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("C", "Continue")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("Q", "Quit")),
	}
}

func hint(b key.Binding) layout.KeyHint {
	h := b.Help()
	return layout.KeyHint{Key: h.Key, Description: h.Desc}
}

func hints(bs ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bs))
	for _, b := range bs {
		out = append(out, hint(b))
	}
	return out
}
