package learn

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Reveal key.Binding
	Pass   key.Binding
	Fail   key.Binding
	Skip   key.Binding
	Quit   key.Binding
	Yes    key.Binding
	No     key.Binding
}

var keys = keyMap{
	Reveal: key.NewBinding(key.WithKeys("space", "enter"), key.WithHelp("Space", "Reveal")),
	Pass:   key.NewBinding(key.WithKeys("y", "right", "l"), key.WithHelp("Y", "Knew it")),
	Fail:   key.NewBinding(key.WithKeys("n", "left", "h"), key.WithHelp("N", "Missed")),
	Skip:   key.NewBinding(key.WithKeys("s", "tab"), key.WithHelp("S", "Skip")),
	Quit:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("Esc", "Quit")),
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "End session")),
	No:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("N", "Keep going")),
}
