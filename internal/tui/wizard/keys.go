package wizard

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Continue    key.Binding
	Back        key.Binding
	Skip        key.Binding
	Cancel      key.Binding
	Activate    key.Binding
	FocusNext   key.Binding
	FocusPrev   key.Binding
	Press       key.Binding
	Reset       key.Binding
	Orientation key.Binding
	ToggleError key.Binding
	Edit        key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Continue:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		Back:        key.NewBinding(key.WithKeys("b", "left"), key.WithHelp("b", "back")),
		Skip:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
		Cancel:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel")),
		Activate:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "go to")),
		FocusNext:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		FocusPrev:   key.NewBinding(key.WithKeys("shift+tab")),
		Press:       key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "press")),
		Reset:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Orientation: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "layout")),
		ToggleError: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "error")),
		Edit:        key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit flow")),
		ScrollUp:    key.NewBinding(key.WithKeys("up", "k", "pgup")),
		ScrollDown:  key.NewBinding(key.WithKeys("down", "j", "pgdown")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// hints returns the key/description pairs shown at the bottom.
func (k keyMap) hints() []string {
	var pairs []string
	for _, b := range []key.Binding{
		k.Continue, k.Back, k.Skip, k.Cancel, k.Activate, k.FocusNext,
		k.Press, k.Reset, k.Orientation, k.ToggleError, k.Edit, k.Quit,
	} {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		pairs = append(pairs, h.Key, h.Desc)
	}
	return pairs
}
