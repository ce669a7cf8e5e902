package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/opencode-ai/rounds/internal/engine"
	"github.com/opencode-ai/rounds/internal/models"
)

type keyMap struct {
	Toggle  key.Binding
	Reset   key.Binding
	Finish  key.Binding
	Suspend key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "enter", "s"),
			key.WithHelp("space", "start"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "finish"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "suspend"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Finish, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Finish},
		{k.Suspend, k.Help, k.Quit},
	}
}

// sync enables only the bindings that do something in the current state.
func (k *keyMap) sync(snap engine.Snapshot, startable bool) {
	switch snap.Status {
	case models.StatusRunning:
		k.Toggle.SetHelp("space", "pause")
	case models.StatusPaused:
		k.Toggle.SetHelp("space", "resume")
	default:
		k.Toggle.SetHelp("space", "start")
	}
	k.Toggle.SetEnabled(startable && snap.Status != models.StatusFinished)
	k.Reset.SetEnabled(snap.Status != models.StatusIdle)
	k.Finish.SetEnabled(startable && snap.Status != models.StatusFinished)
}
