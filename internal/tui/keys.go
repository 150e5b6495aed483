package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI. Plain letters go to the
// text input, so actions use enter, tab and control keys.
type KeyMap struct {
	// Composing
	Submit       key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	Longer       key.Binding
	Shorter      key.Binding

	// Actions
	Flash     key.Binding
	TakeFlash key.Binding
	HideNow   key.Binding
	Copy      key.Binding
	Clear     key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextCategory, k.Flash, k.TakeFlash, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.NextCategory, k.PrevCategory, k.Longer, k.Shorter},
		{k.Flash, k.TakeFlash, k.HideNow, k.Copy, k.Clear},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show toast"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous category"),
		),
		Longer: key.NewBinding(
			key.WithKeys("ctrl+up", "pgup"),
			key.WithHelp("ctrl+↑", "longer"),
		),
		Shorter: key.NewBinding(
			key.WithKeys("ctrl+down", "pgdown"),
			key.WithHelp("ctrl+↓", "shorter"),
		),
		Flash: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "save as flash"),
		),
		TakeFlash: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "take flash"),
		),
		HideNow: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "hide active"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy active"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear recent"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g", "f1"),
			key.WithHelp("ctrl+g", "help"),
		),
	}
}
