// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Connect opens Google's consent screen.
	Connect key.Binding

	// Disconnect revokes and forgets the token.
	Disconnect key.Binding

	// Refresh re-reads the session status.
	Refresh key.Binding

	// Help toggles the full help.
	Help key.Binding

	// Quit exits the application.
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Connect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "connect"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "disconnect"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Connect, k.Disconnect, k.Refresh, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Connect, k.Disconnect},
		{k.Refresh, k.Help, k.Quit},
	}
}

// SetConnectEnabled enables the connect key only when it is actionable.
func (k *KeyMap) SetConnectEnabled(enabled bool) {
	k.Connect.SetEnabled(enabled)
}

// Matches checks if a key string matches an enabled binding.
func Matches(keyStr string, binding key.Binding) bool {
	if !binding.Enabled() {
		return false
	}
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
