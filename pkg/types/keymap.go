package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the file browser.
// It lives in pkg/types so the model and the help view share it.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Grid navigation
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Open    key.Binding // double-click on the tile under the cursor
	Parent  key.Binding
	Refresh key.Binding

	// Selection & actions
	Select         key.Binding // modifier-click on the tile under the cursor
	SelectOnly     key.Binding // plain click
	Menu           key.Binding // right-click
	Escape         key.Binding
	Upload         key.Binding
	Download       key.Binding
	Delete         key.Binding
	DeleteSelected key.Binding
	External       key.Binding // open the shown image outside the terminal

	// Modals
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left / prev image")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right / next image")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Parent:  key.NewBinding(key.WithKeys("backspace", "u"), key.WithHelp("⌫/u", "parent")),
		Refresh: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),

		Select:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		SelectOnly:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "select only")),
		Menu:           key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Escape:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Upload:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "upload")),
		Download:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		Delete:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		DeleteSelected: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete selected")),
		External:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open externally")),

		Confirm: key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "yes")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Select, k.Upload, k.Download, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Open, k.Parent, k.Refresh},
		{k.Select, k.SelectOnly, k.Menu, k.Escape},
		{k.Upload, k.Download, k.Delete, k.DeleteSelected, k.External},
		{k.Help, k.Quit},
	}
}
