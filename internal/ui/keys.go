package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Enter        key.Binding
	Select       key.Binding
	SelectAll    key.Binding
	DeselectAll  key.Binding
	ToggleVis    key.Binding
	ExpandAll    key.Binding
	CollapseAll  key.Binding
	Sort         key.Binding
	Direction    key.Binding
	Sizes        key.Binding
	Tokens       key.Binding
	OnlySelected key.Binding
	Hidden       key.Binding
	Scan         key.Binding
	Copy         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", "right", "l"),
			key.WithHelp("enter", "expand/collapse"),
		),
		Select: key.NewBinding(
			key.WithKeys("space"),
			key.WithHelp("space", "toggle select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		DeselectAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "deselect all"),
		),
		ToggleVis: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle visible"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "collapse all"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort key"),
		),
		Direction: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "sort direction"),
		),
		Sizes: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "sizes"),
		),
		Tokens: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "tokens"),
		),
		OnlySelected: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "only selected"),
		),
		Hidden: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hidden"),
		),
		Scan: key.NewBinding(
			key.WithKeys("s", "r"),
			key.WithHelp("s", "rescan"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c", "copy prompt"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
