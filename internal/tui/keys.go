package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start    key.Binding
	Stop     key.Binding
	Discard  key.Binding
	New      key.Binding
	Delete   key.Binding
	Analyze  key.Binding
	Copy     key.Binding
	Export   key.Binding
	Compact  key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Today    key.Binding
	Level    key.Binding
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Tab      key.Binding
	Help     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start timer"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "mark"),
	),
	Discard: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "discard timer"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new entry"),
	),
	Delete: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "delete entry"),
	),
	Analyze: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "analyze"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy report"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Compact: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "compact"),
	),
	PrevDay: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "previous"),
	),
	NextDay: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next"),
	),
	Today: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "today"),
	),
	Level: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "week/month/year"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "today"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "history"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "settings"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "K"),
		key.WithHelp("pgup", "earlier"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "J"),
		key.WithHelp("pgdn", "later"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.New, k.Analyze, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Discard},
		{k.New, k.Enter, k.Delete, k.Export},
		{k.PrevDay, k.NextDay, k.Today, k.Level},
		{k.Analyze, k.Copy, k.Compact},
		{k.Tab1, k.Tab2, k.Tab3},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Back, k.Quit},
	}
}
