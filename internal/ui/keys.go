package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	ForceQuit  key.Binding
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Reload     key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	ViewTabs   key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Lists
	Search         key.Binding
	CycleFilter    key.Binding
	Toggle         key.Binding
	ClearSelection key.Binding

	// Circulation
	Checkout         key.Binding
	CheckoutSelected key.Binding
	Checkin          key.Binding
	ApplyFine    key.Binding
	Pay          key.Binding
	PaySelected  key.Binding
	RefreshFines key.Binding
	ShowLoans    key.Binding
	ShowFines    key.Binding

	// Forms and prompts
	Submit    key.Binding
	Save      key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload view"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous tab"),
		),
		ViewTabs: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "Jump to tab"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),

		// Lists
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle filter"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Select"),
		),
		ClearSelection: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear selection"),
			key.WithDisabled(),
		),

		// Circulation
		Checkout: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Check out"),
		),
		CheckoutSelected: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Check out selected"),
			key.WithDisabled(),
		),
		Checkin: key.NewBinding(
			key.WithKeys("i", "enter"),
			key.WithHelp("i", "Check in"),
		),
		ApplyFine: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Apply fine"),
		),
		Pay: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Pay borrower's fines"),
		),
		PaySelected: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "Pay selected"),
			key.WithDisabled(),
		),
		RefreshFines: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Recalculate fines"),
		),
		ShowLoans: key.NewBinding(
			key.WithKeys("enter", "l"),
			key.WithHelp("enter", "Show loans"),
		),
		ShowFines: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Show fines"),
		),

		// Forms and prompts
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
		NextField: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "Previous field"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.ViewTabs, k.Reload},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Search, k.CycleFilter, k.Toggle, k.ClearSelection},
		{k.Checkout, k.CheckoutSelected, k.Checkin, k.ApplyFine},
		{k.Pay, k.PaySelected, k.RefreshFines},
		{k.ShowLoans, k.ShowFines},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

// tabKeys narrows the footer help to the bindings of one tab.
type tabKeys struct {
	keyMap
	tab Tab
}

func (t tabKeys) ShortHelp() []key.Binding {
	k := t.keyMap
	switch t.tab {
	case TabCatalog:
		return []key.Binding{k.Search, k.Toggle, k.Checkout, k.CheckoutSelected, k.ClearSelection, k.NextTab, k.Help}
	case TabLoans:
		return []key.Binding{k.Search, k.CycleFilter, k.Checkin, k.ApplyFine, k.NextTab, k.Help}
	case TabFines:
		return []key.Binding{k.Search, k.CycleFilter, k.Pay, k.Toggle, k.PaySelected, k.ClearSelection, k.RefreshFines, k.Help}
	case TabBorrowers:
		return []key.Binding{k.Search, k.ShowLoans, k.ShowFines, k.NextTab, k.Help}
	case TabRegister:
		return []key.Binding{k.NextField, k.Submit, k.Save, k.Cancel, k.NextTab}
	}
	return k.ShortHelp()
}

// withSelection enables the bindings that act on a selection only while the
// shown tab's selection is non-empty. Disabled bindings neither match keys
// nor appear in help.
func (k keyMap) withSelection(tab Tab, catalogEmpty, finesEmpty bool) keyMap {
	selected := (tab == TabCatalog && !catalogEmpty) || (tab == TabFines && !finesEmpty)
	k.ClearSelection.SetEnabled(selected)
	k.CheckoutSelected.SetEnabled(tab == TabCatalog && !catalogEmpty)
	k.Checkout.SetEnabled(catalogEmpty)
	k.PaySelected.SetEnabled(tab == TabFines && !finesEmpty)
	return k
}
