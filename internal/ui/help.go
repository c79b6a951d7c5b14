package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// helpSectionTitles names the groups returned by keyMap.FullHelp.
var helpSectionTitles = []string{"Tabs", "Navigation", "Lists", "Circulation", "Fines", "Borrowers", "General"}

// renderHelp renders the help overlay from the key map so the listing can't
// drift from the bindings.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	for i, section := range helpSections(m.keys) {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(helpSectionTitles)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(44)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(strings.TrimRight(b.String(), "\n")),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

// helpSections pairs each FullHelp group with its title.
func helpSections(k keyMap) []helpSection {
	groups := k.FullHelp()
	out := make([]helpSection, 0, len(groups))
	for i, group := range groups {
		title := ""
		if i < len(helpSectionTitles) {
			title = helpSectionTitles[i]
		}
		out = append(out, helpSection{title: title, items: helpItems(group)})
	}
	return out
}

func helpItems(bindings []key.Binding) []helpItem {
	items := make([]helpItem, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, helpItem{key: h.Key, desc: h.Desc})
	}
	return items
}
