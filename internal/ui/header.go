package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the two header rows: the logo with the summary
// figures, then the service address and the spinner while calls run.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	summaryStyle := styles.Text
	if m.summary.failed {
		summaryStyle = styles.WarningText
	}
	top := bg.Render("circdesk", styles.Logo) + sep + bg.Render(summaryText(m.summary), summaryStyle)

	parts := []string{bg.Render(truncate(orDash(m.apiBase), 60), styles.MutedText)}
	if m.tracker.Busy() {
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("working", styles.InfoText))
	}
	if snap := m.lastUpdated(); snap != "" {
		parts = append(parts, bg.Render("updated "+snap, styles.FaintText))
	}
	bottom := bg.Join(parts, "  ")

	line := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxWidth(m.width).
		Padding(0, 1)
	return line.Render(top) + "\n" + line.Render(bottom)
}

// lastUpdated is the time of the current tab's last fetch attempt.
func (m Model) lastUpdated() string {
	switch m.tab {
	case TabCatalog:
		return updatedAt(&m.catalog.list)
	case TabLoans:
		return updatedAt(&m.loans.list)
	case TabFines:
		return updatedAt(&m.fines.list)
	case TabBorrowers:
		return updatedAt(&m.borrowers.list)
	}
	return ""
}

func updatedAt[T any](l *listView[T]) string {
	at := l.data.Snapshot().LastUpdated
	if at.IsZero() {
		return ""
	}
	return at.Format("15:04:05")
}
