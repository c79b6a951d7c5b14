package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/circdesk/circdesk/internal/state"
	"github.com/circdesk/circdesk/internal/status"
)

// renderMain stacks header, tabs, the current tab's box, status lines and
// the key hints.
func (m Model) renderMain() string {
	bg := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		Height(m.height)

	parts := []string{
		m.renderHeader(),
		m.renderTabs(),
		m.renderContent(),
		m.renderStatus(),
		m.renderFooter(),
	}
	return bg.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderContent() string {
	width := m.width
	height := m.contentHeight()
	switch m.tab {
	case TabCatalog:
		l := m.catalog.list
		rows := make([][]string, 0, l.data.Len())
		for _, e := range l.data.Rows() {
			rows = append(rows, catalogCells(e, l.marked(e)))
		}
		title := "Catalog"
		if n := l.sel.Len(); n > 0 {
			title = fmt.Sprintf("Catalog · %d selected", n)
		}
		body := m.searchLine(m.catalog.search.View(), "") + "\n" +
			m.renderList(tableSpec{headers: catalogHeaders, rows: rows, cursor: l.cursor, statusCol: catalogStatusCol}, listPlaceholder(l.data.Snapshot(), l.placeholder, l.filter.HasSearch() || l.requested), width-2, height-3)
		return m.renderTitledBox(title, body, width, height, true)

	case TabLoans:
		l := m.loans.list
		now := m.now()
		rows := make([][]string, 0, l.data.Len())
		for _, ln := range l.data.Rows() {
			rows = append(rows, loanCells(ln, now))
		}
		title := fmt.Sprintf("Loans (%s)", m.loans.loanFilter())
		body := m.searchLine(m.loans.search.View(), "f filter") + "\n" +
			m.renderList(tableSpec{headers: loanHeaders, rows: rows, cursor: l.cursor, statusCol: loanStatusCol}, listPlaceholder(l.data.Snapshot(), l.placeholder, l.requested), width-2, height-3)
		return m.renderTitledBox(title, body, width, height, true)

	case TabFines:
		l := m.fines.list
		rows := make([][]string, 0, l.data.Len())
		for _, f := range l.data.Rows() {
			rows = append(rows, fineCells(f, l.marked(f)))
		}
		title := fmt.Sprintf("Fines (%s)", m.fines.fineFilter())
		if n := l.sel.Len(); n > 0 {
			title += fmt.Sprintf(" · %d %s selected", n, plural(n, "borrower", "borrowers"))
		}
		body := m.searchLine(m.fines.search.View(), "f filter") + "\n" +
			m.renderList(tableSpec{headers: fineHeaders, rows: rows, cursor: l.cursor, statusCol: fineStatusCol}, listPlaceholder(l.data.Snapshot(), l.placeholder, l.requested), width-2, height-3)
		return m.renderTitledBox(title, body, width, height, true)

	case TabBorrowers:
		l := m.borrowers.list
		rows := make([][]string, 0, l.data.Len())
		for _, b := range l.data.Rows() {
			rows = append(rows, borrowerCells(b))
		}
		body := m.searchLine(m.borrowers.search.View(), "") + "\n" +
			m.renderList(tableSpec{headers: borrowerHeaders, rows: rows, cursor: l.cursor, statusCol: -1}, listPlaceholder(l.data.Snapshot(), l.placeholder, l.requested), width-2, height-3)
		return m.renderTitledBox("Borrowers", body, width, height, true)

	case TabRegister:
		body := "\n" + m.register.form.view(m.theme, m.theme.FocusBg)
		return m.renderTitledBox("Register borrower", body, width, height, true)
	}
	return ""
}

// listPlaceholder returns the text shown instead of a table, or "" when
// there are rows to show.
func listPlaceholder[T any](snap state.Snapshot[T], empty string, requested bool) string {
	switch {
	case len(snap.Rows) > 0:
		return ""
	case !snap.Loaded && snap.LastError != nil:
		return "Could not load: " + status.Project(snap.LastError)
	case !snap.Loaded && !requested:
		return "Type a search and press enter."
	case !snap.Loaded:
		return "Loading..."
	default:
		return empty
	}
}

func (m Model) searchLine(input, hint string) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	if hint == "" {
		return input
	}
	return input + "  " + styles.FaintText.Render(hint)
}

type tableSpec struct {
	headers   []string
	rows      [][]string
	cursor    int
	statusCol int
}

// renderList draws the visible window of a table, or the placeholder.
func (m Model) renderList(tbl tableSpec, placeholder string, width, height int) string {
	if placeholder != "" {
		styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
		return styles.MutedText.Render(placeholder)
	}
	visible := max(height-1, 1)
	start := windowStart(tbl.cursor, len(tbl.rows), visible)
	end := min(start+visible, len(tbl.rows))
	window := tbl.rows[start:end]
	cursor := tbl.cursor - start

	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.FocusBg)
	cell := lipgloss.NewStyle().Padding(0, 1).Background(bg).Foreground(lipgloss.Color(m.theme.Text))
	header := cell.Foreground(lipgloss.Color(m.theme.Accent)).Bold(true)
	selected := styles.Selected.Padding(0, 1)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Width(width).
		Headers(tbl.headers...).
		Rows(window...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row == cursor:
				return selected
			case col == tbl.statusCol && row >= 0 && row < len(window):
				return styles.StatusText(window[row][col]).Padding(0, 1).Background(bg)
			default:
				return cell
			}
		})
	return t.String()
}

// renderTitledBox draws a bordered box with the title set into the top
// border.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bg.Color())
	lines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)
	out := make([]string, 0, boxHeight+2)
	out = append(out, top)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		out = append(out, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}
	out = append(out, bottom)
	return strings.Join(out, "\n")
}

func (m Model) renderTabs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	parts := make([]string, 0, len(tabOrder))
	for i, t := range tabOrder {
		label := fmt.Sprintf(" %d %s ", i+1, t)
		if t == m.tab {
			parts = append(parts, styles.Selected.Bold(true).Render(label))
			continue
		}
		parts = append(parts, bg.Render(label, styles.MutedText))
	}
	return bg.FillLine(bg.Join(parts, " "), m.width)
}

// tabActions lists the status lines shown under each tab.
var tabActions = map[Tab][]status.Action{
	TabCatalog:   {actSearch, actCheckout},
	TabLoans:     {actLoans, actCheckin, actApplyFine},
	TabFines:     {actFines, actPay, actRefreshFines, actApplyFine},
	TabBorrowers: {actBorrowers},
	TabRegister:  {actRegister},
}

// statusLines renders the non-idle lines for the current tab as plain
// text, most specific first, capped at statusRows.
func (m Model) statusLines() []statusEntry {
	var out []statusEntry
	for _, a := range tabActions[m.tab] {
		line := m.tracker.Line(a)
		if line.State == status.Idle {
			continue
		}
		out = append(out, statusEntry{state: line.State, text: line.Text})
		if line.Warning != "" {
			out = append(out, statusEntry{state: status.Idle, warning: true, text: line.Warning})
		}
		for _, d := range line.Details {
			out = append(out, statusEntry{state: status.Idle, detail: true, text: d})
		}
	}
	if len(out) > statusRows {
		out = append(out[:statusRows-1], statusEntry{detail: true, text: fmt.Sprintf("… %d more", len(out)-statusRows+1)})
	}
	return out
}

type statusEntry struct {
	state   status.State
	text    string
	warning bool
	detail  bool
}

func (m Model) renderStatus() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	entries := m.statusLines()
	lines := make([]string, statusRows)
	for i := range lines {
		var text string
		if i < len(entries) {
			e := entries[i]
			switch {
			case e.warning:
				text = bg.Render("! "+e.text, styles.WarningText)
			case e.detail:
				text = bg.Render("  "+e.text, styles.MutedText)
			case e.state == status.Running:
				text = m.spinner.View() + bg.Space() + bg.Render(e.text, styles.InfoText)
			case e.state == status.Succeeded:
				text = bg.Render("✓ "+e.text, styles.SuccessText)
			case e.state == status.Failed:
				text = bg.Render("✗ "+e.text, styles.DangerText)
			}
		}
		lines[i] = bg.FillLine(truncate(text, m.width), m.width)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).Render(m.help.View(tabKeys{keyMap: m.keys, tab: m.tab}))
}
