package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which optional columns
	// are hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show address and phone
	// columns.
	LayoutWideWidth = 140
)

// Vertical chrome around the content box: header, tabs, status area and
// footer.
const (
	headerRows = 2
	tabRows    = 1
	statusRows = 3
	footerRows = 1
	boxChrome  = 4 // top border, search line, column header, bottom border
)

// contentHeight is the height of the titled box below the chrome.
func (m Model) contentHeight() int {
	h := m.height - headerRows - tabRows - statusRows - footerRows
	if h < boxChrome+1 {
		return boxChrome + 1
	}
	return h
}

// pageSize is the number of table rows that fit in the content box.
func (m Model) pageSize() int {
	n := m.contentHeight() - boxChrome
	if n < 1 {
		return 1
	}
	return n
}

// windowStart returns the first visible row so cursor stays on screen.
func windowStart(cursor, total, visible int) int {
	if visible <= 0 || total <= visible {
		return 0
	}
	start := cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start > total-visible {
		start = total - visible
	}
	return start
}
