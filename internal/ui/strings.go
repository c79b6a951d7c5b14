package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// truncate shortens a string to the given display width, adding an
// ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	return ansi.Truncate(value, limit, "…")
}

// padRight pads a string with spaces to the given display width.
func padRight(s string, width int) string {
	n := ansi.StringWidth(s)
	if width <= 0 || n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func formatMoney(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// orDash renders blank values as a dash.
func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// shortDate keeps the calendar day of a service timestamp.
func shortDate(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > 10 && value[4] == '-' && value[7] == '-' {
		return value[:10]
	}
	return orDash(value)
}
