package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. All colors are hex strings.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string
	FocusBg    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors maps a lowercased status label, as shown in the tables,
	// to its color.
	StatusColors map[string]string
}

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	statusColors map[string]string
	muted        string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles builds the theme's styles.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Footer:   fg(t.Muted).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:     fg(t.Warning).Bold(true),
		Selected: fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),

		statusColors: t.StatusColors,
		muted:        t.Muted,
	}
}

// StatusText colors a status cell. Unknown statuses use the muted color.
func (s Styles) StatusText(status string) lipgloss.Style {
	color, ok := s.statusColors[statusKey(status)]
	if !ok || color == "" {
		color = s.muted
	}
	return fg(color)
}

func statusKey(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// WithBackground returns a copy whose styles all paint bgColor, so text
// rendered inside a panel does not punch holes in its background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Footer, &out.Logo, &out.Selected,
	} {
		*st = st.Background(bg)
	}
	return out
}

// palette is the compact form themes are declared in.
type palette struct {
	bg, surface, surfaceAlt, focus string
	selBg, selText                 string
	border, borderFocus            string
	text, muted, faint, accent     string
	success, warning, danger, info string

	// checked out, returned
	idle, done string
}

func (p palette) theme(name string) Theme {
	return Theme{
		Name:          name,
		Background:    p.bg,
		Surface:       p.surface,
		SurfaceAlt:    p.surfaceAlt,
		FocusBg:       p.focus,
		SelectionBg:   p.selBg,
		SelectionText: p.selText,
		Border:        p.border,
		BorderFocus:   p.borderFocus,
		Text:          p.text,
		Muted:         p.muted,
		Faint:         p.faint,
		Accent:        p.accent,
		Success:       p.success,
		Warning:       p.warning,
		Danger:        p.danger,
		Info:          p.info,
		StatusColors: map[string]string{
			"available":   p.success,
			"checked out": p.idle,
			"active":      p.accent,
			"overdue":     p.danger,
			"returned":    p.done,
			"unpaid":      p.warning,
			"paid":        p.success,
		},
	}
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": palette{
		bg: "#131a24", surface: "#192330", surfaceAlt: "#212e3f", focus: "#29394f",
		selBg: "#2b3b51", selText: "#cdcecf",
		border: "#39506d", borderFocus: "#719cd6",
		text: "#cdcecf", muted: "#738091", faint: "#71839b", accent: "#719cd6",
		success: "#81b29a", warning: "#dbc074", danger: "#c94f6d", info: "#63cdcf",
		idle: "#738091", done: "#71839b",
	}.theme("Nightfox"),

	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": palette{
		bg: "#16161D", surface: "#1F1F28", surfaceAlt: "#2A2A37", focus: "#2A2A37",
		selBg: "#2D4F67", selText: "#DCD7BA",
		border: "#54546D", borderFocus: "#7E9CD8",
		text: "#DCD7BA", muted: "#C8C093", faint: "#727169", accent: "#7E9CD8",
		success: "#98BB6C", warning: "#E6C384", danger: "#E46876", info: "#7FB4CA",
		idle: "#727169", done: "#727169",
	}.theme("Kanagawa"),

	// Tailwind slate and sky scales.
	"Slate": palette{
		bg: "#020617", surface: "#0f172a", surfaceAlt: "#1e293b", focus: "#283548",
		selBg: "#0284c7", selText: "#f8fafc",
		border: "#334155", borderFocus: "#38bdf8",
		text: "#f1f5f9", muted: "#94a3b8", faint: "#64748b", accent: "#38bdf8",
		success: "#22c55e", warning: "#f59e0b", danger: "#ef4444", info: "#06b6d4",
		idle: "#64748b", done: "#0369a1",
	}.theme("Slate"),
}

// GetTheme returns the named theme, or the first one when unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames lists the themes in cycle order.
func ThemeNames() []string {
	return themeOrder
}
