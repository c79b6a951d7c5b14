package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type promptField struct {
	label       string
	placeholder string
	limit       int
}

// form is a column of labelled text inputs with one focused field.
type form struct {
	labels  []string
	inputs  []textinput.Model
	focused int
}

func newForm(fields []promptField) form {
	f := form{
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}
	for i, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.placeholder
		ti.Prompt = ""
		ti.CharLimit = field.limit
		if ti.CharLimit == 0 {
			ti.CharLimit = 120
		}
		ti.Width = 40
		f.labels[i] = field.label
		f.inputs[i] = ti
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *form) focus(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	n := len(f.inputs)
	i = ((i % n) + n) % n
	f.inputs[f.focused].Blur()
	f.focused = i
	return f.inputs[i].Focus()
}

func (f *form) next() tea.Cmd { return f.focus(f.focused + 1) }

func (f *form) prev() tea.Cmd { return f.focus(f.focused - 1) }

func (f form) last() bool { return f.focused == len(f.inputs)-1 }

func (f form) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}

func (f *form) reset() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	return f.focus(0)
}

// update feeds a non-navigation key to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

// navigate handles field movement keys and reports whether msg was one.
func (f *form) navigate(msg tea.KeyMsg, keys keyMap) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.NextField):
		return f.next(), true
	case key.Matches(msg, keys.PrevField):
		return f.prev(), true
	}
	return nil, false
}

func (f form) view(theme Theme, bgColor string) string {
	styles := theme.Styles().WithBackground(bgColor)
	width := 0
	for _, l := range f.labels {
		width = max(width, len(l))
	}
	lines := make([]string, 0, len(f.inputs))
	for i, in := range f.inputs {
		label := padRight(f.labels[i], width)
		labelStyle := styles.MutedText
		if i == f.focused {
			labelStyle = styles.AccentText.Bold(true)
		}
		lines = append(lines, labelStyle.Render(label+"  ")+in.View())
	}
	return strings.Join(lines, "\n")
}

// promptModal collects one or more values for an action and emits a
// promptSubmittedMsg on enter.
type promptModal struct {
	kind   promptKind
	title  string
	hint   string
	form   form
	isbns  []string
	batch  bool
	loanID int64
}

func newPrompt(kind promptKind, title string, fields []promptField) *promptModal {
	return &promptModal{kind: kind, title: title, form: newForm(fields)}
}

func (p *promptModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, p.form.update(msg), false
	}
	switch {
	case key.Matches(km, keys.Cancel):
		return p, nil, true
	case key.Matches(km, keys.Submit), key.Matches(km, keys.Save):
		if key.Matches(km, keys.Submit) && !p.form.last() {
			return p, p.form.next(), false
		}
		return p, emit(p.submission()), true
	case key.Matches(km, keys.NextTab):
		return p, p.form.next(), false
	case key.Matches(km, keys.PrevTab):
		return p, p.form.prev(), false
	}
	if cmd, ok := p.form.navigate(km, keys); ok {
		return p, cmd, false
	}
	return p, p.form.update(km), false
}

func (p *promptModal) submission() promptSubmittedMsg {
	return promptSubmittedMsg{
		kind:   p.kind,
		values: p.form.values(),
		isbns:  append([]string(nil), p.isbns...),
		batch:  p.batch,
		loanID: p.loanID,
	}
}

func (p *promptModal) View(theme Theme, width, height int) string {
	styles := theme.Styles().WithBackground(theme.SurfaceAlt)
	body := []string{
		styles.AccentText.Bold(true).Render(p.title),
		"",
		p.form.view(theme, theme.SurfaceAlt),
	}
	if p.hint != "" {
		body = append(body, "", styles.FaintText.Render(p.hint))
	}
	body = append(body, "", styles.MutedText.Render("enter submit  esc cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Background(lipgloss.Color(theme.SurfaceAlt)).
		Padding(1, 2).
		Render(strings.Join(body, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(theme.Background)))
}
