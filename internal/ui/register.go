package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/refresh"
)

// registerView is the borrower registration form.
type registerView struct {
	form form
}

func newRegisterView() registerView {
	return registerView{form: newForm([]promptField{
		{label: "SSN", placeholder: "123-45-6789", limit: 11},
		{label: "Name", placeholder: "Full name", limit: 80},
		{label: "Address", placeholder: "Street, city, state", limit: 120},
		{label: "Phone", placeholder: "optional", limit: 20},
	})}
}

func (v registerView) borrower() library.NewBorrower {
	vals := v.form.values()
	return library.NewBorrower{SSN: vals[0], Name: vals[1], Address: vals[2], Phone: vals[3]}
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.register.form
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.tracker.Reset(actRegister)
		return m, f.reset()
	case key.Matches(msg, m.keys.Save):
		return m.submitRegister()
	case key.Matches(msg, m.keys.Submit):
		if !f.last() {
			return m, f.next()
		}
		return m.submitRegister()
	}
	if cmd, ok := f.navigate(msg, m.keys); ok {
		return m, cmd
	}
	return m, f.update(msg)
}

func (m Model) submitRegister() (tea.Model, tea.Cmd) {
	b, err := desk.ValidateBorrower(m.register.borrower())
	if err != nil {
		m.tracker.Fail(actRegister, err)
		return m, nil
	}
	d := m.desk
	cmd := m.mutate(actRegister, refresh.CreateBorrower, "Registering "+b.Name+"...", func(ctx context.Context, out *mutationMsg) {
		created, err := d.RegisterBorrower(ctx, b)
		if err != nil {
			out.err = err
			return
		}
		out.text = fmt.Sprintf("Registered %s with card %s", b.Name, created.CardID)
		out.after = func(m *Model) { m.register.form.reset() }
	})
	return m, cmd
}
