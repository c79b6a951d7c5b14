package ui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
	"github.com/circdesk/circdesk/internal/prefs"
	"github.com/circdesk/circdesk/internal/refresh"
	"github.com/circdesk/circdesk/internal/status"
)

// Tab is one of the console's screens.
type Tab int

const (
	TabCatalog Tab = iota
	TabLoans
	TabFines
	TabBorrowers
	TabRegister
)

var tabOrder = []Tab{TabCatalog, TabLoans, TabFines, TabBorrowers, TabRegister}

func (t Tab) String() string {
	switch t {
	case TabCatalog:
		return "Catalog"
	case TabLoans:
		return "Loans"
	case TabFines:
		return "Fines"
	case TabBorrowers:
		return "Borrowers"
	case TabRegister:
		return "Register"
	default:
		return "?"
	}
}

// Status line actions.
const (
	actSearch       status.Action = "search"
	actCheckout     status.Action = "checkout"
	actLoans        status.Action = "loans"
	actCheckin      status.Action = "checkin"
	actFines        status.Action = "fines"
	actPay          status.Action = "pay"
	actRefreshFines status.Action = "refresh_fines"
	actApplyFine    status.Action = "apply_fine"
	actBorrowers    status.Action = "borrowers"
	actRegister     status.Action = "register"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Desk      *desk.Desk
	Logger    *slog.Logger
	APIBase   string
	Prefs     prefs.Prefs
	PrefsPath string
	// Now is used for overdue calculations; defaults to time.Now.
	Now func() time.Time
}

// summaryState is the header overview.
type summaryState struct {
	data   desk.Summary
	known  bool
	failed bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	desk      *desk.Desk
	logger    *slog.Logger
	apiBase   string
	prefs     prefs.Prefs
	prefsPath string
	now       func() time.Time

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	spinning bool
	tab      Tab
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal

	// Status lines
	tracker status.Tracker

	// Per-view state
	summary   summaryState
	catalog   catalogView
	loans     loansView
	fines     finesView
	borrowers borrowersView
	register  registerView
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	p := opts.Prefs
	if p.Theme == "" {
		p = prefs.Defaults()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:       ctx,
		desk:      opts.Desk,
		logger:    logger,
		apiBase:   opts.APIBase,
		prefs:     p,
		prefsPath: prefsPath,
		now:       now,
		theme:     GetTheme(p.Theme),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		tab:       TabCatalog,
		catalog:   newCatalogView(),
		loans:     newLoansView(library.ParseLoanFilter(p.LoanFilter)),
		fines:     newFinesView(library.ParseFineFilter(p.FineFilter)),
		borrowers: newBorrowersView(),
		register:  newRegisterView(),
	}
	m.catalog.search.Focus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.desk == nil {
		return nil
	}
	return tea.Batch(textinput.Blink, m.summaryCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if nm, ok := next.(Model); ok {
		nm.keys = nm.keys.withSelection(nm.tab, nm.catalog.list.sel.IsEmpty(), nm.fines.list.sel.IsEmpty())
		next = nm
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.tracker.Busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchedMsg[library.CatalogEntry]:
		m.applyCatalog(msg)
		return m, nil

	case fetchedMsg[library.Loan]:
		m.applyLoans(msg)
		return m, nil

	case fetchedMsg[library.Fine]:
		m.applyFines(msg)
		return m, nil

	case fetchedMsg[library.Borrower]:
		m.applyBorrowers(msg)
		return m, nil

	case summaryMsg:
		m.applySummary(msg)
		return m, nil

	case mutationMsg:
		return m.applyMutation(msg)

	case promptSubmittedMsg:
		return m.handlePrompt(msg)

	case showBorrowerLoansMsg:
		return m.showBorrowerLoans(msg.cardID)

	case showBorrowerFinesMsg:
		return m.showBorrowerFines(msg.cardID)
	}

	return m.updateInputs(msg)
}

// updateInputs forwards other messages, such as cursor blinks, to whatever
// input currently has focus.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		modal, cmd, _ := m.modal.Update(msg, m.keys)
		m.modal = modal
		return m, cmd
	}
	var cmd tea.Cmd
	switch m.tab {
	case TabCatalog:
		m.catalog.search, cmd = m.catalog.search.Update(msg)
	case TabLoans:
		m.loans.search, cmd = m.loans.search.Update(msg)
	case TabFines:
		m.fines.search, cmd = m.fines.search.Update(msg)
	case TabBorrowers:
		m.borrowers.search, cmd = m.borrowers.search.Update(msg)
	case TabRegister:
		cmd = m.register.form.update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// editing reports whether keystrokes belong to a text input.
func (m Model) editing() bool {
	switch m.tab {
	case TabCatalog:
		return m.catalog.search.Focused()
	case TabLoans:
		return m.loans.search.Focused()
	case TabFines:
		return m.fines.search.Focused()
	case TabBorrowers:
		return m.borrowers.search.Focused()
	case TabRegister:
		return true
	}
	return false
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	// Tab switching works everywhere except while typing into a field.
	if key.Matches(msg, m.keys.NextTab) {
		return m.switchTab(nextTab(m.tab, 1))
	}
	if key.Matches(msg, m.keys.PrevTab) {
		return m.switchTab(nextTab(m.tab, -1))
	}

	if m.editing() {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadTab()
	}

	if t, ok := tabForKey(msg.String()); ok {
		return m.switchTab(t)
	}

	switch m.tab {
	case TabCatalog:
		return m.handleCatalogKey(msg)
	case TabLoans:
		return m.handleLoansKey(msg)
	case TabFines:
		return m.handleFinesKey(msg)
	case TabBorrowers:
		return m.handleBorrowersKey(msg)
	}
	return m, nil
}

// handleInputKey routes keys to the focused input of the current tab.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabCatalog:
		return m.handleCatalogInput(msg)
	case TabLoans:
		done, q, cmd := updateSearch(&m.loans.search, msg, m.keys)
		if done {
			m.loans.list.filter = m.loans.list.filter.WithSearch(q)
			cmd = m.loadLoans()
		}
		return m, cmd
	case TabFines:
		done, q, cmd := updateSearch(&m.fines.search, msg, m.keys)
		if done {
			m.fines.list.filter = m.fines.list.filter.WithSearch(q)
			cmd = m.loadFines()
		}
		return m, cmd
	case TabBorrowers:
		done, q, cmd := updateSearch(&m.borrowers.search, msg, m.keys)
		if done {
			m.borrowers.list.filter = m.borrowers.list.filter.WithSearch(q)
			cmd = m.loadBorrowers()
		}
		return m, cmd
	case TabRegister:
		return m.handleRegisterKey(msg)
	}
	return m, nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// switchTab changes the visible tab. Loans, fines and borrowers load on
// first visit.
func (m Model) switchTab(t Tab) (tea.Model, tea.Cmd) {
	m.tab = t
	var cmd tea.Cmd
	switch t {
	case TabLoans:
		if !m.loans.list.requested {
			cmd = m.loadLoans()
		}
	case TabFines:
		if !m.fines.list.requested {
			cmd = m.loadFines()
		}
	case TabBorrowers:
		if !m.borrowers.list.requested {
			cmd = m.loadBorrowers()
		}
	}
	return m, cmd
}

// reloadTab refetches the current tab and the summary.
func (m *Model) reloadTab() tea.Cmd {
	cmds := []tea.Cmd{m.summaryCmd()}
	switch m.tab {
	case TabCatalog:
		if m.catalog.list.filter.HasSearch() {
			cmds = append(cmds, m.runSearch(m.catalog.list.filter.Search))
		}
	case TabLoans:
		cmds = append(cmds, m.loadLoans())
	case TabFines:
		cmds = append(cmds, m.loadFines())
	case TabBorrowers:
		cmds = append(cmds, m.loadBorrowers())
	}
	return tea.Batch(cmds...)
}

// visible reports whether a view's refetch should run. Only the catalog is
// gated: it is refetched only while shown with a search in effect.
func (m Model) visible(v refresh.View) bool {
	if v != refresh.Catalog {
		return true
	}
	return m.tab == TabCatalog && m.catalog.list.filter.HasSearch()
}

// startSpinner schedules spinner frames while calls are in flight.
func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func nextTab(current Tab, delta int) Tab {
	n := len(tabOrder)
	return tabOrder[((int(current)+delta)%n+n)%n]
}

func tabForKey(k string) (Tab, bool) {
	switch k {
	case "1":
		return TabCatalog, true
	case "2":
		return TabLoans, true
	case "3":
		return TabFines, true
	case "4":
		return TabBorrowers, true
	case "5":
		return TabRegister, true
	}
	return 0, false
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
