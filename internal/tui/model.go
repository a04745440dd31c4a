// Package tui renders a record browser as an interactive terminal table.
//
// The model owns no records itself. Every action goes through the
// browser, and slow ones (fetch, save, delete) run as tea commands so the
// table stays responsive while a request is in flight.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MonikaTammineni/fsadproject/apierr"
	"github.com/MonikaTammineni/fsadproject/browser"
	"github.com/MonikaTammineni/fsadproject/notify"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeEdit
	modeEditField
	modeConfirm
)

// Messages produced by the asynchronous commands.
type (
	fetchedMsg struct{ err error }
	savedMsg   struct{ err error }
	deletedMsg struct{ err error }
)

// Option configures a Model.
type Option func(*Model)

// WithKeyMap replaces DefaultKeyMap.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// WithTheme replaces DefaultTheme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithTitle sets the heading shown above the table.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithContext sets the context the browser requests run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithSelectHook calls fn whenever a record is selected. An error is shown
// in the status line; the selection stays.
func WithSelectHook(fn func(browser.Record) error) Option {
	return func(m *Model) { m.onSelect = fn }
}

// Model is the bubbletea model of one record screen.
type Model struct {
	ctx      context.Context
	br       *browser.Browser
	notes    *notify.Queue
	onSelect func(browser.Record) error

	keys  KeyMap
	theme Theme
	help  help.Model
	input textinput.Model
	title string

	mode   mode
	cursor int // Index into the visible rows.
	offset int // First visible row.
	field  int // Index into the editable columns while editing.

	status      string
	statusLevel notify.Level

	width  int
	height int
}

// New returns a model over br. Notifications the browser sends to notes are
// shown in the status line; notes may be nil.
func New(br *browser.Browser, notes *notify.Queue, opts ...Option) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 256

	m := Model{
		ctx:   context.Background(),
		br:    br,
		notes: notes,
		keys:  DefaultKeyMap,
		theme: DefaultTheme,
		help:  help.New(),
		input: in,
		title: br.Schema().Name,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return m.fetchCmd()
}

func (m Model) fetchCmd() tea.Cmd {
	ctx, br := m.ctx, m.br
	return func() tea.Msg { return fetchedMsg{err: br.Fetch(ctx)} }
}

func (m Model) saveCmd() tea.Cmd {
	ctx, br := m.ctx, m.br
	return func() tea.Msg { return savedMsg{err: br.Save(ctx)} }
}

func (m Model) deleteCmd() tea.Cmd {
	ctx, br := m.ctx, m.br
	approve := func(browser.Record) bool { return true }
	return func() tea.Msg { return deletedMsg{err: br.Delete(ctx, approve)} }
}

// Update handles terminal events and command results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clamp()
		return m, nil

	case fetchedMsg:
		m.afterResult(msg.err)
		m.clamp()
		return m, nil

	case savedMsg:
		m.afterResult(msg.err)
		if msg.err == nil {
			m.mode = modeBrowse
		}
		return m, nil

	case deletedMsg:
		m.afterResult(msg.err)
		m.mode = modeBrowse
		m.clamp()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeEditField:
			return m.updateEditField(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

// afterResult moves queued notifications into the status line. An error
// the browser did not announce is shown directly.
func (m *Model) afterResult(err error) {
	shown := m.drain()
	if err != nil && !shown && !errors.Is(err, browser.ErrStale) {
		m.setStatus(notify.Error, apierr.UserMessage(err, err.Error()))
	}
}

func (m *Model) drain() bool {
	if m.notes == nil {
		return false
	}
	ns := m.notes.Drain()
	if len(ns) == 0 {
		return false
	}
	last := ns[len(ns)-1]
	m.setStatus(last.Level, last.Message)
	return true
}

func (m *Model) setStatus(level notify.Level, msg string) {
	m.statusLevel = level
	m.status = msg
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.br.View().Rows
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		m.clamp()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.clamp()

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.clamp()

	case key.Matches(msg, m.keys.End):
		m.cursor = len(rows) - 1
		m.clamp()

	case key.Matches(msg, m.keys.Select):
		if m.cursor >= len(rows) {
			return m, nil
		}
		rec := rows[m.cursor]
		if err := m.br.Select(browser.IDOf(rec, m.br.Schema().IDField)); err != nil {
			m.setStatus(notify.Error, err.Error())
			return m, nil
		}
		if m.onSelect != nil {
			if err := m.onSelect(rec); err != nil {
				m.setStatus(notify.Error, err.Error())
			}
		}

	case key.Matches(msg, m.keys.Clear):
		m.br.ClearSelection()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.input.SetValue(m.br.View().State.Query)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.NextColumn):
		m.nextSearchColumn()

	case key.Matches(msg, m.keys.Sort):
		col := m.br.View().State.SearchColumn
		if err := m.br.ToggleSort(col); err != nil {
			m.setStatus(notify.Error, err.Error())
		}

	case key.Matches(msg, m.keys.Reset):
		m.br.Reset()
		m.cursor, m.offset = 0, 0

	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchCmd()

	case key.Matches(msg, m.keys.Edit):
		sel, ok := m.br.Selected()
		if !ok || !m.br.ActionsEnabled() {
			m.setStatus(notify.Info, "Select a "+m.br.Schema().Noun+" first")
			return m, nil
		}
		if err := m.br.BeginEdit(browser.IDOf(sel, m.br.Schema().IDField)); err != nil {
			m.setStatus(notify.Error, err.Error())
			return m, nil
		}
		m.mode = modeEdit
		m.field = 0

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.br.Selected(); !ok || !m.br.ActionsEnabled() {
			m.setStatus(notify.Info, "Select a "+m.br.Schema().Noun+" first")
			return m, nil
		}
		if !m.br.CanDelete() {
			m.setStatus(notify.Error, browser.ErrReadOnly.Error())
			return m, nil
		}
		m.mode = modeConfirm

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) nextSearchColumn() {
	cols := m.br.Schema().SearchColumns()
	if len(cols) == 0 {
		return
	}
	cur := m.br.View().State.SearchColumn
	next := cols[0].Name
	for i, c := range cols {
		if c.Name == cur {
			next = cols[(i+1)%len(cols)].Name
			break
		}
	}
	if err := m.br.SetSearchColumn(next); err != nil {
		m.setStatus(notify.Error, err.Error())
	}
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		m.input.SetValue("")
		m.br.SetQuery("")
		m.clamp()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.br.SetQuery(m.input.Value())
	m.cursor, m.offset = 0, 0
	return m, cmd
}

// editable returns the columns the edit panel offers.
func (m Model) editable() []browser.Column {
	s := m.br.Schema()
	var out []browser.Column
	for _, c := range s.Columns {
		if c.Editable && !c.Derived() && c.Name != s.IDField {
			out = append(out, c)
		}
	}
	return out
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.editable()
	switch {
	case key.Matches(msg, m.keys.Save):
		return m, m.saveCmd()

	case msg.Type == tea.KeyEsc:
		m.br.CancelEdit()
		m.mode = modeBrowse

	case key.Matches(msg, m.keys.Down), msg.Type == tea.KeyTab:
		if len(cols) > 0 {
			m.field = (m.field + 1) % len(cols)
		}

	case key.Matches(msg, m.keys.Up), msg.Type == tea.KeyShiftTab:
		if len(cols) > 0 {
			m.field = (m.field + len(cols) - 1) % len(cols)
		}

	case msg.Type == tea.KeyEnter:
		if m.field >= len(cols) {
			return m, nil
		}
		buf, _ := m.br.EditBuffer()
		m.input.SetValue(browser.Format(buf[cols[m.field].Name], cols[m.field].Kind))
		m.input.CursorEnd()
		m.mode = modeEditField
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateEditField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		col := m.editable()[m.field]
		if err := m.br.SetField(col.Name, m.input.Value()); err != nil {
			m.setStatus(notify.Error, apierr.UserMessage(err, err.Error()))
		} else {
			m.status = ""
		}
		m.input.Blur()
		m.mode = modeEdit
		return m, nil
	case tea.KeyEsc:
		m.input.Blur()
		m.mode = modeEdit
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, m.deleteCmd()
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.setStatus(notify.Info, "Delete cancelled")
	}
	return m, nil
}

// pageSize is the number of table rows that fit the window.
func (m Model) pageSize() int {
	const chrome = 8
	if m.height <= chrome {
		return 0
	}
	return m.height - chrome
}

// clamp keeps the cursor on a visible row.
func (m *Model) clamp() {
	n := len(m.br.View().Rows)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	page := m.pageSize()
	if page == 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}
