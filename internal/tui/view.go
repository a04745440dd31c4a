package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MonikaTammineni/fsadproject/browser"
	"github.com/MonikaTammineni/fsadproject/notify"
)

const maxCellWidth = 24

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	v := m.br.View()
	schema := m.br.Schema()

	title := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	b.WriteString(title.Render(m.title))
	b.WriteString(faint.Render(fmt.Sprintf("  %d of %d", len(v.Rows), v.Total)))
	b.WriteString("\n")

	search := v.State.SearchColumn
	if c, ok := schema.Column(search); ok {
		search = c.Title()
	}
	line := fmt.Sprintf("search %s", search)
	if m.mode == modeSearch {
		line += " " + m.input.View()
	} else if v.State.Query != "" {
		line += fmt.Sprintf(" %q", v.State.Query)
	}
	if v.State.SortKey != "" {
		line += fmt.Sprintf("  sort %s %s", v.State.SortKey, v.State.SortDir)
	}
	b.WriteString(faint.Render(line))
	b.WriteString("\n")

	switch v.Fetch {
	case browser.Idle, browser.Loading:
		if v.Total == 0 {
			b.WriteString(faint.Render("Loading " + schema.Name + "…"))
			b.WriteString("\n")
		} else {
			b.WriteString(m.table(v))
		}
	default:
		if len(v.Rows) == 0 {
			b.WriteString(faint.Render("No " + schema.Name + " found"))
			b.WriteString("\n")
		} else {
			b.WriteString(m.table(v))
		}
	}

	switch m.mode {
	case modeEdit, modeEditField:
		b.WriteString(m.editPanel())
	case modeConfirm:
		sel, _ := m.br.Selected()
		warn := lipgloss.NewStyle().Bold(true).Foreground(m.theme.ErrorText)
		b.WriteString(warn.Render(fmt.Sprintf("Delete %s %s? (y/n)", schema.Noun, browser.IDOf(sel, schema.IDField))))
		b.WriteString("\n")
	}

	if v.Busy {
		b.WriteString(faint.Render("working…"))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.statusStyle().Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusStyle() lipgloss.Style {
	s := lipgloss.NewStyle()
	switch m.statusLevel {
	case notify.Success:
		return s.Foreground(m.theme.SuccessText)
	case notify.Error:
		return s.Foreground(m.theme.ErrorText)
	default:
		return s.Foreground(m.theme.NormalText)
	}
}

func (m Model) table(v browser.View) string {
	schema := m.br.Schema()
	cols := schema.Columns

	rows := v.Rows
	end := len(rows)
	if page := m.pageSize(); page > 0 && m.offset+page < end {
		end = m.offset + page
	}
	start := m.offset
	if start > end {
		start = end
	}

	cells := make([][]string, 0, end-start)
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len([]rune(c.Title()))
	}
	for _, rec := range rows[start:end] {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = truncate(browser.Format(m.br.Cell(rec, c), c.Kind), maxCellWidth)
			if n := len([]rune(line[i])); n > widths[i] {
				widths[i] = n
			}
		}
		cells = append(cells, line)
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-len([]rune(s)))
	}

	var b strings.Builder
	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground)
	parts := make([]string, len(cols))
	for i, c := range cols {
		t := c.Title()
		if c.Name == v.State.SortKey {
			t += " " + v.State.SortDir.String()
		}
		parts[i] = pad(truncate(t, widths[i]), widths[i])
	}
	b.WriteString("  " + header.Render(strings.Join(parts, "  ")) + "\n")

	normal := lipgloss.NewStyle().Foreground(m.theme.NormalText)
	selected := lipgloss.NewStyle().
		Foreground(m.theme.SelectedForeground).
		Background(m.theme.SelectedBackground)
	cursor := lipgloss.NewStyle().Foreground(m.theme.CursorForeground).Bold(true)

	for j, line := range cells {
		idx := start + j
		for i := range line {
			line[i] = pad(line[i], widths[i])
		}
		text := strings.Join(line, "  ")
		style := normal
		if id := browser.IDOf(rows[idx], schema.IDField); id != "" && id == v.State.SelectedID {
			style = selected
		}
		marker := "  "
		if idx == m.cursor {
			marker = cursor.Render("› ")
		}
		b.WriteString(marker + style.Render(text) + "\n")
	}
	return b.String()
}

func (m Model) editPanel() string {
	buf, ok := m.br.EditBuffer()
	if !ok {
		return ""
	}
	errs := m.br.FieldErrors()
	label := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	active := lipgloss.NewStyle().Foreground(m.theme.CursorForeground).Bold(true)
	bad := lipgloss.NewStyle().Foreground(m.theme.ErrorText)

	var b strings.Builder
	schema := m.br.Schema()
	b.WriteString(label.Render(fmt.Sprintf("Editing %s %s (enter to change, C-s to save, esc to cancel)", schema.Noun, browser.IDOf(buf, schema.IDField))))
	b.WriteString("\n")
	for i, c := range m.editable() {
		name := label.Render(c.Title() + ":")
		value := browser.Format(buf[c.Name], c.Kind)
		if i == m.field {
			name = active.Render(c.Title() + ":")
			if m.mode == modeEditField {
				value = m.input.View()
			}
		}
		b.WriteString(fmt.Sprintf("  %s %s", name, value))
		if msg, ok := errs[c.Name]; ok {
			b.WriteString("  " + bad.Render(msg))
		}
		b.WriteString("\n")
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderColor).
		Padding(0, 1)
	return box.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}
