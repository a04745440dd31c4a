package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MonikaTammineni/fsadproject/apierr"
	"github.com/MonikaTammineni/fsadproject/browser"
	"github.com/MonikaTammineni/fsadproject/notify"
	"github.com/MonikaTammineni/fsadproject/views"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// listFlags are the view controls shared by every list command.
type listFlags struct {
	searchColumn string
	query        string
	sort         string
	desc         bool
	json         bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.searchColumn, "search-column", "", "column the query applies to (default: the view's default)")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "case-insensitive substring filter")
	cmd.Flags().StringVar(&f.sort, "sort", "", "column to sort by")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&f.json, "json", false, "output as JSON")
}

func (f listFlags) apply(br *browser.Browser) error {
	if f.searchColumn != "" {
		if err := br.SetSearchColumn(f.searchColumn); err != nil {
			return err
		}
	}
	br.SetQuery(f.query)
	if f.sort != "" {
		dir := browser.Ascending
		if f.desc {
			dir = browser.Descending
		}
		if err := br.SetSort(f.sort, dir); err != nil {
			return err
		}
	}
	return nil
}

// printer shows notifications on the terminal: errors on stderr, the rest
// on stdout.
func printer(out, errOut io.Writer) notify.Sink {
	return notify.SinkFunc(func(n notify.Notification) {
		if n.Level == notify.Error {
			outln(errOut, "error:", n.Message)
			return
		}
		outln(out, n.Message)
	})
}

// open builds a browser for b, wired to the terminal, and fetches it.
func (a *app) open(cmd *cobra.Command, b views.Binding) (*browser.Browser, error) {
	sink := notify.Fanout{printer(cmd.OutOrStdout(), cmd.ErrOrStderr())}
	if a.debug {
		sink = append(sink, notify.LogSink{Logger: a.log})
	}
	br, err := b.Open(
		browser.WithNotifier(sink),
		browser.WithLogger(a.log),
		browser.WithClock(a.now),
	)
	if err != nil {
		return nil, err
	}
	ctx, cancel := a.context(cmd)
	defer cancel()
	if err := br.Fetch(ctx); err != nil {
		br.Close()
		return nil, reportedError{err}
	}
	return br, nil
}

// list fetches b and prints the rows selected by f.
func (a *app) list(cmd *cobra.Command, b views.Binding, f listFlags) error {
	br, err := a.open(cmd, b)
	if err != nil {
		return err
	}
	defer br.Close()
	if err := f.apply(br); err != nil {
		return err
	}
	if f.json {
		return writeJSON(cmd.OutOrStdout(), br)
	}
	writeTable(cmd.OutOrStdout(), br)
	return nil
}

func writeTable(w io.Writer, br *browser.Browser) {
	v := br.View()
	schema := br.Schema()
	if len(v.Rows) == 0 {
		outf(w, "No %s found\n", schema.Name)
		return
	}

	headers := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		headers[i] = c.Title()
		if c.Name == v.State.SortKey {
			headers[i] += " (" + v.State.SortDir.String() + ")"
		}
	}
	rows := make([][]string, 0, len(v.Rows))
	for _, rec := range v.Rows {
		line := make([]string, len(schema.Columns))
		for i, c := range schema.Columns {
			line[i] = browser.Format(br.Cell(rec, c), c.Kind)
		}
		rows = append(rows, line)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	outln(w, t.Render())
	outf(w, "%d of %d %s\n", len(v.Rows), v.Total, schema.Name)
}

// writeJSON prints the visible rows, derived columns included.
func writeJSON(w io.Writer, br *browser.Browser) error {
	schema := br.Schema()
	rows := br.View().Rows
	out := make([]map[string]any, 0, len(rows))
	for _, rec := range rows {
		m := make(map[string]any, len(rec)+1)
		for k, v := range rec {
			m[k] = v
		}
		for _, c := range schema.Columns {
			if c.Derived() {
				m[c.Name] = br.Cell(rec, c)
			}
		}
		out = append(out, m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// fieldValues parses repeated --set name=value flags.
func fieldValues(pairs []string) ([][2]string, error) {
	out := make([][2]string, 0, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("--set wants name=value, got %q", p)
		}
		out = append(out, [2]string{strings.TrimSpace(name), value})
	}
	return out, nil
}

// edit opens b, applies the field values to the record with id and saves.
func (a *app) edit(cmd *cobra.Command, b views.Binding, id string, pairs []string) error {
	values, err := fieldValues(pairs)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("nothing to change; pass --set name=value")
	}
	br, err := a.open(cmd, b)
	if err != nil {
		return err
	}
	defer br.Close()

	if err := br.BeginEdit(id); err != nil {
		return err
	}
	for _, kv := range values {
		// Field errors are collected by the browser and reported by Save.
		if err := br.SetField(kv[0], kv[1]); err != nil && !apierr.IsValidation(err) {
			return err
		}
	}
	fieldErrs := br.FieldErrors()
	for _, name := range slices.Sorted(maps.Keys(fieldErrs)) {
		outf(cmd.ErrOrStderr(), "  %s: %s\n", name, fieldErrs[name])
	}
	ctx, cancel := a.context(cmd)
	defer cancel()
	if err := br.Save(ctx); err != nil {
		return reportedError{err}
	}
	return nil
}

// remove opens b, selects the record with id and deletes it after
// confirmation. yes skips the prompt.
func (a *app) remove(cmd *cobra.Command, b views.Binding, id string, yes bool) error {
	br, err := a.open(cmd, b)
	if err != nil {
		return err
	}
	defer br.Close()

	if err := br.Select(id); err != nil {
		return err
	}
	schema := br.Schema()
	confirm := func(rec browser.Record) bool {
		if yes {
			return true
		}
		outf(cmd.OutOrStdout(), "Delete %s %s? [y/N] ", schema.Noun, browser.IDOf(rec, schema.IDField))
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
	ctx, cancel := a.context(cmd)
	defer cancel()
	switch err := br.Delete(ctx, confirm); {
	case err == nil:
		return nil
	case errors.Is(err, browser.ErrNotConfirmed):
		outln(cmd.OutOrStdout(), "Cancelled")
		return nil
	case errors.Is(err, browser.ErrReadOnly):
		return err
	default:
		return reportedError{err}
	}
}
