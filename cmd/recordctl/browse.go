package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/MonikaTammineni/fsadproject/browser"
	"github.com/MonikaTammineni/fsadproject/internal/tui"
	"github.com/MonikaTammineni/fsadproject/notify"
	"github.com/MonikaTammineni/fsadproject/views"
)

func newBrowseCmd(a *app) *cobra.Command {
	var inline bool

	cmd := &cobra.Command{
		Use:       "browse <view>",
		Short:     "Open an interactive table (" + strings.Join(views.Names(), ", ") + ")",
		Args:      cobra.ExactArgs(1),
		ValidArgs: views.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			b, err := a.openBinding(name)
			if err != nil {
				return err
			}

			notes := notify.NewQueue(32)
			defer notes.Close()
			sink := notify.Fanout{notes}
			if a.debug {
				sink = append(sink, notify.LogSink{Logger: a.log})
			}
			br, err := b.Open(
				browser.WithNotifier(sink),
				browser.WithLogger(a.log),
				browser.WithClock(a.now),
			)
			if err != nil {
				return err
			}
			defer br.Close()

			opts := []tui.Option{
				tui.WithContext(cmd.Context()),
				tui.WithTitle(titleFor(name)),
			}
			if name == views.PatientsView {
				opts = append(opts, tui.WithSelectHook(func(rec browser.Record) error {
					_, err := views.RememberPatient(a.store, rec)
					return err
				}))
			}

			progOpts := []tea.ProgramOption{
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			}
			if !inline {
				progOpts = append(progOpts, tea.WithAltScreen())
			}
			if _, err := tea.NewProgram(tui.New(br, notes, opts...), progOpts...).Run(); err != nil {
				return fmt.Errorf("run %s table: %w", name, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "render in the current screen instead of the alternate screen")
	return cmd
}

func titleFor(name string) string {
	switch name {
	case views.ReportsView:
		return "My reports"
	case views.FilesView:
		return "Patient files"
	default:
		return strings.ToUpper(name[:1]) + name[1:]
	}
}
