package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MonikaTammineni/fsadproject/client"
	"github.com/MonikaTammineni/fsadproject/session"
	"github.com/MonikaTammineni/fsadproject/views"
)

// bindFunc builds a screen binding for the signed-in session.
type bindFunc func(c *client.Client, s session.Session) (views.Binding, error)

func (a *app) bind(fn bindFunc) (views.Binding, error) {
	s, err := a.loadSession()
	if err != nil {
		return views.Binding{}, err
	}
	return fn(a.client, s)
}

func static(fn func(*client.Client, session.Session) views.Binding) bindFunc {
	return func(c *client.Client, s session.Session) (views.Binding, error) {
		return fn(c, s), nil
	}
}

func newListCmd(a *app, short string, fn func() bindFunc) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bind(fn())
			if err != nil {
				return err
			}
			return a.list(cmd, b, f)
		},
	}
	f.register(cmd)
	return cmd
}

func newEditCmd(a *app, noun string, fn func() bindFunc) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bind(fn())
			if err != nil {
				return err
			}
			return a.edit(cmd, b, args[0], sets)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value to change (repeatable)")
	return cmd
}

func newDeleteCmd(a *app, noun string, fn func() bindFunc) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bind(fn())
			if err != nil {
				return err
			}
			return a.remove(cmd, b, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newPatientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "patients", Short: "List and select patients"}
	cmd.AddCommand(newListCmd(a, "List patients", func() bindFunc { return static(views.Patients) }))
	cmd.AddCommand(&cobra.Command{
		Use:   "select <id>",
		Short: "Choose the patient the files commands work on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bind(static(views.Patients))
			if err != nil {
				return err
			}
			br, err := a.open(cmd, b)
			if err != nil {
				return err
			}
			defer br.Close()
			if err := br.Select(args[0]); err != nil {
				return fmt.Errorf("no patient with id %s", args[0])
			}
			rec, _ := br.Selected()
			p, err := views.RememberPatient(a.store, rec)
			if err != nil {
				return err
			}
			outf(cmd.OutOrStdout(), "Selected patient %s (id %d)\n", p.FullName(), p.ID)
			return nil
		},
	})
	return cmd
}

func newUsersCmd(a *app) *cobra.Command {
	users := func() bindFunc { return static(views.Users) }
	cmd := &cobra.Command{Use: "users", Short: "Manage user accounts"}
	cmd.AddCommand(newListCmd(a, "List every user", users))
	cmd.AddCommand(newEditCmd(a, "user", users))
	cmd.AddCommand(newDeleteCmd(a, "user", users))
	return cmd
}

// patientID returns the --patient flag or the patient chosen with
// `patients select`.
func (a *app) patientID(flag int64) (int64, error) {
	if flag > 0 {
		return flag, nil
	}
	p, ok, err := views.SelectedPatient(a.store)
	if err != nil {
		return 0, err
	}
	if !ok || p.ID <= 0 {
		return 0, errors.New("no patient selected; pass --patient or run `recordctl patients select <id>`")
	}
	return p.ID, nil
}

func newFilesCmd(a *app) *cobra.Command {
	var patient int64
	files := func() bindFunc {
		return func(c *client.Client, s session.Session) (views.Binding, error) {
			id, err := a.patientID(patient)
			if err != nil {
				return views.Binding{}, err
			}
			return views.Files(c, s, id), nil
		}
	}

	cmd := &cobra.Command{Use: "files", Short: "Manage the files of a patient"}
	cmd.PersistentFlags().Int64Var(&patient, "patient", 0, "patient id (default: the selected patient)")
	cmd.AddCommand(newListCmd(a, "List the patient's files", files))
	cmd.AddCommand(newEditCmd(a, "file", files))
	cmd.AddCommand(newDeleteCmd(a, "file", files))
	cmd.AddCommand(newDownloadCmd(a))
	cmd.AddCommand(newOpenURLCmd(a))
	cmd.AddCommand(newUploadCmd(a, &patient))
	return cmd
}

func parseFileID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid file id %q", arg)
	}
	return id, nil
}

func newDownloadCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <fileId>",
		Short: "Save a file locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFileID(args[0])
			if err != nil {
				return err
			}
			s, err := a.loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			if output == "-" {
				_, _, err := a.client.DownloadFile(ctx, s, id, cmd.OutOrStdout())
				return err
			}
			var buf bytes.Buffer
			n, name, err := a.client.DownloadFile(ctx, s, id, &buf)
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = filepath.Base(name)
			}
			if path == "" || path == "." || path == string(filepath.Separator) {
				path = "file-" + args[0]
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
			outf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", path, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path, - for stdout (default: the server's file name)")
	return cmd
}

func newOpenURLCmd(a *app) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "open-url <fileId>",
		Short: "Print a link to view or download a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFileID(args[0])
			if err != nil {
				return err
			}
			switch mode {
			case client.ModeDownload, client.ModeInline, client.ModeAttachment:
			default:
				return fmt.Errorf("--mode must be %s, %s or %s", client.ModeInline, client.ModeAttachment, client.ModeDownload)
			}
			s, err := a.loadSession()
			if err != nil {
				return err
			}
			outln(cmd.OutOrStdout(), a.client.FileURL(s, id, mode))
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", client.ModeInline, "inline, attachment or download")
	return cmd
}

func newUploadCmd(a *app, patient *int64) *cobra.Command {
	var category, name string
	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file for the patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.patientID(*patient)
			if err != nil {
				return err
			}
			s, err := a.loadSession()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if name == "" {
				name = filepath.Base(args[0])
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			ack, err := a.client.UploadFile(ctx, s, client.Upload{PatientID: id, Category: category, FileName: name}, f)
			if err != nil {
				return err
			}
			outln(cmd.OutOrStdout(), ack.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "document category, e.g. Lab Report (required)")
	cmd.Flags().StringVar(&name, "name", "", "file name to store (default: the base name of path)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newReportsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "reports", Short: "List your own medical files"}
	cmd.AddCommand(newListCmd(a, "List your files", func() bindFunc { return static(views.Reports) }))
	return cmd
}

func newDoctorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "doctors", Short: "List doctors"}
	cmd.AddCommand(newListCmd(a, "List doctors", func() bindFunc { return static(views.Doctors) }))
	return cmd
}

func newAppointmentsCmd(a *app) *cobra.Command {
	all := func() bindFunc { return static(views.Appointments) }

	var patient int64
	var date string
	filtered := func() bindFunc {
		if patient <= 0 && date == "" {
			return all()
		}
		return func(c *client.Client, s session.Session) (views.Binding, error) {
			return views.AppointmentsFor(c, s, patient, date), nil
		}
	}

	cmd := &cobra.Command{Use: "appointments", Short: "Manage appointments"}
	list := newListCmd(a, "List appointments", filtered)
	list.Flags().Int64Var(&patient, "patient", 0, "only this patient's appointments")
	list.Flags().StringVar(&date, "date", "", "only appointments on this day (YYYY-MM-DD)")
	cmd.AddCommand(list)
	cmd.AddCommand(newBookCmd(a))
	cmd.AddCommand(newEditCmd(a, "appointment", all))
	cmd.AddCommand(newDeleteCmd(a, "appointment", all))
	return cmd
}

func newBookCmd(a *app) *cobra.Command {
	var req client.CreateAppointmentRequest
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.patientID(req.PatientID)
			if err != nil {
				return err
			}
			req.PatientID = id
			s, err := a.loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if me, err := a.client.CurrentUser(ctx, s); err == nil {
				req.CreatedByUserID = me.ID
			}
			ack, err := a.client.BookAppointment(ctx, s, req)
			if err != nil {
				return err
			}
			outln(cmd.OutOrStdout(), ack.Message)
			return nil
		},
	}
	f := cmd.Flags()
	f.Int64Var(&req.PatientID, "patient", 0, "patient id (default: the selected patient)")
	f.Int64Var(&req.DoctorID, "doctor", 0, "doctor id (see `recordctl doctors list`)")
	f.StringVar(&req.AppointmentDate, "date", "", "day (YYYY-MM-DD)")
	f.StringVar(&req.AppointmentTime, "time", "", "start time (HH:MM)")
	f.StringVar(&req.Notes, "notes", "", "notes for the doctor")
	f.StringVar(&req.Status, "status", client.StatusScheduled, "initial status")
	return cmd
}

// openBinding is shared with the browse command.
func (a *app) openBinding(name string) (views.Binding, error) {
	return a.bind(func(c *client.Client, s session.Session) (views.Binding, error) {
		var patient int64
		if name == views.FilesView {
			id, err := a.patientID(0)
			if err != nil {
				return views.Binding{}, err
			}
			patient = id
		}
		return views.ByName(name, c, s, patient)
	})
}
