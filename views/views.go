// Package views binds the record screens of the clinic client to the
// browser engine: each screen is a schema plus the client calls that list,
// update and delete its records for one session.
package views

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/MonikaTammineni/fsadproject/browser"
	"github.com/MonikaTammineni/fsadproject/client"
	"github.com/MonikaTammineni/fsadproject/session"
)

// Screen names accepted by ByName.
const (
	PatientsView     = "patients"
	UsersView        = "users"
	FilesView        = "files"
	ReportsView      = "reports"
	AppointmentsView = "appointments"
	DoctorsView      = "doctors"
)

// Binding is everything a browser needs for one screen. Updater and Deleter
// are nil on read-only screens.
type Binding struct {
	Schema  browser.Schema
	Source  browser.Source
	Updater browser.Updater
	Deleter browser.Deleter
}

// Options returns the browser options enabling the bound mutations.
func (b Binding) Options() []browser.Option {
	var opts []browser.Option
	if b.Updater != nil {
		opts = append(opts, browser.WithUpdater(b.Updater))
	}
	if b.Deleter != nil {
		opts = append(opts, browser.WithDeleter(b.Deleter))
	}
	return opts
}

// Open builds a browser for the binding. opts are applied after the
// binding's own.
func (b Binding) Open(opts ...browser.Option) (*browser.Browser, error) {
	return browser.New(b.Schema, b.Source, append(b.Options(), opts...)...)
}

// Names lists the screens in display order.
func Names() []string {
	return []string{PatientsView, UsersView, FilesView, ReportsView, AppointmentsView, DoctorsView}
}

// ByName returns the binding for a screen. patientID is only used by the
// files screen.
func ByName(name string, c *client.Client, s session.Session, patientID int64) (Binding, error) {
	switch name {
	case PatientsView:
		return Patients(c, s), nil
	case UsersView:
		return Users(c, s), nil
	case FilesView:
		if patientID <= 0 {
			return Binding{}, fmt.Errorf("the files screen needs a patient; select one first")
		}
		return Files(c, s, patientID), nil
	case ReportsView:
		return Reports(c, s), nil
	case AppointmentsView:
		return Appointments(c, s), nil
	case DoctorsView:
		return Doctors(c, s), nil
	default:
		names := Names()
		sort.Strings(names)
		return Binding{}, fmt.Errorf("unknown view %q (one of %v)", name, names)
	}
}

// Patients is the patient selector. It is read-only.
func Patients(c *client.Client, s session.Session) Binding {
	return Binding{
		Schema: PatientSchema(),
		Source: browser.SourceFunc(func(ctx context.Context) ([]browser.Record, error) {
			items, err := c.ListPatients(ctx, s)
			if err != nil {
				return nil, err
			}
			return records(items)
		}),
	}
}

// Users is the all-users screen.
func Users(c *client.Client, s session.Session) Binding {
	return Binding{
		Schema: UserSchema(),
		Source: browser.SourceFunc(func(ctx context.Context) ([]browser.Record, error) {
			items, err := c.ListUsers(ctx, s)
			if err != nil {
				return nil, err
			}
			return records(items)
		}),
		Updater: browser.UpdaterFunc(func(ctx context.Context, rec browser.Record) (browser.UpdateResult, error) {
			var u client.User
			if err := browser.Decode(rec, &u); err != nil {
				return browser.UpdateResult{}, fmt.Errorf("decode user: %w", err)
			}
			ack, err := c.EditUser(ctx, s, u)
			return result(ack, err)
		}),
		Deleter: browser.DeleterFunc(func(ctx context.Context, id string) error {
			n, err := parseID(id)
			if err != nil {
				return err
			}
			return c.DeleteUser(ctx, s, n)
		}),
	}
}

// Files lists the documents of one patient. The binding is rebuilt when
// the selected patient changes.
func Files(c *client.Client, s session.Session, patientID int64) Binding {
	return Binding{
		Schema: FileSchema(true),
		Source: FileSource(c, s, patientID),
		Updater: browser.UpdaterFunc(func(ctx context.Context, rec browser.Record) (browser.UpdateResult, error) {
			var f client.FileItem
			if err := browser.Decode(rec, &f); err != nil {
				return browser.UpdateResult{}, fmt.Errorf("decode file: %w", err)
			}
			ack, err := c.UpdateFile(ctx, s, f)
			return result(ack, err)
		}),
		Deleter: browser.DeleterFunc(func(ctx context.Context, id string) error {
			n, err := parseID(id)
			if err != nil {
				return err
			}
			return c.DeleteFile(ctx, s, n)
		}),
	}
}

// FileSource lists the files of patientID. Pass it to Browser.Rebind when
// the patient changes.
func FileSource(c *client.Client, s session.Session, patientID int64) browser.Source {
	return browser.SourceFunc(func(ctx context.Context) ([]browser.Record, error) {
		items, err := c.ListPatientFiles(ctx, s, patientID)
		if err != nil {
			return nil, err
		}
		return records(items)
	})
}

// Reports lists the session user's own files. It is read-only.
func Reports(c *client.Client, s session.Session) Binding {
	return Binding{
		Schema: FileSchema(false),
		Source: browser.SourceFunc(func(ctx context.Context) ([]browser.Record, error) {
			items, err := c.ListMyFiles(ctx, s)
			if err != nil {
				return nil, err
			}
			return records(items)
		}),
	}
}

// Appointments is the appointments screen.
func Appointments(c *client.Client, s session.Session) Binding {
	return Binding{
		Schema: AppointmentSchema(),
		Source: browser.SourceFunc(func(ctx context.Context) ([]browser.Record, error) {
			items, err := c.ListAppointments(ctx, s)
			if err != nil {
				return nil, err
			}
			return records(items)
		}),
		Updater: browser.UpdaterFunc(func(ctx context.Context, rec browser.Record) (browser.UpdateResult, error) {
			var a client.Appointment
			if err := browser.Decode(rec, &a); err != nil {
				return browser.UpdateResult{}, fmt.Errorf("decode appointment: %w", err)
			}
			ack, err := c.EditAppointment(ctx, s, a)
			return result(ack, err)
		}),
		Deleter: browser.DeleterFunc(func(ctx context.Context, id string) error {
			n, err := parseID(id)
			if err != nil {
				return err
			}
			return c.DeleteAppointment(ctx, s, n)
		}),
	}
}

// Doctors lists the doctors. It is read-only.
func Doctors(c *client.Client, s session.Session) Binding {
	return Binding{
		Schema: DoctorSchema(),
		Source: browser.SourceFunc(func(ctx context.Context) ([]browser.Record, error) {
			items, err := c.ListDoctors(ctx, s)
			if err != nil {
				return nil, err
			}
			return records(items)
		}),
	}
}

// AppointmentsFor lists the appointments of one patient, or of one day when
// date is set. It shares the edit and delete calls of Appointments.
func AppointmentsFor(c *client.Client, s session.Session, patientID int64, date string) Binding {
	b := Appointments(c, s)
	b.Source = browser.SourceFunc(func(ctx context.Context) ([]browser.Record, error) {
		var (
			items []client.Appointment
			err   error
		)
		switch {
		case date != "":
			items, err = c.ListAppointmentsOn(ctx, s, date)
		default:
			items, err = c.ListPatientAppointments(ctx, s, patientID)
		}
		if err != nil {
			return nil, err
		}
		if patientID > 0 && date != "" {
			kept := items[:0]
			for _, a := range items {
				if a.PatientID == patientID {
					kept = append(kept, a)
				}
			}
			items = kept
		}
		return records(items)
	})
	return b
}

func records[T any](items []T) ([]browser.Record, error) {
	out := make([]browser.Record, 0, len(items))
	for _, it := range items {
		rec, err := browser.RecordOf(it)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// result turns a server acknowledgement into an update result. A returned
// record replaces the edited one; a text acknowledgement only supplies the
// notification message.
func result(ack *client.Ack, err error) (browser.UpdateResult, error) {
	if err != nil {
		return browser.UpdateResult{}, err
	}
	res := browser.UpdateResult{Message: ack.Message}
	if ack.HasRecord() {
		if rec, err := browser.DecodeRecord(ack.Record); err == nil {
			res.Record = rec
		}
	}
	return res, nil
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return n, nil
}
