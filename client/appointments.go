package client

import (
	"context"

	"github.com/MonikaTammineni/fsadproject/client/internal/api"
	"github.com/MonikaTammineni/fsadproject/client/internal/types"
	"github.com/MonikaTammineni/fsadproject/session"
)

// ListAppointments returns every appointment.
func (c *Client) ListAppointments(ctx context.Context, s session.Session) ([]Appointment, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	as, err := api.ListAppointments(ctx, c.http, c.baseURL, s.Token)
	return as, observe("list_appointments", err)
}

// ListPatientAppointments returns the appointments of one patient.
func (c *Client) ListPatientAppointments(ctx context.Context, s session.Session, patientID int64) ([]Appointment, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	as, err := api.ListPatientAppointments(ctx, c.http, c.baseURL, s.Token, patientID)
	return as, observe("list_patient_appointments", err)
}

// ListAppointmentsOn returns the appointments on date (YYYY-MM-DD).
func (c *Client) ListAppointmentsOn(ctx context.Context, s session.Session, date string) ([]Appointment, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	as, err := api.ListAppointmentsOn(ctx, c.http, c.baseURL, s.Token, date)
	return as, observe("list_appointments_on", err)
}

// GetAppointment returns one appointment.
func (c *Client) GetAppointment(ctx context.Context, s session.Session, id int64) (*Appointment, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	a, err := api.GetAppointment(ctx, c.http, c.baseURL, s.Token, id)
	return a, observe("get_appointment", err)
}

// BookAppointment validates req and creates the appointment. An empty status
// defaults to SCHEDULED.
func (c *Client) BookAppointment(ctx context.Context, s session.Session, req CreateAppointmentRequest) (*Ack, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = StatusScheduled
	}
	if err := types.ValidateBooking(req, c.now()); err != nil {
		return nil, observe("create_appointment", err)
	}
	ack, err := api.CreateAppointment(ctx, c.exec, c.http, c.baseURL, s.Token, req)
	return ack, observe("create_appointment", err)
}

// EditAppointment stores a.
func (c *Client) EditAppointment(ctx context.Context, s session.Session, a Appointment) (*Ack, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	ack, err := api.EditAppointment(ctx, c.exec, c.http, c.baseURL, s.Token, a)
	return ack, observe("edit_appointment", err)
}

// DeleteAppointment removes an appointment.
func (c *Client) DeleteAppointment(ctx context.Context, s session.Session, id int64) error {
	if err := authed(s); err != nil {
		return err
	}
	return observe("delete_appointment", api.DeleteAppointment(ctx, c.exec, c.http, c.baseURL, s.Token, id))
}
