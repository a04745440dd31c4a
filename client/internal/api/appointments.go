package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MonikaTammineni/fsadproject/client/internal/job"
	"github.com/MonikaTammineni/fsadproject/client/internal/types"
)

// ListAppointments returns every appointment.
func ListAppointments(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.Appointment, error) {
	body, err := call(ctx, httpClient, http.MethodGet, endpoint(baseURL, "/appointment/getAllAppointments", token, nil), nil, "list appointments")
	if err != nil {
		return nil, err
	}
	return decodeItems[types.Appointment]("list appointments", body)
}

// ListPatientAppointments returns the appointments of one patient.
func ListPatientAppointments(ctx context.Context, httpClient *http.Client, baseURL, token string, patientID int64) ([]types.Appointment, error) {
	if err := types.ValidateID(patientID, "patientId"); err != nil {
		return nil, err
	}
	params := url.Values{"patientId": {strconv.FormatInt(patientID, 10)}}
	body, err := call(ctx, httpClient, http.MethodGet, endpoint(baseURL, "/appointment/getAllAppointmentsByUserId", token, params), nil, "list patient appointments")
	if err != nil {
		return nil, err
	}
	return decodeItems[types.Appointment]("list patient appointments", body)
}

// ListAppointmentsOn returns the appointments booked for date (YYYY-MM-DD).
func ListAppointmentsOn(ctx context.Context, httpClient *http.Client, baseURL, token, date string) ([]types.Appointment, error) {
	body, err := call(ctx, httpClient, http.MethodGet, endpoint(baseURL, "/appointment/getAppointmentsByDate", token, url.Values{"date": {date}}), nil, "list appointments by date")
	if err != nil {
		return nil, err
	}
	return decodeItems[types.Appointment]("list appointments by date", body)
}

// GetAppointment returns one appointment.
func GetAppointment(ctx context.Context, httpClient *http.Client, baseURL, token string, id int64) (*types.Appointment, error) {
	if err := types.ValidateID(id, "appointmentId"); err != nil {
		return nil, err
	}
	params := url.Values{"appointmentId": {strconv.FormatInt(id, 10)}}
	body, err := call(ctx, httpClient, http.MethodGet, endpoint(baseURL, "/appointment/getAppointment", token, params), nil, "get appointment")
	if err != nil {
		return nil, err
	}
	var a types.Appointment
	if err := decodeObject("get appointment", body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAppointment books a new appointment.
func CreateAppointment(ctx context.Context, exec types.Executor, httpClient *http.Client, baseURL, token string, req types.CreateAppointmentRequest) (*types.Ack, error) {
	var ack *types.Ack
	key := job.Key("booking", strconv.FormatInt(req.DoctorID, 10)+"@"+req.AppointmentDate)
	err := mutate(ctx, exec, key, func(jobCtx context.Context) error {
		body, err := call(jobCtx, httpClient, http.MethodPost, endpoint(baseURL, "/appointment/createAppointment", token, nil), req, "create appointment")
		if err != nil {
			return err
		}
		ack, err = decodeAck("create appointment", body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

// EditAppointment stores a.
func EditAppointment(ctx context.Context, exec types.Executor, httpClient *http.Client, baseURL, token string, a types.Appointment) (*types.Ack, error) {
	if err := types.ValidateID(a.AppointmentID, "appointmentId"); err != nil {
		return nil, err
	}
	var ack *types.Ack
	err := mutate(ctx, exec, job.Key("appointment", strconv.FormatInt(a.AppointmentID, 10)), func(jobCtx context.Context) error {
		body, err := call(jobCtx, httpClient, http.MethodPost, endpoint(baseURL, "/appointment/editAppointment", token, nil), a, "edit appointment")
		if err != nil {
			return err
		}
		ack, err = decodeAck("edit appointment", body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

// DeleteAppointment cancels and removes an appointment.
func DeleteAppointment(ctx context.Context, exec types.Executor, httpClient *http.Client, baseURL, token string, id int64) error {
	if err := types.ValidateID(id, "appointmentId"); err != nil {
		return err
	}
	key := strconv.FormatInt(id, 10)
	return mutate(ctx, exec, job.Key("appointment", key), func(jobCtx context.Context) error {
		target := endpoint(baseURL, "/appointment/deleteAppointment", token, url.Values{"appointmentId": {key}})
		body, err := call(jobCtx, httpClient, http.MethodPost, target, nil, "delete appointment")
		if err != nil {
			return err
		}
		_, err = decodeAck("delete appointment", body)
		return err
	})
}
