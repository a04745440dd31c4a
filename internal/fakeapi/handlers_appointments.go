package fakeapi

import (
	"fmt"
	"net/http"

	"github.com/MonikaTammineni/fsadproject/client"
)

// The appointment endpoints answer with real HTTP statuses and bare JSON,
// not envelopes. Empty lists come back as a 200 text notice.

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) (*claims, bool) {
	c, ok := s.caller(r)
	if !ok {
		writeText(w, http.StatusUnauthorized, invalidToken)
	}
	return c, ok
}

func (s *Server) writeAppointments(w http.ResponseWriter, list []client.Appointment, empty string) {
	if len(list) == 0 {
		writeText(w, http.StatusOK, empty)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authorized(w, r); !ok {
		return
	}
	all := s.store.appointmentsWhere(func(client.Appointment) bool { return true })
	s.writeAppointments(w, all, "No appointments found")
}

func (s *Server) handlePatientAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := intParam(w, r, "patientId")
	if !ok {
		return
	}
	if _, ok := s.authorized(w, r); !ok {
		return
	}
	list := s.store.appointmentsWhere(func(a client.Appointment) bool { return a.PatientID == patientID })
	s.writeAppointments(w, list, fmt.Sprintf("No appointments found for patient ID: %d", patientID))
}

func (s *Server) handleAppointmentsOn(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeFrameworkError(w, r, http.StatusBadRequest)
		return
	}
	if _, ok := s.authorized(w, r); !ok {
		return
	}
	list := s.store.appointmentsWhere(func(a client.Appointment) bool { return a.AppointmentDate == date })
	s.writeAppointments(w, list, "No appointments found for date: "+date)
}

// handleGetAppointment answers an unknown id with a 500, as the backend
// throws when the lookup fails.
func (s *Server) handleGetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "appointmentId")
	if !ok {
		return
	}
	if _, ok := s.authorized(w, r); !ok {
		return
	}
	a, ok := s.store.appointment(id)
	if !ok {
		writeFrameworkError(w, r, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var a client.Appointment
	if !decodeBody(w, r, &a) {
		return
	}
	c, ok := s.authorized(w, r)
	if !ok {
		return
	}
	a.CreatedByUserID = c.ID
	s.store.addAppointment(a)
	writeText(w, http.StatusOK, "Appointment created successfully.")
}

func (s *Server) handleEditAppointment(w http.ResponseWriter, r *http.Request) {
	var a client.Appointment
	if !decodeBody(w, r, &a) {
		return
	}
	if _, ok := s.authorized(w, r); !ok {
		return
	}
	if !s.store.updateAppointment(a) {
		writeFrameworkError(w, r, http.StatusInternalServerError)
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("Appointment with ID %d edited successfully", a.AppointmentID))
}

func (s *Server) handleDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "appointmentId")
	if !ok {
		return
	}
	if _, ok := s.authorized(w, r); !ok {
		return
	}
	if !s.store.deleteAppointment(id) {
		writeFrameworkError(w, r, http.StatusInternalServerError)
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("Appointment with ID %d deleted successfully", id))
}
