package fakeapi

import (
	"net/http"

	"github.com/MonikaTammineni/fsadproject/client"
)

func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.caller(r); !ok {
		writeEntity(w, http.StatusUnauthorized, invalidToken)
		return
	}
	users := s.store.usersOf(client.AccountPatient)
	out := make([]client.Patient, 0, len(users))
	for _, u := range users {
		out = append(out, client.Patient{
			ID:           u.ID,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Gender:       u.Gender,
			MobileNumber: u.MobileNumber,
			Email:        u.Email,
			DateOfBirth:  u.DateOfBirth,
		})
	}
	writeEntity(w, http.StatusOK, out)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.caller(r); !ok {
		writeEntity(w, http.StatusUnauthorized, invalidToken)
		return
	}
	writeEntity(w, http.StatusOK, s.store.usersOf(""))
}

func (s *Server) handleListDoctors(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.caller(r); !ok {
		writeEntity(w, http.StatusUnauthorized, invalidToken)
		return
	}
	users := s.store.usersOf(client.AccountDoctor)
	if len(users) == 0 {
		writeEntity(w, http.StatusNotFound, "No doctors found.")
		return
	}
	out := make([]client.Doctor, 0, len(users))
	for _, u := range users {
		out = append(out, client.Doctor{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName})
	}
	writeEntity(w, http.StatusOK, out)
}

// handleGetUser answers an unknown token or user with an empty 200.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	c, ok := s.caller(r)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	acct, ok := s.store.user(c.ID)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, acct.User)
}

func (s *Server) handleEditUser(w http.ResponseWriter, r *http.Request) {
	var u client.User
	if !decodeBody(w, r, &u) {
		return
	}
	if _, ok := s.caller(r); !ok {
		writeText(w, http.StatusOK, invalidToken)
		return
	}
	if !s.store.updateUser(u) {
		writeText(w, http.StatusOK, "User not found.")
		return
	}
	writeText(w, http.StatusOK, "User updated successfully.")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "user_id")
	if !ok {
		return
	}
	if _, ok := s.caller(r); !ok {
		writeEntity(w, http.StatusUnauthorized, invalidToken)
		return
	}
	if !s.store.deleteUser(id) {
		writeEntity(w, http.StatusNotFound, "User not found.")
		return
	}
	writeEntity(w, http.StatusOK, "User deleted successfully.")
}

func (s *Server) handlePatientFiles(w http.ResponseWriter, r *http.Request) {
	patientID, ok := intParam(w, r, "patient_user_id")
	if !ok {
		return
	}
	if _, ok := s.caller(r); !ok {
		writeEntity(w, http.StatusUnauthorized, invalidToken)
		return
	}
	files := s.store.filesOf(patientID)
	if len(files) == 0 {
		writeEntity(w, http.StatusNotFound, "No files found for the patient.")
		return
	}
	writeEntity(w, http.StatusOK, files)
}

func (s *Server) handleMyFiles(w http.ResponseWriter, r *http.Request) {
	c, ok := s.caller(r)
	if !ok {
		writeEntity(w, http.StatusUnauthorized, invalidToken)
		return
	}
	files := s.store.filesOf(c.ID)
	if len(files) == 0 {
		writeEntity(w, http.StatusNotFound, "No files found for the user.")
		return
	}
	writeEntity(w, http.StatusOK, files)
}
