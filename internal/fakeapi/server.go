// Package fakeapi is an in-memory stand-in for the clinic record backend.
// It speaks the same wire format as the real service: session tokens in the
// query string, ResponseEntity envelopes on the data endpoints, plain text
// acknowledgements on mutations and "No ... found" notices for empty lists.
// It backs the development server and the integration tests.
package fakeapi

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/MonikaTammineni/fsadproject/client"
)

// Server is an http.Handler serving the clinic API from memory.
type Server struct {
	store  *store
	tokens tokens
	router *mux.Router

	faultsMu sync.Mutex
	faults   map[string][]fault
}

type fault struct {
	status int
	body   string
}

// Option configures a Server.
type Option func(*Server) error

// WithClock sets the time source used for token issue and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		s.tokens.now = now
		return nil
	}
}

// WithSecret sets the HMAC key tokens are signed with.
func WithSecret(secret []byte) Option {
	return func(s *Server) error {
		if len(secret) == 0 {
			return errors.New("secret cannot be empty")
		}
		s.tokens.secret = append([]byte(nil), secret...)
		return nil
	}
}

// WithDemoData loads the demo accounts, files and appointments.
func WithDemoData() Option {
	return func(s *Server) error {
		s.Seed()
		return nil
	}
}

// New returns an empty server. Options run in order.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		store:  newStore(),
		tokens: tokens{secret: []byte(uuid.NewString()), now: time.Now},
		faults: map[string][]fault{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(recoveryMiddleware)
	router.Use(accessLog)
	router.Use(s.injectFaults)

	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	auth.HandleFunc("/isValidToken", s.handleIsValidToken).Methods(http.MethodGet)
	auth.HandleFunc("/changePassword", s.handleChangePassword).Methods(http.MethodPost)
	auth.HandleFunc("/getAllPatients", s.handleListPatients).Methods(http.MethodGet)
	auth.HandleFunc("/getAllUsers", s.handleListUsers).Methods(http.MethodGet)
	auth.HandleFunc("/getAllDoctorsList", s.handleListDoctors).Methods(http.MethodPost)
	auth.HandleFunc("/getUser", s.handleGetUser).Methods(http.MethodPost)
	auth.HandleFunc("/editUser", s.handleEditUser).Methods(http.MethodPost)
	auth.HandleFunc("/deleteUser", s.handleDeleteUser).Methods(http.MethodPost)
	auth.HandleFunc("/getPatientFileDetails", s.handlePatientFiles).Methods(http.MethodGet)
	auth.HandleFunc("/getPatientFiles", s.handleMyFiles).Methods(http.MethodGet)

	files := router.PathPrefix("/s3").Subrouter()
	files.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	files.HandleFunc("/downloadFile", s.handleDownload).Methods(http.MethodGet)
	files.HandleFunc("/viewFile", s.handleView).Methods(http.MethodGet)
	files.HandleFunc("/deleteFile", s.handleDeleteFile).Methods(http.MethodDelete)
	files.HandleFunc("/updateFile", s.handleUpdateFile).Methods(http.MethodPost)

	appt := router.PathPrefix("/appointment").Subrouter()
	appt.HandleFunc("/getAllAppointments", s.handleListAppointments).Methods(http.MethodGet)
	appt.HandleFunc("/getAppointment", s.handleGetAppointment).Methods(http.MethodGet)
	appt.HandleFunc("/editAppointment", s.handleEditAppointment).Methods(http.MethodPost)
	appt.HandleFunc("/deleteAppointment", s.handleDeleteAppointment).Methods(http.MethodPost)
	appt.HandleFunc("/createAppointment", s.handleCreateAppointment).Methods(http.MethodPost)
	appt.HandleFunc("/getAllAppointmentsByUserId", s.handlePatientAppointments).Methods(http.MethodGet)
	appt.HandleFunc("/getAppointmentsByDate", s.handleAppointmentsOn).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFrameworkError(w, r, http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFrameworkError(w, r, http.StatusMethodNotAllowed)
	})
	return router
}

// Fail makes the next request to method and path answer with status and a
// plain text body instead of reaching its handler. Calls queue up.
func (s *Server) Fail(method, path string, status int, body string) {
	s.faultsMu.Lock()
	defer s.faultsMu.Unlock()
	key := method + " " + path
	s.faults[key] = append(s.faults[key], fault{status: status, body: body})
}

func (s *Server) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.faultsMu.Lock()
		queued := s.faults[key]
		var f *fault
		if len(queued) > 0 {
			f = &queued[0]
			s.faults[key] = queued[1:]
		}
		s.faultsMu.Unlock()
		if f != nil {
			writeText(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AddUser stores u with password and returns it with its assigned id.
func (s *Server) AddUser(u client.User, password string) client.User {
	if u.CreatedOn == "" {
		u.CreatedOn = client.Timestamp(s.tokens.now().UTC().Format(time.RFC3339))
	}
	return s.store.addUser(u, password)
}

// User returns a stored user.
func (s *Server) User(id int64) (client.User, bool) {
	a, ok := s.store.user(id)
	return a.User, ok
}

// AddFile stores a document for patientID and returns its metadata.
func (s *Server) AddFile(patientID, uploadedBy int64, category, name string, content []byte) client.FileItem {
	return s.store.addFile(client.FileItem{
		UserID:           patientID,
		Category:         category,
		FileName:         name,
		FileCode:         fileCode(patientID),
		CreatedAt:        client.Timestamp(s.tokens.now().UTC().Format(time.RFC3339)),
		UploadedByUserID: uploadedBy,
	}, content)
}

// File returns stored file metadata.
func (s *Server) File(id int64) (client.FileItem, bool) {
	f, ok := s.store.file(id)
	return f.FileItem, ok
}

// AddAppointment stores a and returns it with its assigned id.
func (s *Server) AddAppointment(a client.Appointment) client.Appointment {
	return s.store.addAppointment(a)
}

// Appointment returns a stored appointment without the name fields.
func (s *Server) Appointment(id int64) (client.Appointment, bool) {
	return s.store.appointment(id)
}

// Token issues a session token for a stored user.
func (s *Server) Token(userID int64) (string, error) {
	a, ok := s.store.user(userID)
	if !ok {
		return "", errors.New("unknown user")
	}
	return s.tokens.issue(&a)
}

func fileCode(patientID int64) string {
	return itoa(patientID) + "_" + uuid.NewString()
}
