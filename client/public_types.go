package client

import (
	"github.com/MonikaTammineni/fsadproject/client/internal/api"
	"github.com/MonikaTammineni/fsadproject/client/internal/types"
)

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	LoginRequest             = types.LoginRequest
	RegisterRequest          = types.RegisterRequest
	CreateAppointmentRequest = types.CreateAppointmentRequest
	PasswordChangeRequest    = types.PasswordChangeRequest
	Upload                   = types.Upload
	Address                  = types.Address

	// Domain entities
	User        = types.User
	Patient     = types.Patient
	Doctor      = types.Doctor
	FileItem    = types.FileItem
	Appointment = types.Appointment
	Timestamp   = types.Timestamp

	// Responses
	LoginResponse    = types.LoginResponse
	RegisterResponse = types.RegisterResponse
	Ack              = types.Ack
)

// Account types, genders and appointment statuses.
const (
	AccountAdmin   = types.AccountAdmin
	AccountPatient = types.AccountPatient
	AccountDoctor  = types.AccountDoctor
	AccountStaff   = types.AccountStaff

	GenderMale   = types.GenderMale
	GenderFemale = types.GenderFemale
	GenderOther  = types.GenderOther

	StatusScheduled = types.StatusScheduled
	StatusCheckedIn = types.StatusCheckedIn
	StatusCancelled = types.StatusCancelled
	StatusCompleted = types.StatusCompleted
	StatusNoShow    = types.StatusNoShow
	StatusLabTests  = types.StatusLabTests
)

// File URL modes accepted by FileURL.
const (
	ModeDownload   = api.ModeDownload
	ModeInline     = api.ModeInline
	ModeAttachment = api.ModeAttachment
)

// AppointmentStatuses lists every valid appointment status.
func AppointmentStatuses() []string {
	return append([]string(nil), types.AppointmentStatuses...)
}

// ComposeAddress validates address parts and joins them into the single
// line the server stores.
func ComposeAddress(a Address) (string, error) { return types.ComposeAddress(a) }

// ValidPassword reports whether p satisfies the password rules.
func ValidPassword(p string) bool { return types.ValidPassword(p) }
