package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Account types known to the remote API.
const (
	AccountAdmin   = "ADMIN"
	AccountPatient = "PATIENT"
	AccountDoctor  = "DOCTOR"
	AccountStaff   = "STAFF"
)

// Genders accepted by registration.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// Appointment statuses.
const (
	StatusScheduled = "SCHEDULED"
	StatusCheckedIn = "CHECKED_IN"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
	StatusNoShow    = "NO_SHOW"
	StatusLabTests  = "LAB_TESTS"
)

// AppointmentStatuses lists every valid appointment status.
var AppointmentStatuses = []string{
	StatusScheduled, StatusCheckedIn, StatusCancelled, StatusCompleted, StatusNoShow, StatusLabTests,
}

// Timestamp holds a date or date-time as the server sent it. The API emits
// either ISO strings or epoch milliseconds; numbers are normalised to RFC
// 3339 so that values always re-encode as strings.
type Timestamp string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
		return nil
	default:
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("timestamp: %q is neither a string nor epoch milliseconds", b)
		}
		*t = Timestamp(time.UnixMilli(ms).UTC().Format(time.RFC3339))
		return nil
	}
}

// MarshalJSON implements json.Marshaler. Empty values encode as null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time parses the timestamp.
func (t Timestamp) Time() (time.Time, bool) {
	s := strings.TrimSpace(string(t))
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return v, true
		}
	}
	return time.Time{}, false
}

// Date returns the YYYY-MM-DD part, or the raw value when it does not parse.
func (t Timestamp) Date() string {
	if v, ok := t.Time(); ok {
		return v.Format("2006-01-02")
	}
	return string(t)
}

// User is an account of any type.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Address      string    `json:"address,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	DateOfBirth  Timestamp `json:"dateOfBirth,omitempty"`
	MobileNumber string    `json:"mobileNumber,omitempty"`
	Email        string    `json:"email,omitempty"`
	AccountType  string    `json:"accountType,omitempty"`
	Status       bool      `json:"status"`
	CreatedOn    Timestamp `json:"createdOn,omitempty"`
}

// Patient is a user whose account type is PATIENT, as listed by the patient
// selector.
type Patient struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Gender       string    `json:"gender,omitempty"`
	MobileNumber string    `json:"mobileNumber,omitempty"`
	Email        string    `json:"email,omitempty"`
	DateOfBirth  Timestamp `json:"dateOfBirth,omitempty"`
}

// FullName joins first and last name.
func (p Patient) FullName() string { return strings.TrimSpace(p.FirstName + " " + p.LastName) }

// Doctor is the reduced user record returned by the doctor list.
type Doctor struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FileItem describes one stored medical document.
type FileItem struct {
	FileID           int64     `json:"fileId"`
	UserID           int64     `json:"userId"`
	Category         string    `json:"category"`
	FileName         string    `json:"fileName"`
	FileCode         string    `json:"fileCode"`
	CreatedAt        Timestamp `json:"createdAt,omitempty"`
	UploadedByUserID int64     `json:"uploadedByUserId,omitempty"`

	// Filled in by the client when files are listed.
	UploadDate Timestamp `json:"uploadDate,omitempty"`
	URL        string    `json:"url,omitempty"`
}

// Appointment is a scheduled visit, including the denormalised names the
// server adds to list responses.
type Appointment struct {
	AppointmentID      int64  `json:"appointmentId"`
	PatientID          int64  `json:"patientId"`
	PatientFirstName   string `json:"patientFirstName,omitempty"`
	PatientLastName    string `json:"patientLastName,omitempty"`
	DoctorID           int64  `json:"doctorId"`
	DoctorFirstName    string `json:"doctorFirstName,omitempty"`
	DoctorLastName     string `json:"doctorLastName,omitempty"`
	AppointmentDate    string `json:"appointmentDate"`
	AppointmentTime    string `json:"appointmentTime"`
	Status             string `json:"status"`
	Notes              string `json:"notes,omitempty"`
	CreatedByUserID    int64  `json:"createdByUserId,omitempty"`
	CreatedByFirstName string `json:"createdByFirstName,omitempty"`
	CreatedByLastName  string `json:"createdByLastName,omitempty"`
}
