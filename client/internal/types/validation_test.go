package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MonikaTammineni/fsadproject/apierr"
)

var refNow = time.Date(2026, 10, 19, 10, 7, 30, 0, time.UTC)

func validRegister() RegisterRequest {
	return RegisterRequest{
		FirstName:    "Asha",
		LastName:     "Rao",
		Address:      "1 Main St, Pune, MH - 411001",
		Gender:       GenderFemale,
		DateOfBirth:  "1990-04-12",
		MobileNumber: "9876543210",
		Email:        "asha@example.com",
		Password:     "secret1",
		AccountType:  AccountPatient,
		Status:       true,
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var e *apierr.Error
	if !errors.As(err, &e) || e.Kind != apierr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	return e.Fields
}

func TestValidateRegister(t *testing.T) {
	t.Parallel()
	if err := ValidateRegister(validRegister(), refNow); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	bad := validRegister()
	bad.FirstName = " "
	bad.MobileNumber = "12345"
	bad.Email = "not-an-email"
	bad.Password = "abcdef"
	bad.DateOfBirth = "2026-10-19"
	bad.Gender = "X"
	fields := fieldsOf(t, ValidateRegister(bad, refNow))
	want := map[string]string{
		"firstName":    "Required",
		"mobileNumber": "10 digit number required",
		"email":        "Invalid email format",
		"password":     "Min 6 chars, letters & numbers",
		"dateOfBirth":  "Must be before today",
		"gender":       "Must be MALE, FEMALE or OTHER",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Fatalf("field %s = %q, want %q (all: %v)", k, fields[k], v, fields)
		}
	}
	if len(fields) != len(want) {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestValidPassword(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{
		"abc123":   true,
		"abc12":    false,
		"abcdef":   false,
		"123456":   false,
		"ab@12#":   true,
		"ab 123":   false,
		"pässw0rd": false,
	}
	for p, want := range cases {
		if got := ValidPassword(p); got != want {
			t.Fatalf("ValidPassword(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestComposeAddress(t *testing.T) {
	t.Parallel()
	got, err := ComposeAddress(Address{Line1: "1 Main St", City: "Pune", State: "MH", Zipcode: "411001"})
	if err != nil || got != "1 Main St, Pune, MH - 411001" {
		t.Fatalf("ComposeAddress = %q, %v", got, err)
	}
	got, err = ComposeAddress(Address{Line1: "Flat 2", Line2: "Tower B", City: "Pune", State: "MH", Zipcode: "411001"})
	if err != nil || got != "Flat 2, Tower B, Pune, MH - 411001" {
		t.Fatalf("ComposeAddress = %q, %v", got, err)
	}
	fields := fieldsOf(t, func() error { _, err := ComposeAddress(Address{Zipcode: "4110"}); return err }())
	if fields["zipcode"] != "6 digit zipcode required" || fields["addressLine1"] != "Required" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestNextQuarterHour(t *testing.T) {
	t.Parallel()
	cases := map[string]time.Time{
		"10:15": time.Date(2026, 1, 1, 10, 7, 30, 0, time.UTC),
		"10:00": time.Date(2026, 1, 1, 10, 0, 59, 0, time.UTC),
		"11:00": time.Date(2026, 1, 1, 10, 46, 0, 0, time.UTC),
	}
	for want, now := range cases {
		if got := NextQuarterHour(now); got != want {
			t.Fatalf("NextQuarterHour(%s) = %s, want %s", now.Format("15:04:05"), got, want)
		}
	}
}

func TestValidateBooking(t *testing.T) {
	t.Parallel()
	ok := CreateAppointmentRequest{PatientID: 3, DoctorID: 7, AppointmentDate: "2026-10-19", AppointmentTime: "10:30", Status: StatusScheduled}
	if err := ValidateBooking(ok, refNow); err != nil {
		t.Fatalf("valid booking rejected: %v", err)
	}
	tomorrowEarly := ok
	tomorrowEarly.AppointmentDate = "2026-10-20"
	tomorrowEarly.AppointmentTime = "08:00"
	if err := ValidateBooking(tomorrowEarly, refNow); err != nil {
		t.Fatalf("future booking rejected: %v", err)
	}

	tooSoon := ok
	tooSoon.AppointmentTime = "10:15"
	if got := fieldsOf(t, ValidateBooking(tooSoon, refNow))["appointmentTime"]; got != "Must be after 10:15" {
		t.Fatalf("appointmentTime = %q", got)
	}

	fields := fieldsOf(t, ValidateBooking(CreateAppointmentRequest{AppointmentDate: "2026-10-18", AppointmentTime: "9am", Status: "LATE"}, refNow))
	for _, k := range []string{"patientId", "doctorId", "appointmentDate", "appointmentTime", "status"} {
		if fields[k] == "" {
			t.Fatalf("expected error for %s, got %v", k, fields)
		}
	}
}

func TestValidatePasswordChange(t *testing.T) {
	t.Parallel()
	if err := ValidatePasswordChange("old1pass", "new1pass", "new1pass"); err != nil {
		t.Fatalf("valid change rejected: %v", err)
	}
	fields := fieldsOf(t, ValidatePasswordChange("", "short", "other"))
	if fields["oldPassword"] == "" || fields["newPassword"] == "" || fields["confirmPassword"] == "" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestTimestamp_StringOrEpochMillis(t *testing.T) {
	t.Parallel()
	var u User
	if err := json.Unmarshal([]byte(`{"id":1,"dateOfBirth":"1990-04-12","createdOn":1735689600000}`), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.DateOfBirth != "1990-04-12" {
		t.Fatalf("dateOfBirth = %q", u.DateOfBirth)
	}
	if u.CreatedOn != "2025-01-01T00:00:00Z" {
		t.Fatalf("createdOn = %q", u.CreatedOn)
	}
	if d := u.CreatedOn.Date(); d != "2025-01-01" {
		t.Fatalf("Date() = %q", d)
	}
	b, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	_ = json.Unmarshal(b, &back)
	if back["createdOn"] != "2025-01-01T00:00:00Z" {
		t.Fatalf("re-encoded createdOn = %v", back["createdOn"])
	}

	var bad Timestamp
	if err := json.Unmarshal([]byte(`true`), &bad); err == nil {
		t.Fatal("expected error for boolean timestamp")
	}
	var null Timestamp = "x"
	if err := json.Unmarshal([]byte(`null`), &null); err != nil || null != "" {
		t.Fatalf("null timestamp = %q, %v", null, err)
	}
}
