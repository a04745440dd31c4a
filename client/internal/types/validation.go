package types

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/MonikaTammineni/fsadproject/apierr"
)

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipPattern     = regexp.MustCompile(`^[0-9]{6}$`)
	passwordChars  = regexp.MustCompile(`^[A-Za-z\d@$!%*#?&]{6,}$`)
	passwordLetter = regexp.MustCompile(`[A-Za-z]`)
	passwordDigit  = regexp.MustCompile(`\d`)
	timePattern    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

const dateLayout = "2006-01-02"

// ValidPassword reports whether p has at least six characters from the
// allowed set and contains both a letter and a digit.
func ValidPassword(p string) bool {
	return passwordChars.MatchString(p) && passwordLetter.MatchString(p) && passwordDigit.MatchString(p)
}

func today(now time.Time) string { return now.Format(dateLayout) }

// ValidateRegister checks a registration form. now anchors the date of
// birth check. The returned error, if any, is an apierr validation error
// listing every failing field.
func ValidateRegister(req RegisterRequest, now time.Time) error {
	fields := map[string]string{}
	required := map[string]string{
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"address":   req.Address,
		"gender":    req.Gender,
	}
	for name, v := range required {
		if strings.TrimSpace(v) == "" {
			fields[name] = "Required"
		}
	}
	if req.Gender != "" && !oneOf(strings.ToUpper(req.Gender), GenderMale, GenderFemale, GenderOther) {
		fields["gender"] = "Must be MALE, FEMALE or OTHER"
	}
	switch dob, err := time.Parse(dateLayout, req.DateOfBirth); {
	case req.DateOfBirth == "":
		fields["dateOfBirth"] = "Required"
	case err != nil:
		fields["dateOfBirth"] = "Must be a date (YYYY-MM-DD)"
	case dob.Format(dateLayout) >= today(now):
		fields["dateOfBirth"] = "Must be before today"
	}
	if !phonePattern.MatchString(req.MobileNumber) {
		fields["mobileNumber"] = "10 digit number required"
	}
	if !emailPattern.MatchString(req.Email) {
		fields["email"] = "Invalid email format"
	}
	if !ValidPassword(req.Password) {
		fields["password"] = "Min 6 chars, letters & numbers"
	}
	if req.AccountType != "" && !oneOf(req.AccountType, AccountAdmin, AccountPatient, AccountDoctor, AccountStaff) {
		fields["accountType"] = "Unknown account type"
	}
	return apierr.Validation(fields)
}

// ComposeAddress validates the parts of an address and joins them the way
// the registration form does: "line1[, line2], city, state - zip".
func ComposeAddress(a Address) (string, error) {
	fields := map[string]string{}
	if strings.TrimSpace(a.Line1) == "" {
		fields["addressLine1"] = "Required"
	}
	if strings.TrimSpace(a.City) == "" {
		fields["city"] = "Required"
	}
	if strings.TrimSpace(a.State) == "" {
		fields["state"] = "Required"
	}
	if !zipPattern.MatchString(a.Zipcode) {
		fields["zipcode"] = "6 digit zipcode required"
	}
	if err := apierr.Validation(fields); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(strings.TrimSpace(a.Line1))
	if l2 := strings.TrimSpace(a.Line2); l2 != "" {
		b.WriteString(", ")
		b.WriteString(l2)
	}
	fmt.Fprintf(&b, ", %s, %s - %s", strings.TrimSpace(a.City), strings.TrimSpace(a.State), a.Zipcode)
	return b.String(), nil
}

// NextQuarterHour returns the minute of now rounded up to a quarter hour,
// as HH:MM. Seconds are ignored.
func NextQuarterHour(now time.Time) string {
	t := now.Truncate(time.Minute)
	if rem := t.Minute() % 15; rem != 0 {
		t = t.Add(time.Duration(15-rem) * time.Minute)
	}
	return t.Format("15:04")
}

// ValidateBooking checks an appointment request. A booking for today must
// start after the next quarter hour; earlier dates are rejected.
func ValidateBooking(req CreateAppointmentRequest, now time.Time) error {
	fields := map[string]string{}
	if req.PatientID <= 0 {
		fields["patientId"] = "Required"
	}
	if req.DoctorID <= 0 {
		fields["doctorId"] = "Required"
	}
	dateOK := false
	switch _, err := time.Parse(dateLayout, req.AppointmentDate); {
	case req.AppointmentDate == "":
		fields["appointmentDate"] = "Required"
	case err != nil:
		fields["appointmentDate"] = "Must be a date (YYYY-MM-DD)"
	case req.AppointmentDate < today(now):
		fields["appointmentDate"] = "Must not be in the past"
	default:
		dateOK = true
	}
	switch {
	case req.AppointmentTime == "":
		fields["appointmentTime"] = "Required"
	case !timePattern.MatchString(req.AppointmentTime):
		fields["appointmentTime"] = "Must be a time (HH:MM)"
	case dateOK && req.AppointmentDate == today(now) && req.AppointmentTime <= NextQuarterHour(now):
		fields["appointmentTime"] = "Must be after " + NextQuarterHour(now)
	}
	if req.Status != "" && !oneOf(req.Status, AppointmentStatuses...) {
		fields["status"] = "Unknown status"
	}
	return apierr.Validation(fields)
}

// ValidatePasswordChange checks a password change form.
func ValidatePasswordChange(oldPassword, newPassword, confirm string) error {
	fields := map[string]string{}
	if oldPassword == "" {
		fields["oldPassword"] = "Required"
	}
	switch {
	case newPassword == "":
		fields["newPassword"] = "Required"
	case newPassword == oldPassword:
		fields["newPassword"] = "Must differ from the current password"
	case !ValidPassword(newPassword):
		fields["newPassword"] = "Min 6 chars, letters & numbers"
	}
	if confirm != newPassword {
		fields["confirmPassword"] = "Passwords do not match"
	}
	return apierr.Validation(fields)
}

// ValidateID rejects non-positive record identifiers before a request is
// built.
func ValidateID(id int64, field string) error {
	if id <= 0 {
		return apierr.Validation(map[string]string{field: "Required"})
	}
	return nil
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
