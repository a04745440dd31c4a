package views

import (
	"time"

	"github.com/MonikaTammineni/fsadproject/browser"
	"github.com/MonikaTammineni/fsadproject/client"
)

// PatientSchema describes the patient selector.
func PatientSchema() browser.Schema {
	return browser.Schema{
		Name:    "patients",
		Noun:    "patient",
		IDField: "id",
		Columns: []browser.Column{
			{Name: "id", Label: "ID", Kind: browser.Number},
			{Name: "firstName", Label: "First name", Searchable: true},
			{Name: "lastName", Label: "Last name", Searchable: true},
			{Name: "gender", Label: "Gender", Searchable: true},
			{Name: "mobileNumber", Label: "Mobile", Searchable: true},
			{Name: "email", Label: "Email", Searchable: true},
			{Name: "dateOfBirth", Label: "Date of birth", Kind: browser.Date},
			browser.AgeColumn("age", "Age", "dateOfBirth"),
		},
		DefaultSearch: "firstName",
	}
}

// DoctorSchema describes the doctor picker used when booking.
func DoctorSchema() browser.Schema {
	return browser.Schema{
		Name:    "doctors",
		Noun:    "doctor",
		IDField: "id",
		Columns: []browser.Column{
			{Name: "id", Label: "ID", Kind: browser.Number},
			{Name: "firstName", Label: "First name", Searchable: true},
			{Name: "lastName", Label: "Last name", Searchable: true},
		},
		DefaultSearch: "lastName",
	}
}

// UserSchema describes the all-users screen.
func UserSchema() browser.Schema {
	return browser.Schema{
		Name:    "users",
		Noun:    "user",
		IDField: "id",
		Columns: []browser.Column{
			{Name: "id", Label: "ID", Kind: browser.Number},
			{Name: "firstName", Label: "First name", Searchable: true, Editable: true, Validate: browser.Required},
			{Name: "lastName", Label: "Last name", Searchable: true, Editable: true, Validate: browser.Required},
			{Name: "gender", Label: "Gender", Searchable: true, Editable: true,
				Validate: oneOf(client.GenderMale, client.GenderFemale, client.GenderOther)},
			{Name: "mobileNumber", Label: "Mobile", Searchable: true, Editable: true,
				Validate: matches(mobilePattern, "10 digit number required")},
			{Name: "email", Label: "Email", Searchable: true, Editable: true,
				Validate: matches(emailPattern, "Invalid email format")},
			{Name: "address", Label: "Address", Searchable: true, Editable: true},
			{Name: "dateOfBirth", Label: "Date of birth", Kind: browser.Date, Editable: true, Validate: browser.BeforeToday},
			browser.AgeColumn("age", "Age", "dateOfBirth"),
			{Name: "accountType", Label: "Account", Editable: true,
				Validate: oneOf(client.AccountAdmin, client.AccountPatient, client.AccountDoctor, client.AccountStaff)},
			{Name: "status", Label: "Active", Kind: browser.Bool, Editable: true},
			{Name: "createdOn", Label: "Created", Kind: browser.Date},
		},
		DefaultSearch: "firstName",
	}
}

// FileSchema describes a list of medical files. The per-patient screen may
// rename and recategorise; the reports screen is read-only.
func FileSchema(editable bool) browser.Schema {
	name := "files"
	if !editable {
		name = "reports"
	}
	var required func(any, time.Time) string
	if editable {
		required = browser.Required
	}
	return browser.Schema{
		Name:    name,
		Noun:    "file",
		IDField: "fileId",
		Columns: []browser.Column{
			{Name: "fileId", Label: "ID", Kind: browser.Number},
			{Name: "fileName", Label: "File name", Searchable: true, Editable: editable, Validate: required},
			{Name: "fileCode", Label: "Code", Searchable: true},
			{Name: "category", Label: "Category", Searchable: true, Editable: editable, Validate: required},
			{Name: "uploadDate", Label: "Uploaded", Kind: browser.Date},
			{Name: "userId", Label: "Patient", Kind: browser.Number},
			{Name: "url", Label: "URL"},
		},
		DefaultSearch: "fileName",
	}
}

// AppointmentSchema describes the appointments screen.
func AppointmentSchema() browser.Schema {
	return browser.Schema{
		Name:    "appointments",
		Noun:    "appointment",
		IDField: "appointmentId",
		Columns: []browser.Column{
			{Name: "appointmentId", Label: "ID", Kind: browser.Number},
			{Name: "patientFirstName", Label: "Patient first", Searchable: true},
			{Name: "patientLastName", Label: "Patient last", Searchable: true},
			{Name: "doctorFirstName", Label: "Doctor first", Searchable: true},
			{Name: "doctorLastName", Label: "Doctor last", Searchable: true},
			{Name: "doctorId", Label: "Doctor", Kind: browser.Number, Editable: true, Validate: positive},
			{Name: "appointmentDate", Label: "Date", Kind: browser.Date, Searchable: true, Editable: true, Validate: isDate},
			{Name: "appointmentTime", Label: "Time", Editable: true, Validate: matches(timePattern, "Must be a time (HH:MM)")},
			{Name: "status", Label: "Status", Searchable: true, Editable: true, Validate: oneOf(client.AppointmentStatuses()...)},
			{Name: "notes", Label: "Notes", Editable: true},
		},
		DefaultSearch: "patientFirstName",
	}
}
