package fakeapi

import "github.com/MonikaTammineni/fsadproject/client"

// Demo credentials created by Seed.
const (
	DemoAdminEmail    = "admin@clinic.test"
	DemoDoctorEmail   = "doctor@clinic.test"
	DemoPatientEmail  = "patient@clinic.test"
	DemoPassword      = "Clinic@123"
	DemoInactiveEmail = "inactive@clinic.test"
)

// Seed loads a small clinic: an admin, two doctors, a few patients, their
// files and some appointments.
func (s *Server) Seed() {
	admin := s.AddUser(client.User{
		FirstName: "Ada", LastName: "Admin", Email: DemoAdminEmail,
		AccountType: client.AccountAdmin, Gender: client.GenderFemale,
		MobileNumber: "9000000001", DateOfBirth: "1980-02-11", Status: true,
		Address: "1 Main St, Springfield, IL 62701",
	}, DemoPassword)
	drGrey := s.AddUser(client.User{
		FirstName: "Meredith", LastName: "Grey", Email: DemoDoctorEmail,
		AccountType: client.AccountDoctor, Gender: client.GenderFemale,
		MobileNumber: "9000000002", DateOfBirth: "1978-09-27", Status: true,
		Address: "12 Elm St, Springfield, IL 62701",
	}, DemoPassword)
	drHouse := s.AddUser(client.User{
		FirstName: "Gregory", LastName: "House", Email: "house@clinic.test",
		AccountType: client.AccountDoctor, Gender: client.GenderMale,
		MobileNumber: "9000000003", DateOfBirth: "1959-06-11", Status: true,
		Address: "221B Baker St, Princeton, NJ 08540",
	}, DemoPassword)

	patients := []client.User{
		{FirstName: "John", LastName: "Doe", Email: DemoPatientEmail, Gender: client.GenderMale,
			MobileNumber: "9100000001", DateOfBirth: "1990-01-15", Address: "5 Oak Ave, Springfield, IL 62702"},
		{FirstName: "Jane", LastName: "Roe", Email: "jane.roe@clinic.test", Gender: client.GenderFemale,
			MobileNumber: "9100000002", DateOfBirth: "1985-07-04", Address: "9 Pine Rd, Shelbyville, IL 62565"},
		{FirstName: "Alex", LastName: "Kim", Email: "alex.kim@clinic.test", Gender: client.GenderOther,
			MobileNumber: "9100000003", DateOfBirth: "2001-11-30", Address: "77 Lake Dr, Capital City, IL 62703"},
	}
	var ids []int64
	for _, p := range patients {
		p.AccountType = client.AccountPatient
		p.Status = true
		ids = append(ids, s.AddUser(p, DemoPassword).ID)
	}
	s.AddUser(client.User{
		FirstName: "Ivy", LastName: "Idle", Email: DemoInactiveEmail,
		AccountType: client.AccountPatient, Gender: client.GenderFemale,
		MobileNumber: "9100000004", DateOfBirth: "1995-03-03", Status: false,
	}, DemoPassword)

	s.AddFile(ids[0], drGrey.ID, "Lab Report", "blood-panel.pdf", []byte("%PDF-1.4 blood panel"))
	s.AddFile(ids[0], admin.ID, "Prescription", "amoxicillin.txt", []byte("Amoxicillin 500mg, 3x daily"))
	s.AddFile(ids[1], drHouse.ID, "Imaging", "chest-xray.png", []byte("\x89PNG chest"))

	s.AddAppointment(client.Appointment{
		PatientID: ids[0], DoctorID: drGrey.ID, AppointmentDate: "2026-10-20", AppointmentTime: "09:30",
		Status: client.StatusScheduled, Notes: "Follow-up on blood work", CreatedByUserID: admin.ID,
	})
	s.AddAppointment(client.Appointment{
		PatientID: ids[1], DoctorID: drHouse.ID, AppointmentDate: "2026-10-20", AppointmentTime: "11:00",
		Status: client.StatusCheckedIn, Notes: "Persistent cough", CreatedByUserID: admin.ID,
	})
	s.AddAppointment(client.Appointment{
		PatientID: ids[2], DoctorID: drGrey.ID, AppointmentDate: "2026-10-22", AppointmentTime: "14:15",
		Status: client.StatusScheduled, CreatedByUserID: ids[2],
	})
}
