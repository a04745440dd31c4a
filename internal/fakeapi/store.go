package fakeapi

import (
	"sort"
	"strings"
	"sync"

	"github.com/MonikaTammineni/fsadproject/client"
)

// account is a user together with its credential.
type account struct {
	client.User
	password string
}

type storedFile struct {
	client.FileItem
	content []byte
}

// store holds every record the fake backend knows about. All methods take
// the lock and hand out copies.
type store struct {
	mu sync.Mutex

	nextUser, nextFile, nextAppointment int64

	users        map[int64]*account
	files        map[int64]*storedFile
	appointments map[int64]*client.Appointment
}

func newStore() *store {
	return &store{
		users:        map[int64]*account{},
		files:        map[int64]*storedFile{},
		appointments: map[int64]*client.Appointment{},
	}
}

func (s *store) addUser(u client.User, password string) client.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUser++
	u.ID = s.nextUser
	s.users[u.ID] = &account{User: u, password: password}
	return u
}

func (s *store) user(id int64) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return account{}, false
	}
	return *a, true
}

func (s *store) userByEmail(email string) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.users {
		if strings.EqualFold(a.Email, email) {
			return *a, true
		}
	}
	return account{}, false
}

// usersOf returns the users of accountType ordered by id, or every user
// when accountType is empty.
func (s *store) usersOf(accountType string) []client.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.User, 0, len(s.users))
	for _, a := range s.users {
		if accountType == "" || a.AccountType == accountType {
			out = append(out, a.User)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// updateUser copies the editable fields of u onto the stored user.
func (s *store) updateUser(u client.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[u.ID]
	if !ok {
		return false
	}
	a.FirstName = u.FirstName
	a.LastName = u.LastName
	a.MobileNumber = u.MobileNumber
	a.DateOfBirth = u.DateOfBirth
	a.Email = u.Email
	a.AccountType = u.AccountType
	a.Address = u.Address
	a.Gender = u.Gender
	a.Status = u.Status
	return true
}

func (s *store) setPassword(id int64, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return false
	}
	a.password = password
	return true
}

func (s *store) deleteUser(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}

func (s *store) addFile(f client.FileItem, content []byte) client.FileItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFile++
	f.FileID = s.nextFile
	s.files[f.FileID] = &storedFile{FileItem: f, content: append([]byte(nil), content...)}
	return f
}

func (s *store) file(id int64) (storedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return storedFile{}, false
	}
	return *f, true
}

func (s *store) filesOf(userID int64) []client.FileItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []client.FileItem
	for _, f := range s.files {
		if f.UserID == userID {
			out = append(out, f.FileItem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileID < out[j].FileID })
	return out
}

func (s *store) updateFile(id int64, name, category string, uploadedBy int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return false
	}
	f.FileName = name
	f.Category = category
	f.UploadedByUserID = uploadedBy
	return true
}

func (s *store) deleteFile(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return false
	}
	delete(s.files, id)
	return true
}

func (s *store) addAppointment(a client.Appointment) client.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAppointment++
	a.AppointmentID = s.nextAppointment
	a.PatientFirstName, a.PatientLastName = "", ""
	a.DoctorFirstName, a.DoctorLastName = "", ""
	a.CreatedByFirstName, a.CreatedByLastName = "", ""
	s.appointments[a.AppointmentID] = &a
	return a
}

func (s *store) appointment(id int64) (client.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return client.Appointment{}, false
	}
	return *a, true
}

// appointmentsWhere returns the matching appointments ordered by id with
// patient, doctor and creator names filled in.
func (s *store) appointmentsWhere(match func(client.Appointment) bool) []client.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []client.Appointment
	for _, a := range s.appointments {
		if !match(*a) {
			continue
		}
		v := *a
		if u, ok := s.users[v.PatientID]; ok {
			v.PatientFirstName, v.PatientLastName = u.FirstName, u.LastName
		}
		if u, ok := s.users[v.DoctorID]; ok {
			v.DoctorFirstName, v.DoctorLastName = u.FirstName, u.LastName
		}
		if u, ok := s.users[v.CreatedByUserID]; ok {
			v.CreatedByFirstName, v.CreatedByLastName = u.FirstName, u.LastName
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentID < out[j].AppointmentID })
	return out
}

func (s *store) updateAppointment(a client.Appointment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.appointments[a.AppointmentID]
	if !ok {
		return false
	}
	cur.AppointmentDate = a.AppointmentDate
	cur.AppointmentTime = a.AppointmentTime
	cur.Notes = a.Notes
	cur.Status = a.Status
	cur.DoctorID = a.DoctorID
	return true
}

func (s *store) deleteAppointment(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return false
	}
	delete(s.appointments, id)
	return true
}
