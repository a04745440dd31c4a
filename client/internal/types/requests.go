package types

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by /auth/login. A rejected login is still HTTP
// 200 with Validated false and a Message.
type LoginResponse struct {
	Validated    bool   `json:"validated"`
	Token        string `json:"token"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AccountType  string `json:"accountType"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	Message      string `json:"message"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Address      string `json:"address"`
	Gender       string `json:"gender"`
	DateOfBirth  string `json:"dateOfBirth"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	AccountType  string `json:"accountType"`
	Status       bool   `json:"status"`
}

// RegisterResponse is returned by /auth/register. Like login, a refusal is
// HTTP 200 with Registered false.
type RegisterResponse struct {
	Registered bool   `json:"registered"`
	Message    string `json:"message"`
	ID         int64  `json:"id"`
	Token      string `json:"token,omitempty"`
}

// Address is a postal address entered in parts.
type Address struct {
	Line1   string
	Line2   string
	City    string
	State   string
	Zipcode string
}

// CreateAppointmentRequest is the body of POST /appointment/createAppointment.
type CreateAppointmentRequest struct {
	PatientID       int64  `json:"patientId"`
	DoctorID        int64  `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	Notes           string `json:"notes,omitempty"`
	Status          string `json:"status"`
	CreatedByUserID int64  `json:"createdByUserId,omitempty"`
}

// PasswordChangeRequest is the body of POST /auth/changePassword.
type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Upload describes a file to send to /s3/upload.
type Upload struct {
	PatientID int64
	Category  string
	FileName  string
}
