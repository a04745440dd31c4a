package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MonikaTammineni/fsadproject/client"
)

const invalidToken = "Invalid or expired token."

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

// caller returns the claims of the request token.
func (s *Server) caller(r *http.Request) (*claims, bool) {
	c, err := s.tokens.parse(r.URL.Query().Get("token"))
	if err != nil {
		return nil, false
	}
	return c, true
}

// intParam reads a required integer query parameter, answering 400 when it
// is missing or malformed.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		writeFrameworkError(w, r, http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeFrameworkError(w, r, http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "Application is running",
		"message": "Welcome to the Backbone application!",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req client.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	acct, ok := s.store.userByEmail(req.Email)
	if !ok || acct.password != req.Password {
		writeJSON(w, http.StatusOK, client.LoginResponse{Message: "Invalid email or password"})
		return
	}
	if !acct.Status {
		writeJSON(w, http.StatusOK, client.LoginResponse{Message: "User is inactive. Please contact support."})
		return
	}
	token, err := s.tokens.issue(&acct)
	if err != nil {
		log.Error().Err(err).Msg("issue token")
		writeFrameworkError(w, r, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, client.LoginResponse{
		Validated:    true,
		Token:        token,
		FirstName:    acct.FirstName,
		LastName:     acct.LastName,
		AccountType:  acct.AccountType,
		MobileNumber: acct.MobileNumber,
		Message:      "Login successful",
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req client.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, exists := s.store.userByEmail(req.Email); exists {
		writeJSON(w, http.StatusOK, client.RegisterResponse{Message: "Email already exists"})
		return
	}
	u := s.AddUser(client.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Address:      req.Address,
		Gender:       req.Gender,
		DateOfBirth:  client.Timestamp(req.DateOfBirth),
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		AccountType:  req.AccountType,
		Status:       true,
		CreatedOn:    client.Timestamp(s.tokens.now().UTC().Format(time.RFC3339)),
	}, req.Password)

	acct := account{User: u}
	token, err := s.tokens.issue(&acct)
	if err != nil {
		log.Error().Err(err).Msg("issue token")
		writeFrameworkError(w, r, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, client.RegisterResponse{
		Registered: true,
		Message:    "User registered successfully",
		ID:         u.ID,
		Token:      token,
	})
}

func (s *Server) handleIsValidToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.caller(r); ok {
		writeText(w, http.StatusOK, "Valid Token")
		return
	}
	writeText(w, http.StatusOK, "Invalid Token")
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req client.PasswordChangeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, ok := s.caller(r)
	if !ok {
		writeEntity(w, http.StatusUnauthorized, invalidToken)
		return
	}
	acct, ok := s.store.user(c.ID)
	if !ok {
		writeEntity(w, http.StatusNotFound, "User credentials not found.")
		return
	}
	if acct.password != req.OldPassword {
		writeEntity(w, http.StatusBadRequest, "Incorrect old password.")
		return
	}
	s.store.setPassword(c.ID, req.NewPassword)
	writeEntity(w, http.StatusOK, "Password changed successfully.")
}
