package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/MonikaTammineni/fsadproject/apierr"
	"github.com/MonikaTammineni/fsadproject/client/internal/job"
	"github.com/MonikaTammineni/fsadproject/client/internal/types"
)

// Login exchanges credentials for a session token. The server answers a
// wrong password with HTTP 200 and validated=false; that is returned as a
// refused error carrying the server message.
func Login(ctx context.Context, httpClient *http.Client, baseURL string, req types.LoginRequest) (*types.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		fields := map[string]string{}
		if req.Email == "" {
			fields["email"] = "Required"
		}
		if req.Password == "" {
			fields["password"] = "Required"
		}
		return nil, apierr.Validation(fields)
	}
	body, err := call(ctx, httpClient, http.MethodPost, endpoint(baseURL, "/auth/login", "", nil), req, "login")
	if err != nil {
		return nil, err
	}
	var lr types.LoginResponse
	if err := decodeObject("login", body, &lr); err != nil {
		return nil, err
	}
	if !lr.Validated || lr.Token == "" {
		msg := lr.Message
		if msg == "" {
			msg = "Invalid email or password"
		}
		return nil, apierr.Refused("login", msg)
	}
	return &lr, nil
}

// Register creates an account. A duplicate email comes back as HTTP 200
// with registered=false and is returned as a refused error.
func Register(ctx context.Context, exec types.Executor, httpClient *http.Client, baseURL string, req types.RegisterRequest) (*types.RegisterResponse, error) {
	var rr types.RegisterResponse
	err := mutate(ctx, exec, job.Key("register", strings.ToLower(req.Email)), func(jobCtx context.Context) error {
		body, err := call(jobCtx, httpClient, http.MethodPost, endpoint(baseURL, "/auth/register", "", nil), req, "register")
		if err != nil {
			return err
		}
		return decodeObject("register", body, &rr)
	})
	if err != nil {
		return nil, err
	}
	if !rr.Registered {
		msg := rr.Message
		if msg == "" {
			msg = "Registration failed"
		}
		return nil, apierr.Refused("register", msg)
	}
	return &rr, nil
}

// IsValidToken asks the server whether token is still accepted.
func IsValidToken(ctx context.Context, httpClient *http.Client, baseURL, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	body, err := call(ctx, httpClient, http.MethodGet, endpoint(baseURL, "/auth/isValidToken", token, nil), nil, "is valid token")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(textOf(body)), "Valid Token"), nil
}

// ChangePassword replaces the password of the session user.
func ChangePassword(ctx context.Context, exec types.Executor, httpClient *http.Client, baseURL, token string, req types.PasswordChangeRequest) (*types.Ack, error) {
	var ack *types.Ack
	err := mutate(ctx, exec, job.Key("password", token), func(jobCtx context.Context) error {
		body, err := call(jobCtx, httpClient, http.MethodPost, endpoint(baseURL, "/auth/changePassword", token, nil), req, "change password")
		if err != nil {
			return err
		}
		ack, err = decodeAck("change password", body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}
