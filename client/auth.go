package client

import (
	"context"

	"github.com/MonikaTammineni/fsadproject/client/internal/api"
	"github.com/MonikaTammineni/fsadproject/client/internal/types"
	"github.com/MonikaTammineni/fsadproject/session"
)

// Login exchanges credentials for a session. A refused login returns an
// error whose apierr message is the server's explanation.
func (c *Client) Login(ctx context.Context, req LoginRequest) (session.Session, error) {
	lr, err := api.Login(ctx, c.http, c.baseURL, req)
	if err = observe("login", err); err != nil {
		return session.Session{}, err
	}
	return session.Session{
		Token:       lr.Token,
		AccountType: lr.AccountType,
		FirstName:   lr.FirstName,
		LastName:    lr.LastName,
	}, nil
}

// Register validates req locally and creates the account. Nothing is sent
// when a field fails validation.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := types.ValidateRegister(req, c.now()); err != nil {
		return nil, observe("register", err)
	}
	rr, err := api.Register(ctx, c.exec, c.http, c.baseURL, req)
	return rr, observe("register", err)
}

// ValidateToken asks the server whether the session token is still valid.
func (c *Client) ValidateToken(ctx context.Context, s session.Session) (bool, error) {
	if err := authed(s); err != nil {
		return false, err
	}
	ok, err := api.IsValidToken(ctx, c.http, c.baseURL, s.Token)
	return ok, observe("is_valid_token", err)
}

// ChangePassword replaces the session user's password after checking that
// newPassword is acceptable and matches confirm.
func (c *Client) ChangePassword(ctx context.Context, s session.Session, oldPassword, newPassword, confirm string) (string, error) {
	if err := authed(s); err != nil {
		return "", err
	}
	if err := types.ValidatePasswordChange(oldPassword, newPassword, confirm); err != nil {
		return "", observe("change_password", err)
	}
	ack, err := api.ChangePassword(ctx, c.exec, c.http, c.baseURL, s.Token, PasswordChangeRequest{OldPassword: oldPassword, NewPassword: newPassword})
	if err = observe("change_password", err); err != nil {
		return "", err
	}
	return ack.Message, nil
}
