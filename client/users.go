package client

import (
	"context"

	"github.com/MonikaTammineni/fsadproject/client/internal/api"
	"github.com/MonikaTammineni/fsadproject/session"
)

// ListPatients returns every patient account.
func (c *Client) ListPatients(ctx context.Context, s session.Session) ([]Patient, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	ps, err := api.ListPatients(ctx, c.http, c.baseURL, s.Token)
	return ps, observe("list_patients", err)
}

// ListUsers returns every account.
func (c *Client) ListUsers(ctx context.Context, s session.Session) ([]User, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	us, err := api.ListUsers(ctx, c.http, c.baseURL, s.Token)
	return us, observe("list_users", err)
}

// ListDoctors returns the doctors appointments can be booked with.
func (c *Client) ListDoctors(ctx context.Context, s session.Session) ([]Doctor, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	ds, err := api.ListDoctors(ctx, c.http, c.baseURL, s.Token)
	return ds, observe("list_doctors", err)
}

// CurrentUser returns the account of the session.
func (c *Client) CurrentUser(ctx context.Context, s session.Session) (*User, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	u, err := api.GetUser(ctx, c.http, c.baseURL, s.Token)
	return u, observe("get_user", err)
}

// EditUser stores u.
func (c *Client) EditUser(ctx context.Context, s session.Session, u User) (*Ack, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	ack, err := api.EditUser(ctx, c.exec, c.http, c.baseURL, s.Token, u)
	return ack, observe("edit_user", err)
}

// DeleteUser removes the account with id.
func (c *Client) DeleteUser(ctx context.Context, s session.Session, id int64) error {
	if err := authed(s); err != nil {
		return err
	}
	return observe("delete_user", api.DeleteUser(ctx, c.exec, c.http, c.baseURL, s.Token, id))
}
