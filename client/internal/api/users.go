package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MonikaTammineni/fsadproject/client/internal/job"
	"github.com/MonikaTammineni/fsadproject/client/internal/types"
)

// ListPatients returns every patient account.
func ListPatients(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.Patient, error) {
	body, err := call(ctx, httpClient, http.MethodGet, endpoint(baseURL, "/auth/getAllPatients", token, nil), nil, "list patients")
	if err != nil {
		return nil, err
	}
	return decodeItems[types.Patient]("list patients", body)
}

// ListUsers returns every account regardless of type.
func ListUsers(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.User, error) {
	body, err := call(ctx, httpClient, http.MethodGet, endpoint(baseURL, "/auth/getAllUsers", token, nil), nil, "list users")
	if err != nil {
		return nil, err
	}
	return decodeItems[types.User]("list users", body)
}

// ListDoctors returns the doctors a booking can be made with. Only id and
// names are populated by the server.
func ListDoctors(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.Doctor, error) {
	body, err := call(ctx, httpClient, http.MethodPost, endpoint(baseURL, "/auth/getAllDoctorsList", token, nil), nil, "list doctors")
	if err != nil {
		return nil, err
	}
	return decodeItems[types.Doctor]("list doctors", body)
}

// GetUser returns the account the token belongs to.
func GetUser(ctx context.Context, httpClient *http.Client, baseURL, token string) (*types.User, error) {
	body, err := call(ctx, httpClient, http.MethodPost, endpoint(baseURL, "/auth/getUser", token, nil), nil, "get user")
	if err != nil {
		return nil, err
	}
	var u types.User
	if err := decodeObject("get user", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// EditUser stores u. The server acknowledges with text.
func EditUser(ctx context.Context, exec types.Executor, httpClient *http.Client, baseURL, token string, u types.User) (*types.Ack, error) {
	if err := types.ValidateID(u.ID, "id"); err != nil {
		return nil, err
	}
	var ack *types.Ack
	err := mutate(ctx, exec, job.Key("user", strconv.FormatInt(u.ID, 10)), func(jobCtx context.Context) error {
		body, err := call(jobCtx, httpClient, http.MethodPost, endpoint(baseURL, "/auth/editUser", token, nil), u, "edit user")
		if err != nil {
			return err
		}
		ack, err = decodeAck("edit user", body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

// DeleteUser removes the account with id.
func DeleteUser(ctx context.Context, exec types.Executor, httpClient *http.Client, baseURL, token string, id int64) error {
	if err := types.ValidateID(id, "user_id"); err != nil {
		return err
	}
	key := strconv.FormatInt(id, 10)
	return mutate(ctx, exec, job.Key("user", key), func(jobCtx context.Context) error {
		target := endpoint(baseURL, "/auth/deleteUser", token, url.Values{"user_id": {key}})
		body, err := call(jobCtx, httpClient, http.MethodPost, target, nil, "delete user")
		if err != nil {
			return err
		}
		_, err = decodeAck("delete user", body)
		return err
	})
}

