package client

import (
	"context"
	"io"

	"github.com/MonikaTammineni/fsadproject/client/internal/api"
	"github.com/MonikaTammineni/fsadproject/session"
)

// ListPatientFiles returns the files stored for a patient.
func (c *Client) ListPatientFiles(ctx context.Context, s session.Session, patientID int64) ([]FileItem, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	fs, err := api.ListPatientFiles(ctx, c.http, c.baseURL, s.Token, patientID)
	return fs, observe("list_patient_files", err)
}

// ListMyFiles returns the session user's own files.
func (c *Client) ListMyFiles(ctx context.Context, s session.Session) ([]FileItem, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	fs, err := api.ListMyFiles(ctx, c.http, c.baseURL, s.Token)
	return fs, observe("list_reports", err)
}

// UpdateFile stores new metadata for f.
func (c *Client) UpdateFile(ctx context.Context, s session.Session, f FileItem) (*Ack, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	ack, err := api.UpdateFile(ctx, c.exec, c.http, c.baseURL, s.Token, f)
	return ack, observe("update_file", err)
}

// DeleteFile removes a file.
func (c *Client) DeleteFile(ctx context.Context, s session.Session, fileID int64) error {
	if err := authed(s); err != nil {
		return err
	}
	return observe("delete_file", api.DeleteFile(ctx, c.exec, c.http, c.baseURL, s.Token, fileID))
}

// FileURL returns the address of a file for the given mode (ModeDownload,
// ModeInline or ModeAttachment). The URL embeds the session token.
func (c *Client) FileURL(s session.Session, fileID int64, mode string) string {
	return api.FileURL(c.baseURL, s.Token, fileID, mode)
}

// DownloadFile streams a file into w and returns the byte count and the
// server-provided file name.
func (c *Client) DownloadFile(ctx context.Context, s session.Session, fileID int64, w io.Writer) (int64, string, error) {
	if err := authed(s); err != nil {
		return 0, "", err
	}
	n, name, err := api.DownloadFile(ctx, c.http, c.baseURL, s.Token, fileID, w)
	return n, name, observe("download_file", err)
}

// UploadFile sends content as a new file for up.PatientID.
func (c *Client) UploadFile(ctx context.Context, s session.Session, up Upload, content io.Reader) (*Ack, error) {
	if err := authed(s); err != nil {
		return nil, err
	}
	ack, err := api.UploadFile(ctx, c.exec, c.http, c.baseURL, s.Token, up, content)
	return ack, observe("upload_file", err)
}
