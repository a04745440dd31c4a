package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MonikaTammineni/fsadproject/apierr"
	"github.com/MonikaTammineni/fsadproject/client/internal/job"
	"github.com/MonikaTammineni/fsadproject/client/internal/types"
)

// File URL modes.
const (
	ModeDownload   = "download"
	ModeInline     = "inline"
	ModeAttachment = "attachment"
)

// FileURL returns the address a file can be fetched from. ModeDownload uses
// the download endpoint; the other modes use the viewer endpoint with that
// content disposition.
func FileURL(baseURL, token string, fileID int64, mode string) string {
	params := url.Values{"fileId": {strconv.FormatInt(fileID, 10)}}
	if mode == ModeDownload || mode == "" {
		return endpoint(baseURL, "/s3/downloadFile", token, params)
	}
	params.Set("mode", mode)
	return endpoint(baseURL, "/s3/viewFile", token, params)
}

// normalizeFiles fills the client-side fields: the upload date mirrors
// createdAt and the URL defaults to the download address.
func normalizeFiles(baseURL, token string, files []types.FileItem) []types.FileItem {
	for i := range files {
		if files[i].UploadDate == "" {
			files[i].UploadDate = files[i].CreatedAt
		}
		if files[i].URL == "" {
			files[i].URL = FileURL(baseURL, token, files[i].FileID, ModeDownload)
		}
	}
	return files
}

// ListPatientFiles returns the files stored for a patient.
func ListPatientFiles(ctx context.Context, httpClient *http.Client, baseURL, token string, patientID int64) ([]types.FileItem, error) {
	if err := types.ValidateID(patientID, "patient_user_id"); err != nil {
		return nil, err
	}
	params := url.Values{"patient_user_id": {strconv.FormatInt(patientID, 10)}}
	body, err := call(ctx, httpClient, http.MethodGet, endpoint(baseURL, "/auth/getPatientFileDetails", token, params), nil, "list patient files")
	if err != nil {
		return nil, err
	}
	files, err := decodeItems[types.FileItem]("list patient files", body)
	if err != nil {
		return nil, err
	}
	return normalizeFiles(baseURL, token, files), nil
}

// ListMyFiles returns the files of the session user (the reports screen).
func ListMyFiles(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.FileItem, error) {
	body, err := call(ctx, httpClient, http.MethodGet, endpoint(baseURL, "/auth/getPatientFiles", token, nil), nil, "list reports")
	if err != nil {
		return nil, err
	}
	files, err := decodeItems[types.FileItem]("list reports", body)
	if err != nil {
		return nil, err
	}
	return normalizeFiles(baseURL, token, files), nil
}

// UpdateFile stores new metadata for a file.
func UpdateFile(ctx context.Context, exec types.Executor, httpClient *http.Client, baseURL, token string, f types.FileItem) (*types.Ack, error) {
	if err := types.ValidateID(f.FileID, "fileId"); err != nil {
		return nil, err
	}
	id := strconv.FormatInt(f.FileID, 10)
	var ack *types.Ack
	err := mutate(ctx, exec, job.Key("file", id), func(jobCtx context.Context) error {
		target := endpoint(baseURL, "/s3/updateFile", token, url.Values{"fileId": {id}})
		body, err := call(jobCtx, httpClient, http.MethodPost, target, f, "update file")
		if err != nil {
			return err
		}
		ack, err = decodeAck("update file", body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

// DeleteFile removes a file and its stored content.
func DeleteFile(ctx context.Context, exec types.Executor, httpClient *http.Client, baseURL, token string, fileID int64) error {
	if err := types.ValidateID(fileID, "fileId"); err != nil {
		return err
	}
	id := strconv.FormatInt(fileID, 10)
	return mutate(ctx, exec, job.Key("file", id), func(jobCtx context.Context) error {
		target := endpoint(baseURL, "/s3/deleteFile", token, url.Values{"fileId": {id}})
		body, err := call(jobCtx, httpClient, http.MethodDelete, target, nil, "delete file")
		if err != nil {
			return err
		}
		_, err = decodeAck("delete file", body)
		return err
	})
}

// DownloadFile streams the content of a file into w and returns the number
// of bytes written and the file name from Content-Disposition, if any.
func DownloadFile(ctx context.Context, httpClient *http.Client, baseURL, token string, fileID int64, w io.Writer) (int64, string, error) {
	if err := ctx.Err(); err != nil {
		return 0, "", err
	}
	if err := types.ValidateID(fileID, "fileId"); err != nil {
		return 0, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, FileURL(baseURL, token, fileID, ModeDownload), nil)
	if err != nil {
		return 0, "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, "", apierr.NewNetworkError("download file", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return 0, "", apierr.NewHTTPError(resp.StatusCode, string(b), "download file")
	}
	var name string
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, name, apierr.NewNetworkError("download file", err)
	}
	return n, name, nil
}

// UploadFile sends content as a multipart upload for a patient. The server
// replies with a text line; anything but a success notice is a refusal.
func UploadFile(ctx context.Context, exec types.Executor, httpClient *http.Client, baseURL, token string, up types.Upload, content io.Reader) (*types.Ack, error) {
	fields := map[string]string{}
	if up.PatientID <= 0 {
		fields["patient_user_id"] = "Required"
	}
	if up.Category == "" {
		fields["category"] = "Required"
	}
	if up.FileName == "" {
		fields["file"] = "Required"
	}
	if err := apierr.Validation(fields); err != nil {
		return nil, err
	}

	// The body is buffered so a retried job can send it again.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", up.FileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	payload := buf.Bytes()

	params := url.Values{
		"category":        {up.Category},
		"patient_user_id": {strconv.FormatInt(up.PatientID, 10)},
	}
	var ack *types.Ack
	err = mutate(ctx, exec, job.Key("upload", strconv.FormatInt(up.PatientID, 10)), func(jobCtx context.Context) error {
		req, err := http.NewRequestWithContext(jobCtx, http.MethodPost, endpoint(baseURL, "/s3/upload", token, params), bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		body, err := send(httpClient, req, "upload file")
		if err != nil {
			return err
		}
		ack, err = decodeAck("upload file", body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}
