package fakeapi

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MonikaTammineni/fsadproject/client"
)

const maxUploadBytes = 32 << 20

// handleUpload always answers 200 with a text line; only a line containing
// "successfully" means the file was stored.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeFrameworkError(w, r, http.StatusBadRequest)
		return
	}
	patientID, err := strconv.ParseInt(r.FormValue("patient_user_id"), 10, 64)
	category := r.FormValue("category")
	if err != nil || category == "" {
		writeFrameworkError(w, r, http.StatusBadRequest)
		return
	}
	part, header, err := r.FormFile("file")
	if err != nil {
		writeFrameworkError(w, r, http.StatusBadRequest)
		return
	}
	defer func() { _ = part.Close() }()

	content, err := io.ReadAll(part)
	if err != nil {
		writeText(w, http.StatusOK, "Error uploading file: "+err.Error())
		return
	}
	if len(content) == 0 {
		writeText(w, http.StatusOK, "File is empty or null")
		return
	}
	c, ok := s.caller(r)
	if !ok {
		writeText(w, http.StatusOK, "Invalid token")
		return
	}
	if !strings.EqualFold(c.AccountType, client.AccountAdmin) && !strings.EqualFold(c.AccountType, client.AccountDoctor) {
		writeText(w, http.StatusOK, "Only Admin or Doctor users are allowed to upload files.")
		return
	}

	f := s.store.addFile(client.FileItem{
		UserID:           patientID,
		Category:         category,
		FileName:         header.Filename,
		FileCode:         fileCode(patientID),
		CreatedAt:        client.Timestamp(s.tokens.now().UTC().Format(time.RFC3339)),
		UploadedByUserID: c.ID,
	}, content)
	log.Debug().Int64("file_id", f.FileID).Int64("patient_id", patientID).Int("bytes", len(content)).Msg("file stored")
	writeText(w, http.StatusOK, "File uploaded successfully: "+f.FileCode)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, "attachment", "application/octet-stream")
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	disposition := "inline"
	if strings.EqualFold(r.URL.Query().Get("mode"), "attachment") {
		disposition = "attachment"
	}
	w.Header().Set("X-Frame-Options", "SAMEORIGIN")
	s.serveFile(w, r, disposition, "")
}

// serveFile writes the stored bytes. An empty contentType is derived from
// the file name extension.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, disposition, contentType string) {
	id, ok := intParam(w, r, "fileId")
	if !ok {
		return
	}
	if _, ok := s.caller(r); !ok {
		writeText(w, http.StatusUnauthorized, invalidToken)
		return
	}
	f, ok := s.store.file(id)
	if !ok {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("Error retrieving file: no file with id %d", id))
		return
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(f.FileName))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": f.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.content)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "fileId")
	if !ok {
		return
	}
	if _, ok := s.caller(r); !ok {
		writeText(w, http.StatusUnauthorized, invalidToken)
		return
	}
	if !s.store.deleteFile(id) {
		writeText(w, http.StatusNotFound, "File not found.")
		return
	}
	writeText(w, http.StatusOK, "File deleted successfully.")
}

// handleUpdateFile renames or recategorises a file. The caller becomes its
// uploader.
func (s *Server) handleUpdateFile(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "fileId")
	if !ok {
		return
	}
	var f client.FileItem
	if !decodeBody(w, r, &f) {
		return
	}
	c, ok := s.caller(r)
	if !ok {
		writeText(w, http.StatusUnauthorized, invalidToken)
		return
	}
	if !s.store.updateFile(id, f.FileName, f.Category, c.ID) {
		writeText(w, http.StatusNotFound, "File not found.")
		return
	}
	writeText(w, http.StatusOK, "File details updated successfully.")
}
