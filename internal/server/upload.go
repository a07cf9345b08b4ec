package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/receiptly/receiptly/constants"
	"github.com/receiptly/receiptly/internal/common"
)

// handleUpload accepts a multipart form with an "email" field and a "receipt"
// image, runs extraction, and persists the record.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// A little headroom over the image cap for the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadBytes+(1<<20))

	if err := r.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 16MB.")
			return
		}
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	email := r.FormValue("email")
	if email == "" {
		email = "demo@example.com"
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("reading upload failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	rec, err := s.svc.ProcessUpload(r.Context(), email, header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnsupportedFile):
			writeError(w, http.StatusBadRequest, "Invalid file format. Please upload PNG or JPG.")
		case errors.Is(err, common.ErrFileTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 16MB.")
		case errors.Is(err, common.ErrLimitReached):
			writeError(w, http.StatusTooManyRequests, "Free limit reached. Upgrade to Pro for unlimited receipts.")
		case errors.Is(err, common.ErrInvalidInput):
			writeError(w, http.StatusUnprocessableEntity, "Could not process receipt. Please try a clearer image.")
		default:
			s.logger.Error("processing receipt failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Error processing receipt. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       rec.Fields(),
		"receipt_id": rec.ID.String(),
		"user_id":    rec.UserID.String(),
		"redirect":   "/dashboard/" + rec.UserID.String(),
	})
}
