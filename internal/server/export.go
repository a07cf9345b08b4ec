package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/common"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "user id must be a UUID")
		return
	}

	rows, err := s.svc.ExportRows(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, common.ErrNoReceipts):
			writeError(w, http.StatusNotFound, "No receipts to export")
		default:
			s.logger.Error("export rows failed", "user_id", userID.String(), "error", err)
			writeError(w, http.StatusInternalServerError, "Error creating export file")
		}
		return
	}

	xlsx, err := s.exporter.BuildWorkbook(rows)
	if err != nil {
		s.logger.Error("export build failed", "user_id", userID.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Error creating export file")
		return
	}

	filename := "expenses_" + time.Now().Format("200601") + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(xlsx); err != nil {
		s.logger.Warn("writing export response failed", "error", err)
	}
}
