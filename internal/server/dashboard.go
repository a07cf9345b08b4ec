package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/common"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "user id must be a UUID")
		return
	}

	dash, err := s.svc.Dashboard(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error("dashboard failed", "user_id", userID.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, dash)
}
