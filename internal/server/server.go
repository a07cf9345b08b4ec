// Package server exposes the upload/dashboard/export API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/entity"
	"github.com/receiptly/receiptly/internal/receipts"
)

// ReceiptService is the upload use-case consumed by the handlers.
type ReceiptService interface {
	ProcessUpload(ctx context.Context, email, filename string, data []byte) (*entity.Receipt, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*receipts.Dashboard, error)
	ExportRows(ctx context.Context, userID uuid.UUID) ([]*entity.Receipt, error)
	FreeLimit() int
}

// Exporter renders records into a downloadable workbook.
type Exporter interface {
	BuildWorkbook(recs []*entity.Receipt) ([]byte, error)
}

type Server struct {
	svc      ReceiptService
	exporter Exporter
	logger   *slog.Logger
}

func New(svc ReceiptService, exporter Exporter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, exporter: exporter, logger: logger}
}

// Router builds the chi router with all application routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Post("/upload", s.handleUpload)
	r.Get("/dashboard/{userID}", s.handleDashboard)
	r.Get("/export/{userID}", s.handleExport)
	r.Get("/pricing", s.handlePricing)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePricing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"plans": []map[string]any{
			{"name": entity.PlanFree, "receipt_limit": s.svc.FreeLimit(), "price": 0},
			{"name": entity.PlanPro, "receipt_limit": nil, "price": 9},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
