// Package receipts is the upload use-case: tier gating, file storage, field
// extraction, and the transactional persistence write.
package receipts

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/receiptly/receiptly/constants"
	"github.com/receiptly/receiptly/internal/common"
	"github.com/receiptly/receiptly/internal/entity"
	"github.com/receiptly/receiptly/internal/repository"
)

// Extractor is the field-extraction collaborator. It never fails; a record
// always comes back.
type Extractor interface {
	Extract(ctx context.Context, path string) entity.ExtractedReceipt
}

type Service struct {
	users     repository.UserRepository
	receipts  repository.ReceiptRepository
	extractor Extractor
	storage   Storage
	freeLimit int
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(users repository.UserRepository, receipts repository.ReceiptRepository, extractor Extractor, storage Storage, freeLimit int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if freeLimit <= 0 {
		freeLimit = 10
	}
	return &Service{
		users:     users,
		receipts:  receipts,
		extractor: extractor,
		storage:   storage,
		freeLimit: freeLimit,
		logger:    logger,
		now:       time.Now,
	}
}

var reFilenameNoise = regexp.MustCompile(`[^a-zA-Z0-9\-_.]+`)

// sanitizeFilename cleans up phone-generated names and bounds their length.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	base = strings.Trim(reFilenameNoise.ReplaceAllString(base, "_"), "_")
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + strings.ToLower(ext)
}

// ProcessUpload stores the image, extracts its fields, and persists the
// record. The receipt insert and the user's counter increment are one
// transaction; if it fails the stored file is deleted so no half-applied
// upload remains.
func (s *Service) ProcessUpload(ctx context.Context, email, filename string, data []byte) (*entity.Receipt, error) {
	if !constants.IsAllowedExt(filepath.Ext(filename)) {
		return nil, common.ErrUnsupportedFile
	}
	if len(data) == 0 {
		return nil, common.ErrInvalidInput
	}
	if len(data) > constants.MaxUploadBytes {
		return nil, common.ErrFileTooLarge
	}

	user, err := s.users.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return nil, common.WrapError(err, "resolving user")
	}

	// Tier gate before any file write.
	if user.Plan == entity.PlanFree && user.ReceiptCount >= s.freeLimit {
		return nil, common.ErrLimitReached
	}

	name := fmt.Sprintf("%s_%s", s.now().Format("20060102_150405"), sanitizeFilename(filename))
	path, err := s.storage.Save(name, data)
	if err != nil {
		return nil, common.WrapError(err, "saving upload")
	}

	fields := s.extractor.Extract(ctx, path)

	rec, err := s.receipts.CreateForUser(ctx, user.ID, name, fields)
	if err != nil {
		// Roll back the stored file so the upload leaves no trace.
		if delErr := s.storage.Delete(path); delErr != nil {
			s.logger.Warn("failed to delete upload after db error", "path", path, "error", delErr)
		}
		return nil, common.NewAppError("PERSIST_FAILED", "saving receipt", err)
	}

	s.logger.Info("upload.processed",
		"user_id", user.ID.String(),
		"receipt_id", rec.ID.String(),
		"vendor", rec.Vendor,
		"amount", rec.Amount,
		"category", rec.Category,
	)
	return rec, nil
}

// Dashboard aggregates a user's recent receipts and lifetime totals.
type Dashboard struct {
	User        *entity.User      `json:"user"`
	Receipts    []*entity.Receipt `json:"receipts"`
	TotalAmount float64           `json:"total_amount"`
	TotalTax    float64           `json:"total_tax"`
}

const dashboardRecentLimit = 20

func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.receipts.ListByUser(ctx, userID, dashboardRecentLimit)
	if err != nil {
		return nil, common.WrapError(err, "listing receipts")
	}
	amount, tax, err := s.receipts.SumByUser(ctx, userID)
	if err != nil {
		return nil, common.WrapError(err, "summing receipts")
	}
	return &Dashboard{
		User:        user,
		Receipts:    recent,
		TotalAmount: amount,
		TotalTax:    tax,
	}, nil
}

// ExportRows returns every receipt for the user, newest first, for the
// spreadsheet export. ErrNoReceipts when there is nothing to export.
func (s *Service) ExportRows(ctx context.Context, userID uuid.UUID) ([]*entity.Receipt, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.receipts.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, common.WrapError(err, "listing receipts")
	}
	if len(rows) == 0 {
		return nil, common.ErrNoReceipts
	}
	return rows, nil
}

// FreeLimit exposes the configured free-tier ceiling (pricing endpoint).
func (s *Service) FreeLimit() int {
	return s.freeLimit
}
