package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/receiptly/receiptly/constants"
	"github.com/receiptly/receiptly/internal/entity"
)

type ReceiptRepository interface {
	// CreateForUser inserts the receipt and bumps the owner's receipt
	// counter in a single transaction; a failure leaves neither applied.
	CreateForUser(ctx context.Context, userID uuid.UUID, filename string, fields entity.ExtractedReceipt) (*entity.Receipt, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Receipt, error)
	SumByUser(ctx context.Context, userID uuid.UUID) (amount, tax float64, err error)
}

type receiptRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewReceiptRepository(db *sql.DB, logger *slog.Logger) ReceiptRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &receiptRepository{db: db, logger: logger}
}

func (r *receiptRepository) CreateForUser(ctx context.Context, userID uuid.UUID, filename string, fields entity.ExtractedReceipt) (*entity.Receipt, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rec := &entity.Receipt{
		ID:        uuid.New(),
		UserID:    userID,
		Filename:  filename,
		Vendor:    fields.Vendor,
		Amount:    fields.Amount,
		Currency:  fields.Currency,
		Date:      fields.Date,
		Category:  fields.Category,
		Tax:       fields.Tax,
		CreatedAt: time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (id, user_id, filename, vendor, amount, currency, tx_date, category, tax, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID.String(), rec.UserID.String(), rec.Filename, rec.Vendor, rec.Amount,
		rec.Currency, rec.Date, string(rec.Category), rec.Tax, rec.CreatedAt.Format(time.RFC3339))
	if err != nil {
		r.logger.Error("failed to insert receipt", "user_id", userID.String(), "error", err)
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET receipt_count = receipt_count + 1 WHERE id = $1`, userID.String())
	if err != nil {
		r.logger.Error("failed to bump receipt count", "user_id", userID.String(), "error", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *receiptRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Receipt, error) {
	q := `SELECT id, user_id, filename, vendor, amount, currency, tx_date, category, tax, created_at
	      FROM receipts WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID.String()}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to list receipts", "user_id", userID.String(), "error", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.Receipt
	for rows.Next() {
		var (
			rec                   entity.Receipt
			id, uid, cat, created string
		)
		if err := rows.Scan(&id, &uid, &rec.Filename, &rec.Vendor, &rec.Amount,
			&rec.Currency, &rec.Date, &cat, &rec.Tax, &created); err != nil {
			return nil, err
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if rec.UserID, err = uuid.Parse(uid); err != nil {
			return nil, err
		}
		rec.Category, _ = constants.Canonicalize(cat)
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			rec.CreatedAt = t
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *receiptRepository) SumByUser(ctx context.Context, userID uuid.UUID) (float64, float64, error) {
	var amount, tax sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount), SUM(tax) FROM receipts WHERE user_id = $1`, userID.String()).
		Scan(&amount, &tax)
	if err != nil {
		r.logger.Error("failed to sum receipts", "user_id", userID.String(), "error", err)
		return 0, 0, err
	}
	return amount.Float64, tax.Float64, nil
}
