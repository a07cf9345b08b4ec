package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/common"
	"github.com/receiptly/receiptly/internal/entity"
)

type UserRepository interface {
	GetOrCreateByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type userRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewUserRepository(db *sql.DB, logger *slog.Logger) UserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) GetOrCreateByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, common.ErrInvalidInput
	}

	u, err := r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, plan, receipt_count, created_at FROM users WHERE email = $1`, email))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		r.logger.Error("failed to query user", "email", email, "error", err)
		return nil, err
	}

	u = &entity.User{
		ID:        uuid.New(),
		Email:     email,
		Plan:      entity.PlanFree,
		CreatedAt: time.Now().UTC(),
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, plan, receipt_count, created_at) VALUES ($1, $2, $3, 0, $4)`,
		u.ID.String(), u.Email, u.Plan, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		r.logger.Error("failed to create user", "email", email, "error", err)
		return nil, err
	}
	r.logger.Info("user created", "user_id", u.ID.String(), "email", email)
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, err := r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, plan, receipt_count, created_at FROM users WHERE id = $1`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user", "user_id", id.String(), "error", err)
		return nil, err
	}
	return u, nil
}

func (r *userRepository) scanUser(row *sql.Row) (*entity.User, error) {
	var (
		u           entity.User
		id, created string
	)
	if err := row.Scan(&id, &u.Email, &u.Plan, &u.ReceiptCount, &created); err != nil {
		return nil, err
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	u.ID = parsedID
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		u.CreatedAt = t
	}
	return &u, nil
}
