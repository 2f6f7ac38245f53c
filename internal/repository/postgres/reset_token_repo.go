package postgres

import (
	"context"
	"time"

	"fleetflow-service/internal/domain/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ResetTokenRepository struct {
	db *pgxpool.Pool
}

func NewResetTokenRepository(db *pgxpool.Pool) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, t *user.ResetToken) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO password_reset_tokens (email, otp, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, t.Email, t.OTP, t.ExpiresAt).Scan(&t.ID, &t.CreatedAt)
	return translateErr(err)
}

func (r *ResetTokenRepository) FindValid(ctx context.Context, email, otp string) (*user.ResetToken, error) {
	var t user.ResetToken
	err := r.db.QueryRow(ctx, `
		SELECT id, email, otp, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE email = $1 AND otp = $2 AND used = FALSE AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`, email, otp, time.Now()).Scan(&t.ID, &t.Email, &t.OTP, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &t, nil
}

func (r *ResetTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE password_reset_tokens SET used = TRUE WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows)
	}
	return nil
}
