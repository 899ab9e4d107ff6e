package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campaign-auth/internal/domain"
)

// OtpRepository define el contrato de persistencia para códigos de verificación.
type OtpRepository interface {
	Create(ctx context.Context, otp domain.OtpVerification) error
	// GetValid devuelve la fila no verificada más reciente para el email cuyo
	// código coincide y no expiró a la hora indicada.
	GetValid(ctx context.Context, email, code string, now time.Time) (domain.OtpVerification, error)
	MarkVerified(ctx context.Context, id string) error
	DeleteUnverified(ctx context.Context, email string) error
}

// PgOtpRepository implementa OtpRepository usando pgxpool.
type PgOtpRepository struct {
	pool *pgxpool.Pool
}

func NewPgOtpRepository(pool *pgxpool.Pool) *PgOtpRepository {
	return &PgOtpRepository{pool: pool}
}

func (r *PgOtpRepository) Create(ctx context.Context, otp domain.OtpVerification) error {
	const query = `
		INSERT INTO otp_verifications (id, email, otp, expires_at, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		otp.ID,
		otp.Email,
		otp.Otp,
		otp.ExpiresAt,
		otp.Verified,
		otp.CreatedAt,
	)
	return err
}

func (r *PgOtpRepository) GetValid(ctx context.Context, email, code string, now time.Time) (domain.OtpVerification, error) {
	const query = `
		SELECT id, email, otp, expires_at, verified, created_at
		FROM otp_verifications
		WHERE email = $1 AND otp = $2 AND verified = FALSE AND expires_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	var o domain.OtpVerification
	err := r.pool.QueryRow(ctx, query, email, code, now).Scan(
		&o.ID,
		&o.Email,
		&o.Otp,
		&o.ExpiresAt,
		&o.Verified,
		&o.CreatedAt,
	)
	return o, err
}

func (r *PgOtpRepository) MarkVerified(ctx context.Context, id string) error {
	const query = `UPDATE otp_verifications SET verified = TRUE WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgOtpRepository) DeleteUnverified(ctx context.Context, email string) error {
	const query = `DELETE FROM otp_verifications WHERE email = $1 AND verified = FALSE`
	_, err := r.pool.Exec(ctx, query, email)
	return err
}
