package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"campaign-auth/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	SetVerified(ctx context.Context, id string) error
	SetApproved(ctx context.Context, id string) error
	ListPending(ctx context.Context) ([]domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	// Purge elimina en una sola transacción los media vinculados, los OTP del
	// email y la fila del usuario. Todo o nada.
	Purge(ctx context.Context, user domain.User) error
}

// IsUniqueViolation reporta si err corresponde a una violación de unicidad.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, first_name, last_name, email, phone, password_hash, is_verified, is_approved, created_at, deleted_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.IsVerified,
		&u.IsApproved,
		&u.CreatedAt,
		&u.DeletedAt,
	)
	return u, err
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, first_name, last_name, email, phone, password_hash, is_verified, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.IsVerified,
		user.IsApproved,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) SetVerified(ctx context.Context, id string) error {
	const query = `UPDATE users SET is_verified = TRUE WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) SetApproved(ctx context.Context, id string) error {
	const query = `UPDATE users SET is_approved = TRUE WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) ListPending(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_verified = TRUE AND is_approved = FALSE AND deleted_at IS NULL
		ORDER BY created_at ASC
	`
	return r.list(ctx, query)
}

func (r *PgUserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`
	return r.list(ctx, query)
}

func (r *PgUserRepository) list(ctx context.Context, query string) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) Purge(ctx context.Context, user domain.User) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const deleteMedia = `
		WITH removed AS (
			DELETE FROM registration_media WHERE user_id = $1 RETURNING media_id
		)
		DELETE FROM media WHERE id IN (SELECT media_id FROM removed)
	`
	if _, err := tx.Exec(ctx, deleteMedia, user.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM otp_verifications WHERE email = $1`, user.Email); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
