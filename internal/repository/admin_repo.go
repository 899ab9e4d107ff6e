package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"campaign-auth/internal/domain"
)

// AdminRepository define el contrato de persistencia para administradores.
type AdminRepository interface {
	Create(ctx context.Context, admin domain.Admin) error
	GetByEmail(ctx context.Context, email string) (domain.Admin, error)
	// ExistsByEmail incluye admins con soft-delete en el chequeo de duplicados.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.Admin, error)
}

// PgAdminRepository implementa AdminRepository usando pgxpool.
type PgAdminRepository struct {
	pool *pgxpool.Pool
}

func NewPgAdminRepository(pool *pgxpool.Pool) *PgAdminRepository {
	return &PgAdminRepository{pool: pool}
}

func (r *PgAdminRepository) Create(ctx context.Context, admin domain.Admin) error {
	const query = `
		INSERT INTO admins (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	return err
}

func (r *PgAdminRepository) GetByEmail(ctx context.Context, email string) (domain.Admin, error) {
	const query = `
		SELECT id, email, password_hash, created_at, updated_at, deleted_at
		FROM admins
		WHERE email = $1
	`
	var a domain.Admin
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.DeletedAt,
	)
	return a, err
}

func (r *PgAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM admins WHERE email = $1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, email).Scan(&exists)
	return exists, err
}

func (r *PgAdminRepository) List(ctx context.Context) ([]domain.Admin, error) {
	const query = `
		SELECT id, email, password_hash, created_at, updated_at, deleted_at
		FROM admins
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []domain.Admin
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}
