package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campaign-auth/internal/domain"
)

// MediaRepository define el contrato de persistencia para documentos de registro.
type MediaRepository interface {
	// AttachToUser inserta el media y su vínculo registration_media con el usuario.
	AttachToUser(ctx context.Context, userID string, media domain.Media) error
	ListByUser(ctx context.Context, userID string) ([]domain.Media, error)
}

// PgMediaRepository implementa MediaRepository usando pgxpool.
type PgMediaRepository struct {
	pool *pgxpool.Pool
}

func NewPgMediaRepository(pool *pgxpool.Pool) *PgMediaRepository {
	return &PgMediaRepository{pool: pool}
}

func (r *PgMediaRepository) AttachToUser(ctx context.Context, userID string, media domain.Media) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertMedia = `
		INSERT INTO media (id, url, type, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, insertMedia, media.ID, media.URL, media.Type, media.CreatedAt); err != nil {
		return err
	}

	const insertLink = `
		INSERT INTO registration_media (id, user_id, media_id)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, insertLink, uuid.NewString(), userID, media.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PgMediaRepository) ListByUser(ctx context.Context, userID string) ([]domain.Media, error) {
	const query = `
		SELECT m.id, m.url, m.type, m.created_at
		FROM media m
		JOIN registration_media rm ON rm.media_id = m.id
		WHERE rm.user_id = $1
		ORDER BY m.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []domain.Media
	for rows.Next() {
		var m domain.Media
		if err := rows.Scan(&m.ID, &m.URL, &m.Type, &m.CreatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}
