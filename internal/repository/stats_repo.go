package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"campaign-auth/internal/domain"
)

// StatsRepository expone los contadores de solo lectura del dashboard.
type StatsRepository interface {
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
}

// PgStatsRepository implementa StatsRepository usando pgxpool.
type PgStatsRepository struct {
	pool *pgxpool.Pool
}

func NewPgStatsRepository(pool *pgxpool.Pool) *PgStatsRepository {
	return &PgStatsRepository{pool: pool}
}

func (r *PgStatsRepository) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats

	queries := []struct {
		sql  string
		dest any
	}{
		{`SELECT COUNT(*) FROM users`, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM users WHERE is_verified = TRUE AND is_approved = FALSE`, &stats.PendingApprovals},
		{`SELECT COUNT(*) FROM campaigns`, &stats.TotalCampaigns},
		{`SELECT COUNT(*) FROM campaigns WHERE is_active = TRUE`, &stats.ActiveCampaigns},
		{`SELECT COUNT(*) FROM donations`, &stats.TotalDonations},
		{`SELECT COALESCE(SUM(amount), 0) FROM transactions`, &stats.TotalAmount},
	}
	for _, q := range queries {
		if err := r.pool.QueryRow(ctx, q.sql).Scan(q.dest); err != nil {
			return domain.DashboardStats{}, err
		}
	}
	return stats, nil
}
