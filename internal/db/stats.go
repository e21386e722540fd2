package db

import (
	"context"
	"fmt"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
)

func (db *Database) SavePoolStats(ctx context.Context, stats *model.PoolStats) error {
	query := `
		INSERT INTO pool_stats (tvl, total_users, avg_apy, total_deposits, total_withdrawals, last_update)
		VALUES ($1::numeric, $2, $3, $4::numeric, $5::numeric, $6)
	`

	_, err := db.pool.Exec(ctx, query,
		stats.Tvl,
		stats.TotalUsers,
		stats.AvgApy,
		stats.TotalDeposits,
		stats.TotalWithdrawals,
		stats.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("insert pool stats: %w", err)
	}
	return nil
}

func (db *Database) GetLatestPoolStats(ctx context.Context) (*model.PoolStats, error) {
	query := `
		SELECT id, tvl::text, total_users, avg_apy, total_deposits::text, total_withdrawals::text, last_update
		FROM pool_stats
		ORDER BY id DESC
		LIMIT 1
	`

	var stats model.PoolStats
	err := db.pool.QueryRow(ctx, query).Scan(
		&stats.ID,
		&stats.Tvl,
		&stats.TotalUsers,
		&stats.AvgApy,
		&stats.TotalDeposits,
		&stats.TotalWithdrawals,
		&stats.LastUpdate,
	)
	if err != nil {
		if isNoRowsError(err) {
			return nil, &NotFoundError{
				Key:     "pool_stats",
				Message: "no pool stats snapshot published yet",
			}
		}
		return nil, fmt.Errorf("get latest pool stats: %w", err)
	}

	return &stats, nil
}
