package db

import (
	"context"
	"fmt"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
)

// CalculatePoolStats recomputes pool-wide totals from the full transaction
// log in one scan. Summing happens on the NUMERIC columns inside Postgres so
// amounts beyond the 64-bit range stay exact. TVL may come out negative when
// the mirror is inconsistent; it is returned as-is.
func (db *Database) CalculatePoolStats(ctx context.Context) (*model.PoolStats, error) {
	query := `
		SELECT
			COUNT(DISTINCT user_address),
			COALESCE(SUM(amount) FILTER (WHERE type = 'deposit' AND status = 'success'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE type = 'withdraw' AND status = 'success'), 0)::text,
			(
				COALESCE(SUM(amount) FILTER (WHERE type = 'deposit' AND status = 'success'), 0) -
				COALESCE(SUM(amount) FILTER (WHERE type = 'withdraw' AND status = 'success'), 0)
			)::text
		FROM transactions
	`

	var stats model.PoolStats
	err := db.pool.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.TotalDeposits,
		&stats.TotalWithdrawals,
		&stats.Tvl,
	)
	if err != nil {
		return nil, fmt.Errorf("calculate pool stats: %w", err)
	}

	return &stats, nil
}
