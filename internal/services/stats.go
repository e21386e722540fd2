package services

import (
	"context"
	"strconv"
	"time"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/observability/metrics"
)

// APY reporting is not derived from on-chain data yet; strategy yield feeds
// land in a later milestone.
const placeholderAvgApy = 12.5

// RecomputeStats derives a fresh pool snapshot from the full transaction
// ledger and appends it to the stats history. The recompute reads only
// successful transactions, so retried or failed deploys never skew the pool.
func (s *Service) RecomputeStats(ctx context.Context) error {
	stats, err := s.db.CalculatePoolStats(ctx)
	if err != nil {
		return err
	}

	stats.AvgApy = placeholderAvgApy
	stats.LastUpdate = time.Now().UTC()

	if err := s.db.SavePoolStats(ctx, stats); err != nil {
		return err
	}

	// The gauge is a float approximation; the exact decimal lives in the row.
	tvl, _ := strconv.ParseFloat(stats.Tvl, 64)
	metrics.RecordPoolSnapshot(tvl, stats.TotalUsers)
	return nil
}

// LatestStats returns the most recent pool snapshot, or the zero-valued
// default when nothing has been indexed yet.
func (s *Service) LatestStats(ctx context.Context) (*model.PoolStats, error) {
	stats, err := s.db.GetLatestPoolStats(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return model.ZeroPoolStats(), nil
		}
		return nil, err
	}
	return stats, nil
}
