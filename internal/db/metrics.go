package db

import (
	"context"
	"time"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/observability/metrics"
)

// DbWithMetrics decorates a DbInterface with latency metrics per method.
type DbWithMetrics struct {
	db DbInterface
}

var _ DbInterface = (*DbWithMetrics)(nil)

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) SaveTransaction(ctx context.Context, tx *model.Transaction) error {
	return d.run("SaveTransaction", func() error {
		return d.db.SaveTransaction(ctx, tx)
	})
}

func (d *DbWithMetrics) GetUserTransactions(ctx context.Context, userAddress string, limit int) (result []model.Transaction, err error) {
	//nolint:errcheck
	d.run("GetUserTransactions", func() error {
		result, err = d.db.GetUserTransactions(ctx, userAddress, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) GetRecentTransactions(ctx context.Context, limit int) (result []model.Transaction, err error) {
	//nolint:errcheck
	d.run("GetRecentTransactions", func() error {
		result, err = d.db.GetRecentTransactions(ctx, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) ApplyDeposit(ctx context.Context, userAddress, amountMotes, sharesMotes string) error {
	return d.run("ApplyDeposit", func() error {
		return d.db.ApplyDeposit(ctx, userAddress, amountMotes, sharesMotes)
	})
}

func (d *DbWithMetrics) ApplyWithdrawal(ctx context.Context, userAddress, sharesMotes string) error {
	return d.run("ApplyWithdrawal", func() error {
		return d.db.ApplyWithdrawal(ctx, userAddress, sharesMotes)
	})
}

func (d *DbWithMetrics) GetUserPosition(ctx context.Context, userAddress string) (result *model.UserPosition, err error) {
	//nolint:errcheck
	d.run("GetUserPosition", func() error {
		result, err = d.db.GetUserPosition(ctx, userAddress)
		return err
	})
	return
}

func (d *DbWithMetrics) CalculatePoolStats(ctx context.Context) (result *model.PoolStats, err error) {
	//nolint:errcheck
	d.run("CalculatePoolStats", func() error {
		result, err = d.db.CalculatePoolStats(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SavePoolStats(ctx context.Context, stats *model.PoolStats) error {
	return d.run("SavePoolStats", func() error {
		return d.db.SavePoolStats(ctx, stats)
	})
}

func (d *DbWithMetrics) GetLatestPoolStats(ctx context.Context) (result *model.PoolStats, err error) {
	//nolint:errcheck
	d.run("GetLatestPoolStats", func() error {
		result, err = d.db.GetLatestPoolStats(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
