package db

import (
	"context"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
)

type DbInterface interface {
	Ping(ctx context.Context) error

	// SaveTransaction appends a mirrored transaction. Returns a
	// *DuplicateKeyError when the deploy hash was already recorded; any other
	// error is a persistence fault.
	SaveTransaction(ctx context.Context, tx *model.Transaction) error
	GetUserTransactions(ctx context.Context, userAddress string, limit int) ([]model.Transaction, error)
	GetRecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error)

	// ApplyDeposit folds a deposit into the user's position in a single
	// atomic upsert: shares and lifetime-deposited both increase.
	ApplyDeposit(ctx context.Context, userAddress, amountMotes, sharesMotes string) error
	// ApplyWithdrawal burns shares from an existing position. The deposited
	// total is untouched and a missing position is a no-op.
	ApplyWithdrawal(ctx context.Context, userAddress, sharesMotes string) error
	// GetUserPosition returns a *NotFoundError when the user has no position.
	GetUserPosition(ctx context.Context, userAddress string) (*model.UserPosition, error)

	// CalculatePoolStats recomputes pool totals from the full transaction log.
	CalculatePoolStats(ctx context.Context) (*model.PoolStats, error)
	SavePoolStats(ctx context.Context, stats *model.PoolStats) error
	// GetLatestPoolStats returns a *NotFoundError when no snapshot exists yet.
	GetLatestPoolStats(ctx context.Context) (*model.PoolStats, error)
}
