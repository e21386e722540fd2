package services

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/types"
)

// fakeDB is an in-memory DbInterface mirroring the store's semantics closely
// enough for pipeline tests: duplicate deploy hashes are rejected, position
// folds use big-int arithmetic and stats are recomputed from the log.
type fakeDB struct {
	mu        sync.Mutex
	txs       []model.Transaction
	byHash    map[string]struct{}
	positions map[string]*model.UserPosition
	snapshots []*model.PoolStats
}

var _ db.DbInterface = (*fakeDB)(nil)

func newFakeDB() *fakeDB {
	return &fakeDB{
		byHash:    make(map[string]struct{}),
		positions: make(map[string]*model.UserPosition),
	}
}

func (f *fakeDB) Ping(ctx context.Context) error { return nil }

func (f *fakeDB) SaveTransaction(ctx context.Context, tx *model.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byHash[tx.DeployHash]; ok {
		return &db.DuplicateKeyError{Key: tx.DeployHash, Message: "transaction already recorded"}
	}
	f.byHash[tx.DeployHash] = struct{}{}

	stored := *tx
	stored.ID = int64(len(f.txs) + 1)
	stored.CreatedAt = time.Now().UTC()
	f.txs = append(f.txs, stored)
	return nil
}

func (f *fakeDB) GetUserTransactions(ctx context.Context, userAddress string, limit int) ([]model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Transaction, 0)
	for i := len(f.txs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.txs[i].UserAddress == userAddress {
			out = append(out, f.txs[i])
		}
	}
	return out, nil
}

func (f *fakeDB) GetRecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Transaction, 0)
	for i := len(f.txs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.txs[i])
	}
	return out, nil
}

func (f *fakeDB) ApplyDeposit(ctx context.Context, userAddress, amountMotes, sharesMotes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	pos, ok := f.positions[userAddress]
	if !ok {
		pos = &model.UserPosition{UserAddress: userAddress, TotalShares: "0", TotalDeposited: "0"}
		f.positions[userAddress] = pos
	}
	pos.TotalShares = addDecimal(pos.TotalShares, sharesMotes)
	pos.TotalDeposited = addDecimal(pos.TotalDeposited, amountMotes)
	pos.LastUpdate = time.Now().UTC()
	return nil
}

func (f *fakeDB) ApplyWithdrawal(ctx context.Context, userAddress, sharesMotes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	pos, ok := f.positions[userAddress]
	if !ok {
		return nil
	}
	pos.TotalShares = subDecimal(pos.TotalShares, sharesMotes)
	pos.LastUpdate = time.Now().UTC()
	return nil
}

func (f *fakeDB) GetUserPosition(ctx context.Context, userAddress string) (*model.UserPosition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pos, ok := f.positions[userAddress]
	if !ok {
		return nil, &db.NotFoundError{Key: userAddress, Message: "user position not found"}
	}
	copied := *pos
	return &copied, nil
}

func (f *fakeDB) CalculatePoolStats(ctx context.Context) (*model.PoolStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make(map[string]struct{})
	deposits := big.NewInt(0)
	withdrawals := big.NewInt(0)

	for _, tx := range f.txs {
		users[tx.UserAddress] = struct{}{}
		if tx.Status != types.TxStatusSuccess {
			continue
		}
		amount, _ := new(big.Int).SetString(tx.Amount, 10)
		if amount == nil {
			continue
		}
		switch tx.Type {
		case types.EventTypeDeposit:
			deposits.Add(deposits, amount)
		case types.EventTypeWithdraw:
			withdrawals.Add(withdrawals, amount)
		}
	}

	tvl := new(big.Int).Sub(deposits, withdrawals)
	return &model.PoolStats{
		TotalUsers:       uint64(len(users)),
		TotalDeposits:    deposits.String(),
		TotalWithdrawals: withdrawals.String(),
		Tvl:              tvl.String(),
	}, nil
}

func (f *fakeDB) SavePoolStats(ctx context.Context, stats *model.PoolStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *stats
	copied.ID = int64(len(f.snapshots) + 1)
	f.snapshots = append(f.snapshots, &copied)
	return nil
}

func (f *fakeDB) GetLatestPoolStats(ctx context.Context) (*model.PoolStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.snapshots) == 0 {
		return nil, &db.NotFoundError{Key: "pool_stats", Message: "no pool stats snapshot published yet"}
	}
	copied := *f.snapshots[len(f.snapshots)-1]
	return &copied, nil
}

func addDecimal(a, b string) string {
	x, _ := new(big.Int).SetString(a, 10)
	y, _ := new(big.Int).SetString(b, 10)
	return new(big.Int).Add(x, y).String()
}

func subDecimal(a, b string) string {
	x, _ := new(big.Int).SetString(a, 10)
	y, _ := new(big.Int).SetString(b, 10)
	return new(big.Int).Sub(x, y).String()
}
