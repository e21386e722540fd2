package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
)

func (db *Database) SaveTransaction(ctx context.Context, tx *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			deploy_hash, user_address, type, amount, shares, timestamp, block_hash, status
		) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8)
	`

	_, err := db.pool.Exec(ctx, query,
		tx.DeployHash,
		tx.UserAddress,
		tx.Type.String(),
		tx.Amount,
		tx.Shares,
		tx.Timestamp,
		tx.BlockHash,
		tx.Status.String(),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return &DuplicateKeyError{
				Key:     tx.DeployHash,
				Message: "transaction already recorded",
			}
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

const transactionColumns = `
	id, deploy_hash, user_address, type,
	amount::text, shares::text, timestamp, block_hash, status, created_at
`

func (db *Database) GetUserTransactions(ctx context.Context, userAddress string, limit int) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_address = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2
	`

	rows, err := db.pool.Query(ctx, query, userAddress, limit)
	if err != nil {
		return nil, fmt.Errorf("get user transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (db *Database) GetRecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY timestamp DESC, id DESC
		LIMIT $1
	`

	rows, err := db.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]model.Transaction, error) {
	txs := make([]model.Transaction, 0)

	for rows.Next() {
		var tx model.Transaction
		err := rows.Scan(
			&tx.ID,
			&tx.DeployHash,
			&tx.UserAddress,
			&tx.Type,
			&tx.Amount,
			&tx.Shares,
			&tx.Timestamp,
			&tx.BlockHash,
			&tx.Status,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txs, nil
}
