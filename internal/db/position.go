package db

import (
	"context"
	"fmt"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
)

// ApplyDeposit folds a deposit into the user's position. The arithmetic runs
// inside a single upsert so concurrent events for the same user cannot lose
// updates, even across processes.
func (db *Database) ApplyDeposit(ctx context.Context, userAddress, amountMotes, sharesMotes string) error {
	query := `
		INSERT INTO user_positions (user_address, total_shares, total_deposited, last_update)
		VALUES ($1, $2::numeric, $3::numeric, now())
		ON CONFLICT (user_address) DO UPDATE SET
			total_shares = user_positions.total_shares + EXCLUDED.total_shares,
			total_deposited = user_positions.total_deposited + EXCLUDED.total_deposited,
			last_update = EXCLUDED.last_update
	`

	if _, err := db.pool.Exec(ctx, query, userAddress, sharesMotes, amountMotes); err != nil {
		return fmt.Errorf("apply deposit for %s: %w", userAddress, err)
	}
	return nil
}

// ApplyWithdrawal burns shares from an existing position. total_deposited is
// a lifetime counter and stays unchanged. A user without a position is left
// untouched; the transaction log still carries the withdrawal.
func (db *Database) ApplyWithdrawal(ctx context.Context, userAddress, sharesMotes string) error {
	query := `
		UPDATE user_positions
		SET total_shares = total_shares - $2::numeric,
		    last_update = now()
		WHERE user_address = $1
	`

	if _, err := db.pool.Exec(ctx, query, userAddress, sharesMotes); err != nil {
		return fmt.Errorf("apply withdrawal for %s: %w", userAddress, err)
	}
	return nil
}

func (db *Database) GetUserPosition(ctx context.Context, userAddress string) (*model.UserPosition, error) {
	query := `
		SELECT user_address, total_shares::text, total_deposited::text, last_update
		FROM user_positions
		WHERE user_address = $1
	`

	var pos model.UserPosition
	err := db.pool.QueryRow(ctx, query, userAddress).Scan(
		&pos.UserAddress,
		&pos.TotalShares,
		&pos.TotalDeposited,
		&pos.LastUpdate,
	)
	if err != nil {
		if isNoRowsError(err) {
			return nil, &NotFoundError{
				Key:     userAddress,
				Message: "user position not found",
			}
		}
		return nil, fmt.Errorf("get user position: %w", err)
	}

	return &pos, nil
}
