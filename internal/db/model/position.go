package model

import "time"

// UserPosition is the folded per-user balance, one row per user, never
// deleted. TotalDeposited is a lifetime-deposited counter: withdrawals burn
// shares but leave it unchanged.
type UserPosition struct {
	UserAddress    string    `json:"user_address"`
	TotalShares    string    `json:"total_shares"`
	TotalDeposited string    `json:"total_deposited"`
	LastUpdate     time.Time `json:"last_update"`
}

// ZeroPosition is the default returned for users with no recorded position.
func ZeroPosition(userAddress string) *UserPosition {
	return &UserPosition{
		UserAddress:    userAddress,
		TotalShares:    "0",
		TotalDeposited: "0",
		LastUpdate:     time.Now().UTC(),
	}
}
