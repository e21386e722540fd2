package model

import "time"

// PoolStats is one versioned snapshot of pool-wide totals, recomputed
// wholesale from the transaction log. Tvl may be negative when the mirrored
// log is inconsistent with the chain; it is deliberately not clamped.
type PoolStats struct {
	ID               int64     `json:"-"`
	Tvl              string    `json:"tvl"`
	AvgApy           float64   `json:"avgApy"`
	TotalUsers       uint64    `json:"totalUsers"`
	TotalDeposits    string    `json:"totalDeposits"`
	TotalWithdrawals string    `json:"totalWithdrawals"`
	LastUpdate       time.Time `json:"lastUpdate"`
}

// ZeroPoolStats is the documented default served before the first snapshot.
func ZeroPoolStats() *PoolStats {
	return &PoolStats{
		Tvl:              "0",
		AvgApy:           0,
		TotalUsers:       0,
		TotalDeposits:    "0",
		TotalWithdrawals: "0",
		LastUpdate:       time.Now().UTC(),
	}
}
