package model

import (
	"time"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/types"
)

// Transaction is one mirrored deploy in the append-only transaction log.
// Mote amounts are decimal strings; they can exceed the 64-bit range and are
// stored as NUMERIC(39,0) so no precision is lost.
type Transaction struct {
	ID          int64           `json:"id"`
	DeployHash  string          `json:"deploy_hash"`
	UserAddress string          `json:"user_address"`
	Type        types.EventType `json:"type"`
	Amount      string          `json:"amount"`
	Shares      *string         `json:"shares"`
	Timestamp   string          `json:"timestamp"`
	BlockHash   *string         `json:"block_hash"`
	Status      types.TxStatus  `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}
