package types

// TxStatus is the persisted execution status of a mirrored transaction.
type TxStatus string

func (s TxStatus) String() string {
	return string(s)
}

const (
	TxStatusPending TxStatus = "pending"
	TxStatusSuccess TxStatus = "success"
	TxStatusFailed  TxStatus = "failed"
)
