package types

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventTypeDeposit   EventType = "deposit"
	EventTypeWithdraw  EventType = "withdraw"
	EventTypeRebalance EventType = "rebalance"
)

// SystemAddress is the user address recorded for pool-level events that are
// not attributable to a single account (rebalances).
const SystemAddress = "system"

// DomainEvent is one classified contract event derived from a successful
// deploy. A single notification may yield zero or more domain events, one per
// matching transform, in transform order.
type DomainEvent interface {
	Type() EventType
	Hash() string
}

type DepositEvent struct {
	User        string
	AmountMotes string
	SharesMotes string
	Timestamp   string
	DeployHash  string
	BlockHash   string
}

func (e DepositEvent) Type() EventType { return EventTypeDeposit }
func (e DepositEvent) Hash() string    { return e.DeployHash }

type WithdrawalEvent struct {
	User        string
	AmountMotes string
	SharesMotes string
	Timestamp   string
	DeployHash  string
	BlockHash   string
}

func (e WithdrawalEvent) Type() EventType { return EventTypeWithdraw }
func (e WithdrawalEvent) Hash() string    { return e.DeployHash }

type RebalanceEvent struct {
	FromPool    string
	ToPool      string
	AmountMotes string
	Timestamp   string
	DeployHash  string
	BlockHash   string
}

func (e RebalanceEvent) Type() EventType { return EventTypeRebalance }
func (e RebalanceEvent) Hash() string    { return e.DeployHash }
