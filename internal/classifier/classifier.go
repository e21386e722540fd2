package classifier

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/types"
)

// Classifier turns a raw deploy notification into zero or more domain events.
// It is an interface so the transform-matching heuristic below can be swapped
// for a real contract-event schema decoder without touching ingestion or
// ledger code.
type Classifier interface {
	Classify(notification *types.DeployNotification) []types.DomainEvent
}

// Marker tokens emitted by the yield-optimizer contract's event encoding.
const (
	depositMarker    = "Deposit"
	withdrawalMarker = "Withdrawal"
	rebalanceMarker  = "Rebalance"
)

// TransformMatcher classifies transforms by substring matching marker tokens
// against the transform key and raw body. This is knowingly approximate:
// stable classification would require the contract's event schema, which the
// toolchain does not publish for this contract.
type TransformMatcher struct{}

var _ Classifier = (*TransformMatcher)(nil)

func NewTransformMatcher() *TransformMatcher {
	return &TransformMatcher{}
}

// Classify returns the domain events derived from the notification, in
// transform order. Failed deploys are logged and yield no events. Transforms
// matching no marker are skipped; missing payload fields degrade to sentinel
// values rather than rejecting the record.
func (m *TransformMatcher) Classify(n *types.DeployNotification) []types.DomainEvent {
	if n == nil {
		return nil
	}

	if n.ExecutionResult.Success == nil {
		errMsg := ""
		if n.ExecutionResult.Failure != nil {
			errMsg = n.ExecutionResult.Failure.ErrorMessage
		}
		log.Debug().
			Str("deployHash", n.DeployHash).
			Str("error", errMsg).
			Msg("Skipping failed deploy")
		return nil
	}

	var events []types.DomainEvent
	for _, transform := range n.ExecutionResult.Success.Effect.Transforms {
		switch {
		case matches(&transform, depositMarker):
			events = append(events, types.DepositEvent{
				User:        orDefault(transform.User, "unknown"),
				AmountMotes: orDefault(transform.Amount, "0"),
				SharesMotes: orDefault(transform.Shares, "0"),
				Timestamp:   n.Timestamp,
				DeployHash:  n.DeployHash,
				BlockHash:   n.BlockHash,
			})
		case matches(&transform, withdrawalMarker):
			events = append(events, types.WithdrawalEvent{
				User:        orDefault(transform.User, "unknown"),
				AmountMotes: orDefault(transform.Amount, "0"),
				SharesMotes: orDefault(transform.Shares, "0"),
				Timestamp:   n.Timestamp,
				DeployHash:  n.DeployHash,
				BlockHash:   n.BlockHash,
			})
		case matches(&transform, rebalanceMarker):
			events = append(events, types.RebalanceEvent{
				FromPool:    orDefault(transform.FromPool, "unknown"),
				ToPool:      orDefault(transform.ToPool, "unknown"),
				AmountMotes: orDefault(transform.Amount, "0"),
				Timestamp:   n.Timestamp,
				DeployHash:  n.DeployHash,
				BlockHash:   n.BlockHash,
			})
		}
	}

	return events
}

// matches tests the marker against the two candidate fields carrying event
// identity: the transform key and the raw transform body.
func matches(t *types.Transform, marker string) bool {
	return strings.Contains(t.Key, marker) || strings.Contains(string(t.Raw), marker)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
