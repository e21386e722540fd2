package types

import "encoding/json"

// DeployNotification is the raw message received from the event stream for a
// processed deploy. Only messages with EventType == DeployProcessedEventType
// are handled; everything else on the wire is ignored.
type DeployNotification struct {
	EventType       string          `json:"event_type"`
	DeployHash      string          `json:"deploy_hash"`
	Account         string          `json:"account"`
	Timestamp       string          `json:"timestamp"`
	BlockHash       string          `json:"block_hash"`
	ExecutionResult ExecutionResult `json:"execution_result"`
}

const DeployProcessedEventType = "DeployProcessed"

// ExecutionResult mirrors the node's tagged union: exactly one of Success or
// Failure is set.
type ExecutionResult struct {
	Success *ExecutionSuccess `json:"Success,omitempty"`
	Failure *ExecutionFailure `json:"Failure,omitempty"`
}

type ExecutionSuccess struct {
	Effect    Effect   `json:"effect"`
	Transfers []string `json:"transfers"`
	Cost      string   `json:"cost"`
}

type ExecutionFailure struct {
	ErrorMessage string `json:"error_message"`
}

type Effect struct {
	Transforms []Transform `json:"transforms"`
}

// Transform is an opaque state-change record attached to a deploy's effect.
// There is no guaranteed schema: the contract toolchain does not publish a
// stable event encoding, so the fields below are best-effort. Raw carries the
// untyped "transform" body for substring matching.
type Transform struct {
	Key string          `json:"key"`
	Raw json.RawMessage `json:"transform,omitempty"`

	User     string `json:"user,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Shares   string `json:"shares,omitempty"`
	FromPool string `json:"from_pool,omitempty"`
	ToPool   string `json:"to_pool,omitempty"`
}
