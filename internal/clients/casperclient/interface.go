package casperclient

import (
	"context"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/types"
)

// NotificationHandler receives every DeployProcessed notification read from
// the stream, in arrival order.
type NotificationHandler func(notification *types.DeployNotification)

// StreamInterface is the event-stream connection manager: one persistent
// subscription to the deploy feed of a single contract.
type StreamInterface interface {
	// Start opens the connection and serves notifications to the handler
	// until Stop is called. It returns immediately; connection management
	// runs in the background.
	Start(ctx context.Context, handler NotificationHandler) error
	// Stop tears down the connection and suppresses further reconnects.
	// Safe to call multiple times.
	Stop() error
}
