package casperclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/config"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/observability/metrics"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/types"
)

// subscribeMessage is the directive sent after every (re)connect to scope the
// feed to the target contract's processed deploys.
type subscribeMessage struct {
	Action       string `json:"action"`
	EventType    string `json:"event_type"`
	ContractHash string `json:"contract_hash"`
}

// Client maintains a persistent websocket subscription to the streaming
// endpoint. It owns its connection state exclusively: callers interact only
// through Start and Stop. A dropped connection is redialed after a fixed
// delay, indefinitely, until Stop is called.
type Client struct {
	cfg *config.StreamConfig

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

var _ StreamInterface = (*Client)(nil)

func NewClient(cfg *config.StreamConfig) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) Start(ctx context.Context, handler NotificationHandler) error {
	if handler == nil {
		return fmt.Errorf("notification handler is required")
	}

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return fmt.Errorf("stream client already started")
	}
	c.started = true
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	log.Info().
		Str("endpoint", c.cfg.Endpoint).
		Str("contractHash", c.cfg.ContractHash).
		Msg("Starting deploy event stream")

	go c.run(runCtx, handler)

	return nil
}

// Stop suppresses the reconnect that would otherwise follow the close and
// tears down the active connection. Idempotent.
func (c *Client) Stop() error {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	cancel := c.cancel
	c.mu.Unlock()

	cancel()
	c.wg.Wait()
	log.Info().Msg("Deploy event stream stopped")
	return nil
}

// run owns the connect/serve/reconnect cycle for the lifetime of the client.
func (c *Client) run(ctx context.Context, handler NotificationHandler) {
	defer c.wg.Done()

	for {
		conn, err := c.dial(ctx)
		if err != nil {
			// Only a cancelled context ends the dial loop.
			return
		}

		// ReadMessage cannot be interrupted by the context, so a watchdog
		// closes the connection when the client is stopped.
		served := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				conn.Close()
			case <-served:
			}
		}()

		c.serve(ctx, conn, handler)
		close(served)
		conn.Close()

		if ctx.Err() != nil {
			return
		}

		log.Info().
			Dur("delay", c.cfg.ReconnectInterval).
			Msg("Stream disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectInterval):
		}
	}
}

// dial connects and subscribes, retrying at the fixed reconnect interval
// until it succeeds or the context is cancelled.
func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	return retry.DoWithData(
		func() (*websocket.Conn, error) {
			dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
			conn, _, err := dialer.DialContext(ctx, c.cfg.Endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("websocket dial %s: %w", c.cfg.Endpoint, err)
			}

			sub := subscribeMessage{
				Action:       "subscribe",
				EventType:    types.DeployProcessedEventType,
				ContractHash: c.cfg.ContractHash,
			}
			if err := conn.WriteJSON(sub); err != nil {
				conn.Close()
				return nil, fmt.Errorf("write subscribe message: %w", err)
			}

			log.Info().Msg("Subscribed to DeployProcessed events")
			return conn, nil
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(c.cfg.ReconnectInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			metrics.RecordStreamReconnect()
			log.Error().Err(err).Uint("attempt", n).Msg("Stream connect failed, retrying")
		}),
	)
}

// serve reads the connection until it errors. Malformed messages and
// unrelated event types are dropped; they never terminate the connection.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn, handler NotificationHandler) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("Stream read error")
			}
			return
		}

		var notification types.DeployNotification
		if err := json.Unmarshal(message, &notification); err != nil {
			metrics.RecordDroppedNotification()
			log.Warn().Err(err).Msg("Dropping malformed stream message")
			continue
		}

		if notification.EventType != types.DeployProcessedEventType {
			continue
		}

		handler(&notification)
	}
}
