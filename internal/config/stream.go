package config

import (
	"errors"
	"strings"
	"time"
)

type StreamConfig struct {
	// Endpoint is the websocket URL of the event streaming service.
	Endpoint string `mapstructure:"endpoint"`
	// ContractHash identifies the yield-optimizer contract whose deploys are
	// subscribed to.
	ContractHash      string        `mapstructure:"contract-hash"`
	ReconnectInterval time.Duration `mapstructure:"reconnect-interval"`
	HandshakeTimeout  time.Duration `mapstructure:"handshake-timeout"`
}

func (cfg *StreamConfig) Validate() error {
	if cfg.Endpoint == "" {
		return errors.New("stream endpoint is required")
	}
	if !strings.HasPrefix(cfg.Endpoint, "ws://") && !strings.HasPrefix(cfg.Endpoint, "wss://") {
		return errors.New("stream endpoint must be a ws:// or wss:// URL")
	}
	if cfg.ContractHash == "" {
		return errors.New("stream contract-hash is required")
	}
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = 5 * time.Second
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	return nil
}
