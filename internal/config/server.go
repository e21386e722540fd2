package config

import (
	"errors"
	"time"
)

type ServerConfig struct {
	Port int `mapstructure:"port"`
	// CORSOrigin is the allowed origin for dashboard requests; "*" allows any.
	CORSOrigin   string        `mapstructure:"cors-origin"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle-timeout"`
}

func (cfg *ServerConfig) Validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return errors.New("server port must be in the 1-65535 range")
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	return nil
}
