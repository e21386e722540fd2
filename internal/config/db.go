package config

import "errors"

type DbConfig struct {
	// DSN is the Postgres connection string for the ledger store.
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max-conns"`
}

func (cfg *DbConfig) Validate() error {
	if cfg.DSN == "" {
		return errors.New("db dsn is required")
	}
	return nil
}
