package config

import "fmt"

type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

func (cfg *MetricsConfig) Validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("metrics port must be in the 1-65535 range")
	}
	return nil
}

func (cfg *MetricsConfig) GetMetricsPort() int {
	return cfg.Port
}
