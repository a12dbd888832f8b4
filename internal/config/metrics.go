package config

import (
	"errors"
	"fmt"
	"net"
	"time"
)

const (
	defaultMetricsPort          = 2112
	defaultStatsPollingInterval = 30 * time.Second
)

type MetricsConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// StatsPollingInterval is how often protocol state is exported as gauges
	StatsPollingInterval time.Duration `mapstructure:"stats-polling-interval"`
}

func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Host:                 "0.0.0.0",
		Port:                 defaultMetricsPort,
		StatsPollingInterval: defaultStatsPollingInterval,
	}
}

func (cfg *MetricsConfig) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("metrics server port must be between 0 and 65535 (inclusive)")
	}

	ip := net.ParseIP(cfg.Host)
	if ip == nil {
		return fmt.Errorf("invalid metrics server host: %v", cfg.Host)
	}

	if cfg.StatsPollingInterval <= 0 {
		return errors.New("stats-polling-interval must be positive")
	}

	return nil
}

func (cfg *MetricsConfig) GetMetricsPort() int {
	return cfg.Port
}
