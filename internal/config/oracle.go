package config

import (
	"errors"
	"net/url"
	"time"
)

const (
	defaultOracleTimeout       = 10 * time.Second
	defaultOracleMaxRetryTimes = 3
	defaultOracleRetryInterval = 500 * time.Millisecond
	defaultOracleCacheTTL      = 2 * time.Second
	defaultOracleRateLimit     = 10
	defaultOracleBurst         = 5
)

// OracleConfig configures the price feed gateway. With an empty endpoint the
// gateway serves StaticPrices only.
type OracleConfig struct {
	Endpoint          string           `mapstructure:"endpoint"`
	Timeout           time.Duration    `mapstructure:"timeout"`
	MaxRetryTimes     uint             `mapstructure:"max-retry-times"`
	RetryInterval     time.Duration    `mapstructure:"retry-interval"`
	CacheTTL          time.Duration    `mapstructure:"cache-ttl"`
	RequestsPerSecond float64          `mapstructure:"requests-per-second"`
	Burst             int              `mapstructure:"burst"`
	StaticPrices      map[string]int64 `mapstructure:"static-prices"`
}

func DefaultOracleConfig() *OracleConfig {
	return &OracleConfig{
		Timeout:           defaultOracleTimeout,
		MaxRetryTimes:     defaultOracleMaxRetryTimes,
		RetryInterval:     defaultOracleRetryInterval,
		CacheTTL:          defaultOracleCacheTTL,
		RequestsPerSecond: defaultOracleRateLimit,
		Burst:             defaultOracleBurst,
	}
}

func (cfg *OracleConfig) IsStatic() bool {
	return cfg.Endpoint == ""
}

func (cfg *OracleConfig) Validate() error {
	if cfg.IsStatic() {
		if len(cfg.StaticPrices) == 0 {
			return errors.New("either oracle endpoint or static-prices must be set")
		}
		return nil
	}

	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return errors.New("oracle endpoint must be a valid url")
	}

	if cfg.Timeout <= 0 {
		return errors.New("oracle timeout must be positive")
	}

	if cfg.MaxRetryTimes == 0 {
		return errors.New("oracle max-retry-times must be positive")
	}

	if cfg.RetryInterval <= 0 {
		return errors.New("oracle retry-interval must be positive")
	}

	if cfg.RequestsPerSecond <= 0 {
		return errors.New("oracle requests-per-second must be positive")
	}

	if cfg.Burst <= 0 {
		return errors.New("oracle burst must be positive")
	}

	// zero disables caching
	if cfg.CacheTTL < 0 {
		return errors.New("oracle cache-ttl must not be negative")
	}

	return nil
}
