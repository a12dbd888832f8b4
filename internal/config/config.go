package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "MULTIYIELD"

type Config struct {
	Db      DbConfig      `mapstructure:"db"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Oracle  OracleConfig  `mapstructure:"oracle"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	Queue   *QueueConfig  `mapstructure:"queue"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Default returns a config with every optional value set to its default.
func Default() *Config {
	return &Config{
		Db:      *DefaultDbConfig(),
		Engine:  *DefaultEngineConfig(),
		Oracle:  *DefaultOracleConfig(),
		Ledger:  *DefaultLedgerConfig(),
		Metrics: *DefaultMetricsConfig(),
	}
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return fmt.Errorf("invalid db config: %w", err)
	}

	if err := cfg.Engine.Validate(); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}

	if err := cfg.Oracle.Validate(); err != nil {
		return fmt.Errorf("invalid oracle config: %w", err)
	}

	if err := cfg.Ledger.Validate(); err != nil {
		return fmt.Errorf("invalid ledger config: %w", err)
	}

	// queue is optional, reward events are not published without it
	if cfg.Queue != nil {
		if err := cfg.Queue.Validate(); err != nil {
			return fmt.Errorf("invalid queue config: %w", err)
		}
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	return nil
}

// New returns a fully parsed Config object from a given file path.
// Values from the environment (MULTIYIELD_ENGINE_MIN_UNIQUE_TRADERS, ...) take precedence.
func New(cfgFile string) (*Config, error) {
	if cfgFile == "" {
		return nil, errors.New("config file path is required")
	}

	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", cfgFile, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
