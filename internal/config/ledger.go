package config

import "errors"

const defaultLedgerStateFile = "ledger.json"

// LedgerConfig configures the local token ledger used by the command line tool.
// Deployments embedding the engine provide their own ledger implementation instead.
type LedgerConfig struct {
	StateFile string `mapstructure:"state-file"`
}

func DefaultLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		StateFile: defaultLedgerStateFile,
	}
}

func (cfg *LedgerConfig) Validate() error {
	if cfg.StateFile == "" {
		return errors.New("ledger state-file is required")
	}

	return nil
}
