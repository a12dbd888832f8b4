package config

import (
	"fmt"
	"net/url"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"

	defaultDbName = "multiyield"
)

type DbConfig struct {
	// Backend selects the record store, either "mongo" or "memory"
	Backend  string `mapstructure:"backend"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"db-name"`
	Address  string `mapstructure:"address"`
	// Transactions wraps each commit in a multi-document transaction (requires a replica set)
	Transactions bool `mapstructure:"transactions"`
	// StateFile persists the memory backend between runs; empty keeps it in process only
	StateFile string `mapstructure:"state-file"`
}

func DefaultDbConfig() *DbConfig {
	return &DbConfig{
		Backend: BackendMongo,
		DbName:  defaultDbName,
	}
}

func (cfg *DbConfig) Validate() error {
	switch cfg.Backend {
	case BackendMemory:
		return nil
	case BackendMongo:
	default:
		return fmt.Errorf("unknown db backend %q", cfg.Backend)
	}

	if cfg.DbName == "" {
		return fmt.Errorf("db name is required")
	}

	if cfg.Address == "" {
		return fmt.Errorf("db address is required")
	}

	parsed, err := url.Parse(cfg.Address)
	if err != nil {
		return fmt.Errorf("invalid db address: %w", err)
	}
	if parsed.Scheme != "mongodb" && parsed.Scheme != "mongodb+srv" {
		return fmt.Errorf("invalid db address scheme %q", parsed.Scheme)
	}

	return nil
}
