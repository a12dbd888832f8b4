package config

import (
	"errors"
	"fmt"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

const (
	defaultMinUniqueTraders  = 5
	defaultMinHoldSeconds    = 60
	defaultPriceBandDivisor  = 20 // ±5%
	defaultNFTFloorThreshold = 1000
	defaultMaxBaseRewardPct  = 50
	defaultMaxLPBoostPct     = 10
)

// EngineConfig holds the economic thresholds and the protocol-owned destinations.
type EngineConfig struct {
	MinUniqueTraders  uint64 `mapstructure:"min-unique-traders"`
	MinHoldSeconds    int64  `mapstructure:"min-hold-seconds"`
	PriceBandDivisor  uint64 `mapstructure:"price-band-divisor"`
	NFTFloorThreshold int64  `mapstructure:"nft-floor-threshold"`
	MaxBaseRewardPct  uint8  `mapstructure:"max-base-reward-pct"`
	MaxLPBoostPct     uint8  `mapstructure:"max-lp-boost-pct"`

	TradePriceFeed string `mapstructure:"trade-price-feed"`
	NFTFloorFeed   string `mapstructure:"nft-floor-feed"`

	// InsurancePool is optional; without it traders receive the whole reward
	InsurancePool string `mapstructure:"insurance-pool"`
	DAOTreasury   string `mapstructure:"dao-treasury"`
	StakingPool   string `mapstructure:"staking-pool"`
	LPStakingPool string `mapstructure:"lp-staking-pool"`
}

func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		MinUniqueTraders:  defaultMinUniqueTraders,
		MinHoldSeconds:    defaultMinHoldSeconds,
		PriceBandDivisor:  defaultPriceBandDivisor,
		NFTFloorThreshold: defaultNFTFloorThreshold,
		MaxBaseRewardPct:  defaultMaxBaseRewardPct,
		MaxLPBoostPct:     defaultMaxLPBoostPct,
	}
}

func (cfg *EngineConfig) Validate() error {
	if cfg.MinUniqueTraders == 0 {
		return errors.New("min-unique-traders must be positive")
	}

	if cfg.MinHoldSeconds < 0 {
		return errors.New("min-hold-seconds must not be negative")
	}

	if cfg.PriceBandDivisor == 0 {
		return errors.New("price-band-divisor must be positive")
	}

	if cfg.MaxBaseRewardPct > 100 || cfg.MaxLPBoostPct > 100 {
		return errors.New("governance ceilings must not exceed 100")
	}

	if cfg.TradePriceFeed == "" {
		return errors.New("trade-price-feed is required")
	}

	if cfg.NFTFloorFeed == "" {
		return errors.New("nft-floor-feed is required")
	}

	required := map[string]string{
		"dao-treasury":    cfg.DAOTreasury,
		"staking-pool":    cfg.StakingPool,
		"lp-staking-pool": cfg.LPStakingPool,
	}
	for name, value := range required {
		if _, err := types.ParseAddress(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if cfg.InsurancePool != "" {
		if _, err := types.ParseAddress(cfg.InsurancePool); err != nil {
			return fmt.Errorf("insurance-pool: %w", err)
		}
	}

	return nil
}

// Destinations resolves the configured protocol accounts. Validate must have passed.
func (cfg *EngineConfig) Destinations() (Destinations, error) {
	var (
		d   Destinations
		err error
	)
	if cfg.InsurancePool != "" {
		if d.InsurancePool, err = types.ParseAddress(cfg.InsurancePool); err != nil {
			return d, err
		}
	}
	if d.DAOTreasury, err = types.ParseAddress(cfg.DAOTreasury); err != nil {
		return d, err
	}
	if d.StakingPool, err = types.ParseAddress(cfg.StakingPool); err != nil {
		return d, err
	}
	if d.LPStakingPool, err = types.ParseAddress(cfg.LPStakingPool); err != nil {
		return d, err
	}
	return d, nil
}

// Destinations are the protocol-owned token accounts rewards and stakes flow to.
// A zero InsurancePool means no insurance fee is diverted.
type Destinations struct {
	InsurancePool types.Address
	DAOTreasury   types.Address
	StakingPool   types.Address
	LPStakingPool types.Address
}
