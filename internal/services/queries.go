package services

import (
	"context"

	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

func (s *Service) GetGlobalState(ctx context.Context) (*model.GlobalState, *types.Error) {
	return s.loadGlobalState(ctx)
}

func (s *Service) GetGovernance(ctx context.Context) (*model.Governance, *types.Error) {
	return s.loadGovernance(ctx)
}

// The per-principal getters return a zero record with version 0 for unknown principals.

func (s *Service) GetTraderVolume(ctx context.Context, trader types.Address) (*model.TraderVolume, *types.Error) {
	tv, err := s.db.LoadOrCreateTraderVolume(ctx, trader)
	if err != nil {
		return nil, asError(err, "failed to load trader volume")
	}
	return tv, nil
}

func (s *Service) GetStakePosition(ctx context.Context, owner types.Address) (*model.StakePosition, *types.Error) {
	pos, err := s.db.LoadOrCreateStakePosition(ctx, owner)
	if err != nil {
		return nil, asError(err, "failed to load stake position")
	}
	return pos, nil
}

func (s *Service) GetNFTStake(ctx context.Context, owner types.Address) (*model.NFTStake, *types.Error) {
	nft, err := s.db.LoadOrCreateNFTStake(ctx, owner)
	if err != nil {
		return nil, asError(err, "failed to load nft stake")
	}
	return nft, nil
}

func (s *Service) GetLPStake(ctx context.Context, owner types.Address) (*model.LPStake, *types.Error) {
	lp, err := s.db.LoadOrCreateLPStake(ctx, owner)
	if err != nil {
		return nil, asError(err, "failed to load lp stake")
	}
	return lp, nil
}
