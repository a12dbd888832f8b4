package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/governance"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// UpdateRewardParameters changes the base reward and LP boost once a vote approved it.
func (s *Service) UpdateRewardParameters(ctx context.Context, req UpdateRewardParametersRequest) (*model.Governance, *types.Error) {
	return runOperation(ctx, types.OpUpdateParameters, req.Caller,
		func(ctx context.Context) (*model.Governance, *types.Error) {
			gov, err := s.loadGovernance(ctx)
			if err != nil {
				return nil, err
			}

			next, updateErr := governance.UpdateParameters(*gov, s.limits, req.BaseRewardPct, req.LPBoostPct)
			if updateErr != nil {
				return nil, asError(updateErr, "failed to update reward parameters")
			}

			*gov = next
			if err := s.commit(ctx, gov); err != nil {
				return nil, err
			}

			log.Ctx(ctx).Info().
				Uint8("reward_percentage", gov.RewardPercentage).
				Uint8("lp_boost", gov.LPBoost).
				Msg("reward parameters updated")
			return gov, nil
		})
}

// SetGovernanceApproval records the outcome of the external vote.
func (s *Service) SetGovernanceApproval(ctx context.Context, req SetGovernanceApprovalRequest) (*model.Governance, *types.Error) {
	return runOperation(ctx, types.OpSetApproval, req.Caller,
		func(ctx context.Context) (*model.Governance, *types.Error) {
			gov, err := s.loadGovernance(ctx)
			if err != nil {
				return nil, err
			}

			next, approvalErr := governance.SetApproval(*gov, req.Caller, req.Approved, req.TotalVotes)
			if approvalErr != nil {
				return nil, asError(approvalErr, "failed to set governance approval")
			}

			*gov = next
			if err := s.commit(ctx, gov); err != nil {
				return nil, err
			}

			log.Ctx(ctx).Info().
				Bool("approved", gov.DAOApproved).
				Uint64("total_votes", gov.TotalVotes).
				Msg("governance approval recorded")
			return gov, nil
		})
}
