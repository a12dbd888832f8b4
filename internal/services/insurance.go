package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// ContributeInsurance moves tokens from the contributor into the insurance pool.
func (s *Service) ContributeInsurance(ctx context.Context, req ContributeInsuranceRequest) *types.Error {
	_, err := runOperation(ctx, types.OpInsuranceContribution, req.Contributor,
		func(ctx context.Context) (struct{}, *types.Error) {
			if s.dest.InsurancePool.IsZero() {
				return struct{}{}, types.NewErrorWithMsg(types.InvalidArgument, "no insurance pool is configured")
			}

			if err := s.ledger.Transfer(ctx, req.ContributorAccount, s.dest.InsurancePool, req.Amount, req.Contributor); err != nil {
				return struct{}{}, asError(err, "failed to transfer insurance contribution")
			}

			log.Ctx(ctx).Info().Uint64("amount", req.Amount).Msg("insurance pool contribution")
			return struct{}{}, nil
		})
	return err
}
