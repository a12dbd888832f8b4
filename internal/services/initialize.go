package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/multiyield-labs/multiyield-engine/internal/db"
	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/ledger"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// Initialize creates the global state and governance singletons. It can run once per deployment.
func (s *Service) Initialize(ctx context.Context, req InitializeRequest) (*model.GlobalState, *types.Error) {
	return runOperation(ctx, types.OpInitialize, req.GovernanceAuthority,
		func(ctx context.Context) (*model.GlobalState, *types.Error) {
			if req.Mint.IsZero() {
				return nil, types.NewErrorWithMsg(types.InvalidArgument, "mint is required")
			}

			_, err := s.db.GetGlobalState(ctx)
			if err == nil {
				return nil, types.NewErrorWithMsg(types.AlreadyInitialized, "global state already exists")
			}
			if !db.IsNotFoundError(err) {
				return nil, asError(err, "failed to load global state")
			}

			gs := model.NewGlobalState(req.Mint, req.Bump)
			gov := model.NewGovernance(req.GovernanceAuthority)

			if err := s.db.Commit(ctx, gs, gov); err != nil {
				if db.IsVersionConflictError(err) {
					return nil, types.NewError(types.AlreadyInitialized.StatusCode(), types.AlreadyInitialized, err)
				}
				return nil, asError(err, "failed to create global state")
			}

			log.Ctx(ctx).Info().
				Stringer("mint", req.Mint).
				Uint8("bump", req.Bump).
				Stringer("mint_authority", ledger.MintAuthority(req.Bump).Address()).
				Msg("protocol initialized")
			return gs, nil
		})
}
