package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/multiyield-labs/multiyield-engine/internal/db"
	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/ledger"
	"github.com/multiyield-labs/multiyield-engine/internal/observability/metrics"
	"github.com/multiyield-labs/multiyield-engine/internal/observability/tracing"
	"github.com/multiyield-labs/multiyield-engine/internal/queue"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
	"github.com/multiyield-labs/multiyield-engine/internal/utils/arith"
)

// runOperation records latency and rejections for a request and logs its outcome
func runOperation[T any](
	ctx context.Context,
	op types.Operation,
	principal types.Address,
	f func(ctx context.Context) (T, *types.Error),
) (T, *types.Error) {
	ctx = tracing.WithRequest(ctx, op.String(), principal.String())

	startTime := time.Now()
	res, err := f(ctx)
	metrics.RecordRequestDuration(time.Since(startTime), op.String(), err != nil)

	if err != nil {
		metrics.IncRejectedRequests(op.String(), err.ErrorCode.String())
		if err.StatusCode >= http.StatusInternalServerError {
			log.Ctx(ctx).Error().Err(err).Msg("request failed")
		} else {
			log.Ctx(ctx).Debug().Str("code", err.ErrorCode.String()).Err(err).Msg("request rejected")
		}
	}
	return res, err
}

// asError keeps typed errors and classifies everything else as internal
func asError(err error, format string, args ...any) *types.Error {
	var typed *types.Error
	if errors.As(err, &typed) {
		return typed
	}
	return types.NewInternalServiceError(fmt.Errorf(format+": %w", append(args, err)...))
}

func (s *Service) loadGlobalState(ctx context.Context) (*model.GlobalState, *types.Error) {
	gs, err := s.db.GetGlobalState(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(types.NotInitialized, "protocol has not been initialized")
		}
		return nil, asError(err, "failed to load global state")
	}
	return gs, nil
}

func (s *Service) loadGovernance(ctx context.Context) (*model.Governance, *types.Error) {
	gov, err := s.db.GetGovernance(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(types.NotInitialized, "governance has not been initialized")
		}
		return nil, asError(err, "failed to load governance")
	}
	return gov, nil
}

// checkOwner guards every mutation of a per-principal record
func checkOwner(owner, caller types.Address) *types.Error {
	if owner != caller {
		return types.NewErrorWithMsg(types.OwnerMismatch, "record owned by %s, caller is %s", owner, caller)
	}
	return nil
}

// getPrice reads a feed and converts the price to an unsigned value
func (s *Service) getPrice(ctx context.Context, feed string) (int64, *types.Error) {
	data, err := s.oracle.GetPrice(ctx, feed)
	if err != nil {
		var typed *types.Error
		if errors.As(err, &typed) {
			return 0, typed
		}
		return 0, types.NewError(types.OracleError.StatusCode(), types.OracleError,
			fmt.Errorf("failed to load price feed %s: %w", feed, err))
	}
	return data.Price, nil
}

func (s *Service) getUnsignedPrice(ctx context.Context, feed string) (uint64, *types.Error) {
	price, err := s.getPrice(ctx, feed)
	if err != nil {
		return 0, err
	}
	unsigned, convErr := arith.PriceToUnsigned(price)
	if convErr != nil {
		return 0, asError(convErr, "failed to convert price")
	}
	return unsigned, nil
}

// mint is a single mint a request issues once validation has passed
type mint struct {
	destination types.Address
	kind        queue.DestinationKind
	amount      uint64
}

// issue mints every non zero amount under the protocol authority in one batch,
// so either every destination is credited or none is
func (s *Service) issue(ctx context.Context, gs *model.GlobalState, mints []mint) *types.Error {
	instructions := make([]ledger.Instruction, 0, len(mints))
	for _, m := range mints {
		if m.amount == 0 {
			continue
		}
		instructions = append(instructions, ledger.Instruction{Destination: m.destination, Amount: m.amount})
	}
	if len(instructions) == 0 {
		return nil
	}

	if err := s.ledger.MintBatch(ctx, gs.Mint, instructions, ledger.MintAuthority(gs.Bump)); err != nil {
		return asError(err, "failed to mint to %d destinations", len(instructions))
	}
	return nil
}

func (s *Service) commit(ctx context.Context, records ...model.Record) *types.Error {
	if err := s.db.Commit(ctx, records...); err != nil {
		if db.IsVersionConflictError(err) {
			return types.NewError(types.StaleRecord.StatusCode(), types.StaleRecord, err)
		}
		return asError(err, "failed to commit records")
	}
	return nil
}

// snapshot copies records before they are mutated so a failed ledger call can revert them
func snapshot(records ...model.Record) []model.Record {
	previous := make([]model.Record, len(records))
	for i, rec := range records {
		previous[i] = rec.Clone()
	}
	return previous
}

// revert undoes a commit after the ledger refused the request. The ledger error
// is what the caller sees; a failed revert is logged and left for an operator.
func (s *Service) revert(ctx context.Context, previous []model.Record, cause *types.Error) *types.Error {
	if err := s.db.Revert(ctx, previous...); err != nil {
		metrics.RecordRevertFailure()
		log.Ctx(ctx).Error().Err(err).AnErr("cause", cause).Msg("failed to revert committed records")
	}
	return cause
}

// publish emits one event per mint. Failures are logged and never undo the request.
func (s *Service) publish(
	ctx context.Context,
	op types.Operation,
	principal types.Address,
	gs *model.GlobalState,
	mints []mint,
	now int64,
) {
	events := make([]queue.RewardEvent, 0, len(mints))
	for _, m := range mints {
		if m.amount == 0 {
			continue
		}
		metrics.RecordMintedTokens(string(m.kind), m.amount)
		events = append(events, queue.NewRewardEvent(op, principal, gs.Mint, m.destination, m.kind, m.amount, now))
	}
	if len(events) == 0 {
		return
	}

	if err := s.publisher.PublishRewardEvents(ctx, events); err != nil {
		metrics.RecordQueuePublishError()
		log.Ctx(ctx).Warn().Err(err).Int("events", len(events)).Msg("failed to publish reward events")
	}
}
