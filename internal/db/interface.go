package db

import (
	"context"

	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

type DbInterface interface {
	Ping(ctx context.Context) error

	// GetGlobalState returns NotFoundError before initialization
	GetGlobalState(ctx context.Context) (*model.GlobalState, error)
	// GetGovernance returns NotFoundError before initialization
	GetGovernance(ctx context.Context) (*model.Governance, error)

	// LoadOrCreate* reconstruct the record key from the owner and return either the
	// committed record or a fresh one with version zero. Nothing is written until Commit.
	LoadOrCreateTraderVolume(ctx context.Context, trader types.Address) (*model.TraderVolume, error)
	LoadOrCreateStakePosition(ctx context.Context, owner types.Address) (*model.StakePosition, error)
	LoadOrCreateNFTStake(ctx context.Context, owner types.Address) (*model.NFTStake, error)
	LoadOrCreateLPStake(ctx context.Context, owner types.Address) (*model.LPStake, error)

	// Commit writes all records or none of them. Each write is conditioned on the
	// version the record was loaded with; a mismatch yields VersionConflictError.
	// On success every record's version is advanced.
	Commit(ctx context.Context, records ...model.Record) error

	// Revert undoes a Commit whose follow-up work failed. Each record is the
	// state it held before that Commit, at the version it was loaded with. The
	// stored version must be exactly one ahead or the call fails with
	// VersionConflictError and nothing is written. Records created by the Commit
	// are deleted; the others are restored with their version advanced again so
	// holders of the undone state cannot commit over it.
	Revert(ctx context.Context, previous ...model.Record) error
}

// finder is the read primitive both backends provide
type finder interface {
	find(ctx context.Context, collection, key string, out model.Record) error
}

func load[T model.Record](ctx context.Context, f finder, rec T) (T, error) {
	if err := f.find(ctx, rec.CollectionName(), rec.Key(), rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func loadOrCreate[T model.Record](ctx context.Context, f finder, rec T) (T, error) {
	err := f.find(ctx, rec.CollectionName(), rec.Key(), rec)
	if err != nil && !IsNotFoundError(err) {
		var zero T
		return zero, err
	}
	return rec, nil
}

// checkCommit rejects commits that would write the same record twice
func checkCommit(records []model.Record) error {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		id := rec.CollectionName() + "/" + rec.Key()
		if _, ok := seen[id]; ok {
			return &DuplicateKeyError{
				Key:     rec.Key(),
				Message: "record " + id + " appears twice in one commit",
			}
		}
		seen[id] = struct{}{}
	}
	return nil
}

// restoredVersion is the version a reverted record is written back with
func restoredVersion(previous int64) int64 {
	return previous + 2
}

func versionConflict(rec model.Record, expected int64) *VersionConflictError {
	return &VersionConflictError{
		Key:      rec.Key(),
		Expected: expected,
		Message:  "record " + rec.CollectionName() + "/" + rec.Key() + " was modified since it was loaded",
	}
}
