package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

type Database struct {
	dbName       string
	client       *mongo.Client
	transactions bool
}

func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	client, err := mongo.Connect(ctx, model.ClientOptions(&cfg))
	if err != nil {
		return nil, err
	}

	return &Database{
		dbName:       cfg.DbName,
		client:       client,
		transactions: cfg.Transactions,
	}, nil
}

func (db *Database) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, nil)
}

func (db *Database) Disconnect(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *Database) collection(name string) *mongo.Collection {
	return db.client.Database(db.dbName).Collection(name)
}

func (db *Database) find(ctx context.Context, collection, key string, out model.Record) error {
	err := db.collection(collection).FindOne(ctx, bson.M{"_id": key}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &NotFoundError{
				Key:     key,
				Message: collection + " record not found",
			}
		}
		return err
	}
	return nil
}

func (db *Database) GetGlobalState(ctx context.Context) (*model.GlobalState, error) {
	return load(ctx, db, model.NewGlobalState(types.ZeroAddress, 0))
}

func (db *Database) GetGovernance(ctx context.Context) (*model.Governance, error) {
	return load(ctx, db, model.NewGovernance(types.ZeroAddress))
}

func (db *Database) LoadOrCreateTraderVolume(ctx context.Context, trader types.Address) (*model.TraderVolume, error) {
	return loadOrCreate(ctx, db, model.NewTraderVolume(trader))
}

func (db *Database) LoadOrCreateStakePosition(ctx context.Context, owner types.Address) (*model.StakePosition, error) {
	return loadOrCreate(ctx, db, model.NewStakePosition(owner))
}

func (db *Database) LoadOrCreateNFTStake(ctx context.Context, owner types.Address) (*model.NFTStake, error) {
	return loadOrCreate(ctx, db, model.NewNFTStake(owner))
}

func (db *Database) LoadOrCreateLPStake(ctx context.Context, owner types.Address) (*model.LPStake, error) {
	return loadOrCreate(ctx, db, model.NewLPStake(owner))
}

func (db *Database) Commit(ctx context.Context, records ...model.Record) error {
	if err := checkCommit(records); err != nil {
		return err
	}

	loaded := make([]int64, len(records))
	for i, rec := range records {
		loaded[i] = rec.GetVersion()
	}

	var err error
	if db.transactions {
		err = db.commitInTransaction(ctx, records, loaded)
	} else {
		err = db.write(ctx, records, loaded)
	}

	if err != nil {
		// nothing was committed (or the transaction was rolled back), hand the
		// caller back the versions it loaded
		for i, rec := range records {
			rec.SetVersion(loaded[i])
		}
		return err
	}
	return nil
}

func (db *Database) commitInTransaction(ctx context.Context, records []model.Record, loaded []int64) error {
	session, err := db.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, db.write(sessCtx, records, loaded)
	})
	return err
}

// write applies conditional writes in order. Without a transaction a failure
// after the first write leaves earlier writes in place; the versions of those
// records no longer match what the caller holds, so a replay fails loudly
// instead of double-applying.
func (db *Database) write(ctx context.Context, records []model.Record, loaded []int64) error {
	for i, rec := range records {
		expected := loaded[i]
		rec.SetVersion(expected + 1)

		coll := db.collection(rec.CollectionName())
		if expected == 0 {
			if _, err := coll.InsertOne(ctx, rec); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return versionConflict(rec, expected)
				}
				return err
			}
			continue
		}

		filter := bson.M{"_id": rec.Key(), "version": expected}
		res, err := coll.ReplaceOne(ctx, filter, rec)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return versionConflict(rec, expected)
		}
	}
	return nil
}

func (db *Database) Revert(ctx context.Context, previous ...model.Record) error {
	if err := checkCommit(previous); err != nil {
		return err
	}

	loaded := make([]int64, len(previous))
	for i, rec := range previous {
		loaded[i] = rec.GetVersion()
	}

	var err error
	if db.transactions {
		err = db.revertInTransaction(ctx, previous, loaded)
	} else {
		err = db.restore(ctx, previous, loaded)
	}

	if err != nil {
		for i, rec := range previous {
			rec.SetVersion(loaded[i])
		}
		return err
	}
	return nil
}

func (db *Database) revertInTransaction(ctx context.Context, previous []model.Record, loaded []int64) error {
	session, err := db.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, db.restore(sessCtx, previous, loaded)
	})
	return err
}

// restore writes back pre-commit state, conditioned on the version the undone
// commit produced. Like write, it is not atomic across records without a transaction.
func (db *Database) restore(ctx context.Context, previous []model.Record, loaded []int64) error {
	for i, rec := range previous {
		committed := loaded[i] + 1
		filter := bson.M{"_id": rec.Key(), "version": committed}
		coll := db.collection(rec.CollectionName())

		if loaded[i] == 0 {
			res, err := coll.DeleteOne(ctx, filter)
			if err != nil {
				return err
			}
			if res.DeletedCount == 0 {
				return versionConflict(rec, committed)
			}
			continue
		}

		rec.SetVersion(restoredVersion(loaded[i]))
		res, err := coll.ReplaceOne(ctx, filter, rec)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return versionConflict(rec, committed)
		}
	}
	return nil
}
