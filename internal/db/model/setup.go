package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
)

const setupTimeout = 30 * time.Second

type index struct {
	Indexes map[string]int
	Unique  bool
}

// every per-principal record is unique per owner, the derived _id already enforces it
// but the index also serves owner lookups from operational tooling
var collections = map[string][]index{
	GlobalStateCollection:  nil,
	GovernanceCollection:   nil,
	TraderVolumeCollection: {{Indexes: map[string]int{"owner": 1}, Unique: true}},
	StakeCollection:        {{Indexes: map[string]int{"owner": 1}, Unique: true}},
	NFTStakeCollection:     {{Indexes: map[string]int{"owner": 1}, Unique: true}},
	LPStakeCollection:      {{Indexes: map[string]int{"owner": 1}, Unique: true}},
}

// ClientOptions returns mongo client options carrying the model registry.
func ClientOptions(cfg *config.DbConfig) *options.ClientOptions {
	opts := options.Client().ApplyURI(cfg.Address).SetRegistry(Registry())
	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	return opts
}

// Setup creates the collections and indexes used by the engine.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, ClientOptions(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect setup client")
		}
	}()

	database := client.Database(cfg.DbName)

	existing, err := database.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	for name, indexes := range collections {
		if !present[name] {
			if err := database.CreateCollection(ctx, name); err != nil {
				return fmt.Errorf("failed to create collection %s: %w", name, err)
			}
		}
		for _, idx := range indexes {
			if err := createIndex(ctx, database, name, idx); err != nil {
				return err
			}
		}
	}

	log.Info().Msg("Collections and indexes created successfully")
	return nil
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	keys := bson.D{}
	for field, order := range idx.Indexes {
		keys = append(keys, bson.E{Key: field, Value: order})
	}

	model := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create index on collection %s: %w", collectionName, err)
	}

	log.Debug().Msgf("Index created on collection %s", collectionName)
	return nil
}
