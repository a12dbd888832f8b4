package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

type memoryDoc struct {
	version int64
	raw     []byte
}

// Memory is an in-process DbInterface. Documents are kept in their bson encoding
// so callers never share state with the store, exactly like the mongo backend.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]memoryDoc
}

func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]map[string]memoryDoc),
	}
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) find(_ context.Context, collection, key string, out model.Record) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[collection][key]
	if !ok {
		return &NotFoundError{
			Key:     key,
			Message: collection + " record not found",
		}
	}
	//nolint:staticcheck
	return bson.UnmarshalWithRegistry(model.Registry(), doc.raw, out)
}

func (m *Memory) GetGlobalState(ctx context.Context) (*model.GlobalState, error) {
	return load(ctx, m, model.NewGlobalState(types.ZeroAddress, 0))
}

func (m *Memory) GetGovernance(ctx context.Context) (*model.Governance, error) {
	return load(ctx, m, model.NewGovernance(types.ZeroAddress))
}

func (m *Memory) LoadOrCreateTraderVolume(ctx context.Context, trader types.Address) (*model.TraderVolume, error) {
	return loadOrCreate(ctx, m, model.NewTraderVolume(trader))
}

func (m *Memory) LoadOrCreateStakePosition(ctx context.Context, owner types.Address) (*model.StakePosition, error) {
	return loadOrCreate(ctx, m, model.NewStakePosition(owner))
}

func (m *Memory) LoadOrCreateNFTStake(ctx context.Context, owner types.Address) (*model.NFTStake, error) {
	return loadOrCreate(ctx, m, model.NewNFTStake(owner))
}

func (m *Memory) LoadOrCreateLPStake(ctx context.Context, owner types.Address) (*model.LPStake, error) {
	return loadOrCreate(ctx, m, model.NewLPStake(owner))
}

func (m *Memory) Commit(_ context.Context, records ...model.Record) error {
	if err := checkCommit(records); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// every version is checked before anything is written
	for _, rec := range records {
		current := m.docs[rec.CollectionName()][rec.Key()].version
		if current != rec.GetVersion() {
			return versionConflict(rec, rec.GetVersion())
		}
	}

	encoded := make([]memoryDoc, len(records))
	for i, rec := range records {
		next := rec.Clone()
		next.SetVersion(rec.GetVersion() + 1)
		//nolint:staticcheck
		raw, err := bson.MarshalWithRegistry(model.Registry(), next)
		if err != nil {
			return err
		}
		encoded[i] = memoryDoc{version: next.GetVersion(), raw: raw}
	}

	for i, rec := range records {
		coll, ok := m.docs[rec.CollectionName()]
		if !ok {
			coll = make(map[string]memoryDoc)
			m.docs[rec.CollectionName()] = coll
		}
		coll[rec.Key()] = encoded[i]
		rec.SetVersion(encoded[i].version)
	}
	return nil
}

func (m *Memory) Revert(_ context.Context, previous ...model.Record) error {
	if err := checkCommit(previous); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range previous {
		doc, ok := m.docs[rec.CollectionName()][rec.Key()]
		if !ok || doc.version != rec.GetVersion()+1 {
			return versionConflict(rec, rec.GetVersion()+1)
		}
	}

	// nil marks a record the undone commit created
	encoded := make([]*memoryDoc, len(previous))
	for i, rec := range previous {
		if rec.GetVersion() == 0 {
			continue
		}
		restored := rec.Clone()
		restored.SetVersion(restoredVersion(rec.GetVersion()))
		//nolint:staticcheck
		raw, err := bson.MarshalWithRegistry(model.Registry(), restored)
		if err != nil {
			return err
		}
		encoded[i] = &memoryDoc{version: restored.GetVersion(), raw: raw}
	}

	for i, rec := range previous {
		coll := m.docs[rec.CollectionName()]
		if encoded[i] == nil {
			delete(coll, rec.Key())
			continue
		}
		coll[rec.Key()] = *encoded[i]
		rec.SetVersion(encoded[i].version)
	}
	return nil
}

type memorySnapshot struct {
	Docs []memorySnapshotDoc `bson:"docs"`
}

type memorySnapshotDoc struct {
	Collection string   `bson:"collection"`
	Key        string   `bson:"key"`
	Version    int64    `bson:"version"`
	Raw        bson.Raw `bson:"raw"`
}

// Save writes every committed record to path.
func (m *Memory) Save(path string) error {
	m.mu.RLock()
	var snap memorySnapshot
	for collection, docs := range m.docs {
		for key, doc := range docs {
			snap.Docs = append(snap.Docs, memorySnapshotDoc{
				Collection: collection,
				Key:        key,
				Version:    doc.version,
				Raw:        doc.raw,
			})
		}
	}
	m.mu.RUnlock()

	bz, err := bson.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := os.WriteFile(path, bz, 0o600); err != nil {
		return fmt.Errorf("failed to write records to %s: %w", path, err)
	}
	return nil
}

// LoadMemory restores a store written by Save. A missing file yields an empty store.
func LoadMemory(path string) (*Memory, error) {
	m := NewMemory()

	bz, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read records from %s: %w", path, err)
	}

	var snap memorySnapshot
	if err := bson.Unmarshal(bz, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode records from %s: %w", path, err)
	}
	for _, doc := range snap.Docs {
		coll, ok := m.docs[doc.Collection]
		if !ok {
			coll = make(map[string]memoryDoc)
			m.docs[doc.Collection] = coll
		}
		coll[doc.Key] = memoryDoc{version: doc.Version, raw: doc.Raw}
	}
	return m, nil
}
