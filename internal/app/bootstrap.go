// Package app wires configuration into the directory, services and session
// store shared by the server and the gymctl command.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"centralfight/gym-app/internal/config"
	"centralfight/gym-app/internal/repository"
	"centralfight/gym-app/internal/repository/memory"
	"centralfight/gym-app/internal/repository/mongo"
	"centralfight/gym-app/internal/seed"
	"centralfight/gym-app/internal/service"
	"centralfight/gym-app/internal/storage"
)

const (
	SourceFixture = "fixture"
	SourceMongo   = "mongo"

	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendS3     = "s3"
)

// LoadSnapshot returns the entity snapshot named by cfg.Seed.Source.
// The fixture source hashes cfg.Seed.Password once for every account.
func LoadSnapshot(ctx context.Context, cfg config.Config) (repository.Snapshot, error) {
	switch cfg.Seed.Source {
	case "", SourceFixture:
		hash, err := service.HashPassword(cfg.Seed.Password, cfg.Auth.BcryptCost)
		if err != nil {
			return repository.Snapshot{}, err
		}
		snap := seed.Snapshot(hash)
		if cfg.Seed.WriteToMongo {
			if err := withMongo(ctx, cfg, func(store *mongo.SnapshotStore) error {
				return store.Seed(ctx, snap)
			}); err != nil {
				return repository.Snapshot{}, fmt.Errorf("seed mongo: %w", err)
			}
			log.Println("INFO: Fixture written to MongoDB.")
		}
		return snap, nil

	case SourceMongo:
		var snap repository.Snapshot
		err := withMongo(ctx, cfg, func(store *mongo.SnapshotStore) error {
			var err error
			snap, err = store.Load(ctx)
			return err
		})
		if err != nil {
			return repository.Snapshot{}, fmt.Errorf("load mongo snapshot: %w", err)
		}
		return snap, nil
	}
	return repository.Snapshot{}, fmt.Errorf("unknown seed source %q", cfg.Seed.Source)
}

func withMongo(ctx context.Context, cfg config.Config, fn func(*mongo.SnapshotStore) error) error {
	client, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongo.DisconnectDB(client); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	db := client.Database(cfg.Database.Name)
	mongo.EnsureIndexes(ctx, db)
	return fn(mongo.NewSnapshotStore(db))
}

// LoadDirectory loads and validates the snapshot, then indexes it in memory.
func LoadDirectory(ctx context.Context, cfg config.Config, now time.Time) (repository.Directory, error) {
	snap, err := LoadSnapshot(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := repository.ValidateSnapshot(snap, now); err != nil {
		return nil, err
	}
	log.Printf("INFO: Loaded %d trainers, %d students, %d payments, %d check-ins",
		len(snap.Trainers), len(snap.Students), len(snap.Payments), len(snap.CheckIns))
	return memory.NewDirectory(snap), nil
}

// OpenSessionStore returns the store named by cfg.Session.Backend and a
// function releasing it.
func OpenSessionStore(ctx context.Context, cfg config.Config) (storage.KeyValueStore, func(), error) {
	switch cfg.Session.Backend {
	case BackendMemory:
		return storage.NewMemoryStore(), func() {}, nil
	case "", BackendBolt:
		store, err := storage.OpenBoltStore(cfg.Session.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("ERROR: Failed to close session db: %v", err)
			}
		}, nil
	case BackendS3:
		store, err := storage.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}
