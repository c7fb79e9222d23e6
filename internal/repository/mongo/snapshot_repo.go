package mongo

import (
	"context"
	"fmt"
	"log"

	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	planCollectionName    = "plans"
	trainerCollectionName = "trainers"
	studentCollectionName = "students"
	paymentCollectionName = "payments"
	checkInCollectionName = "checkins"
	gymCollectionName     = "gyms"
	eventCollectionName   = "events"
)

// SnapshotStore reads and writes the whole entity snapshot. The API serves
// from an in-memory directory; Mongo is only the seed source.
type SnapshotStore struct {
	db *mongo.Database
}

// NewSnapshotStore expects a connected *mongo.Database instance.
func NewSnapshotStore(db *mongo.Database) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Load reads every collection into a Snapshot.
func (s *SnapshotStore) Load(ctx context.Context) (repository.Snapshot, error) {
	var (
		snap repository.Snapshot
		err  error
	)
	if snap.Plans, err = loadAll[domain.Plan](ctx, s.db.Collection(planCollectionName)); err != nil {
		return snap, fmt.Errorf("load plans: %w", err)
	}
	if snap.Trainers, err = loadAll[domain.Trainer](ctx, s.db.Collection(trainerCollectionName)); err != nil {
		return snap, fmt.Errorf("load trainers: %w", err)
	}
	if snap.Students, err = loadAll[domain.Student](ctx, s.db.Collection(studentCollectionName)); err != nil {
		return snap, fmt.Errorf("load students: %w", err)
	}
	if snap.Payments, err = loadAll[domain.Payment](ctx, s.db.Collection(paymentCollectionName)); err != nil {
		return snap, fmt.Errorf("load payments: %w", err)
	}
	if snap.CheckIns, err = loadAll[domain.CheckIn](ctx, s.db.Collection(checkInCollectionName)); err != nil {
		return snap, fmt.Errorf("load check-ins: %w", err)
	}
	if snap.Gyms, err = loadAll[domain.Gym](ctx, s.db.Collection(gymCollectionName)); err != nil {
		return snap, fmt.Errorf("load gyms: %w", err)
	}
	if snap.Events, err = loadAll[domain.Event](ctx, s.db.Collection(eventCollectionName)); err != nil {
		return snap, fmt.Errorf("load events: %w", err)
	}
	return snap, nil
}

// Seed upserts every entity of snap by id. Running it twice is harmless.
func (s *SnapshotStore) Seed(ctx context.Context, snap repository.Snapshot) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{planCollectionName, func() error {
			return upsertAll(ctx, s.db.Collection(planCollectionName), snap.Plans, func(p domain.Plan) string { return p.ID })
		}},
		{trainerCollectionName, func() error {
			return upsertAll(ctx, s.db.Collection(trainerCollectionName), snap.Trainers, func(t domain.Trainer) string { return t.ID })
		}},
		{studentCollectionName, func() error {
			return upsertAll(ctx, s.db.Collection(studentCollectionName), snap.Students, func(st domain.Student) string { return st.ID })
		}},
		{paymentCollectionName, func() error {
			return upsertAll(ctx, s.db.Collection(paymentCollectionName), snap.Payments, func(p domain.Payment) string { return p.ID })
		}},
		{checkInCollectionName, func() error {
			return upsertAll(ctx, s.db.Collection(checkInCollectionName), snap.CheckIns, func(c domain.CheckIn) string { return c.ID })
		}},
		{gymCollectionName, func() error {
			return upsertAll(ctx, s.db.Collection(gymCollectionName), snap.Gyms, func(g domain.Gym) string { return g.ID })
		}},
		{eventCollectionName, func() error {
			return upsertAll(ctx, s.db.Collection(eventCollectionName), snap.Events, func(e domain.Event) string { return e.ID })
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	return nil
}

func loadAll[T any](ctx context.Context, coll *mongo.Collection) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, cursor.Err()
}

func upsertAll[T any](ctx context.Context, coll *mongo.Collection, items []T, idOf func(T) string) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(items))
	for _, it := range items {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": idOf(it)}).
			SetReplacement(it).
			SetUpsert(true))
	}
	_, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

// EnsureIndexes creates the lookup indexes used by the seed collections.
// Call this once during application startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	indexes := map[string][]mongo.IndexModel{
		studentCollectionName: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "trainerId", Value: 1}}},
		},
		trainerCollectionName: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		paymentCollectionName: {
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "dueDate", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		checkInCollectionName: {
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "date", Value: -1}}},
		},
		gymCollectionName: {
			{Keys: bson.D{{Key: "trainerId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		eventCollectionName: {
			{Keys: bson.D{{Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "registrants", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			// Not fatal: lookups still work without the index.
			log.Printf("WARN: Failed to create indexes for collection %s: %v", name, err)
		}
	}
}
