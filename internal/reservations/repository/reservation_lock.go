package repository

import (
	"context"
	"fmt"
	"time"

	"fieldbook/pkg/config"
	"fieldbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Reservation_locks"

// ReservationLockRepository serializes admission per resource. Acquire
// inserts a document keyed by the resource id; a concurrent holder makes
// the insert fail with a duplicate key, which the coordinator maps to a
// retryable conflict. Release deletes the document; the TTL index on
// expires_at cleans up after crashed holders.
type ReservationLockRepository interface {
	Acquire(ctx context.Context, resourceID string, ttl time.Duration) error
	Release(ctx context.Context, resourceID string) error
}

type mongoReservationLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReservationLockRepository(cfg *config.Config) ReservationLockRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoReservationLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoReservationLockRepository) Acquire(ctx context.Context, resourceID string, ttl time.Duration) error {
	now := time.Now().UTC()
	lock := model.ReservationLock{
		ID:        resourceID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		// Duplicate key means another admission holds the resource.
		// Returned untouched so the caller can distinguish contention
		// from storage failure.
		return err
	}
	return nil
}

func (r *mongoReservationLockRepository) Release(ctx context.Context, resourceID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": resourceID})
	if err != nil {
		return fmt.Errorf("failed to release reservation lock: %w", err)
	}
	return nil
}
