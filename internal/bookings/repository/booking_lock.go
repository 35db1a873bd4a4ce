package repository

import (
	"context"
	"fmt"

	bookingserrors "clinic/internal/bookings/errors"
	"clinic/pkg/config"
	mongotx "clinic/pkg/db/mongo"
	"clinic/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Slot_locks"

// SlotLockRepository stores advisory locks for the booking critical section.
type SlotLockRepository interface {
	Create(ctx context.Context, lock *model.SlotLock) error
	Delete(ctx context.Context, lockID, owner string) error
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

// Create fails with ErrLockHeld when a live lock with the same ID exists.
// An expired lock the TTL monitor has not reaped yet is cleared first.
func (r *mongoSlotLockRepository) Create(ctx context.Context, lock *model.SlotLock) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
	defer cancel()

	expired := bson.M{"_id": lock.ID, "expires_at": bson.M{"$lte": lock.CreatedAt}}
	if _, err := r.collection.DeleteOne(ctx, expired); err != nil {
		return fmt.Errorf("failed to clear expired slot lock: %w", err)
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	return nil
}

// Delete releases a lock held by owner. A lock that already expired and was
// taken by someone else is left alone.
func (r *mongoSlotLockRepository) Delete(ctx context.Context, lockID, owner string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner}); err != nil {
		return fmt.Errorf("failed to release slot lock: %w", err)
	}
	return nil
}
