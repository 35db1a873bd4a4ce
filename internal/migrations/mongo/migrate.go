package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinic/internal/migrations/mongo/validators"
	"clinic/pkg/logger"
)

// Collection names match the repositories that own them.
const (
	BookingsCollection  = "Bookings"
	SlotLocksCollection = "Slot_locks"
	DoctorsCollection   = "Doctors"
	BlogsCollection     = "Blogs"
	UsersCollection     = "Users"
)

var (
	BookingsIndexes = []mongo.IndexModel{
		// At most one scheduled booking per provider, date and slot.
		{
			Keys: bson.D{
				{Key: "provider_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time_slot", Value: 1},
			},
			Options: options.Index().
				SetName("uniq_scheduled_slot").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "scheduled"}),
		},
		{Keys: bson.D{{Key: "requester_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "time_slot", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	SlotLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
		},
	}

	DoctorsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "full_name", Value: 1}}},
	}

	BlogsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "publish_date", Value: -1}}},
	}

	UsersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
	}
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		BookingsCollection:  {Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		SlotLocksCollection: {Indexes: SlotLocksIndexes, Validator: validators.SlotLockValidator},
		DoctorsCollection:   {Indexes: DoctorsIndexes, Validator: validators.DoctorValidator},
		BlogsCollection:     {Indexes: BlogsIndexes, Validator: validators.BlogValidator},
		UsersCollection:     {Indexes: UsersIndexes, Validator: validators.UserValidator},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
