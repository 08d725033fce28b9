package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/tracklive/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// singletonID pins the default configuration to one well-known row. Keying
// every read and write on this _id makes the _id unique index serialize
// concurrent first-read upserts: an upsert is only race-safe when its query
// fields are uniquely indexed, and an empty filter is not.
var singletonID = primitive.ObjectID{'d', 'e', 'f', 'a', 'u', 'l', 't', '_', 'c', 'o', 'n', 'f'}

// DefaultConfigCollection defines the interface for the singleton default
// configuration record.
type DefaultConfigCollection interface {
	// FindOrCreate returns the singleton row, atomically seeding it with the
	// canonical defaults if no row exists yet. Concurrent first reads yield
	// exactly one row.
	FindOrCreate(ctx context.Context) (*models.DefaultConfig, error)
	Update(ctx context.Context, cfg models.DefaultConfig) (*models.DefaultConfig, error)
}

// MongoDefaultConfigCollection implements DefaultConfigCollection for
// MongoDB.
type MongoDefaultConfigCollection struct {
	Collection *mongo.Collection
}

func (c *MongoDefaultConfigCollection) FindOrCreate(ctx context.Context) (*models.DefaultConfig, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	seed := models.CanonicalDefaults()
	now := time.Now().UTC()
	seed.CreatedAt = now
	seed.UpdatedAt = now

	// The upsert only fires when the well-known row is missing; the filter's
	// _id lands on the inserted document, so the loser of a concurrent first
	// read collides on the _id index and reads the winner's row instead of
	// inserting a second one.
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var cfg models.DefaultConfig
	err := c.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": singletonID},
		bson.M{"$setOnInsert": seed},
		opts,
	).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("default config find-or-create: %w", err)
	}
	return &cfg, nil
}

func (c *MongoDefaultConfigCollection) Update(ctx context.Context, cfg models.DefaultConfig) (*models.DefaultConfig, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cfg.ID = singletonID
	cfg.UpdatedAt = time.Now().UTC()
	res, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": singletonID}, cfg)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &cfg, nil
}
