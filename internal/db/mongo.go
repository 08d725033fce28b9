package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a record-scoped lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with a unique index,
// meaning a concurrent writer created the record first.
var ErrDuplicate = errors.New("duplicate key")

// Collection names.
const (
	DevicesCollection        = "devices"
	LocationDataCollection   = "location_data"
	DeviceConfigsCollection  = "device_configs"
	DefaultConfigsCollection = "default_config"
)

// Connect connects to MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// Store is the single shared handle to the backing store. It is constructed
// once at startup and passed into every component that needs persistence.
type Store struct {
	Devices        DeviceCollection
	Locations      LocationCollection
	DeviceConfigs  DeviceConfigCollection
	DefaultConfigs DefaultConfigCollection
}

// NewStore wires the Mongo collection implementations over one database.
func NewStore(database *mongo.Database) *Store {
	return &Store{
		Devices: &MongoDeviceCollection{
			Collection: database.Collection(DevicesCollection),
		},
		Locations: &MongoLocationCollection{
			Collection: database.Collection(LocationDataCollection),
		},
		DeviceConfigs: &MongoDeviceConfigCollection{
			Collection: database.Collection(DeviceConfigsCollection),
		},
		DefaultConfigs: &MongoDefaultConfigCollection{
			Collection: database.Collection(DefaultConfigsCollection),
		},
	}
}

// EnsureIndexes creates the indexes the consistency rules depend on. The
// unique index on devices.imei and device_configs.device_imei is what makes
// the concurrent find-or-create and upsert paths safe.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := database.Collection(DevicesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "imei", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("devices index: %w", err)
	}

	_, err = database.Collection(DeviceConfigsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "device_imei", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("device_configs index: %w", err)
	}

	_, err = database.Collection(LocationDataCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "imei", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "device_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("location_data indexes: %w", err)
	}

	return nil
}
