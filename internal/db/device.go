package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/tracklive/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeviceCollection defines the interface for device record operations.
type DeviceCollection interface {
	// FindOrCreate returns the device with the given IMEI, creating it from
	// seed if none exists. The operation is atomic: concurrent calls with
	// the same unseen IMEI yield one row.
	FindOrCreate(ctx context.Context, seed models.Device) (*models.Device, error)
	FindByImei(ctx context.Context, imei string) (*models.Device, error)
	// FindAll lists devices newest-first with per-device sample counts.
	// limit <= 0 disables pagination.
	FindAll(ctx context.Context, limit, offset int64) ([]models.Device, error)
	Count(ctx context.Context) (int64, error)
}

// MongoDeviceCollection implements DeviceCollection for MongoDB.
type MongoDeviceCollection struct {
	Collection *mongo.Collection
}

func (c *MongoDeviceCollection) FindOrCreate(ctx context.Context, seed models.Device) (*models.Device, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	now := time.Now().UTC()
	seed.CreatedAt = now
	seed.UpdatedAt = now

	// Single atomic upsert against the unique imei index: the winner of a
	// concurrent first-sighting inserts, the loser reads the winner's row.
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var device models.Device
	err := c.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"imei": seed.Imei},
		bson.M{"$setOnInsert": seed},
		opts,
	).Decode(&device)
	if err != nil {
		return nil, fmt.Errorf("device find-or-create: %w", err)
	}
	return &device, nil
}

func (c *MongoDeviceCollection) FindByImei(ctx context.Context, imei string) (*models.Device, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var device models.Device
	err := c.Collection.FindOne(ctx, bson.M{"imei": imei}).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &device, nil
}

func (c *MongoDeviceCollection) FindAll(ctx context.Context, limit, offset int64) ([]models.Device, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline,
			bson.D{{Key: "$skip", Value: offset}},
			bson.D{{Key: "$limit", Value: limit}},
		)
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: LocationDataCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "device_id"},
			{Key: "as", Value: "samples"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "location_count", Value: bson.D{{Key: "$size", Value: "$samples"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "samples", Value: 0}}}},
	)

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	devices := []models.Device{}
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (c *MongoDeviceCollection) Count(ctx context.Context) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return c.Collection.CountDocuments(ctx, bson.M{})
}
