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

// DeviceConfigCollection defines the interface for per-device configuration
// records.
type DeviceConfigCollection interface {
	FindByImei(ctx context.Context, imei string) (*models.DeviceConfig, error)
	Insert(ctx context.Context, cfg models.DeviceConfig) (*models.DeviceConfig, error)
	// Replace writes one fully merged record keyed on the owning IMEI, so
	// concurrent merges serialize to last-committed-wins.
	Replace(ctx context.Context, cfg models.DeviceConfig) (*models.DeviceConfig, error)
	FindAll(ctx context.Context, limit, offset int64) ([]models.DeviceConfig, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, imei string) error
}

// MongoDeviceConfigCollection implements DeviceConfigCollection for MongoDB.
type MongoDeviceConfigCollection struct {
	Collection *mongo.Collection
}

func (c *MongoDeviceConfigCollection) FindByImei(ctx context.Context, imei string) (*models.DeviceConfig, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var cfg models.DeviceConfig
	err := c.Collection.FindOne(ctx, bson.M{"device_imei": imei}).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (c *MongoDeviceConfigCollection) Insert(ctx context.Context, cfg models.DeviceConfig) (*models.DeviceConfig, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	res, err := c.Collection.InsertOne(ctx, cfg)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		cfg.ID = id
	}
	return &cfg, nil
}

func (c *MongoDeviceConfigCollection) Replace(ctx context.Context, cfg models.DeviceConfig) (*models.DeviceConfig, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cfg.UpdatedAt = time.Now().UTC()
	res, err := c.Collection.ReplaceOne(ctx, bson.M{"device_imei": cfg.DeviceImei}, cfg)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

func (c *MongoDeviceConfigCollection) FindAll(ctx context.Context, limit, offset int64) ([]models.DeviceConfig, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit).SetSkip(offset)
	}
	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	configs := []models.DeviceConfig{}
	if err := cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

func (c *MongoDeviceConfigCollection) Count(ctx context.Context) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return c.Collection.CountDocuments(ctx, bson.M{})
}

func (c *MongoDeviceConfigCollection) Delete(ctx context.Context, imei string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	res, err := c.Collection.DeleteOne(ctx, bson.M{"device_imei": imei})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
