package db

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ukydev/tracklive/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LocationFilter narrows location history queries. Zero values mean "no
// filter" for each member.
type LocationFilter struct {
	Imei     string
	DeviceID *primitive.ObjectID
	Start    *time.Time
	End      *time.Time
}

func (f LocationFilter) query() bson.M {
	q := bson.M{}
	if f.Imei != "" {
		q["imei"] = f.Imei
	}
	if f.DeviceID != nil {
		q["device_id"] = *f.DeviceID
	}
	if f.Start != nil || f.End != nil {
		created := bson.M{}
		if f.Start != nil {
			created["$gte"] = *f.Start
		}
		if f.End != nil {
			created["$lte"] = *f.End
		}
		q["created_at"] = created
	}
	return q
}

// LocationCollection defines the interface for location sample operations.
// Samples are append-only: there is no update or delete.
type LocationCollection interface {
	Insert(ctx context.Context, sample models.LocationData) (*models.LocationData, error)
	Find(ctx context.Context, filter LocationFilter, limit, offset int64) ([]models.LocationData, error)
	Count(ctx context.Context, filter LocationFilter) (int64, error)
	DistinctImeis(ctx context.Context) ([]string, error)
}

// MongoLocationCollection implements LocationCollection for MongoDB.
type MongoLocationCollection struct {
	Collection *mongo.Collection
}

func (c *MongoLocationCollection) Insert(ctx context.Context, sample models.LocationData) (*models.LocationData, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	sample.CreatedAt = time.Now().UTC()
	res, err := c.Collection.InsertOne(ctx, sample)
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		sample.ID = id
	}
	return &sample, nil
}

func (c *MongoLocationCollection) Find(ctx context.Context, filter LocationFilter, limit, offset int64) ([]models.LocationData, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit).SetSkip(offset)
	}
	cursor, err := c.Collection.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	samples := []models.LocationData{}
	if err := cursor.All(ctx, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

func (c *MongoLocationCollection) Count(ctx context.Context, filter LocationFilter) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return c.Collection.CountDocuments(ctx, filter.query())
}

func (c *MongoLocationCollection) DistinctImeis(ctx context.Context) ([]string, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	values, err := c.Collection.Distinct(ctx, "imei", bson.M{"imei": bson.M{"$ne": nil}})
	if err != nil {
		return nil, err
	}
	imeis := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			imeis = append(imeis, s)
		}
	}
	sort.Strings(imeis)
	return imeis, nil
}
