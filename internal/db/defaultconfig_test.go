package db

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMongoDefaultConfigCollection_FindOrCreateSeedsSingleton(t *testing.T) {
	database := testDatabase(t)
	defaults := &MongoDefaultConfigCollection{Collection: database.Collection(DefaultConfigsCollection)}

	first, err := defaults.FindOrCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5", first.GpsTimer)
	assert.Equal(t, "60", first.ConfigTimer)
	assert.Equal(t, "130", first.StopTimer)
	assert.Equal(t,
		"https://connectlive.commtw.com:446/twconnectlive/TrackingServices.asmx",
		first.BaseURL)

	// A second call must return the same row, not seed another.
	second, err := defaults.FindOrCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, singletonID, second.ID)

	total, err := database.Collection(DefaultConfigsCollection).CountDocuments(context.Background(), bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestMongoDefaultConfigCollection_FindOrCreateConcurrent(t *testing.T) {
	database := testDatabase(t)
	defaults := &MongoDefaultConfigCollection{Collection: database.Collection(DefaultConfigsCollection)}

	const workers = 10
	ids := make([]primitive.ObjectID, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := defaults.FindOrCreate(context.Background())
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = cfg.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	total, err := database.Collection(DefaultConfigsCollection).CountDocuments(context.Background(), bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestMongoDefaultConfigCollection_UpdateSurvivesReread(t *testing.T) {
	database := testDatabase(t)
	defaults := &MongoDefaultConfigCollection{Collection: database.Collection(DefaultConfigsCollection)}

	cfg, err := defaults.FindOrCreate(context.Background())
	require.NoError(t, err)

	cfg.GpsTimer = "0"
	updated, err := defaults.Update(context.Background(), *cfg)
	require.NoError(t, err)
	assert.Equal(t, "0", updated.GpsTimer)

	// The edited row wins over the canonical seed on the next read.
	reread, err := defaults.FindOrCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, reread.ID)
	assert.Equal(t, "0", reread.GpsTimer)
	assert.Equal(t, "60", reread.ConfigTimer)
}
