package main

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/tracklive/internal/config"
	"github.com/ukydev/tracklive/internal/db"
	"github.com/ukydev/tracklive/internal/handlers"
	"github.com/ukydev/tracklive/internal/ingest"
	"github.com/ukydev/tracklive/internal/mqttbridge"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	store := db.NewStore(database)
	svc := ingest.NewService(store.Devices, store.Locations)

	api := &handlers.API{
		Store:   store,
		Ingest:  svc,
		DevMode: cfg.Development(),
	}

	if cfg.MQTTBroker != "" {
		bridge := mqttbridge.New(cfg.MQTTBroker, "tracklive-server", cfg.MQTTTopic, svc)
		if err := bridge.Start(); err != nil {
			log.Fatalf("Failed to start MQTT bridge: %v", err)
		}
		defer bridge.Stop()
	}

	log.Infof("HTTP server listening on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, api.Router()))
}
