package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config contains the server configuration.
type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	Env        string
	MQTTBroker string
	MQTTTopic  string
}

// Load reads configuration from the environment, after loading .env if one
// is present. Every value has a working default except MQTTBroker, which
// stays empty to leave the MQTT bridge disabled.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:       getenv("PORT", "8080"),
		MongoURI:   getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getenv("MONGO_DB", "tracking"),
		Env:        getenv("APP_ENV", "production"),
		MQTTBroker: os.Getenv("MQTT_BROKER"),
		MQTTTopic:  getenv("MQTT_TOPIC", "tracklive/location"),
	}
}

// Development reports whether error detail should be exposed in responses.
func (c Config) Development() bool {
	return c.Env == "development"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
