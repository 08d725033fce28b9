// Package mqttbridge feeds location reports published over MQTT into the
// same ingestion pipeline as the HTTP endpoint. Trackers that cannot hold an
// HTTP session publish JSON payloads to a single topic instead.
package mqttbridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tracklive/internal/ingest"
)

const ingestTimeout = 10 * time.Second

// Bridge subscribes to a broker topic and ingests every message body as a
// location payload.
type Bridge struct {
	client mqtt.Client
	topic  string
	svc    *ingest.Service
}

// New prepares a bridge against the given broker. Start must be called to
// connect and subscribe.
func New(broker, clientID, topic string, svc *ingest.Service) *Bridge {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)
	return &Bridge{
		client: mqtt.NewClient(opts),
		topic:  topic,
		svc:    svc,
	}
}

// Start connects to the broker and subscribes to the location topic.
func (b *Bridge) Start() error {
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	if token := b.client.Subscribe(b.topic, 1, b.handle); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %q: %w", b.topic, token.Error())
	}
	log.WithField("topic", b.topic).Info("mqtt bridge subscribed")
	return nil
}

// Stop disconnects from the broker.
func (b *Bridge) Stop() {
	b.client.Disconnect(250)
}

func (b *Bridge) handle(_ mqtt.Client, msg mqtt.Message) {
	payload, err := ingest.DecodeBytes(msg.Payload())
	if err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).
			Warn("dropping undecodable mqtt payload")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	if _, err := b.svc.Ingest(ctx, payload); err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			log.WithField("reason", verr.Message).Warn("rejected mqtt location payload")
			return
		}
		log.WithError(err).Error("failed to ingest mqtt location payload")
	}
}
