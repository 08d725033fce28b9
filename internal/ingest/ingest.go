// Package ingest implements the location ingestion pipeline: loose payload
// extraction, coordinate validation, device auto-provisioning and sample
// persistence.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tracklive/internal/db"
	"github.com/ukydev/tracklive/internal/models"
)

// Payload is the loosely-typed body of a location report. Devices send
// numbers and strings interchangeably, so field extraction coerces both.
type Payload map[string]any

// Decode reads a JSON payload preserving numeric precision: numbers stay
// json.Number so a 64-bit time value never touches a float64.
func Decode(r io.Reader) (Payload, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeBytes decodes a raw message body, as delivered by the MQTT bridge.
func DecodeBytes(data []byte) (Payload, error) {
	return Decode(bytes.NewReader(data))
}

// ValidationError rejects a payload before any store write happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Service validates and persists location reports. A failure to link the
// sample to a device is non-fatal: the sample is stored without a device
// reference and the failure is logged.
type Service struct {
	devices   db.DeviceCollection
	locations db.LocationCollection
}

func NewService(devices db.DeviceCollection, locations db.LocationCollection) *Service {
	return &Service{devices: devices, locations: locations}
}

// Ingest validates the payload, ensures the reporting device exists when an
// IMEI is supplied, and persists one sample. The returned sample carries the
// linked device when linking succeeded.
func (s *Service) Ingest(ctx context.Context, p Payload) (*models.LocationData, error) {
	lat, latOK := p.float("latitude")
	lon, lonOK := p.float("longitude")
	if !latOK || !lonOK {
		return nil, &ValidationError{Message: "Latitude and longitude are required fields"}
	}
	if lat < -90 || lat > 90 {
		return nil, &ValidationError{Message: "Latitude must be between -90 and 90 degrees"}
	}
	if lon < -180 || lon > 180 {
		return nil, &ValidationError{Message: "Longitude must be between -180 and 180 degrees"}
	}

	sample := models.LocationData{
		Latitude:       lat,
		Longitude:      lon,
		Accuracy:       p.floatPtr("accuracy"),
		Altitude:       p.floatPtr("altitude"),
		Bearing:        p.floatPtr("bearing"),
		Speed:          p.floatPtr("speed"),
		DeviceRDT:      p.str("deviceRDT"),
		GmtSettings:    p.str("gmtSettings"),
		IgStatus:       p.intPtr("igStatus"),
		Imei:           p.str("imei"),
		LocalPrimaryID: p.str("localPrimaryId"),
		Name:           p.str("name"),
		PhoneNo:        p.str("phoneNo"),
		EmailAddress:   p.str("emailAddress"),
		Provider:       p.str("provider"),
		Reason:         p.str("reason"),
		VersionNo:      p.str("versionNo"),
		Time:           p.millis("time"),
	}

	var device *models.Device
	if sample.Imei != nil && *sample.Imei != "" {
		seed := models.Device{
			Imei:         *sample.Imei,
			Name:         sample.Name,
			PhoneNo:      sample.PhoneNo,
			EmailAddress: sample.EmailAddress,
		}
		d, err := s.devices.FindOrCreate(ctx, seed)
		if err != nil {
			// Non-fatal: persist the sample without a device link.
			log.WithError(err).WithField("imei", *sample.Imei).
				Error("device lookup/create failed, saving sample without device link")
		} else {
			device = d
			sample.DeviceID = &d.ID
		}
	}

	saved, err := s.locations.Insert(ctx, sample)
	if err != nil {
		return nil, err
	}
	saved.Device = device
	return saved, nil
}

// float extracts a coordinate that may arrive as a JSON number or a numeric
// string.
func (p Payload) float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return t, true
	}
	return 0, false
}

func (p Payload) floatPtr(key string) *float64 {
	if f, ok := p.float(key); ok {
		return &f
	}
	return nil
}

// str extracts a free-form string field; numbers are formatted rather than
// dropped.
func (p Payload) str(key string) *string {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		return &t
	case json.Number:
		s := t.String()
		return &s
	}
	return nil
}

func (p Payload) intPtr(key string) *int {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case json.Number:
		n, err := strconv.Atoi(t.String())
		if err != nil {
			return nil
		}
		return &n
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

// millis parses the 64-bit time field. The value is parsed as an integer
// string end to end so precision above 2^53 survives; anything unparseable
// becomes null rather than an error.
func (p Payload) millis(key string) *models.Millis {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	var raw string
	switch t := v.(type) {
	case json.Number:
		raw = t.String()
	case string:
		raw = t
	default:
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	m := models.Millis(n)
	return &m
}
