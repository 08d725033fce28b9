// Package configs implements validation and merge semantics for device and
// default configuration payloads.
//
// The two merge paths are intentionally different and must stay separate:
// per-device merges skip falsy values (a stored field cannot be merged back
// to "0"), while default-config merges overwrite on field presence, so an
// explicit "0" does take effect there.
package configs

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ukydev/tracklive/internal/models"
)

// Payload is a validated set of configuration fields keyed by wire name.
type Payload map[string]string

// ValidationError carries the field-level messages for a rejected payload.
type ValidationError struct {
	Message     string   `json:"message"`
	Errors      []string `json:"errors,omitempty"`
	ValidFields []string `json:"validFields,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

var numericFields = map[string]bool{
	models.FieldGpsTimer:              true,
	models.FieldConfigTimer:           true,
	models.FieldUploadTimer:           true,
	models.FieldRetryCounter:          true,
	models.FieldAngleThreshold:        true,
	models.FieldOverSpeedingThreshold: true,
	models.FieldTravelStartTimer:      true,
	models.FieldTravelStopTimer:       true,
	models.FieldMovingTimer:           true,
	models.FieldStopTimer:             true,
	models.FieldDistanceThreshold:     true,
	models.FieldHeartbeatTimer:        true,
	models.FieldLiveStatusUpdateTimer: true,
}

var recognized = func() map[string]bool {
	m := make(map[string]bool, len(models.ConfigFields))
	for _, f := range models.ConfigFields {
		m[f] = true
	}
	return m
}()

// Validate checks a raw decoded JSON object against the recognized field
// table: every key must be a known field, numeric fields must parse as
// non-negative integers, baseUrl must be an absolute URL, and at least one
// recognized field must be present.
func Validate(raw map[string]any) (Payload, *ValidationError) {
	provided := 0
	for key := range raw {
		if recognized[key] {
			provided++
		}
	}
	if provided == 0 {
		return nil, &ValidationError{
			Message:     "At least one configuration field must be provided",
			ValidFields: models.ConfigFields,
		}
	}

	var errs []string
	payload := Payload{}
	for key, value := range raw {
		if !recognized[key] {
			errs = append(errs, fmt.Sprintf("Invalid configuration field: %s", key))
			continue
		}
		s, ok := value.(string)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s must be a string", key))
			continue
		}
		if numericFields[key] {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				errs = append(errs, fmt.Sprintf("%s must be a valid positive number as string", key))
				continue
			}
		}
		if key == models.FieldBaseURL && s != "" {
			u, err := url.Parse(s)
			if err != nil || !u.IsAbs() || u.Host == "" {
				errs = append(errs, "baseUrl must be a valid URL")
				continue
			}
		}
		payload[key] = s
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Message: "Validation failed", Errors: errs}
	}
	return payload, nil
}

// NewDeviceConfig builds a fresh per-device config from a payload. Only the
// supplied fields are set; everything else stays unset, not backfilled from
// the defaults.
func NewDeviceConfig(imei string, p Payload) models.DeviceConfig {
	cfg := models.DeviceConfig{DeviceImei: imei}
	for name, value := range p {
		v := value
		*cfg.Field(name) = &v
	}
	return cfg
}

// ApplyDeviceMerge merges a payload into an existing per-device config.
// Only truthy values overwrite: absent fields, empty strings and numeric
// zero ("0") all leave the stored value untouched.
func ApplyDeviceMerge(cfg *models.DeviceConfig, p Payload) {
	for _, name := range models.ConfigFields {
		value, ok := p[name]
		if !ok || !truthy(name, value) {
			continue
		}
		v := value
		*cfg.Field(name) = &v
	}
}

// ApplyDefaultMerge merges a payload into the default config. Presence is
// what matters here: any supplied numeric field overwrites, including an
// explicit "0". baseUrl keeps the truthiness test, so an empty string does
// not clear it.
func ApplyDefaultMerge(cfg *models.DefaultConfig, p Payload) {
	for _, name := range models.ConfigFields {
		value, ok := p[name]
		if !ok {
			continue
		}
		if name == models.FieldBaseURL && value == "" {
			continue
		}
		*cfg.Field(name) = value
	}
}

// truthy reports whether a field value overwrites in the per-device merge.
func truthy(name, value string) bool {
	if value == "" {
		return false
	}
	if numericFields[name] {
		if n, err := strconv.Atoi(value); err == nil && n == 0 {
			return false
		}
	}
	return true
}
