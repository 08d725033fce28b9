package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wire names of the recognized configuration fields. All tunables are
// decimal values carried as strings to tolerate device-side formatting;
// baseUrl is an absolute URL.
const (
	FieldGpsTimer              = "gpsTimer"
	FieldConfigTimer           = "configTimer"
	FieldUploadTimer           = "uploadTimer"
	FieldRetryCounter          = "retryCounter"
	FieldAngleThreshold        = "angleThreshold"
	FieldOverSpeedingThreshold = "overSpeedingThreshold"
	FieldTravelStartTimer      = "travelStartTimer"
	FieldTravelStopTimer       = "travelStopTimer"
	FieldMovingTimer           = "movingTimer"
	FieldStopTimer             = "stopTimer"
	FieldDistanceThreshold     = "distanceThreshold"
	FieldHeartbeatTimer        = "heartbeatTimer"
	FieldLiveStatusUpdateTimer = "liveStatusUpdateTimer"
	FieldBaseURL               = "baseUrl"
)

// ConfigFields lists every recognized field, in wire order.
var ConfigFields = []string{
	FieldGpsTimer,
	FieldConfigTimer,
	FieldUploadTimer,
	FieldRetryCounter,
	FieldAngleThreshold,
	FieldOverSpeedingThreshold,
	FieldTravelStartTimer,
	FieldTravelStopTimer,
	FieldMovingTimer,
	FieldStopTimer,
	FieldDistanceThreshold,
	FieldHeartbeatTimer,
	FieldLiveStatusUpdateTimer,
	FieldBaseURL,
}

// DeviceConfig is the per-device override set, one per device (unique on the
// owning IMEI). Fields a caller never supplied stay unset rather than being
// backfilled from the defaults.
type DeviceConfig struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DeviceImei            string             `bson:"device_imei" json:"deviceImei"`
	GpsTimer              *string            `bson:"gps_timer,omitempty" json:"gpsTimer"`
	ConfigTimer           *string            `bson:"config_timer,omitempty" json:"configTimer"`
	UploadTimer           *string            `bson:"upload_timer,omitempty" json:"uploadTimer"`
	RetryCounter          *string            `bson:"retry_counter,omitempty" json:"retryCounter"`
	AngleThreshold        *string            `bson:"angle_threshold,omitempty" json:"angleThreshold"`
	OverSpeedingThreshold *string            `bson:"over_speeding_threshold,omitempty" json:"overSpeedingThreshold"`
	TravelStartTimer      *string            `bson:"travel_start_timer,omitempty" json:"travelStartTimer"`
	TravelStopTimer       *string            `bson:"travel_stop_timer,omitempty" json:"travelStopTimer"`
	MovingTimer           *string            `bson:"moving_timer,omitempty" json:"movingTimer"`
	StopTimer             *string            `bson:"stop_timer,omitempty" json:"stopTimer"`
	DistanceThreshold     *string            `bson:"distance_threshold,omitempty" json:"distanceThreshold"`
	HeartbeatTimer        *string            `bson:"heartbeat_timer,omitempty" json:"heartbeatTimer"`
	LiveStatusUpdateTimer *string            `bson:"live_status_update_timer,omitempty" json:"liveStatusUpdateTimer"`
	BaseURL               *string            `bson:"base_url,omitempty" json:"baseUrl"`
	CreatedAt             time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updatedAt"`

	Device *DeviceSummary `bson:"-" json:"device,omitempty"`
}

// Field returns a pointer to the struct member holding the named wire field,
// or nil for an unrecognized name.
func (c *DeviceConfig) Field(name string) **string {
	switch name {
	case FieldGpsTimer:
		return &c.GpsTimer
	case FieldConfigTimer:
		return &c.ConfigTimer
	case FieldUploadTimer:
		return &c.UploadTimer
	case FieldRetryCounter:
		return &c.RetryCounter
	case FieldAngleThreshold:
		return &c.AngleThreshold
	case FieldOverSpeedingThreshold:
		return &c.OverSpeedingThreshold
	case FieldTravelStartTimer:
		return &c.TravelStartTimer
	case FieldTravelStopTimer:
		return &c.TravelStopTimer
	case FieldMovingTimer:
		return &c.MovingTimer
	case FieldStopTimer:
		return &c.StopTimer
	case FieldDistanceThreshold:
		return &c.DistanceThreshold
	case FieldHeartbeatTimer:
		return &c.HeartbeatTimer
	case FieldLiveStatusUpdateTimer:
		return &c.LiveStatusUpdateTimer
	case FieldBaseURL:
		return &c.BaseURL
	}
	return nil
}

// DefaultConfig is the process-wide singleton holding the seed value for
// every tunable. At most one row ever exists; reads create it on demand.
type DefaultConfig struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GpsTimer              string             `bson:"gps_timer" json:"gpsTimer"`
	ConfigTimer           string             `bson:"config_timer" json:"configTimer"`
	UploadTimer           string             `bson:"upload_timer" json:"uploadTimer"`
	RetryCounter          string             `bson:"retry_counter" json:"retryCounter"`
	AngleThreshold        string             `bson:"angle_threshold" json:"angleThreshold"`
	OverSpeedingThreshold string             `bson:"over_speeding_threshold" json:"overSpeedingThreshold"`
	TravelStartTimer      string             `bson:"travel_start_timer" json:"travelStartTimer"`
	TravelStopTimer       string             `bson:"travel_stop_timer" json:"travelStopTimer"`
	MovingTimer           string             `bson:"moving_timer" json:"movingTimer"`
	StopTimer             string             `bson:"stop_timer" json:"stopTimer"`
	DistanceThreshold     string             `bson:"distance_threshold" json:"distanceThreshold"`
	HeartbeatTimer        string             `bson:"heartbeat_timer" json:"heartbeatTimer"`
	LiveStatusUpdateTimer string             `bson:"live_status_update_timer" json:"liveStatusUpdateTimer"`
	BaseURL               string             `bson:"base_url" json:"baseUrl"`
	CreatedAt             time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Field returns a pointer to the struct member holding the named wire field,
// or nil for an unrecognized name.
func (c *DefaultConfig) Field(name string) *string {
	switch name {
	case FieldGpsTimer:
		return &c.GpsTimer
	case FieldConfigTimer:
		return &c.ConfigTimer
	case FieldUploadTimer:
		return &c.UploadTimer
	case FieldRetryCounter:
		return &c.RetryCounter
	case FieldAngleThreshold:
		return &c.AngleThreshold
	case FieldOverSpeedingThreshold:
		return &c.OverSpeedingThreshold
	case FieldTravelStartTimer:
		return &c.TravelStartTimer
	case FieldTravelStopTimer:
		return &c.TravelStopTimer
	case FieldMovingTimer:
		return &c.MovingTimer
	case FieldStopTimer:
		return &c.StopTimer
	case FieldDistanceThreshold:
		return &c.DistanceThreshold
	case FieldHeartbeatTimer:
		return &c.HeartbeatTimer
	case FieldLiveStatusUpdateTimer:
		return &c.LiveStatusUpdateTimer
	case FieldBaseURL:
		return &c.BaseURL
	}
	return nil
}

// CanonicalDefaults returns the canonical default tunable values used to
// seed the singleton row.
func CanonicalDefaults() DefaultConfig {
	return DefaultConfig{
		GpsTimer:              "5",
		ConfigTimer:           "60",
		UploadTimer:           "10",
		RetryCounter:          "10",
		AngleThreshold:        "45",
		OverSpeedingThreshold: "60",
		TravelStartTimer:      "20",
		TravelStopTimer:       "20",
		MovingTimer:           "60",
		StopTimer:             "130",
		DistanceThreshold:     "1000",
		HeartbeatTimer:        "30",
		LiveStatusUpdateTimer: "30",
		BaseURL:               "https://connectlive.commtw.com:446/twconnectlive/TrackingServices.asmx",
	}
}
