package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationData is one immutable telemetry sample reported by a device.
// Samples are append-only; they are never updated or deleted.
type LocationData struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Latitude       float64             `bson:"latitude" json:"latitude"`
	Longitude      float64             `bson:"longitude" json:"longitude"`
	Accuracy       *float64            `bson:"accuracy,omitempty" json:"accuracy"`
	Altitude       *float64            `bson:"altitude,omitempty" json:"altitude"`
	Bearing        *float64            `bson:"bearing,omitempty" json:"bearing"`
	Speed          *float64            `bson:"speed,omitempty" json:"speed"`
	DeviceRDT      *string             `bson:"device_rdt,omitempty" json:"deviceRDT"`
	GmtSettings    *string             `bson:"gmt_settings,omitempty" json:"gmtSettings"`
	IgStatus       *int                `bson:"ig_status,omitempty" json:"igStatus"`
	Imei           *string             `bson:"imei,omitempty" json:"imei"`
	LocalPrimaryID *string             `bson:"local_primary_id,omitempty" json:"localPrimaryId"`
	Name           *string             `bson:"name,omitempty" json:"name"`
	PhoneNo        *string             `bson:"phone_no,omitempty" json:"phoneNo"`
	EmailAddress   *string             `bson:"email_address,omitempty" json:"emailAddress"`
	Provider       *string             `bson:"provider,omitempty" json:"provider"`
	Reason         *string             `bson:"reason,omitempty" json:"reason"`
	VersionNo      *string             `bson:"version_no,omitempty" json:"versionNo"`
	Time           *Millis             `bson:"time,omitempty" json:"time"`
	DeviceID       *primitive.ObjectID `bson:"device_id,omitempty" json:"deviceId"`
	CreatedAt      time.Time           `bson:"created_at" json:"createdAt"`

	// Device is the linked device record, attached at response time.
	Device *Device `bson:"-" json:"device,omitempty"`
}
