package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Device represents a GPS tracking device, keyed by its IMEI. Devices are
// created implicitly the first time a location report carries an unseen IMEI.
type Device struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Imei         string             `bson:"imei" json:"imei"`
	Name         *string            `bson:"name,omitempty" json:"name"`
	PhoneNo      *string            `bson:"phone_no,omitempty" json:"phoneNo"`
	EmailAddress *string            `bson:"email_address,omitempty" json:"emailAddress"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`

	// LocationCount is populated by list queries that join sample counts.
	LocationCount *int64 `bson:"location_count,omitempty" json:"locationCount,omitempty"`
}

// DeviceSummary is the shortened device reference attached to config
// responses.
type DeviceSummary struct {
	ID   primitive.ObjectID `json:"id"`
	Imei string             `json:"imei"`
	Name *string            `json:"name"`
}

func (d *Device) Summary() *DeviceSummary {
	if d == nil {
		return nil
	}
	return &DeviceSummary{ID: d.ID, Imei: d.Imei, Name: d.Name}
}
