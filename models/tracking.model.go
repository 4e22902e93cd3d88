package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingEntry is an append-only status event for a parcel's history view
type TrackingEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TrackingID string             `bson:"trackingId" json:"trackingId" validate:"required"`
	Status     string             `bson:"status" json:"status" validate:"required"`
	Details    string             `bson:"details,omitempty" json:"details,omitempty"`
	UpdatedBy  string             `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}
