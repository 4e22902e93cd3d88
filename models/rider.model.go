package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rider application statuses
const (
	RiderPending  = "pending"
	RiderActive   = "active"
	RiderRejected = "rejected"
)

// RiderApplication is a courier application. Status starts at "pending";
// setting it to "active" also promotes the linked user's role to "rider".
type RiderApplication struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name             string             `bson:"name" json:"name" validate:"required"`
	ApplicantEmail   string             `bson:"applicantEmail" json:"applicantEmail" validate:"required,email"`
	Age              int                `bson:"age,omitempty" json:"age,omitempty"`
	City             string             `bson:"city" json:"city" validate:"required"`
	District         string             `bson:"district,omitempty" json:"district,omitempty"`
	Phone            string             `bson:"phone" json:"phone" validate:"required"`
	NID              string             `bson:"nid,omitempty" json:"nid,omitempty"`
	BikeBrand        string             `bson:"bikeBrand,omitempty" json:"bikeBrand,omitempty"`
	BikeRegistration string             `bson:"bikeRegistration,omitempty" json:"bikeRegistration,omitempty"`
	Status           string             `bson:"status" json:"status"`
	AppliedAt        time.Time          `bson:"appliedAt" json:"appliedAt"`
}
