package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment status values for a parcel
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Delivery status values for a parcel
const (
	DeliveryNotCollected = "not_collected"
	DeliveryAssigned     = "assigned"
	DeliveryInTransit    = "in_transit"
	DeliveryDelivered    = "delivered"
)

// AssignedRider is the courier snapshot embedded in a parcel once assigned
type AssignedRider struct {
	RiderID string `bson:"riderId" json:"riderId"`
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Email   string `bson:"email" json:"email"`
}

// Parcel represents a shipment tracked from intake to delivery
type Parcel struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserEmail       string             `bson:"userEmail" json:"userEmail"`
	Title           string             `bson:"title" json:"title"`
	Type            string             `bson:"type" json:"type"` // "document" or "non-document"
	Weight          float64            `bson:"weight" json:"weight"`
	Cost            float64            `bson:"cost" json:"cost"`
	TrackingID      string             `bson:"trackingId" json:"trackingId"`
	SenderName      string             `bson:"senderName" json:"senderName"`
	SenderContact   string             `bson:"senderContact" json:"senderContact"`
	SenderRegion    string             `bson:"senderRegion" json:"senderRegion"`
	SenderCenter    string             `bson:"senderCenter" json:"senderCenter"`
	ReceiverName    string             `bson:"receiverName" json:"receiverName"`
	ReceiverContact string             `bson:"receiverContact" json:"receiverContact"`
	ReceiverRegion  string             `bson:"receiverRegion" json:"receiverRegion"`
	ReceiverCenter  string             `bson:"receiverCenter" json:"receiverCenter"`
	PaymentStatus   string             `bson:"payment_status" json:"payment_status"`
	DeliveryStatus  string             `bson:"delivery_status" json:"delivery_status"`
	CashoutStatus   string             `bson:"cashout_status,omitempty" json:"cashout_status,omitempty"`
	AssignedRider   *AssignedRider     `bson:"assignedRider,omitempty" json:"assignedRider,omitempty"`
	CreationDate    time.Time          `bson:"creation_date" json:"creation_date"`
	PickedAt        *time.Time         `bson:"picked_at,omitempty" json:"picked_at,omitempty"`
	DeliveredAt     *time.Time         `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
}

// ParcelUpdatableFields is the allow-list for the generic PATCH endpoint.
// Lifecycle fields (payment_status, delivery_status, assignedRider,
// picked_at, delivered_at) are only reachable through their dedicated
// operations.
var ParcelUpdatableFields = map[string]bool{
	"title":           true,
	"type":            true,
	"weight":          true,
	"cost":            true,
	"senderName":      true,
	"senderContact":   true,
	"senderRegion":    true,
	"senderCenter":    true,
	"receiverName":    true,
	"receiverContact": true,
	"receiverRegion":  true,
	"receiverCenter":  true,
}
