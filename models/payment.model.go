package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is an append-only record of a completed transaction
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ParcelID      string             `bson:"parcelId,omitempty" json:"parcelId,omitempty"`
	Email         string             `bson:"email" json:"email" validate:"required,email"`
	Amount        float64            `bson:"amount" json:"amount" validate:"required"`
	TransactionID string             `bson:"transactionId" json:"transactionId" validate:"required"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod" validate:"required"`
	PaymentDate   string             `bson:"paymentDate" json:"paymentDate" validate:"required"`
}
