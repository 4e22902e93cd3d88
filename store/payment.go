package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zapshift-backend/models"
)

// PaymentStore is the append-only payment journal
type PaymentStore interface {
	Record(ctx context.Context, payment *models.Payment) (string, error)
	FindByEmail(ctx context.Context, email string) ([]models.Payment, error)
}

type mongoPaymentStore struct {
	collection *mongo.Collection
}

// NewPaymentStore returns a PaymentStore backed by the "payments" collection
func NewPaymentStore(db *mongo.Database) PaymentStore {
	return &mongoPaymentStore{collection: db.Collection("payments")}
}

func (s *mongoPaymentStore) Record(ctx context.Context, payment *models.Payment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.collection.InsertOne(ctx, payment)
	if err != nil {
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *mongoPaymentStore) FindByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
