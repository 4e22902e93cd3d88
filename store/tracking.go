package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zapshift-backend/models"
)

// TrackingStore is the append-only status-event log per parcel
type TrackingStore interface {
	Append(ctx context.Context, entry *models.TrackingEntry) (string, error)
	// Find returns entries for a tracking id, or all entries when empty
	Find(ctx context.Context, trackingID string) ([]models.TrackingEntry, error)
}

type mongoTrackingStore struct {
	collection *mongo.Collection
}

// NewTrackingStore returns a TrackingStore backed by the "tracking" collection
func NewTrackingStore(db *mongo.Database) TrackingStore {
	return &mongoTrackingStore{collection: db.Collection("tracking")}
}

func (s *mongoTrackingStore) Append(ctx context.Context, entry *models.TrackingEntry) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	result, err := s.collection.InsertOne(ctx, entry)
	if err != nil {
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *mongoTrackingStore) Find(ctx context.Context, trackingID string) ([]models.TrackingEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if trackingID != "" {
		filter["trackingId"] = trackingID
	}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.TrackingEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
