package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zapshift-backend/models"
	"zapshift-backend/statemachine"
)

const opTimeout = 10 * time.Second

// StatusCount is one bucket of the delivery-status aggregation
type StatusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

// StatusSummary is the result of ParcelStore.StatusCounts: counts per
// delivery status plus the paid-but-uncollected backlog metric.
type StatusSummary struct {
	StatusSummary   []StatusCount `json:"statusSummary"`
	PaidNotAssigned int64         `json:"paidNotAssigned"`
}

// ParcelStore is the parcel ledger
type ParcelStore interface {
	Create(ctx context.Context, parcel *models.Parcel) (string, error)
	FindByOwner(ctx context.Context, email string) ([]models.Parcel, error)
	FindByID(ctx context.Context, id string) (*models.Parcel, error)
	FindAll(ctx context.Context) ([]models.Parcel, error)
	FindAssignable(ctx context.Context) ([]models.Parcel, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	SetCashoutStatus(ctx context.Context, id, status string) error
	MarkPaid(ctx context.Context, id string) error
	SetDeliveryStatus(ctx context.Context, id, status string) (*models.Parcel, error)
	AssignRider(ctx context.Context, id string, rider models.AssignedRider) error
	StatusCounts(ctx context.Context) (*StatusSummary, error)
	FindByRiderAndStatus(ctx context.Context, riderEmail string, statuses []string) ([]models.Parcel, error)
}

type mongoParcelStore struct {
	collection *mongo.Collection
}

// NewParcelStore returns a ParcelStore backed by the "parcels" collection
func NewParcelStore(db *mongo.Database) ParcelStore {
	return &mongoParcelStore{collection: db.Collection("parcels")}
}

func (s *mongoParcelStore) Create(ctx context.Context, parcel *models.Parcel) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	parcel.PaymentStatus = models.PaymentUnpaid
	parcel.DeliveryStatus = models.DeliveryNotCollected
	parcel.CreationDate = time.Now()

	result, err := s.collection.InsertOne(ctx, parcel)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *mongoParcelStore) FindByOwner(ctx context.Context, email string) ([]models.Parcel, error) {
	return s.find(ctx, bson.M{"userEmail": email})
}

func (s *mongoParcelStore) FindByID(ctx context.Context, id string) (*models.Parcel, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var parcel models.Parcel
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&parcel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &parcel, nil
}

func (s *mongoParcelStore) FindAll(ctx context.Context) ([]models.Parcel, error) {
	return s.find(ctx, bson.M{})
}

func (s *mongoParcelStore) FindAssignable(ctx context.Context) ([]models.Parcel, error) {
	return s.find(ctx, bson.M{
		"payment_status":  models.PaymentPaid,
		"delivery_status": models.DeliveryNotCollected,
	})
}

// BuildParcelUpdate filters a caller-supplied patch against the allow-list
// in models.ParcelUpdatableFields. Unknown or lifecycle fields are rejected
// rather than silently dropped.
func BuildParcelUpdate(fields map[string]interface{}) (bson.M, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	set := bson.M{}
	for k, v := range fields {
		if !models.ParcelUpdatableFields[k] {
			return nil, fmt.Errorf("%w: field %q is not updatable", ErrValidation, k)
		}
		set[k] = v
	}
	return set, nil
}

func (s *mongoParcelStore) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	set, err := BuildParcelUpdate(fields)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoParcelStore) SetCashoutStatus(ctx context.Context, id, status string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"cashout_status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid sets payment_status to paid. Re-applying has no further effect.
func (s *mongoParcelStore) MarkPaid(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"payment_status": models.PaymentPaid}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyDeliveryTransition validates a delivery status change against the
// state machine and mutates the parcel in place, stamping picked_at on the
// transition into in_transit and delivered_at on the transition into
// delivered. Returns the $set document for the corresponding write.
func ApplyDeliveryTransition(parcel *models.Parcel, status string, now time.Time) (bson.M, error) {
	if err := statemachine.CanTransition(parcel.DeliveryStatus, status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	set := bson.M{"delivery_status": status}
	switch status {
	case models.DeliveryInTransit:
		set["picked_at"] = now
		parcel.PickedAt = &now
	case models.DeliveryDelivered:
		set["delivered_at"] = now
		parcel.DeliveredAt = &now
	}
	parcel.DeliveryStatus = status
	return set, nil
}

// SetDeliveryStatus advances the delivery lifecycle through the central
// transition validator.
func (s *mongoParcelStore) SetDeliveryStatus(ctx context.Context, id, status string) (*models.Parcel, error) {
	parcel, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	set, err := ApplyDeliveryTransition(parcel, status, time.Now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": parcel.ID}, bson.M{"$set": set}); err != nil {
		return nil, err
	}
	return parcel, nil
}

// AssignRider sets the courier and forces delivery_status to assigned in a
// single write. The parcel must be paid and still not collected.
func (s *mongoParcelStore) AssignRider(ctx context.Context, id string, rider models.AssignedRider) error {
	parcel, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if parcel.PaymentStatus != models.PaymentPaid {
		return fmt.Errorf("%w: parcel is not paid", ErrValidation)
	}
	if err := statemachine.CanTransition(parcel.DeliveryStatus, models.DeliveryAssigned); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err = s.collection.UpdateOne(ctx, bson.M{"_id": parcel.ID}, bson.M{"$set": bson.M{
		"assignedRider":   rider,
		"delivery_status": models.DeliveryAssigned,
	}})
	return err
}

func (s *mongoParcelStore) StatusCounts(ctx context.Context) (*StatusSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$delivery_status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []StatusCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}

	backlog, err := s.collection.CountDocuments(ctx, bson.M{
		"payment_status":  models.PaymentPaid,
		"delivery_status": models.DeliveryNotCollected,
	})
	if err != nil {
		return nil, err
	}

	return &StatusSummary{StatusSummary: counts, PaidNotAssigned: backlog}, nil
}

func (s *mongoParcelStore) FindByRiderAndStatus(ctx context.Context, riderEmail string, statuses []string) ([]models.Parcel, error) {
	return s.find(ctx, bson.M{
		"assignedRider.email": riderEmail,
		"delivery_status":     bson.M{"$in": statuses},
	})
}

func (s *mongoParcelStore) find(ctx context.Context, filter bson.M) ([]models.Parcel, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var parcels []models.Parcel
	if err := cursor.All(ctx, &parcels); err != nil {
		return nil, err
	}
	return parcels, nil
}
