package store

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zapshift-backend/models"
)

// RiderStore is the courier application directory
type RiderStore interface {
	// Apply inserts an application with status forced to "pending"
	// regardless of caller input.
	Apply(ctx context.Context, app *models.RiderApplication) (string, error)
	FindByStatus(ctx context.Context, status string) ([]models.RiderApplication, error)
	// FindAll filters by status when given; an empty filter returns all
	FindAll(ctx context.Context, statusFilter string) ([]models.RiderApplication, error)
	FindActiveByCity(ctx context.Context, city string) ([]models.RiderApplication, error)
	// SetStatus updates the application's status and, when the new status
	// is "active", promotes the linked user's role to "rider".
	SetStatus(ctx context.Context, id, status string) (*models.RiderApplication, error)
}

type mongoRiderStore struct {
	collection *mongo.Collection
	users      UserStore
	client     *mongo.Client
	useTxn     bool
}

// NewRiderStore returns a RiderStore backed by the "riders" collection.
// When useTxn is true the approval composite (application update + role
// promotion) runs inside a session transaction; otherwise the two writes
// are sequential and a failure between them leaves partial state, matching
// the original behavior.
func NewRiderStore(client *mongo.Client, db *mongo.Database, users UserStore, useTxn bool) RiderStore {
	return &mongoRiderStore{
		collection: db.Collection("riders"),
		users:      users,
		client:     client,
		useTxn:     useTxn,
	}
}

func (s *mongoRiderStore) Apply(ctx context.Context, app *models.RiderApplication) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	app.Status = models.RiderPending
	app.AppliedAt = time.Now()

	result, err := s.collection.InsertOne(ctx, app)
	if err != nil {
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *mongoRiderStore) FindByStatus(ctx context.Context, status string) ([]models.RiderApplication, error) {
	return s.find(ctx, bson.M{"status": status})
}

func (s *mongoRiderStore) FindAll(ctx context.Context, statusFilter string) ([]models.RiderApplication, error) {
	filter := bson.M{}
	if statusFilter != "" {
		filter["status"] = statusFilter
	}
	return s.find(ctx, filter)
}

func (s *mongoRiderStore) FindActiveByCity(ctx context.Context, city string) ([]models.RiderApplication, error) {
	return s.find(ctx, bson.M{"status": models.RiderActive, "city": city})
}

func (s *mongoRiderStore) SetStatus(ctx context.Context, id, status string) (*models.RiderApplication, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if s.useTxn && s.client != nil {
		session, err := s.client.StartSession()
		if err != nil {
			return nil, err
		}
		defer session.EndSession(ctx)

		app, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return s.applyStatus(sc, oid, status)
		})
		if err != nil {
			return nil, err
		}
		return app.(*models.RiderApplication), nil
	}

	return s.applyStatus(ctx, oid, status)
}

func (s *mongoRiderStore) applyStatus(ctx context.Context, oid primitive.ObjectID, status string) (*models.RiderApplication, error) {
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	var app models.RiderApplication
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&app); err != nil {
		return nil, err
	}

	if status == models.RiderActive {
		err := s.users.PromoteToRider(ctx, app.ApplicantEmail)
		if errors.Is(err, ErrNotFound) {
			// The applicant never signed in; the promotion will not apply.
			log.Printf("rider %s approved but no user record for %s", oid.Hex(), app.ApplicantEmail)
		} else if err != nil {
			return nil, err
		}
	}
	return &app, nil
}

func (s *mongoRiderStore) find(ctx context.Context, filter bson.M) ([]models.RiderApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var apps []models.RiderApplication
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}
