package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zapshift-backend/models"
)

// UserStore is the account directory, keyed by email
type UserStore interface {
	// UpsertOnSignIn inserts the user on first sign-in. If a record with
	// the same email already exists it is returned unchanged with
	// created=false; the stored role is never overwritten.
	UpsertOnSignIn(ctx context.Context, user models.User) (*models.User, bool, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Role(ctx context.Context, email string) (string, error)
	PromoteToAdmin(ctx context.Context, email string) error
	PromoteToRider(ctx context.Context, email string) error
}

type mongoUserStore struct {
	collection *mongo.Collection
}

// NewUserStore returns a UserStore backed by the "users" collection
func NewUserStore(db *mongo.Database) UserStore {
	return &mongoUserStore{collection: db.Collection("users")}
}

func (s *mongoUserStore) UpsertOnSignIn(ctx context.Context, user models.User) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var existing models.User
	err := s.collection.FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing)
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.CreationDate = time.Now()

	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		return nil, false, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return &user, true, nil
}

func (s *mongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Role resolves the stored role, defaulting an empty value to "user"
func (s *mongoUserStore) Role(ctx context.Context, email string) (string, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user.Role == "" {
		return models.RoleUser, nil
	}
	return user.Role, nil
}

func (s *mongoUserStore) PromoteToAdmin(ctx context.Context, email string) error {
	return s.setRole(ctx, email, models.RoleAdmin)
}

func (s *mongoUserStore) PromoteToRider(ctx context.Context, email string) error {
	return s.setRole(ctx, email, models.RoleRider)
}

func (s *mongoUserStore) setRole(ctx context.Context, email, role string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
