package store

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound means no document matched the query
	ErrNotFound = errors.New("not found")
	// ErrInvalidID means the supplied id is not a well-formed ObjectID hex
	ErrInvalidID = errors.New("invalid id")
	// ErrValidation covers rejected input: disallowed PATCH fields and
	// delivery status transitions outside the allowed order
	ErrValidation = errors.New("validation failed")
)

// ParseID converts an id from the request path into an ObjectID
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
