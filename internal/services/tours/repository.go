package tours

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for tour repository operations.
// Slug derivation is a store-layer invariant: every Create, and every
// UpdateByID that touches the name, persists a freshly derived slug.
type Repository interface {
	Create(ctx context.Context, t *Tour) error
	FindByID(ctx context.Context, id bson.ObjectID) (*Tour, error)
	Find(ctx context.Context, q Query) ([]*Tour, error)
	UpdateByID(ctx context.Context, id bson.ObjectID, patch UpdateTourRequest) (*Tour, error)
	DeleteByID(ctx context.Context, id bson.ObjectID) error
	Stats(ctx context.Context) ([]TourStats, error)
}
