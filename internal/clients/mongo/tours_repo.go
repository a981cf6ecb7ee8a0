package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"natours/internal/logger"
	"natours/internal/services/tours"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// statsPriceCeiling restricts the aggregation report to non-premium tours.
const statsPriceCeiling = 1500

// ToursRepo implements the tours.Repository interface for MongoDB
type ToursRepo struct {
	collection *mongo.Collection
}

// translateTourNotFound maps the driver ErrNoDocuments to the domain-level error.
func translateTourNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tours.ErrTourNotFound
	}
	return err
}

// NewToursRepo creates a new tours repository and ensures its indexes.
func NewToursRepo(parentCtx context.Context, db *mongo.Database) (*ToursRepo, error) {
	collection := db.Collection("tours")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
		},
		// Covers the default newest-first listing
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
		},
		// Covers the common price/rating filters and the top-5 alias
		{
			Keys: bson.D{
				{Key: "price", Value: 1},
				{Key: "ratings_average", Value: -1},
			},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	for _, indexModel := range indexes {
		if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.L().Debug("index already exists, continuing", "collection", "tours")
			} else {
				logger.L().Error("failed to create index", "collection", "tours", "error", err)
				return nil, fmt.Errorf("failed to create tours collection index: %w", err)
			}
		}
	}

	return &ToursRepo{
		collection: collection,
	}, nil
}

// Create inserts a new tour. The slug is derived from the name here so it
// can never drift from what is persisted.
func (r *ToursRepo) Create(ctx context.Context, tour *tours.Tour) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	tour.Slug = slug.Make(tour.Name)
	tour.CreatedAt = now
	tour.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, tour)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return tours.ErrDuplicateName
		}
		return err
	}

	return nil
}

// FindByID fetches a single tour by id.
func (r *ToursRepo) FindByID(ctx context.Context, id bson.ObjectID) (*tours.Tour, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var tour tours.Tour
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tour)
	if err != nil {
		return nil, translateTourNotFound(err)
	}

	return &tour, nil
}

// Find executes one composed query descriptor against the collection.
func (r *ToursRepo) Find(ctx context.Context, q tours.Query) ([]*tours.Tour, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(q.Sort).
		SetSkip(q.Skip).
		SetLimit(q.Limit)
	if q.Projection != nil {
		opts.SetProjection(q.Projection)
	}

	cursor, err := r.collection.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	var list []*tours.Tour
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}

	return list, nil
}

// UpdateByID applies a partial update and returns the updated document.
// A name change re-derives the slug in the same write.
func (r *ToursRepo) UpdateByID(ctx context.Context, id bson.ObjectID, patch tours.UpdateTourRequest) (*tours.Tour, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	set := bson.M{
		"updated_at": time.Now().UTC(),
	}

	if patch.Name != nil {
		set["name"] = *patch.Name
		set["slug"] = slug.Make(*patch.Name)
	}
	if patch.Duration != nil {
		set["duration"] = *patch.Duration
	}
	if patch.Difficulty != nil {
		set["difficulty"] = *patch.Difficulty
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.MaxGroupSize != nil {
		set["max_group_size"] = *patch.MaxGroupSize
	}
	if patch.Summary != nil {
		set["summary"] = *patch.Summary
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.ImageCover != nil {
		set["image_cover"] = *patch.ImageCover
	}
	if patch.RatingsAverage != nil {
		set["ratings_average"] = *patch.RatingsAverage
	}
	if patch.RatingsQuantity != nil {
		set["ratings_quantity"] = *patch.RatingsQuantity
	}
	if patch.Images != nil {
		set["images"] = patch.Images
	}
	if patch.StartDates != nil {
		set["start_dates"] = patch.StartDates
	}
	if patch.StartLocation != nil {
		set["start_location"] = patch.StartLocation
	}
	if patch.Locations != nil {
		set["locations"] = patch.Locations
	}
	if patch.Guides != nil {
		set["guides"] = patch.Guides
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated tours.Tour
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, tours.ErrDuplicateName
		}
		return nil, translateTourNotFound(err)
	}

	return &updated, nil
}

// DeleteByID removes a tour.
func (r *ToursRepo) DeleteByID(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return tours.ErrTourNotFound
	}

	return nil
}

// Stats runs the fixed report: tours under the price ceiling, grouped by
// uppercased difficulty with count/min/max/avg price, cheapest group first.
func (r *ToursRepo) Stats(ctx context.Context) ([]tours.TourStats, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"price": bson.M{"$lt": statsPriceCeiling},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       bson.M{"$toUpper": "$difficulty"},
			"num_tours": bson.M{"$sum": 1},
			"min_price": bson.M{"$min": "$price"},
			"max_price": bson.M{"$max": "$price"},
			"avg_price": bson.M{"$avg": "$price"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"avg_price": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	var stats []tours.TourStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}

	return stats, nil
}
