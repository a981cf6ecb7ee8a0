package mongo

import (
	"context"
	"errors"
	"time"

	"natours/internal/logger"
	"natours/internal/services/auth"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersRepo implements the auth.UsersRepo interface for MongoDB
type UsersRepo struct {
	collection *mongo.Collection
}

// NewUsersRepo creates a new users repository and ensures the unique
// email index exists.
func NewUsersRepo(parentCtx context.Context, db *mongo.Database) (*UsersRepo, error) {
	collection := db.Collection("users")

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.L().Debug("index already exists, continuing", "collection", "users")
		} else {
			logger.L().Error("failed to create index", "collection", "users", "error", err)
			return nil, err
		}
	}

	return &UsersRepo{
		collection: collection,
	}, nil
}

// Create inserts a new user; the caller passes an already hashed password.
func (r *UsersRepo) Create(ctx context.Context, user *auth.User) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrDuplicateEmail
		}
		return err
	}

	return nil
}

// FindByEmail finds a user by email address. The password hash is excluded
// from the read unless includePassword is set.
func (r *UsersRepo) FindByEmail(ctx context.Context, email string, includePassword bool) (*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	opts := options.FindOne()
	if !includePassword {
		opts.SetProjection(bson.M{"password": 0})
	}

	var user auth.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// FindByID finds a user by id, always excluding the password hash.
func (r *UsersRepo) FindByID(ctx context.Context, id bson.ObjectID) (*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"password": 0})

	var user auth.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// UpdatePassword stores a new hash and changed-at stamp, and clears any
// outstanding reset token in the same atomic write.
func (r *UsersRepo) UpdatePassword(ctx context.Context, id bson.ObjectID, hash string, changedAt time.Time) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"password":            hash,
			"password_changed_at": changedAt,
			"updated_at":          time.Now().UTC(),
		},
		"$unset": bson.M{
			"password_reset_token": "",
			"password_reset_at":    "",
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// SetResetToken persists the hashed reset token and its expiry.
func (r *UsersRepo) SetResetToken(ctx context.Context, id bson.ObjectID, hashedToken string, expiresAt time.Time) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"password_reset_token": hashedToken,
			"password_reset_at":    expiresAt,
			"updated_at":           time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// ClearResetToken removes the reset token fields, e.g. after a failed send.
func (r *UsersRepo) ClearResetToken(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	update := bson.M{
		"$unset": bson.M{
			"password_reset_token": "",
			"password_reset_at":    "",
		},
		"$set": bson.M{
			"updated_at": time.Now().UTC(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// FindByResetToken matches the stored token hash with an unexpired window.
func (r *UsersRepo) FindByResetToken(ctx context.Context, hashedToken string) (*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"password_reset_token": hashedToken,
		"password_reset_at":    bson.M{"$gt": time.Now().UTC()},
	}

	opts := options.FindOne().SetProjection(bson.M{"password": 0})

	var user auth.User
	err := r.collection.FindOne(ctx, filter, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}
