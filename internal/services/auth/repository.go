package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UsersRepo defines the interface for user repository operations
type UsersRepo interface {
	Create(ctx context.Context, user *User) error
	// FindByEmail excludes the password hash unless includePassword is set.
	FindByEmail(ctx context.Context, email string, includePassword bool) (*User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*User, error)
	// UpdatePassword stores a new hash, records changedAt and clears any
	// outstanding reset token in the same write.
	UpdatePassword(ctx context.Context, id bson.ObjectID, hash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id bson.ObjectID, hashedToken string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id bson.ObjectID) error
	// FindByResetToken matches the stored token hash with an unexpired window.
	FindByResetToken(ctx context.Context, hashedToken string) (*User, error)
}

// Mailer delivers out-of-band messages. A send failure is terminal: the
// caller reports it, nothing retries.
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}
