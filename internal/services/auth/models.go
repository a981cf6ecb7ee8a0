package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a user in the system. Password, active flag and the reset
// bookkeeping never serialize to JSON; the password hash is additionally
// excluded from reads unless the repository is asked for it explicitly.
type User struct {
	ID                 bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	Name               string        `bson:"name" json:"name" example:"Jonas"`
	Email              string        `bson:"email" json:"email" example:"test@example.com"`
	Password           string        `bson:"password,omitempty" json:"-"`
	Photo              string        `bson:"photo,omitempty" json:"photo,omitempty"`
	Active             bool          `bson:"active" json:"-"`
	Role               string        `bson:"role" json:"role" example:"user"`
	PasswordChangedAt  time.Time     `bson:"password_changed_at,omitempty" json:"-"`
	PasswordResetToken string        `bson:"password_reset_token,omitempty" json:"-"`
	PasswordResetAt    time.Time     `bson:"password_reset_at,omitempty" json:"-"`
	CreatedAt          time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time     `bson:"updated_at" json:"updatedAt"`
}

// RoleAdmin is the role allowed through admin-restricted routes.
const RoleAdmin = "admin"

// RoleUser is the default role assigned on signup.
const RoleUser = "user"

// ChangedPasswordAfter reports whether the password was changed after the
// given token issuance time (unix seconds). Tokens issued before a password
// change are considered revoked.
func (u *User) ChangedPasswordAfter(issuedAt int64) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return issuedAt < u.PasswordChangedAt.Unix()
}
