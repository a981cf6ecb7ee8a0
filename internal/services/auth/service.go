package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"natours/internal/config"
	"natours/internal/utils/crypto"
	"natours/internal/utils/sanitize"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// passwordChangedSkew is subtracted from passwordChangedAt on every password
// mutation so a session issued in the same instant is not rejected by the
// changed-after check (persistence can land a moment after signing).
const passwordChangedSkew = time.Second

// Service handles authentication business logic
type Service struct {
	repo   UsersRepo
	mailer Mailer
	config config.Config
	log    *slog.Logger
}

// NewService creates a new auth service
func NewService(repo UsersRepo, mailer Mailer, cfg config.Config, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		config: cfg,
		log:    log,
	}
}

// SignUpRequest represents a user registration request
type SignUpRequest struct {
	Name            string `json:"name" validate:"required,alpha" example:"Jonas"`
	Email           string `json:"email" validate:"required,email" example:"test@example.com"`
	Password        string `json:"password" validate:"required,min=8" example:"password1234"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password" example:"password1234"`
	Photo           string `json:"photo" validate:"omitempty" example:"me.jpg"`
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"test@example.com"`
	Password string `json:"password" validate:"required" example:"password1234"`
}

// ForgotPasswordRequest carries the email a reset token is mailed to.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email" example:"test@example.com"`
}

// ResetPasswordRequest carries the replacement password for a reset.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8" example:"newpassword1"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password" example:"newpassword1"`
}

// AuthResponse represents the response for successful authentication.
// User is nil for flows that only return a fresh session.
type AuthResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  *User  `json:"user,omitempty"`
}

// SignUp registers a new user and issues a session
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	hashed, err := crypto.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		s.log.Error("failed to hash password", "error", err)
		return nil, errors.New("failed to process password")
	}

	now := time.Now().UTC()
	user := &User{
		ID:        bson.NewObjectID(),
		Name:      sanitize.Clean(req.Name),
		Email:     email,
		Password:  hashed,
		Photo:     req.Photo,
		Active:    true,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		s.log.Error("failed to create user", "error", err)
		return nil, errors.New("failed to create user")
	}

	token, err := s.SignToken(user.ID)
	if err != nil {
		return nil, err
	}

	// The echoed user never carries the hash
	user.Password = ""

	return &AuthResponse{Token: token, User: user}, nil
}

// Login authenticates a user. Unknown email and wrong password yield the
// same error so callers cannot probe for account existence.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.repo.FindByEmail(ctx, email, true)
	if err != nil {
		s.log.Debug("login lookup failed", "error", err)
		return nil, ErrIncorrectCredentials
	}

	if err := crypto.CheckPassword(req.Password, user.Password); err != nil {
		s.log.Debug("login password mismatch", "email", email)
		return nil, ErrIncorrectCredentials
	}

	token, err := s.SignToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token}, nil
}

// ForgotPassword generates a single-use reset token, persists only its hash
// and mails the raw value. Delivery failure clears the token again.
func (s *Service) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email), false)
	if err != nil {
		return ErrNoUserWithEmail
	}

	raw, hashed, err := crypto.GenerateResetToken()
	if err != nil {
		s.log.Error("failed to generate reset token", "error", err)
		return ErrSendMail
	}

	expiresAt := time.Now().UTC().Add(time.Duration(s.config.ResetTokenMinutes) * time.Minute)
	if err := s.repo.SetResetToken(ctx, user.ID, hashed, expiresAt); err != nil {
		s.log.Error("failed to persist reset token", "error", err)
		return ErrSendMail
	}

	msg := fmt.Sprintf(
		"Forgot your password? Submit a PATCH request with your new password and passwordConfirm to %s/%s.\nIf you didn't forget your password, please ignore this email. The token is valid for %d minutes.",
		resetURLBase, raw, s.config.ResetTokenMinutes,
	)

	if err := s.mailer.Send(ctx, user.Email, "Your password reset token", msg); err != nil {
		s.log.Error("failed to send reset token email", "error", err)
		if clearErr := s.repo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.log.Error("failed to clear reset token after send failure", "error", clearErr)
		}
		return ErrSendMail
	}

	return nil
}

// ResetPassword redeems a raw reset token for a new password and session.
// A token can be redeemed exactly once: the matching write clears the
// stored hash.
func (s *Service) ResetPassword(ctx context.Context, rawToken, password string) (*AuthResponse, error) {
	user, err := s.repo.FindByResetToken(ctx, crypto.HashToken(rawToken))
	if err != nil {
		return nil, ErrResetTokenInvalid
	}

	hashed, err := crypto.HashPassword(password, s.config.BcryptCost)
	if err != nil {
		s.log.Error("failed to hash password", "error", err)
		return nil, errors.New("failed to process password")
	}

	changedAt := time.Now().UTC().Add(-passwordChangedSkew)
	if err := s.repo.UpdatePassword(ctx, user.ID, hashed, changedAt); err != nil {
		s.log.Error("failed to update password", "error", err)
		return nil, errors.New("failed to update password")
	}

	token, err := s.SignToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token}, nil
}

// SignToken signs a compact session token embedding the user id.
func (s *Service) SignToken(id bson.ObjectID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  id.Hex(),
		"iat": now.Unix(),
		"exp": now.Add(time.Duration(s.config.JWTExpiresDays) * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		s.log.Error(ErrGenToken.Error(), "error", err)
		return "", ErrGenToken
	}
	return signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
