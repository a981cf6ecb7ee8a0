package middlewares

import (
	"errors"

	"natours/cmd/server/handlers/handlerutil"
	"natours/cmd/server/handlers/httperr"
	"natours/internal/config"
	"natours/internal/services/auth"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Protect returns the "is logged in" gate:
//
//   - validates the Bearer token signature and expiry using cfg.JWTSecret
//   - re-fetches the embedded user so deleted accounts are rejected
//   - rejects tokens issued before the user's last password change
//   - stores the resolved user in ctx.Locals so downstream handlers can
//     trust it.
//
// Every failure surfaces as a 401 through the global error handler.
func Protect(cfg config.Config, users auth.UsersRepo) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			// Signature and expiry already verified at this point.
			token := c.Locals("user").(*jwt.Token)
			claims, _ := token.Claims.(jwt.MapClaims)

			idHex, ok := claims["id"].(string)
			if !ok || idHex == "" {
				return httperr.Unauthorized(auth.ErrTokenInvalid)
			}
			id, err := bson.ObjectIDFromHex(idHex)
			if err != nil {
				return httperr.Unauthorized(auth.ErrTokenInvalid)
			}

			var issuedAt int64
			if iat, ok := claims["iat"].(float64); ok {
				issuedAt = int64(iat)
			}

			user, err := users.FindByID(c.Context(), id)
			if err != nil {
				return httperr.Unauthorized(auth.ErrUserGone)
			}

			if user.ChangedPasswordAfter(issuedAt) {
				return httperr.Unauthorized(auth.ErrPasswordChanged)
			}

			c.Locals(handlerutil.CurrentUserKey, user)
			return c.Next()
		},

		ErrorHandler: func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, jwtware.ErrJWTMissingOrMalformed):
				return httperr.Unauthorized(auth.ErrNotLoggedIn)
			case errors.Is(err, jwt.ErrTokenExpired):
				return httperr.Unauthorized(auth.ErrTokenExpired)
			default:
				return httperr.Unauthorized(auth.ErrTokenInvalid)
			}
		},
	})
}

// RestrictTo gates a route to the given roles. It assumes Protect already
// ran and resolved the current user.
func RestrictTo(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *fiber.Ctx) error {
		user, err := handlerutil.CurrentUser(c)
		if err != nil {
			return err
		}

		if !allowed[user.Role] {
			return httperr.Unauthorized(auth.ErrNotAllowed)
		}

		return c.Next()
	}
}
