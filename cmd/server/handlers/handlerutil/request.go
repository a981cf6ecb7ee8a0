package handlerutil

import (
	"fmt"

	"natours/cmd/server/handlers/httperr"
	"natours/internal/logger"
	"natours/internal/services/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CurrentUserKey is the Locals key the auth middleware stores the resolved
// user under.
const CurrentUserKey = "currentUser"

// CurrentUser returns the user resolved by the protect middleware.
func CurrentUser(c *fiber.Ctx) (*auth.User, error) {
	user, ok := c.Locals(CurrentUserKey).(*auth.User)
	if !ok || user == nil {
		logger.L().Error("current user not found in context", "path", c.Path())
		return nil, httperr.Unauthorized(auth.ErrNotLoggedIn)
	}
	return user, nil
}

// ParseAndValidateBody parses the request body and validates it
func ParseAndValidateBody(c *fiber.Ctx, req any, v *validator.Validate, handlerName string) error {
	if err := c.BodyParser(req); err != nil {
		logger.L().Warn("failed to parse request body", "handler", handlerName, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := v.Struct(req); err != nil {
		logger.L().Warn("request validation failed", "handler", handlerName, "error", err)
		return httperr.InvalidInput(err)
	}

	return nil
}

// ExtractObjectID parses the :id URL parameter. Malformed identifiers are a
// 400, matching how bad casts are reported everywhere else.
func ExtractObjectID(c *fiber.Ctx, handlerName string) (bson.ObjectID, error) {
	raw := c.Params("id")

	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		logger.L().Warn("invalid id parameter", "handler", handlerName, "id", raw, "error", err)
		return bson.ObjectID{}, httperr.New(fiber.StatusBadRequest, fmt.Sprintf("invalid id: %s", raw))
	}

	return id, nil
}
