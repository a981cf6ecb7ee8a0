package users

import (
	"context"
	"errors"
	"time"

	"natours/cmd/server/handlers/handlerutil"
	"natours/cmd/server/handlers/httperr"
	"natours/internal/config"
	"natours/internal/logger"
	"natours/internal/services/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie the session token is mirrored into.
const SessionCookieName = "jwt"

// AuthService defines the interface for the auth service
type AuthService interface {
	SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.AuthResponse, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error)
	ForgotPassword(ctx context.Context, email, resetURLBase string) error
	ResetPassword(ctx context.Context, rawToken, password string) (*auth.AuthResponse, error)
}

// Handlers contains the users/auth HTTP handlers
type Handlers struct {
	authService AuthService
	validator   *validator.Validate
	config      config.Config
}

// NewHandlers creates new users handlers
func NewHandlers(authService AuthService, validator *validator.Validate, cfg config.Config) *Handlers {
	return &Handlers{
		authService: authService,
		validator:   validator,
		config:      cfg,
	}
}

// setSessionCookie mirrors the token into an http-only cookie, marked
// secure outside development.
func (h *Handlers) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.config.CookieExpiresDays) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   h.config.IsProduction(),
	})
}

// SignUp handles user registration
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req auth.SignUpRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "SignUp"); err != nil {
		return err
	}

	resp, err := h.authService.SignUp(c.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			return httperr.BadRequest(err)
		}
		logger.L().Error("signup service failed", "handler", "SignUp", "email", req.Email, "error", err)
		return httperr.Internal(err)
	}

	h.setSessionCookie(c, resp.Token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"token":  resp.Token,
		"data":   fiber.Map{"user": resp.User},
	})
}

// Login handles user authentication. Unknown email and wrong password get
// the same 400, never a 401, so the response does not reveal existence.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.L().Warn("failed to parse login request body", "handler", "Login", "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if req.Email == "" || req.Password == "" {
		return httperr.New(fiber.StatusBadRequest, "please provide email and password")
	}

	resp, err := h.authService.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrIncorrectCredentials) {
			return httperr.BadRequest(err)
		}
		logger.L().Error("login service failed", "handler", "Login", "error", err)
		return httperr.Internal(err)
	}

	h.setSessionCookie(c, resp.Token)

	return c.JSON(fiber.Map{
		"status": "success",
		"token":  resp.Token,
	})
}

// ForgotPassword mails a single-use reset token.
func (h *Handlers) ForgotPassword(c *fiber.Ctx) error {
	var req auth.ForgotPasswordRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "ForgotPassword"); err != nil {
		return err
	}

	resetURLBase := c.Protocol() + "://" + c.Hostname() + "/api/v1/users/reset-password"

	if err := h.authService.ForgotPassword(c.Context(), req.Email, resetURLBase); err != nil {
		switch {
		case errors.Is(err, auth.ErrNoUserWithEmail):
			return httperr.BadRequest(err)
		case errors.Is(err, auth.ErrSendMail):
			return httperr.Internal(err)
		default:
			logger.L().Error("forgot password service failed", "handler", "ForgotPassword", "error", err)
			return httperr.Internal(err)
		}
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "your reset token has been sent to your email address",
	})
}

// ResetPassword redeems a raw reset token for a new password and session.
func (h *Handlers) ResetPassword(c *fiber.Ctx) error {
	rawToken := c.Params("token")
	if rawToken == "" {
		return httperr.BadRequest(auth.ErrResetTokenInvalid)
	}

	var req auth.ResetPasswordRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "ResetPassword"); err != nil {
		return err
	}

	resp, err := h.authService.ResetPassword(c.Context(), rawToken, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrResetTokenInvalid) {
			return httperr.BadRequest(err)
		}
		logger.L().Error("reset password service failed", "handler", "ResetPassword", "error", err)
		return httperr.Internal(err)
	}

	h.setSessionCookie(c, resp.Token)

	return c.JSON(fiber.Map{
		"status": "success",
		"token":  resp.Token,
	})
}
