package httperr

import (
	"errors"
	"runtime/debug"

	"natours/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// E is an operational error: an anticipated failure with a safe user-facing
// message. Anything that reaches the boundary without being an E is treated
// as a programming error.
type E struct {
	Code    int    `json:"-" example:"400"`
	Message string `json:"message" example:"Bad Request"`
	Err     error  `json:"-"` // underlying cause, exposed only in development
	stack   []byte // captured at construction so development output shows the origin
}

// Error implements the error interface
func (e E) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e E) Unwrap() error {
	return e.Err
}

// statusWord maps a code to the envelope's status discriminator:
// client failures are "fail", server failures are "error".
func statusWord(code int) string {
	if code < 500 {
		return "fail"
	}
	return "error"
}

func (e E) respond(c *fiber.Ctx, dev bool) error {
	body := fiber.Map{
		"status":  statusWord(e.Code),
		"message": e.Message,
	}
	if dev {
		if e.Err != nil {
			body["error"] = e.Err.Error()
		}
		stack := e.stack
		if stack == nil {
			// Errors not built through New/Wrap get the responder's stack
			stack = debug.Stack()
		}
		body["stack"] = string(stack)
	}
	return c.Status(e.Code).JSON(body)
}

// Fail returns the error for Fiber's global error handler to process
func Fail(err E) error {
	return err
}

// New builds an operational error with the given status code.
func New(code int, message string) E {
	return E{Code: code, Message: message, stack: debug.Stack()}
}

// Wrap turns a known error into an operational error, keeping the cause
// for development output.
func Wrap(code int, err error) E {
	return E{Code: code, Message: err.Error(), Err: err, stack: debug.Stack()}
}

// BadRequest maps err to a 400 response.
func BadRequest(err error) error { return Wrap(fiber.StatusBadRequest, err) }

// Unauthorized maps err to a 401 response.
func Unauthorized(err error) error { return Wrap(fiber.StatusUnauthorized, err) }

// NotFound maps err to a 404 response.
func NotFound(err error) error { return Wrap(fiber.StatusNotFound, err) }

// Internal maps err to a 500 response.
func Internal(err error) error { return Wrap(fiber.StatusInternalServerError, err) }

// InvalidInput rewrites a validation failure into the standard 400 shape.
// validator.ValidationErrors keep their per-field detail; anything else is
// reported as-is.
func InvalidInput(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return E{Code: fiber.StatusBadRequest, Message: "Invalid input: " + verrs.Error(), Err: err, stack: debug.Stack()}
	}
	return E{Code: fiber.StatusBadRequest, Message: "Invalid input: " + err.Error(), Err: err, stack: debug.Stack()}
}

// Pre-defined HTTP errors
var (
	ErrBadRequest      = E{Code: 400, Message: "Bad Request"}
	ErrUnauthorized    = E{Code: 401, Message: "Unauthorized"}
	ErrTooManyRequests = E{Code: 429, Message: "too many requests from this IP, please try again later"}
)

// Handler returns the global Fiber error handler for the given environment.
// Development responses carry the underlying error and a stack; production
// responses expose operational errors as status+message only and collapse
// everything else to a generic 500 after logging it server-side.
func Handler(env string) fiber.ErrorHandler {
	dev := env != "production"

	return func(c *fiber.Ctx, err error) error {
		var e E
		if errors.As(err, &e) {
			return e.respond(c, dev)
		}

		var fiberError *fiber.Error
		if errors.As(err, &fiberError) {
			return E{Code: fiberError.Code, Message: fiberError.Message, Err: err}.respond(c, dev)
		}

		// Programming error: never leak detail in production
		if log := logger.L(); log != nil {
			log.Error("unhandled error", "path", c.Path(), "error", err)
		}
		if dev {
			return E{Code: fiber.StatusInternalServerError, Message: err.Error(), Err: err}.respond(c, true)
		}
		return E{Code: fiber.StatusInternalServerError, Message: "something went very wrong"}.respond(c, false)
	}
}
