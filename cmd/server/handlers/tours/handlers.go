package tours

import (
	"context"
	"errors"

	"natours/cmd/server/handlers/handlerutil"
	"natours/cmd/server/handlers/httperr"
	"natours/internal/services/tours"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for the tours service
type Service interface {
	Create(ctx context.Context, req tours.CreateTourRequest) (*tours.Tour, error)
	GetAll(ctx context.Context, params map[string]string) ([]*tours.Tour, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*tours.Tour, error)
	Update(ctx context.Context, id bson.ObjectID, req tours.UpdateTourRequest) (*tours.Tour, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	Stats(ctx context.Context) ([]tours.TourStats, error)
}

// Handlers contains the tours HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new tours handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// serviceError maps tours service failures onto operational errors.
func serviceError(err error) error {
	switch {
	case errors.Is(err, tours.ErrTourNotFound):
		return httperr.NotFound(err)
	case errors.Is(err, tours.ErrDuplicateName):
		return httperr.BadRequest(err)
	default:
		return httperr.Internal(err)
	}
}

// GetAll handles tour listing with filtering, sorting, projection and
// pagination driven by the raw query params.
func (h *Handlers) GetAll(c *fiber.Ctx) error {
	return h.list(c, c.Queries())
}

// TopCheap is the preset alias for the five cheapest, best rated tours.
func (h *Handlers) TopCheap(c *fiber.Ctx) error {
	params := c.Queries()
	params["sort"] = "price,-ratingsAverage"
	params["limit"] = "5"
	params["field"] = "name,price,ratingsAverage,duration,difficulty"
	return h.list(c, params)
}

func (h *Handlers) list(c *fiber.Ctx, params map[string]string) error {
	list, err := h.service.GetAll(c.Context(), params)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"results": len(list),
		"data":    fiber.Map{"tours": list},
	})
}

// Stats handles the fixed per-difficulty aggregation report.
func (h *Handlers) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"tourStats": stats},
	})
}

// Create handles tour creation
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req tours.CreateTourRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "CreateTour"); err != nil {
		return err
	}

	tour, err := h.service.Create(c.Context(), req)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"tour": tour},
	})
}

// GetOne handles fetching a single tour by id
func (h *Handlers) GetOne(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractObjectID(c, "GetTour")
	if err != nil {
		return err
	}

	tour, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"tour": tour},
	})
}

// Update handles a re-validated partial update
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractObjectID(c, "UpdateTour")
	if err != nil {
		return err
	}

	var req tours.UpdateTourRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "UpdateTour"); err != nil {
		return err
	}

	tour, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"tour": tour},
	})
}

// Delete handles tour deletion; success is 204 with no body
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractObjectID(c, "DeleteTour")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return serviceError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
