package main

import (
	"context"
	"fmt"
	"time"

	"natours/cmd/server/handlers"
	"natours/cmd/server/handlers/httperr"
	toursHandlers "natours/cmd/server/handlers/tours"
	usersHandlers "natours/cmd/server/handlers/users"
	"natours/cmd/server/middlewares"
	"natours/internal/clients/mailer"
	"natours/internal/clients/mongo"
	"natours/internal/config"
	"natours/internal/logger"
	authServices "natours/internal/services/auth"
	toursServices "natours/internal/services/tours"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// setupRouter configures and returns a Fiber app with all routes
func setupRouter(ctx context.Context, cfg config.Config) *fiber.App {

	v := validator.New()

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler(cfg.AppEnv),
		Immutable:    true, // make Fiber copy all request-derived strings
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Authorization",
	}))

	if cfg.RouteMetricsEnabled {
		middlewares.AttachMetrics(app)
	}

	// Health check endpoint, outside the versioned (and rate-limited) API
	app.Get("/healthz", handlers.Healthz)

	// The whole /api surface sits behind the per-IP rate limiter
	limiterMW := middlewares.BuildRateLimiter(
		cfg.RateLimitMax,
		time.Duration(cfg.RateLimitWindowMin)*time.Minute,
	)
	api := app.Group("/api", limiterMW)

	var v1 fiber.Router
	if cfg.RequestLoggingEnabled {
		v1 = api.Group("/v1", fiberlogger.New())
		logger.L().Info("request logging enabled")
	} else {
		v1 = api.Group("/v1")
		logger.L().Info("request logging disabled")
	}

	usersRepo, newUsersRepoErr := mongo.NewUsersRepo(ctx, mongo.DB())
	if newUsersRepoErr != nil {
		logger.L().Error("failed to create users repository", "error", newUsersRepoErr)
		panic(newUsersRepoErr)
	}
	toursRepo, newToursRepoErr := mongo.NewToursRepo(ctx, mongo.DB())
	if newToursRepoErr != nil {
		logger.L().Error(toursServices.ErrCreateToursRepo.Error(), "error", newToursRepoErr)
		panic(newToursRepoErr)
	}

	authSvc := authServices.NewService(usersRepo, mailer.NewMailgun(cfg), cfg, logger.L())
	usersH := usersHandlers.NewHandlers(authSvc, v, cfg)

	protect := middlewares.Protect(cfg, usersRepo)

	usersGrp := v1.Group("/users")
	usersGrp.Post("/signup", usersH.SignUp)
	usersGrp.Post("/login", usersH.Login)
	usersGrp.Post("/forgot-password", usersH.ForgotPassword)
	usersGrp.Patch("/reset-password/:token", usersH.ResetPassword)

	toursSvc := toursServices.NewService(toursRepo, logger.L())
	toursH := toursHandlers.NewHandlers(toursSvc, v)

	toursGrp := v1.Group("/tours")
	// Preset aliases first so they are not swallowed by the :id route
	toursGrp.Get("/top-5-cheap", toursH.TopCheap)
	toursGrp.Get("/tour-stats", toursH.Stats)
	toursGrp.Get("/", protect, toursH.GetAll)
	toursGrp.Post("/", toursH.Create)
	toursGrp.Get("/:id", toursH.GetOne)
	toursGrp.Patch("/:id", toursH.Update)
	toursGrp.Delete("/:id", protect, middlewares.RestrictTo(authServices.RoleAdmin), toursH.Delete)

	// Unmatched routes get the uniform envelope instead of Fiber's default
	app.Use(func(c *fiber.Ctx) error {
		return httperr.Fail(httperr.New(
			fiber.StatusNotFound,
			fmt.Sprintf("route %s not found on this server", c.OriginalURL()),
		))
	})

	return app
}
