package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soltixdb/rdplines/internal/config"
	"github.com/soltixdb/rdplines/internal/handlers"
	"github.com/soltixdb/rdplines/internal/logging"
	"github.com/soltixdb/rdplines/internal/middleware"
	"github.com/soltixdb/rdplines/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, svc *services.SimplifyService, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, svc, cfg.Storage.String())

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
		ExposeHeaders: "Content-Disposition,X-Request-ID",
	}))
	app.Use(logging.FiberMiddlewareWithConfig(logger, logging.DefaultMiddlewareConfig()))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	api := app.Group("/api", middleware.APIKeyAuth(logger, cfg.Auth))

	api.Post("/simplify", h.Simplify)
	api.Post("/simplify/points", h.SimplifyPoints)
	api.Post("/compare", h.Compare)
	api.Get("/download/:id", h.Download)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, svc *services.SimplifyService, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "rdplines",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimitBytes(),
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, svc, cfg)

	return app
}
