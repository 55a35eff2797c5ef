package server

import (
	"context"
	"log"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/bootstrap"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/config"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: serverutils.ErrorHandler(container.Logger),
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	if cfg.Tracing.Enabled {
		app.Use(otelfiber.Middleware())
	}

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	RegisterRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// RegisterRoutes mounts every controller under /api.
func RegisterRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	api.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse[any]("OK", nil))
	})

	c.AuthController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api)

	c.ClassController.RegisterRoutes(api)
	c.NewsController.RegisterRoutes(api)
	c.MemberController.RegisterRoutes(api)
	c.AdminController.RegisterRoutes(api)

	c.PaymentController.RegisterRoutes(api)
	c.SubscriptionController.RegisterRoutes(api)

	c.NotificationHandler.RegisterRoutes(api)
}
