package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/interview-trainer-api/internal/config"
	"github.com/noah-isme/interview-trainer-api/internal/handler"
	"github.com/noah-isme/interview-trainer-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	InterviewHandler  *handler.InterviewHandler
	HistoryHandler    *handler.HistoryHandler
	SessionMiddleware fiber.Handler
	JWTMiddleware     fiber.Handler
	AuthLimiter       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or reject if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return fiber.ErrUnauthorized }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterAPI(api.Group("/auth"), deps.AuthLimiter)
	}

	if deps.HistoryHandler != nil {
		deps.HistoryHandler.Register(api.Group("/interviews", jwtMiddleware))
	}

	// Browser pages share the cookie-backed session
	sessionMiddleware := deps.SessionMiddleware
	if sessionMiddleware == nil {
		sessionMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	web := app.Group("/", sessionMiddleware)

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(web, deps.AuthLimiter)
	}

	if deps.InterviewHandler != nil {
		deps.InterviewHandler.Register(web)
	}
}
