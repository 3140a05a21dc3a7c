package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-service/internal/api/http/handlers"
	"github.com/spec-kit/session-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UsersHandler
	Guard  *auth.Guard
}

// RegisterRoutes wires HTTP routes. The guard runs ahead of every route so
// that protected page paths redirect before any handler is consulted.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Guard.Handle)

	app.Get("/health", cfg.Health.Status)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/verify", cfg.Auth.Verify)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/session", cfg.Auth.Session)

	usersGroup := app.Group("/users")
	usersGroup.Get("/", cfg.Users.List)
	usersGroup.Post("/", cfg.Users.Create)
	usersGroup.Get("/:id", cfg.Users.Get)
	usersGroup.Patch("/:id", cfg.Users.Update)
	usersGroup.Delete("/:id", cfg.Users.Delete)
}
