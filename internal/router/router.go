package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/restaurant-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/restaurant-booking/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the token endpoint behind the login rate limiter
// and GET /v1/me behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/token", a.Token)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(middleware.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterMigration registers the operator endpoints under /v1/migration.
// Both require an ADMIN access token.
func RegisterMigration(e *echo.Echo, m *handler.MigrationHandler, jwtSecret string) {
	g := e.Group("/v1/migration")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(middleware.RoleAdmin))
	g.GET("/status", m.Status)
	g.POST("/run", m.Run)
}
