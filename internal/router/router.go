// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/middleware"
)

// RegisterRoutes wires every endpoint on the provided Echo instance. The
// register/login/get-code operations are open; /status and /me require a
// valid bearer token.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	e.POST("/register", a.Register)
	e.POST("/login", a.Login)
	e.POST("/get-code", a.GetCode)

	auth := e.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.PATCH("/status", a.UpdateStatus)
	auth.GET("/me", a.Me)
}
