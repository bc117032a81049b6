// Package middleware contains reusable HTTP middleware functions.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject into the request context as "user_id"
// (uint64). The provided secret must match the one used when issuing
// tokens. Requests without a valid token are rejected with 401 before the
// handler runs.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated", "data": nil})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, err := utils.ParseUserID(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated", "data": nil})
			}

			c.Set("user_id", uid)
			return next(c)
		}
	}
}
