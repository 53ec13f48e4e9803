package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware validates the master key on admin routes. With no key
// configured the routes stay open (single-operator deployments behind a
// private network).
func AuthMiddleware(masterKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if masterKey == "" {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(authHeader, prefix) {
				return errorJSON(c, http.StatusUnauthorized, "missing or malformed authorization header")
			}
			if strings.TrimPrefix(authHeader, prefix) != masterKey {
				return errorJSON(c, http.StatusUnauthorized, "invalid master key")
			}
			return next(c)
		}
	}
}
