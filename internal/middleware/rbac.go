package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole rejects requests whose token does not carry the given role.
// It runs after the JWT middleware, which stores the role in the context.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got, ok := c.Get(ContextKeyUserRole).(string)
			if !ok || got == "" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "missing role"})
			}
			if got != role {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
			}
			return next(c)
		}
	}
}
