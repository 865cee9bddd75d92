package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/staffhub/employee-api/internal/core/service"
)

// Verifier validates bearer tokens; satisfied by service.TokenIssuer.
type Verifier interface {
	Verify(token string) (*service.TokenClaims, error)
}

// Auth validates the bearer token and injects the user id and role into the
// request context.
func Auth(tokens Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("userID", claims.Subject)
			c.Set("role", string(claims.Role))

			return next(c)
		}
	}
}
