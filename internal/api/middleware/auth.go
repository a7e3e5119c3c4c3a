package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/croco-platform/user-service/internal/core/service"
)

// ClaimsKey is the echo context key under which Auth stores the verified
// token claims as a domain.Claims value.
const ClaimsKey = "claims"

// Auth validates the bearer token and injects its claims into the request
// context. Absent, malformed, or expired tokens yield 401.
func Auth(tokens *service.TokenService) echo.MiddlewareFunc {
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

			token := parts[1]
			if !tokens.Validate(token) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, err := tokens.ExtractClaims(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}
