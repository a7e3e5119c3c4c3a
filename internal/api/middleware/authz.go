package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/croco-platform/user-service/internal/core/domain"
)

// Authorize evaluates the policy predicate for op against the caller's
// claims and the :id path parameter (when the route carries one).
// Unauthenticated requests get 401; denied requests surface
// domain.ErrForbidden for the error handler to render as 403.
func Authorize(op domain.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(domain.Claims)
			if !ok || !claims.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			var targetID int64
			if raw := c.Param("id"); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
				}
				targetID = id
			}

			if !domain.Allow(claims, op, targetID) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireRoles allows the request only when the caller holds at least one
// of the given roles.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(domain.Claims)
			if !ok || !claims.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !claims.HasAnyRole(roles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
