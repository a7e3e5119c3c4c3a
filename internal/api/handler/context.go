package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/croco-platform/user-service/internal/api/middleware"
	"github.com/croco-platform/user-service/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. Presence
// proves the middleware ran; its absence on a protected route means the
// request never carried a usable token.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(domain.Claims)
	if !ok || !claims.Authenticated() {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
