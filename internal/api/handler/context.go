package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/api/middleware"
	"github.com/propertydesk/crm-api/internal/core/domain"
)

// ctxClaims extracts the session claims injected by the Session or Guard
// middleware and fast-fails before any service call: presence of claims
// proves the middleware ran; a role outside the closed enum means a
// mis-issued token and is rejected rather than defaulted.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if !claims.Role.Valid() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token carries unknown role")
	}
	return claims, nil
}
