package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

// claimsContextKey is where verified session claims live on the echo
// context.
const claimsContextKey = "session_claims"

// SetClaims stores verified claims for downstream handlers.
func SetClaims(c echo.Context, claims *domain.Claims) {
	c.Set(claimsContextKey, claims)
}

// GetClaims returns the verified claims, or nil when the request carried no
// valid session.
func GetClaims(c echo.Context) *domain.Claims {
	claims, _ := c.Get(claimsContextKey).(*domain.Claims)
	return claims
}

// WriteSessionCookie sets (or, with maxAge <= 0, clears) the session
// cookie.
func WriteSessionCookie(c echo.Context, token string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge.Seconds())
	} else {
		cookie.MaxAge = -1
	}
	c.SetCookie(cookie)
}

// BearerOrCookieToken extracts the session token from the Authorization
// header, falling back to the session cookie.
func BearerOrCookieToken(c echo.Context) string {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Session validates the session token on API routes and injects claims
// into context. Requests from disabled accounts are rejected here; API
// routes have no error page to redirect to.
func Session(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerOrCookieToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
			}

			claims, err := sessions.Verify(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session invalid")
			}
			if !claims.Active {
				return echo.NewHTTPError(http.StatusForbidden, "account disabled")
			}

			SetClaims(c, claims)
			return next(c)
		}
	}
}
