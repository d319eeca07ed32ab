package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/api/metrics"
	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

// SessionCookieName is the cookie carrying the signed session token on page
// routes.
const SessionCookieName = "crm_session"

// authHandshakePrefix covers the sign-in/sign-up/session API; always
// reachable, or login itself would be gated.
const authHandshakePrefix = "/api/auth"

// publicRoutes is the fixed allow-list of paths reachable without a session.
var publicRoutes = map[string]struct{}{
	"/":            {},
	"/auth/signin": {},
	"/auth/signup": {},
	"/auth/error":  {},
	"/about":       {},
	"/contact":     {},
	"/privacy":     {},
	"/terms":       {},
}

// adminOnlyPrefixes require role == admin.
var adminOnlyPrefixes = []string{"/admin", "/users", "/settings/users"}

// agentPrefixes deny the client role; admins and agents pass.
var agentPrefixes = []string{"/properties", "/customers", "/deals", "/dashboard"}

// Redirect reasons, also used as metric labels.
const (
	reasonSignin               = "signin"
	reasonAlreadyAuthenticated = "already_authenticated"
	reasonAccountDisabled      = "account_disabled"
	reasonAccessDenied         = "access_denied"
)

// Decision is the terminal outcome of the guard for one request: exactly
// one of pass-through or a single redirect.
type Decision struct {
	Allow    bool
	Redirect string
	Reason   string
}

func pass() Decision { return Decision{Allow: true} }

func redirect(target, reason string) Decision {
	return Decision{Redirect: target, Reason: reason}
}

// Decide runs the route-authorization state machine for one request.
// claims == nil means no valid session token accompanied the request.
// The function is pure; it holds no state across calls.
func Decide(path string, claims *domain.Claims) Decision {
	if isPublic(path) {
		// Authenticated users have no business on the auth forms.
		if claims != nil && (path == "/auth/signin" || path == "/auth/signup") {
			return redirect("/dashboard", reasonAlreadyAuthenticated)
		}
		return pass()
	}

	if claims == nil {
		// Preserve intent: the requested path rides along as callbackUrl.
		return redirect("/auth/signin?callbackUrl="+url.QueryEscape(path), reasonSignin)
	}

	// Disabled accounts are turned away before any role consideration.
	if !claims.Active {
		return redirect("/auth/error?error=AccountDisabled", reasonAccountDisabled)
	}

	if hasAnyPrefix(path, adminOnlyPrefixes) && claims.Role != domain.RoleAdmin {
		return redirect("/dashboard?error=AccessDenied", reasonAccessDenied)
	}
	if hasAnyPrefix(path, agentPrefixes) && claims.Role == domain.RoleClient {
		return redirect("/profile?error=AccessDenied", reasonAccessDenied)
	}

	return pass()
}

// Authorized is the coarse authorization predicate the middleware runs
// before any token verification: the auth handshake is always authorized;
// anything else needs a token or a spot on the public allow-list.
func Authorized(path string, hasToken bool) bool {
	if strings.HasPrefix(path, authHandshakePrefix) {
		return true
	}
	if hasToken {
		return true
	}
	_, ok := publicRoutes[path]
	return ok
}

// Guard wires Authorized and Decide into Echo: it reads the session cookie,
// runs the coarse gate, verifies the token, executes the decision, exposes
// claims to handlers, and slides the cookie forward when the token passes
// its refresh window.
type Guard struct {
	sessions ports.SessionService
}

func NewGuard(sessions ports.SessionService) *Guard {
	return &Guard{sessions: sessions}
}

func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if skipGuard(path) {
				return next(c)
			}

			token := ""
			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				token = cookie.Value
			}

			// Coarse gate first: a tokenless request off the public list is
			// turned back without any verification work.
			if !Authorized(path, token != "") {
				metrics.GuardRedirectsTotal.WithLabelValues(reasonSignin).Inc()
				return c.Redirect(http.StatusFound, "/auth/signin?callbackUrl="+url.QueryEscape(path))
			}

			var claims *domain.Claims
			if token != "" {
				// An invalid or expired cookie is the same as no cookie.
				claims, _ = g.sessions.Verify(c.Request().Context(), token)
			}

			d := Decide(path, claims)
			if !d.Allow {
				metrics.GuardRedirectsTotal.WithLabelValues(d.Reason).Inc()
				return c.Redirect(http.StatusFound, d.Redirect)
			}

			if claims != nil {
				SetClaims(c, claims)
				if fresh, rotated, err := g.sessions.Refresh(c.Request().Context(), token); err == nil && rotated {
					WriteSessionCookie(c, fresh, g.sessions.TTL())
					metrics.SessionsRefreshedTotal.Inc()
				}
			}

			return next(c)
		}
	}
}

// skipGuard excludes static assets, favicon, ops probes, and non-handshake
// API routes (those are covered by the bearer-token Session middleware).
func skipGuard(path string) bool {
	if strings.HasPrefix(path, "/static/") || path == "/favicon.ico" {
		return true
	}
	if strings.HasPrefix(path, "/health") || path == "/metrics" {
		return true
	}
	if strings.HasPrefix(path, "/api/") && !strings.HasPrefix(path, authHandshakePrefix) {
		return true
	}
	return false
}

func isPublic(path string) bool {
	if _, ok := publicRoutes[path]; ok {
		return true
	}
	return strings.HasPrefix(path, authHandshakePrefix)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
