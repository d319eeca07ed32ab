package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

type stubSessionService struct {
	verifyFn  func(ctx context.Context, token string) (*domain.Claims, error)
	refreshFn func(ctx context.Context, token string) (string, bool, error)
}

func (s *stubSessionService) Issue(claims *domain.Claims) (string, error) { return "issued", nil }

func (s *stubSessionService) Verify(ctx context.Context, token string) (*domain.Claims, error) {
	if s.verifyFn != nil {
		return s.verifyFn(ctx, token)
	}
	return nil, domain.ErrSessionInvalid
}

func (s *stubSessionService) Refresh(ctx context.Context, token string) (string, bool, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, token)
	}
	return token, false, nil
}

func (s *stubSessionService) Update(context.Context, string, ports.ClaimsPatch) (string, error) {
	return "", domain.ErrSessionInvalid
}

func (s *stubSessionService) Revoke(context.Context, string) error { return nil }

func (s *stubSessionService) ResolveRedirect(string) string { return "/dashboard" }

func (s *stubSessionService) TTL() time.Duration { return 24 * time.Hour }

func activeClaims(role domain.Role) *domain.Claims {
	return &domain.Claims{AccountID: "acc_1", Email: "u@example.com", Role: role, Active: true}
}

func TestDecide(t *testing.T) {
	admin := activeClaims(domain.RoleAdmin)
	agent := activeClaims(domain.RoleAgent)
	client := activeClaims(domain.RoleClient)
	disabled := activeClaims(domain.RoleAdmin)
	disabled.Active = false

	cases := []struct {
		name         string
		path         string
		claims       *domain.Claims
		wantAllow    bool
		wantRedirect string
	}{
		{"public home anonymous", "/", nil, true, ""},
		{"public about anonymous", "/about", nil, true, ""},
		{"signin anonymous", "/auth/signin", nil, true, ""},
		{"signin while authenticated", "/auth/signin", agent, false, "/dashboard"},
		{"signup while authenticated", "/auth/signup", admin, false, "/dashboard"},
		{"error page while authenticated", "/auth/error", agent, true, ""},
		{"protected page anonymous keeps target", "/customers", nil, false, "/auth/signin?callbackUrl=%2Fcustomers"},
		{"disabled account turned away before roles", "/admin", disabled, false, "/auth/error?error=AccountDisabled"},
		{"admin page as agent", "/admin", agent, false, "/dashboard?error=AccessDenied"},
		{"user management as agent", "/users", agent, false, "/dashboard?error=AccessDenied"},
		{"admin page as admin", "/admin", admin, true, ""},
		{"dashboard as agent", "/dashboard", agent, true, ""},
		{"dashboard as client", "/dashboard", client, false, "/profile?error=AccessDenied"},
		{"properties as client", "/properties", client, false, "/profile?error=AccessDenied"},
		{"profile as client", "/profile", client, true, ""},
		{"auth api always passes", "/api/auth/login", nil, true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.path, tc.claims)
			if d.Allow != tc.wantAllow {
				t.Fatalf("Decide(%q) allow = %v, want %v", tc.path, d.Allow, tc.wantAllow)
			}
			if d.Redirect != tc.wantRedirect {
				t.Fatalf("Decide(%q) redirect = %q, want %q", tc.path, d.Redirect, tc.wantRedirect)
			}
		})
	}
}

func TestAuthorized(t *testing.T) {
	cases := []struct {
		path     string
		hasToken bool
		want     bool
	}{
		{"/api/auth/login", false, true},
		{"/api/auth/session", false, true},
		{"/", false, true},
		{"/auth/signup", false, true},
		{"/dashboard", false, false},
		{"/dashboard", true, true},
		{"/customers", true, true},
	}
	for _, tc := range cases {
		if got := Authorized(tc.path, tc.hasToken); got != tc.want {
			t.Fatalf("Authorized(%q, %v) = %v, want %v", tc.path, tc.hasToken, got, tc.want)
		}
	}
}

func TestGuardMiddleware_RedirectsAnonymous(t *testing.T) {
	e := echo.New()
	guard := NewGuard(&stubSessionService{})

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := guard.Middleware()(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/auth/signin?callbackUrl=%2Fcustomers" {
		t.Fatalf("unexpected redirect: %s", loc)
	}
}

func TestGuardMiddleware_AnonymousGateSkipsVerification(t *testing.T) {
	e := echo.New()
	verified := false
	stub := &stubSessionService{
		verifyFn: func(context.Context, string) (*domain.Claims, error) {
			verified = true
			return nil, domain.ErrSessionInvalid
		},
	}
	guard := NewGuard(stub)

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := guard.Middleware()(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/auth/signin?callbackUrl=%2Fdeals" {
		t.Fatalf("unexpected redirect: %s", loc)
	}
	if verified {
		t.Fatalf("expected no verification attempt without a cookie")
	}
}

func TestGuardMiddleware_PassesValidSessionAndSlides(t *testing.T) {
	e := echo.New()
	stub := &stubSessionService{
		verifyFn: func(_ context.Context, token string) (*domain.Claims, error) {
			if token != "good-token" {
				return nil, domain.ErrSessionInvalid
			}
			return activeClaims(domain.RoleAgent), nil
		},
		refreshFn: func(_ context.Context, token string) (string, bool, error) {
			return "rotated-token", true, nil
		},
	}
	guard := NewGuard(stub)

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good-token"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var sawClaims *domain.Claims
	next := func(c echo.Context) error {
		sawClaims = GetClaims(c)
		return c.NoContent(http.StatusOK)
	}
	if err := guard.Middleware()(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sawClaims == nil || sawClaims.Role != domain.RoleAgent {
		t.Fatalf("expected claims in context, got %+v", sawClaims)
	}

	found := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName && cookie.Value == "rotated-token" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected rotated session cookie in response")
	}
}

func TestGuardMiddleware_InvalidCookieTreatedAsAnonymous(t *testing.T) {
	e := echo.New()
	stub := &stubSessionService{
		verifyFn: func(context.Context, string) (*domain.Claims, error) {
			return nil, errors.New("bad signature")
		},
	}
	guard := NewGuard(stub)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := guard.Middleware()(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect for invalid cookie, got %d", rec.Code)
	}
}

func TestGuardMiddleware_SkipsAPIAndOpsRoutes(t *testing.T) {
	e := echo.New()
	guard := NewGuard(&stubSessionService{})

	for _, path := range []string{"/api/customers", "/health", "/health/ready", "/metrics", "/static/app.css"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
		if err := guard.Middleware()(next)(c); err != nil {
			t.Fatalf("middleware error on %s: %v", path, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected guard to skip %s, got %d", path, rec.Code)
		}
	}
}
